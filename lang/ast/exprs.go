// Mdlast
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package ast

import (
	"fmt"
	"strings"
)

// Operator is a unary, binary or ternary operator.
type Operator int

// These are the operators.
const (
	OpInvalid Operator = iota

	OpBitwiseComplement
	OpLogicalNot
	OpPositive
	OpNegative
	OpPreIncrement
	OpPreDecrement
	OpPostIncrement
	OpPostDecrement

	OpSelect
	OpArrayIndex
	OpMultiply
	OpDivide
	OpModulo
	OpPlus
	OpMinus
	OpShiftLeft
	OpShiftRight
	OpUnsignedShiftRight
	OpLess
	OpLessOrEqual
	OpGreaterOrEqual
	OpGreater
	OpEqual
	OpNotEqual
	OpBitwiseAnd
	OpBitwiseXor
	OpBitwiseOr
	OpLogicalAnd
	OpLogicalOr

	OpTernary
)

var operatorSpelling = map[Operator]string{
	OpBitwiseComplement:  "~",
	OpLogicalNot:         "!",
	OpPositive:           "+",
	OpNegative:           "-",
	OpPreIncrement:       "++",
	OpPreDecrement:       "--",
	OpPostIncrement:      "++",
	OpPostDecrement:      "--",
	OpSelect:             ".",
	OpArrayIndex:         "[]",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "%",
	OpPlus:               "+",
	OpMinus:              "-",
	OpShiftLeft:          "<<",
	OpShiftRight:         ">>",
	OpUnsignedShiftRight: ">>>",
	OpLess:               "<",
	OpLessOrEqual:        "<=",
	OpGreaterOrEqual:     ">=",
	OpGreater:            ">",
	OpEqual:              "==",
	OpNotEqual:           "!=",
	OpBitwiseAnd:         "&",
	OpBitwiseXor:         "^",
	OpBitwiseOr:          "|",
	OpLogicalAnd:         "&&",
	OpLogicalOr:          "||",
	OpTernary:            "?:",
}

// String returns the source spelling of this operator.
func (obj Operator) String() string {
	if s, ok := operatorSpelling[obj]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(obj))
}

// IsUnary returns true for the unary operators.
func (obj Operator) IsUnary() bool { return obj >= OpBitwiseComplement && obj <= OpPostDecrement }

// IsBinary returns true for the binary operators.
func (obj Operator) IsBinary() bool { return obj >= OpSelect && obj <= OpLogicalOr }

// Expr is an expression of the syntax tree.
type Expr interface {
	fmt.Stringer

	// Type returns the type of the expression, or nil if it isn't known.
	Type() Type
}

// ExprInvalid is the invalid expression. The rewriter never returns it along
// with a nil error.
type ExprInvalid struct{}

// Type returns the type of this expression.
func (obj *ExprInvalid) Type() Type { return Error }

// String returns the source text of this expression.
func (obj *ExprInvalid) String() string { return "<invalid>" }

// ExprLiteral is a literal value.
type ExprLiteral struct {
	V Value
}

// Type returns the type of this expression.
func (obj *ExprLiteral) Type() Type { return obj.V.Type() }

// String returns the source text of this expression.
func (obj *ExprLiteral) String() string { return obj.V.String() }

// ExprReference refers to a named entity: a variable, a parameter, an enum
// value, a function or a type used as a constructor.
type ExprReference struct {
	Name *TypeName
	T    Type
}

// Type returns the type of this expression.
func (obj *ExprReference) Type() Type { return obj.T }

// String returns the source text of this expression.
func (obj *ExprReference) String() string { return obj.Name.String() }

// ExprUnary applies a unary operator.
type ExprUnary struct {
	Op  Operator
	Arg Expr
	T   Type
}

// Type returns the type of this expression.
func (obj *ExprUnary) Type() Type { return obj.T }

// String returns the source text of this expression.
func (obj *ExprUnary) String() string {
	if obj.Op == OpPostIncrement || obj.Op == OpPostDecrement {
		return fmt.Sprintf("(%s%s)", obj.Arg, obj.Op)
	}
	return fmt.Sprintf("(%s%s)", obj.Op, obj.Arg)
}

// ExprBinary applies a binary operator. Field selection and array indexing
// are binary operators too.
type ExprBinary struct {
	Op    Operator
	Left  Expr
	Right Expr
	T     Type
}

// Type returns the type of this expression.
func (obj *ExprBinary) Type() Type { return obj.T }

// String returns the source text of this expression.
func (obj *ExprBinary) String() string {
	switch obj.Op {
	case OpSelect:
		return fmt.Sprintf("%s.%s", obj.Left, obj.Right)
	case OpArrayIndex:
		return fmt.Sprintf("%s[%s]", obj.Left, obj.Right)
	}
	return fmt.Sprintf("(%s %s %s)", obj.Left, obj.Op, obj.Right)
}

// ExprConditional is the lazily evaluated conditional operator.
type ExprConditional struct {
	Cond  Expr
	True  Expr
	False Expr
	T     Type
}

// Type returns the type of this expression.
func (obj *ExprConditional) Type() Type { return obj.T }

// String returns the source text of this expression.
func (obj *ExprConditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", obj.Cond, obj.True, obj.False)
}

// Argument is one argument of a call. Positional arguments have a nil Name.
type Argument struct {
	Name *SimpleName
	Expr Expr
}

// IsNamed returns true for a named argument.
func (obj *Argument) IsNamed() bool { return obj.Name != nil }

// String returns the source text of this argument.
func (obj *Argument) String() string {
	if obj.Name != nil {
		return fmt.Sprintf("%s: %s", obj.Name, obj.Expr)
	}
	return obj.Expr.String()
}

// ExprCall calls a function or constructs a value of the referenced type.
type ExprCall struct {
	Ref  *ExprReference
	Args []*Argument
	T    Type
}

// Add appends an argument.
func (obj *ExprCall) Add(arg *Argument) {
	obj.Args = append(obj.Args, arg)
}

// Type returns the type of this expression.
func (obj *ExprCall) Type() Type { return obj.T }

// String returns the source text of this expression.
func (obj *ExprCall) String() string {
	s := []string{}
	for _, x := range obj.Args {
		s = append(s, x.String())
	}
	return fmt.Sprintf("%s(%s)", obj.Ref, strings.Join(s, ", "))
}

// Walk calls fn on expr and then on each of its sub expressions, depth first
// in source order. It stops at the first error.
func Walk(expr Expr, fn func(Expr) error) error {
	if err := fn(expr); err != nil {
		return err
	}
	children := []Expr{}
	switch x := expr.(type) {
	case *ExprUnary:
		children = append(children, x.Arg)
	case *ExprBinary:
		children = append(children, x.Left, x.Right)
	case *ExprConditional:
		children = append(children, x.Cond, x.True, x.False)
	case *ExprCall:
		children = append(children, x.Ref)
		for _, arg := range x.Args {
			children = append(children, arg.Expr)
		}
	case *ExprReference:
		if x.Name.ArraySize != nil {
			children = append(children, x.Name.ArraySize)
		}
	}
	for _, child := range children {
		if err := Walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}
