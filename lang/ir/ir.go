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

// Package ir contains the flattened, version agnostic expression graph that a
// compiled material backend stores. Expressions either hold a constant, refer
// to a call record in the object store, call a definition directly, or refer
// to a parameter of the enclosing definition by index.
package ir

import (
	"fmt"
	"strings"

	"github.com/purpleidea/mdlast/lang/types"
)

// Kind is the kind of an expression.
type Kind int

// These are the expression kinds. KindForce32Bit is a sentinel which is never a
// real expression.
const (
	KindConstant Kind = iota
	KindCall
	KindParameter
	KindDirectCall
	KindTemporary
	KindForce32Bit
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindCall:
		return "call"
	case KindParameter:
		return "parameter"
	case KindDirectCall:
		return "direct_call"
	case KindTemporary:
		return "temporary"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Expr is one node of the flattened graph. Implementations use pointer
// receivers, and a pointer is the identity of the node.
type Expr interface {
	fmt.Stringer

	// Kind returns the kind of this expression.
	Kind() Kind

	// Type returns the declared type of this expression.
	Type() *types.Type
}

// ExprConstant is a typed constant.
type ExprConstant struct {
	V types.Value
}

// Kind returns the kind of this expression.
func (obj *ExprConstant) Kind() Kind { return KindConstant }

// Type returns the declared type of this expression.
func (obj *ExprConstant) Type() *types.Type { return obj.V.Type() }

// String returns a short representation of this expression.
func (obj *ExprConstant) String() string { return fmt.Sprintf("constant(%s)", obj.V) }

// ExprCall refers to a function call or material instance record in the store.
type ExprCall struct {
	T    *types.Type
	Call types.Tag
}

// Kind returns the kind of this expression.
func (obj *ExprCall) Kind() Kind { return KindCall }

// Type returns the declared type of this expression.
func (obj *ExprCall) Type() *types.Type { return obj.T }

// String returns a short representation of this expression.
func (obj *ExprCall) String() string { return fmt.Sprintf("call(%s)", obj.Call) }

// ExprDirectCall calls a definition in the store with inline arguments.
type ExprDirectCall struct {
	T          *types.Type
	Definition types.Tag
	Args       *ExprList
}

// Kind returns the kind of this expression.
func (obj *ExprDirectCall) Kind() Kind { return KindDirectCall }

// Type returns the declared type of this expression.
func (obj *ExprDirectCall) Type() *types.Type { return obj.T }

// String returns a short representation of this expression.
func (obj *ExprDirectCall) String() string {
	return fmt.Sprintf("direct_call(%s, %s)", obj.Definition, obj.Args)
}

// ExprParameter refers to the parameter at Index of the enclosing definition.
type ExprParameter struct {
	T     *types.Type
	Index int
}

// Kind returns the kind of this expression.
func (obj *ExprParameter) Kind() Kind { return KindParameter }

// Type returns the declared type of this expression.
func (obj *ExprParameter) Type() *types.Type { return obj.T }

// String returns a short representation of this expression.
func (obj *ExprParameter) String() string { return fmt.Sprintf("parameter(%d)", obj.Index) }

// ExprTemporary refers to a temporary of a compiled body. The rewriter never
// accepts these.
type ExprTemporary struct {
	T     *types.Type
	Index int
}

// Kind returns the kind of this expression.
func (obj *ExprTemporary) Kind() Kind { return KindTemporary }

// Type returns the declared type of this expression.
func (obj *ExprTemporary) Type() *types.Type { return obj.T }

// String returns a short representation of this expression.
func (obj *ExprTemporary) String() string { return fmt.Sprintf("temporary(%d)", obj.Index) }

// ExprList is an ordered list of expressions, each optionally named.
type ExprList struct {
	names []string
	exprs []Expr
}

// NewExprList returns an empty list.
func NewExprList() *ExprList {
	return &ExprList{}
}

// Add appends an expression under the given name, which may be empty.
func (obj *ExprList) Add(name string, expr Expr) *ExprList {
	obj.names = append(obj.names, name)
	obj.exprs = append(obj.exprs, expr)
	return obj
}

// Len returns the number of expressions. A nil list is empty.
func (obj *ExprList) Len() int {
	if obj == nil {
		return 0
	}
	return len(obj.exprs)
}

// Get returns the expression at index, or nil if there is none.
func (obj *ExprList) Get(index int) Expr {
	if index < 0 || index >= obj.Len() {
		return nil
	}
	return obj.exprs[index]
}

// Name returns the name at index, or the empty string if there is none.
func (obj *ExprList) Name(index int) string {
	if index < 0 || index >= obj.Len() {
		return ""
	}
	return obj.names[index]
}

// Index returns the position of the named expression, or -1.
func (obj *ExprList) Index(name string) int {
	for i := 0; i < obj.Len(); i++ {
		if obj.names[i] == name {
			return i
		}
	}
	return -1
}

// String returns a short representation of this list.
func (obj *ExprList) String() string {
	s := []string{}
	for i := 0; i < obj.Len(); i++ {
		if name := obj.names[i]; name != "" {
			s = append(s, fmt.Sprintf("%s: %s", name, obj.exprs[i]))
			continue
		}
		s = append(s, obj.exprs[i].String())
	}
	return "[" + strings.Join(s, ", ") + "]"
}
