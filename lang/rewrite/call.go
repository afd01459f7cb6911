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

package rewrite

import (
	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/util/errwrap"
)

// Call is a resolved call of a function or material definition.
type Call struct {
	// Return is the declared return type.
	Return *types.Type

	Semantic types.Semantic

	// Name is the unmangled callee name. It may still carry the version
	// suffix of a deprecated definition.
	Name string

	// Params is the number of parameters of the callee. That many
	// arguments are read from Args.
	Params int
	Args   *ir.ExprList

	// Named is set when the arguments are passed by name. Material
	// instances do this.
	Named bool
}

// arg transforms the argument at index.
func (obj *Builder) arg(c *Call, index int) (ast.Expr, error) {
	expr := c.Args.Get(index)
	if expr == nil {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "call of %s has no argument %d", c.Name, index)
	}
	result, err := obj.transform(expr)
	if err != nil {
		return nil, errwrap.Wrapf(err, "argument %d of %s", index, c.Name)
	}
	return result, nil
}

// RewriteCall turns a resolved call into an expression. Operators are lowered
// first, then the version migrations get a chance, then the structural
// built-ins, and anything else becomes a plain call.
func (obj *Builder) RewriteCall(c *Call) (ast.Expr, error) {
	if !c.Semantic.Valid() {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "call of %q has %s", c.Name, c.Semantic)
	}
	if c.Semantic.IsOperator() {
		return obj.operator(c)
	}

	if expr, ok, err := obj.migrate(c); err != nil || ok {
		return expr, err
	}

	switch c.Semantic {
	case types.SemDAGFieldAccess:
		compound, err := obj.arg(c, 0)
		if err != nil {
			return nil, err
		}
		field, ok := FieldName(c.Name)
		if !ok {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "no field in field access %q", c.Name)
		}
		t := obj.TypeOf(c.Return)
		member := obj.symbolReference(obj.Symbols.Symbol(field), t)
		return &ast.ExprBinary{Op: ast.OpSelect, Left: compound, Right: member, T: t}, nil

	case types.SemDAGIndexAccess:
		compound, err := obj.arg(c, 0)
		if err != nil {
			return nil, err
		}
		index, err := obj.arg(c, 1)
		if err != nil {
			return nil, err
		}
		return &ast.ExprBinary{Op: ast.OpArrayIndex, Left: compound, Right: index, T: obj.TypeOf(c.Return)}, nil

	case types.SemDAGArrayConstructor:
		t := c.Return.Skip()
		if t == nil || t.Kind != types.KindArray {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "array constructor returns %s", c.Return)
		}
		tn, err := obj.TypeName(t.Val)
		if err != nil {
			return nil, err
		}
		tn.Incomplete = true
		call := &ast.ExprCall{
			Ref: &ast.ExprReference{Name: tn, T: tn.T},
			T:   obj.TypeOf(c.Return),
		}
		for i := 0; i < c.Params; i++ {
			expr, err := obj.arg(c, i)
			if err != nil {
				return nil, err
			}
			call.Add(&ast.Argument{Expr: expr})
		}
		return call, nil

	case types.SemDAGArrayLength:
		arg := c.Args.Get(0)
		if arg == nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "array length without argument")
		}
		t := arg.Type().Skip()
		if t == nil || t.Kind != types.KindArray {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "array length of non array type %s", arg.Type())
		}
		if t.IsImmediate() {
			return &ast.ExprLiteral{V: &ast.IntValue{V: int32(t.Size)}}, nil
		}
		qname, err := obj.QualifiedName(t.Deferred)
		if err != nil {
			return nil, err
		}
		return obj.reference(qname, ast.Int), nil

	case types.SemDAGSetObjectID, types.SemDAGSetTransforms:
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected %s in an expression", c.Semantic)
	}

	return obj.plainCall(c)
}

// plainCall emits a call of the callee by its qualified name with every
// argument transformed.
func (obj *Builder) plainCall(c *Call) (ast.Expr, error) {
	qname, err := obj.QualifiedName(c.Name)
	if err != nil {
		return nil, err
	}
	t := obj.TypeOf(c.Return)
	call := &ast.ExprCall{Ref: obj.reference(qname, nil), T: t}
	for i := 0; i < c.Params; i++ {
		expr, err := obj.arg(c, i)
		if err != nil {
			return nil, err
		}
		arg, err := obj.argument(c.Named, c.Args.Name(i), expr)
		if err != nil {
			return nil, err
		}
		call.Add(arg)
	}

	if ret := c.Return.Skip(); ret != nil {
		switch {
		case ret.Kind == types.KindStruct && ret.StructID == types.StructUser:
			obj.usedUserTypes = append(obj.usedUserTypes, obj.Symbols.UserTypeSymbol(ret.Symbol))
		case ret.Kind == types.KindEnum && ret.EnumID == types.EnumUser:
			obj.usedUserTypes = append(obj.usedUserTypes, obj.Symbols.UserTypeSymbol(ret.Symbol))
		}
	}
	return call, nil
}

// toOperator maps an operator semantic to its syntax tree operator. Both
// enumerations list the operators in the same order.
func toOperator(sema types.Semantic) ast.Operator {
	if !sema.IsOperator() {
		return ast.OpInvalid
	}
	return ast.OpBitwiseComplement + ast.Operator(sema-types.SemOpBitwiseComplement)
}

// operator lowers an operator call. The conditional operator stays lazy.
func (obj *Builder) operator(c *Call) (ast.Expr, error) {
	op := toOperator(c.Semantic)
	t := obj.TypeOf(c.Return)

	switch {
	case op.IsUnary():
		arg, err := obj.arg(c, 0)
		if err != nil {
			return nil, err
		}
		return &ast.ExprUnary{Op: op, Arg: arg, T: t}, nil

	case op.IsBinary():
		left, err := obj.arg(c, 0)
		if err != nil {
			return nil, err
		}
		right, err := obj.arg(c, 1)
		if err != nil {
			return nil, err
		}
		return &ast.ExprBinary{Op: op, Left: left, Right: right, T: t}, nil

	case op == ast.OpTernary:
		cond, err := obj.arg(c, 0)
		if err != nil {
			return nil, err
		}
		t1, err := obj.arg(c, 1)
		if err != nil {
			return nil, err
		}
		f, err := obj.arg(c, 2)
		if err != nil {
			return nil, err
		}
		return &ast.ExprConditional{Cond: cond, True: t1, False: f, T: t}, nil
	}

	return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected operator %s", c.Semantic)
}
