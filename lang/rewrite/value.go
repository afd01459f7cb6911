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
	"github.com/purpleidea/mdlast/lang/resource"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/util/errwrap"
)

// Value materializes a constant as a literal, a reference or a constructor
// call. Resources that can't be resolved degrade to an invalid reference or to
// a literal that only carries their store identity.
func (obj *Builder) Value(value types.Value) (ast.Expr, error) {
	if err := obj.enter(); err != nil {
		return nil, err
	}
	defer obj.leave()
	return obj.value(value)
}

// value is Value without the depth accounting. A constant expression uses it so
// that it counts one level and not two.
func (obj *Builder) value(value types.Value) (ast.Expr, error) {
	switch v := value.(type) {
	case *types.BoolValue:
		return &ast.ExprLiteral{V: &ast.BoolValue{V: v.V}}, nil
	case *types.IntValue:
		return &ast.ExprLiteral{V: &ast.IntValue{V: v.V}}, nil
	case *types.FloatValue:
		return &ast.ExprLiteral{V: &ast.FloatValue{V: v.V}}, nil
	case *types.DoubleValue:
		return &ast.ExprLiteral{V: &ast.DoubleValue{V: v.V}}, nil
	case *types.StringValue:
		return &ast.ExprLiteral{V: &ast.StringValue{V: v.V}}, nil

	case *types.EnumValue:
		return obj.enumValue(v)

	case *types.CompoundValue:
		tn, err := obj.TypeName(v.T)
		if err != nil {
			return nil, err
		}
		return obj.constructor(tn, v.V)

	case *types.ArrayValue:
		t := v.T.Skip()
		if t == nil || t.Kind != types.KindArray {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "array value of type %s", v.T)
		}
		tn, err := obj.TypeName(t.Val)
		if err != nil {
			return nil, err
		}
		tn.Incomplete = true // the size follows from the arguments
		call, err := obj.constructor(tn, v.V)
		if err != nil {
			return nil, err
		}
		call.T = obj.TypeOf(v.T)
		return call, nil

	case *types.InvalidDFValue:
		return obj.invalidRef(v.T)

	case *types.ResourceValue:
		return obj.resourceValue(v)
	}

	return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected value %T", value)
}

// enumValue builds a reference to the enumerator in the scope of its enum.
func (obj *Builder) enumValue(v *types.EnumValue) (ast.Expr, error) {
	t := v.T.Skip()
	et, err := obj.ConvertEnum(t)
	if err != nil {
		return nil, err
	}
	name, err := t.ValueName(v.Index)
	if err != nil {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "%s", err.Error())
	}
	qname, err := obj.ScopeName(t.Symbol)
	if err != nil {
		return nil, err
	}
	sname, err := obj.SimpleName(name)
	if err != nil {
		return nil, err
	}
	qname.Add(sname)
	return obj.reference(qname, et), nil
}

// constructor calls the named type with the materialized elements as
// positional arguments, in order.
func (obj *Builder) constructor(tn *ast.TypeName, elems []types.Value) (*ast.ExprCall, error) {
	call := &ast.ExprCall{
		Ref: &ast.ExprReference{Name: tn, T: tn.T},
		T:   tn.T,
	}
	for i, x := range elems {
		expr, err := obj.Value(x)
		if err != nil {
			return nil, errwrap.Wrapf(err, "element %d of %s", i, tn)
		}
		call.Add(&ast.Argument{Expr: expr})
	}
	return call, nil
}

// invalidRef returns the invalid reference literal of a reference type.
func (obj *Builder) invalidRef(t *types.Type) (ast.Expr, error) {
	rt, err := obj.MapType(t.Skip())
	if err != nil {
		return nil, err
	}
	if !ast.IsReference(rt) {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "type %s has no invalid reference", rt)
	}
	return &ast.ExprLiteral{V: &ast.InvalidRefValue{T: rt}}, nil
}

// resourceValue materializes a texture, light profile or bsdf measurement.
func (obj *Builder) resourceValue(v *types.ResourceValue) (ast.Expr, error) {
	if !v.T.IsResource() {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "resource value of type %s", v.T)
	}
	t := v.T.Skip()
	kind := resource.KindBSDFMeasurement
	switch t.Kind {
	case types.KindTexture:
		kind = resource.KindTexture
	case types.KindLightProfile:
		kind = resource.KindLightProfile
	}

	if !v.Tag.IsValid() {
		obj.resolver.Emit(interfaces.SeverityWarning, interfaces.CategoryResource,
			"Invalid tag for %s resource.", kind)
		return obj.invalidRef(t)
	}

	result := obj.resolver.Resolve(v.Tag, kind)
	if kind == resource.KindTexture && !result.Matched {
		return obj.invalidRef(t)
	}

	if result.Path == "" {
		// no file, keep the identity of the record instead
		id := ast.Resource{
			TagID: uint32(v.Tag),
			Hash:  obj.resolver.Hash(v.Tag, kind, result.Image),
		}
		switch kind {
		case resource.KindTexture:
			mapped, err := obj.MapType(t)
			if err != nil {
				return nil, err
			}
			tt, ok := mapped.(*ast.TextureType)
			if !ok {
				return nil, errwrap.Wrapf(interfaces.ErrInvariant, "texture of type %s", mapped)
			}
			return &ast.ExprLiteral{V: &ast.TextureValue{Resource: id, T: tt, Gamma: result.Gamma}}, nil
		case resource.KindLightProfile:
			return &ast.ExprLiteral{V: &ast.LightProfileValue{Resource: id}}, nil
		}
		return &ast.ExprLiteral{V: &ast.BSDFMeasurementValue{Resource: id}}, nil
	}

	tn, err := obj.TypeName(v.T)
	if err != nil {
		return nil, err
	}
	call := &ast.ExprCall{
		Ref: &ast.ExprReference{Name: tn, T: tn.T},
		T:   tn.T,
	}
	call.Add(&ast.Argument{Expr: &ast.ExprLiteral{V: &ast.StringValue{V: result.Path}}})

	if kind == resource.KindTexture {
		gamma, err := obj.gammaReference(result.Gamma)
		if err != nil {
			return nil, err
		}
		call.Add(&ast.Argument{Expr: gamma})
	}
	return call, nil
}

// gammaReference returns the absolute reference ::tex::gamma_*, typed with the
// predefined gamma mode enum.
func (obj *Builder) gammaReference(gamma ast.GammaMode) (ast.Expr, error) {
	switch gamma {
	case ast.GammaDefault, ast.GammaLinear, ast.GammaSRGB:
	default:
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected gamma mode %s", gamma)
	}
	qname := &ast.QualifiedName{Absolute: true}
	qname.Add(&ast.SimpleName{Sym: obj.Symbols.Symbol("tex")})
	qname.Add(&ast.SimpleName{Sym: obj.Symbols.Symbol(gamma.String())})
	return obj.reference(qname, ast.GammaModeEnum), nil
}
