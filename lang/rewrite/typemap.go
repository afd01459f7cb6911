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
	"fmt"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/util/errwrap"
)

var astShapes = map[types.Shape]ast.Shape{
	types.Shape2D:   ast.Shape2D,
	types.Shape3D:   ast.Shape3D,
	types.ShapeCube: ast.ShapeCube,
	types.ShapePtex: ast.ShapePtex,
}

// MapType maps a type without user defined parts to the syntax tree. Aliases,
// enums, structs and arrays of user types need their declarations and are
// invariant violations here. Use TypeName for those.
func (obj *Builder) MapType(t *types.Type) (ast.Type, error) {
	if t == nil {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "nil type")
	}
	switch t.Kind {
	case types.KindAlias, types.KindEnum, types.KindStruct:
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "user defined type %s not allowed here", t)

	case types.KindBool:
		return ast.Bool, nil
	case types.KindInt:
		return ast.Int, nil
	case types.KindFloat:
		return ast.Float, nil
	case types.KindDouble:
		return ast.Double, nil
	case types.KindString:
		return ast.String, nil
	case types.KindColor:
		return ast.Color, nil
	case types.KindLightProfile:
		return ast.LightProfile, nil
	case types.KindBSDFMeasurement:
		return ast.BSDFMeasurement, nil
	case types.KindBSDF:
		return ast.BSDF, nil
	case types.KindEDF:
		return ast.EDF, nil
	case types.KindVDF:
		return ast.VDF, nil

	case types.KindVector:
		elem, err := obj.MapType(t.Val)
		if err != nil {
			return nil, err
		}
		atomic, ok := elem.(*ast.AtomicType)
		if !ok {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "vector of %s", elem)
		}
		return &ast.VectorType{Elem: atomic, Size: t.Size}, nil

	case types.KindMatrix:
		col, err := obj.MapType(t.Val)
		if err != nil {
			return nil, err
		}
		vec, ok := col.(*ast.VectorType)
		if !ok {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "matrix of %s", col)
		}
		return &ast.MatrixType{Col: vec, Cols: t.Size}, nil

	case types.KindTexture:
		shape, ok := astShapes[t.Shape]
		if !ok {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unknown texture shape %d", t.Shape)
		}
		return &ast.TextureType{Shape: shape}, nil

	case types.KindArray:
		if t.IsUser() {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "array of user type %s not allowed here", t)
		}
		elem, err := obj.MapType(t.Val)
		if err != nil {
			return nil, err
		}
		if t.IsImmediate() {
			return &ast.ArrayType{Elem: elem, Size: t.Size}, nil
		}
		return &ast.ArrayType{Elem: elem, Deferred: obj.Symbols.Symbol(t.Deferred)}, nil
	}

	return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unsupported type kind %s", t.Kind)
}

// TypeOf returns the syntax tree type of any type, including user defined
// ones. It's used to annotate expressions, so it never fails, and returns the
// error type instead.
func (obj *Builder) TypeOf(t *types.Type) ast.Type {
	s := t.Skip()
	if s == nil {
		return ast.Error
	}
	switch s.Kind {
	case types.KindEnum:
		et, err := obj.ConvertEnum(s)
		if err != nil {
			return ast.Error
		}
		return et

	case types.KindStruct:
		if s.StructID == types.StructUser {
			return &ast.StructType{Sym: obj.Symbols.UserTypeSymbol(s.Symbol)}
		}
		return &ast.StructType{Sym: obj.Symbols.Symbol(s.String())}

	case types.KindArray:
		at := &ast.ArrayType{Elem: obj.TypeOf(s.Val), Size: s.Size}
		if !s.IsImmediate() {
			at.Deferred = obj.Symbols.Symbol(s.Deferred)
		}
		return at
	}

	mapped, err := obj.MapType(s)
	if err != nil {
		return ast.Error
	}
	return mapped
}

// ConvertEnum returns the syntax tree type of an enum. A user enum is built on
// demand from its symbol and enumerators, while the predefined enums are the
// shared instances.
func (obj *Builder) ConvertEnum(t *types.Type) (*ast.EnumType, error) {
	if t.Kind != types.KindEnum {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "type %s is not an enum", t)
	}
	switch t.EnumID {
	case types.EnumUser:
		et := &ast.EnumType{Sym: obj.Symbols.UserTypeSymbol(t.Symbol)}
		for _, x := range t.Enum {
			et.AddValue(obj.Symbols.Symbol(x.Name), x.Code)
		}
		return et, nil
	case types.EnumTexGammaMode:
		return ast.GammaModeEnum, nil
	case types.EnumIntensityMode:
		return ast.IntensityModeEnum, nil
	}
	return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected enum id %d", t.EnumID)
}

// TypeString returns the source spelling of a type, without the modifiers of
// any aliases, as used to build type names.
func TypeString(t *types.Type) (string, error) {
	s := t.Skip()
	if s == nil {
		return "", errwrap.Wrapf(interfaces.ErrInvariant, "nil type")
	}
	switch s.Kind {
	case types.KindNil, types.KindAlias:
		return "", errwrap.Wrapf(interfaces.ErrInvariant, "unexpected type kind %s", s.Kind)
	case types.KindTexture:
		if _, ok := astShapes[s.Shape]; !ok {
			return "", errwrap.Wrapf(interfaces.ErrInvariant, "unknown texture shape %d", s.Shape)
		}
	case types.KindArray:
		elem, err := TypeString(s.Val)
		if err != nil {
			return "", err
		}
		if s.IsImmediate() {
			return fmt.Sprintf("%s[%d]", elem, s.Size), nil
		}
		return fmt.Sprintf("%s[%s]", elem, s.Deferred), nil
	}
	return s.String(), nil
}

// TypeName builds the full type name of any type. The uniform or varying
// modifiers of aliases become the qualifier, and array types carry their
// size, either as an integer literal or as a reference to the deferred size.
func (obj *Builder) TypeName(t *types.Type) (*ast.TypeName, error) {
	s := t.Skip()
	if s == nil {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "nil type")
	}
	mods := t.AllModifiers()

	var tn *ast.TypeName
	if s.Kind == types.KindArray {
		elem, err := obj.TypeName(s.Val)
		if err != nil {
			return nil, err
		}
		tn = elem
		if s.IsImmediate() {
			tn.ArraySize = &ast.ExprLiteral{V: &ast.IntValue{V: int32(s.Size)}}
		} else {
			// the deferred size is a single symbol, even if it is scoped
			tn.ArraySize = obj.symbolReference(obj.Symbols.Symbol(s.Deferred), ast.Int)
		}
	} else {
		name, err := TypeString(s)
		if err != nil {
			return nil, err
		}
		qname, err := obj.QualifiedName(name)
		if err != nil {
			return nil, err
		}
		tn = &ast.TypeName{Name: qname}
	}

	if mods&types.ModUniform != 0 {
		tn.Qualifier = ast.QualUniform
	} else if mods&types.ModVarying != 0 {
		tn.Qualifier = ast.QualVarying
	}
	tn.T = obj.TypeOf(s)
	return tn, nil
}

// ReverseType maps a syntax tree type back to the object-model. Struct types
// come back without their fields, since the syntax tree doesn't carry them.
func ReverseType(t ast.Type) (*types.Type, error) {
	if t == nil {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "nil type")
	}
	switch x := t.(type) {
	case *ast.AtomicType:
		switch x.K {
		case ast.TypeBool:
			return types.NewType("bool"), nil
		case ast.TypeInt:
			return types.NewType("int"), nil
		case ast.TypeFloat:
			return types.NewType("float"), nil
		case ast.TypeDouble:
			return types.NewType("double"), nil
		case ast.TypeString:
			return types.NewType("string"), nil
		}

	case *ast.VectorType:
		elem, err := ReverseType(x.Elem)
		if err != nil {
			return nil, err
		}
		return types.NewVector(elem, x.Size), nil

	case *ast.MatrixType:
		col, err := ReverseType(x.Col)
		if err != nil {
			return nil, err
		}
		return types.NewMatrix(col, x.Cols), nil

	case *ast.ColorType:
		return types.NewType("color"), nil
	case *ast.LightProfileType:
		return types.NewType("light_profile"), nil
	case *ast.BSDFMeasurementType:
		return types.NewType("bsdf_measurement"), nil

	case *ast.DFType:
		switch x.K {
		case ast.TypeBSDF:
			return types.NewType("bsdf"), nil
		case ast.TypeEDF:
			return types.NewType("edf"), nil
		case ast.TypeVDF:
			return types.NewType("vdf"), nil
		}

	case *ast.TextureType:
		for shape, s := range astShapes {
			if s == x.Shape {
				return types.NewTexture(shape), nil
			}
		}

	case *ast.EnumType:
		switch x.Predefined {
		case ast.EnumTexGammaMode:
			return types.GammaModeType, nil
		case ast.EnumIntensityMode:
			return types.IntensityModeType, nil
		}
		values := []types.EnumConst{}
		for _, v := range x.Values {
			values = append(values, types.EnumConst{Name: v.Sym.Name, Code: v.Code})
		}
		return types.NewEnum(x.Sym.Name, values...), nil

	case *ast.StructType:
		if typ := types.NewType(x.Sym.Name); typ != nil && typ.Kind == types.KindStruct {
			return typ, nil // predefined
		}
		return types.NewStruct(x.Sym.Name), nil

	case *ast.ArrayType:
		elem, err := ReverseType(x.Elem)
		if err != nil {
			return nil, err
		}
		if x.Deferred != nil {
			return types.NewDeferredArray(elem, x.Deferred.Name), nil
		}
		return types.NewArray(elem, x.Size), nil
	}

	return nil, errwrap.Wrapf(interfaces.ErrInvariant, "can't map %s back", t)
}
