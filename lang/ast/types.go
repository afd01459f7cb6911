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

// TypeKind is the kind of a syntax tree type.
type TypeKind int

// These are the syntax tree type kinds.
const (
	TypeError TypeKind = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeDouble
	TypeString
	TypeColor
	TypeVector
	TypeMatrix
	TypeTexture
	TypeLightProfile
	TypeBSDFMeasurement
	TypeBSDF
	TypeEDF
	TypeVDF
	TypeEnum
	TypeStruct
	TypeArray
)

// Type is a resolved type attached to names and expressions.
type Type interface {
	fmt.Stringer

	// Kind returns the kind of this type.
	Kind() TypeKind
}

// AtomicType is bool, int, float, double or string.
type AtomicType struct {
	K TypeKind
}

// Kind returns the kind of this type.
func (obj *AtomicType) Kind() TypeKind { return obj.K }

// String returns the source spelling of this type.
func (obj *AtomicType) String() string {
	switch obj.K {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	}
	return "<error>"
}

// VectorType is a vector of two to four atomic elements.
type VectorType struct {
	Elem *AtomicType
	Size int
}

// Kind returns the kind of this type.
func (obj *VectorType) Kind() TypeKind { return TypeVector }

// String returns the source spelling of this type.
func (obj *VectorType) String() string { return fmt.Sprintf("%s%d", obj.Elem, obj.Size) }

// MatrixType is a matrix of vector columns.
type MatrixType struct {
	Col  *VectorType
	Cols int
}

// Kind returns the kind of this type.
func (obj *MatrixType) Kind() TypeKind { return TypeMatrix }

// String returns the source spelling of this type.
func (obj *MatrixType) String() string {
	return fmt.Sprintf("%s%dx%d", obj.Col.Elem, obj.Cols, obj.Col.Size)
}

// ColorType is the color type.
type ColorType struct{}

// Kind returns the kind of this type.
func (obj *ColorType) Kind() TypeKind { return TypeColor }

// String returns the source spelling of this type.
func (obj *ColorType) String() string { return "color" }

// Shape is the dimensionality of a texture type.
type Shape int

// These are the texture shapes.
const (
	Shape2D Shape = iota
	Shape3D
	ShapeCube
	ShapePtex
)

// TextureType is a texture of some shape.
type TextureType struct {
	Shape Shape
}

// Kind returns the kind of this type.
func (obj *TextureType) Kind() TypeKind { return TypeTexture }

// String returns the source spelling of this type.
func (obj *TextureType) String() string {
	switch obj.Shape {
	case Shape2D:
		return "texture_2d"
	case Shape3D:
		return "texture_3d"
	case ShapeCube:
		return "texture_cube"
	case ShapePtex:
		return "texture_ptex"
	}
	return "<error>"
}

// LightProfileType is the light profile type.
type LightProfileType struct{}

// Kind returns the kind of this type.
func (obj *LightProfileType) Kind() TypeKind { return TypeLightProfile }

// String returns the source spelling of this type.
func (obj *LightProfileType) String() string { return "light_profile" }

// BSDFMeasurementType is the bsdf measurement type.
type BSDFMeasurementType struct{}

// Kind returns the kind of this type.
func (obj *BSDFMeasurementType) Kind() TypeKind { return TypeBSDFMeasurement }

// String returns the source spelling of this type.
func (obj *BSDFMeasurementType) String() string { return "bsdf_measurement" }

// DFType is one of the distribution function types bsdf, edf or vdf.
type DFType struct {
	K TypeKind
}

// Kind returns the kind of this type.
func (obj *DFType) Kind() TypeKind { return obj.K }

// String returns the source spelling of this type.
func (obj *DFType) String() string {
	switch obj.K {
	case TypeBSDF:
		return "bsdf"
	case TypeEDF:
		return "edf"
	case TypeVDF:
		return "vdf"
	}
	return "<error>"
}

// PredefinedEnum identifies the enums that are built into the language.
type PredefinedEnum int

// These are the predefined enum ids.
const (
	EnumUser PredefinedEnum = iota
	EnumTexGammaMode
	EnumIntensityMode
)

// EnumValue is a named enumerator of an EnumType.
type EnumValue struct {
	Sym  *Symbol
	Code int
}

// EnumType is an enum. User enums are created on demand, the predefined ones
// are shared singletons and compare by identity.
type EnumType struct {
	Sym        *Symbol
	Values     []EnumValue
	Predefined PredefinedEnum
}

// Kind returns the kind of this type.
func (obj *EnumType) Kind() TypeKind { return TypeEnum }

// String returns the source spelling of this type.
func (obj *EnumType) String() string { return obj.Sym.String() }

// AddValue appends an enumerator.
func (obj *EnumType) AddValue(sym *Symbol, code int) {
	obj.Values = append(obj.Values, EnumValue{Sym: sym, Code: code})
}

// StructType is a named struct.
type StructType struct {
	Sym *Symbol
}

// Kind returns the kind of this type.
func (obj *StructType) Kind() TypeKind { return TypeStruct }

// String returns the source spelling of this type.
func (obj *StructType) String() string { return obj.Sym.String() }

// ArrayType is an array with either an immediate size or a deferred size
// symbol.
type ArrayType struct {
	Elem     Type
	Size     int
	Deferred *Symbol // nil for immediate size arrays
}

// Kind returns the kind of this type.
func (obj *ArrayType) Kind() TypeKind { return TypeArray }

// String returns the source spelling of this type.
func (obj *ArrayType) String() string {
	if obj.Deferred != nil {
		return fmt.Sprintf("%s[%s]", obj.Elem, obj.Deferred)
	}
	return fmt.Sprintf("%s[%d]", obj.Elem, obj.Size)
}

// ErrorType stands in for a type that could not be built.
type ErrorType struct{}

// Kind returns the kind of this type.
func (obj *ErrorType) Kind() TypeKind { return TypeError }

// String returns the source spelling of this type.
func (obj *ErrorType) String() string { return "<error>" }

// The shared instances of the simple types.
var (
	Bool            = &AtomicType{K: TypeBool}
	Int             = &AtomicType{K: TypeInt}
	Float           = &AtomicType{K: TypeFloat}
	Double          = &AtomicType{K: TypeDouble}
	String          = &AtomicType{K: TypeString}
	Color           = &ColorType{}
	LightProfile    = &LightProfileType{}
	BSDFMeasurement = &BSDFMeasurementType{}
	BSDF            = &DFType{K: TypeBSDF}
	EDF             = &DFType{K: TypeEDF}
	VDF             = &DFType{K: TypeVDF}
	Error           = &ErrorType{}
)

// GammaModeEnum is the predefined ::tex::gamma_mode enum.
var GammaModeEnum = &EnumType{
	Sym:        &Symbol{Name: "::tex::gamma_mode"},
	Predefined: EnumTexGammaMode,
	Values: []EnumValue{
		{Sym: &Symbol{Name: "gamma_default"}, Code: 0},
		{Sym: &Symbol{Name: "gamma_linear"}, Code: 1},
		{Sym: &Symbol{Name: "gamma_srgb"}, Code: 2},
	},
}

// IntensityModeEnum is the predefined ::intensity_mode enum.
var IntensityModeEnum = &EnumType{
	Sym:        &Symbol{Name: "::intensity_mode"},
	Predefined: EnumIntensityMode,
	Values: []EnumValue{
		{Sym: &Symbol{Name: "intensity_radiant_exitance"}, Code: 0},
		{Sym: &Symbol{Name: "intensity_power"}, Code: 1},
	},
}

// IsReference returns true for the types whose values reference external
// data or distribution functions. Only these have an invalid reference value.
func IsReference(t Type) bool {
	switch t.Kind() {
	case TypeTexture, TypeLightProfile, TypeBSDFMeasurement, TypeBSDF, TypeEDF, TypeVDF:
		return true
	}
	return false
}

// IsTexture2D returns true if t is a two dimensional texture.
func IsTexture2D(t Type) bool {
	if t == nil {
		return false
	}
	tex, ok := t.(*TextureType)
	return ok && tex.Shape == Shape2D
}

// Qualifier is the uniform or varying qualifier of a type name.
type Qualifier int

// These are the qualifiers.
const (
	QualNone Qualifier = iota
	QualUniform
	QualVarying
)

// SimpleName is a name without scope.
type SimpleName struct {
	Sym *Symbol
}

// String returns the source spelling of this name.
func (obj *SimpleName) String() string { return obj.Sym.String() }

// QualifiedName is a scoped name made of simple names.
type QualifiedName struct {
	Absolute   bool
	Components []*SimpleName
}

// Add appends a component.
func (obj *QualifiedName) Add(name *SimpleName) {
	obj.Components = append(obj.Components, name)
}

// String returns the source spelling of this name.
func (obj *QualifiedName) String() string {
	s := []string{}
	for _, x := range obj.Components {
		s = append(s, x.String())
	}
	prefix := ""
	if obj.Absolute {
		prefix = "::"
	}
	return prefix + strings.Join(s, "::")
}

// TypeName names a type or, inside a reference, any entity. It can carry a
// qualifier and an array size.
type TypeName struct {
	Name      *QualifiedName
	Qualifier Qualifier

	// ArraySize is the size expression of an array type name. It is either
	// an integer literal or a reference to a deferred size symbol.
	ArraySize Expr

	// Incomplete marks an array whose size is inferred from the number of
	// constructor arguments.
	Incomplete bool

	// T is the type of the named entity, when it is known.
	T Type
}

// String returns the source spelling of this type name.
func (obj *TypeName) String() string {
	s := obj.Name.String()
	switch obj.Qualifier {
	case QualUniform:
		s = "uniform " + s
	case QualVarying:
		s = "varying " + s
	}
	if obj.ArraySize != nil {
		s += "[" + obj.ArraySize.String() + "]"
	} else if obj.Incomplete {
		s += "[]"
	}
	return s
}

// IsArray returns true if this names an array type.
func (obj *TypeName) IsArray() bool {
	return obj.ArraySize != nil || obj.Incomplete
}
