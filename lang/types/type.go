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

// Package types contains the object-model type system and values that make up
// the flattened expression graphs handed to the rewriter. This is the input
// side of the translation. The output side lives in the ast package.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/purpleidea/mdlast/util/errwrap"
)

// Basic types defined here as a convenience for use with Type.Cmp(X).
var (
	TypeBool   = NewType("bool")
	TypeInt    = NewType("int")
	TypeFloat  = NewType("float")
	TypeDouble = NewType("double")
	TypeString = NewType("string")
	TypeColor  = NewType("color")
)

// The Kind represents the base type of each value.
type Kind int

// Each Kind represents a type in the object-model type system.
const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDouble
	KindString
	KindEnum
	KindVector
	KindMatrix
	KindColor
	KindStruct
	KindTexture
	KindLightProfile
	KindBSDF
	KindEDF
	KindVDF
	KindBSDFMeasurement
	KindArray
	KindAlias
)

var kindNames = map[Kind]string{
	KindNil:             "nil",
	KindBool:            "bool",
	KindInt:             "int",
	KindFloat:           "float",
	KindDouble:          "double",
	KindString:          "string",
	KindEnum:            "enum",
	KindVector:          "vector",
	KindMatrix:          "matrix",
	KindColor:           "color",
	KindStruct:          "struct",
	KindTexture:         "texture",
	KindLightProfile:    "light_profile",
	KindBSDF:            "bsdf",
	KindEDF:             "edf",
	KindVDF:             "vdf",
	KindBSDFMeasurement: "bsdf_measurement",
	KindArray:           "array",
	KindAlias:           "alias",
}

// String returns a short name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Modifier is a bit set of type modifiers that an alias may carry.
type Modifier uint32

const (
	// ModUniform marks a uniform type.
	ModUniform Modifier = 1 << iota
	// ModVarying marks a varying type.
	ModVarying
)

// Shape is the dimensionality of a texture type.
type Shape int

// These are the texture shapes.
const (
	Shape2D Shape = iota
	Shape3D
	ShapeCube
	ShapePtex
)

// EnumID distinguishes the built-in enums from user defined ones.
type EnumID int

// These are the enum ids.
const (
	EnumUser EnumID = iota
	EnumTexGammaMode
	EnumIntensityMode
)

// StructID distinguishes the built-in structs from user defined ones.
type StructID int

// These are the struct ids.
const (
	StructUser StructID = iota
	StructMaterialEmission
	StructMaterialSurface
	StructMaterialVolume
	StructMaterialGeometry
	StructMaterial
)

var predefinedStructs = map[StructID]string{
	StructMaterialEmission: "material_emission",
	StructMaterialSurface:  "material_surface",
	StructMaterialVolume:   "material_volume",
	StructMaterialGeometry: "material_geometry",
	StructMaterial:         "material",
}

var textureShapes = map[Shape]string{
	Shape2D:   "texture_2d",
	Shape3D:   "texture_3d",
	ShapeCube: "texture_cube",
	ShapePtex: "texture_ptex",
}

// EnumConst is one named enumerator with its integer code.
type EnumConst struct {
	Name string
	Code int
}

// Field is one member of a struct type.
type Field struct {
	Name string
	Type *Type
}

// Type is the datastructure representing any object-model type. It can be
// recursive for vectors, matrices, arrays and aliases.
type Type struct {
	Kind Kind

	// Val is the element type of a vector (atomic), the column type of a
	// matrix (vector), the element type of an array, or the base type of
	// an alias.
	Val *Type

	// Size is the vector dimension, the matrix column count, or the length
	// of an immediate-size array.
	Size int

	// Deferred names the size symbol of a deferred-size array. It is empty
	// for immediate-size arrays.
	Deferred string

	// Symbol is the fully qualified name of an enum or struct.
	Symbol string

	Enum   []EnumConst // if Kind == Enum, in declaration order
	EnumID EnumID

	Fields   []Field // if Kind == Struct, in declaration order
	StructID StructID

	Shape Shape // if Kind == Texture

	Modifiers Modifier // if Kind == Alias
}

// NewVector returns a vector type of the given atomic element and size.
func NewVector(elem *Type, size int) *Type {
	return &Type{Kind: KindVector, Val: elem, Size: size}
}

// NewMatrix returns a matrix type with cols columns of the given vector type.
func NewMatrix(col *Type, cols int) *Type {
	return &Type{Kind: KindMatrix, Val: col, Size: cols}
}

// NewArray returns an immediate-size array type.
func NewArray(elem *Type, size int) *Type {
	return &Type{Kind: KindArray, Val: elem, Size: size}
}

// NewDeferredArray returns a deferred-size array type whose length is the
// symbol with the given name.
func NewDeferredArray(elem *Type, size string) *Type {
	return &Type{Kind: KindArray, Val: elem, Deferred: size}
}

// NewAlias returns an alias of the base type carrying the modifiers.
func NewAlias(base *Type, mods Modifier) *Type {
	return &Type{Kind: KindAlias, Val: base, Modifiers: mods}
}

// NewTexture returns a texture type of the given shape.
func NewTexture(shape Shape) *Type {
	return &Type{Kind: KindTexture, Shape: shape}
}

// NewEnum returns a user enum type with the enumerators in order.
func NewEnum(symbol string, values ...EnumConst) *Type {
	return &Type{Kind: KindEnum, Symbol: symbol, Enum: values, EnumID: EnumUser}
}

// NewStruct returns a user struct type with the fields in order.
func NewStruct(symbol string, fields ...Field) *Type {
	return &Type{Kind: KindStruct, Symbol: symbol, Fields: fields, StructID: StructUser}
}

// GammaModeType is the predefined enum of texture gamma modes.
var GammaModeType = &Type{
	Kind:   KindEnum,
	Symbol: "::tex::gamma_mode",
	EnumID: EnumTexGammaMode,
	Enum: []EnumConst{
		{Name: "gamma_default", Code: 0},
		{Name: "gamma_linear", Code: 1},
		{Name: "gamma_srgb", Code: 2},
	},
}

// IntensityModeType is the predefined enum of emission intensity modes.
var IntensityModeType = &Type{
	Kind:   KindEnum,
	Symbol: "::intensity_mode",
	EnumID: EnumIntensityMode,
	Enum: []EnumConst{
		{Name: "intensity_radiant_exitance", Code: 0},
		{Name: "intensity_power", Code: 1},
	},
}

// NewType creates the Type from the string representation. User defined enums
// and structs can't be expressed this way, use ParseType with a lookup for
// those. It returns nil if the string is not a valid type.
func NewType(s string) *Type {
	return ParseType(s, nil)
}

// ParseType creates the Type from the string representation. Names which are
// not built-in are passed to the user lookup function, which may be nil.
func ParseType(s string, user func(string) *Type) *Type {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// KindAlias
	for _, x := range []struct {
		prefix string
		mod    Modifier
	}{
		{"uniform ", ModUniform},
		{"varying ", ModVarying},
	} {
		if strings.HasPrefix(s, x.prefix) {
			base := ParseType(s[len(x.prefix):], user)
			if base == nil {
				return nil
			}
			return NewAlias(base, x.mod)
		}
	}

	// KindArray
	if strings.HasSuffix(s, "]") {
		i := strings.LastIndex(s, "[")
		if i <= 0 {
			return nil
		}
		elem := ParseType(s[:i], user)
		size := strings.TrimSpace(s[i+1 : len(s)-1])
		if elem == nil || size == "" {
			return nil
		}
		if n, err := strconv.Atoi(size); err == nil {
			if n < 0 {
				return nil
			}
			return NewArray(elem, n)
		}
		return NewDeferredArray(elem, size)
	}

	switch s {
	case "bool":
		return &Type{Kind: KindBool}
	case "int":
		return &Type{Kind: KindInt}
	case "float":
		return &Type{Kind: KindFloat}
	case "double":
		return &Type{Kind: KindDouble}
	case "string":
		return &Type{Kind: KindString}
	case "color":
		return &Type{Kind: KindColor}
	case "light_profile":
		return &Type{Kind: KindLightProfile}
	case "bsdf_measurement":
		return &Type{Kind: KindBSDFMeasurement}
	case "bsdf":
		return &Type{Kind: KindBSDF}
	case "edf":
		return &Type{Kind: KindEDF}
	case "vdf":
		return &Type{Kind: KindVDF}
	case "::tex::gamma_mode":
		return GammaModeType
	case "::intensity_mode", "intensity_mode":
		return IntensityModeType
	}
	for shape, name := range textureShapes {
		if s == name {
			return NewTexture(shape)
		}
	}
	for id, name := range predefinedStructs {
		if s == name {
			return &Type{Kind: KindStruct, Symbol: "::" + name, StructID: id}
		}
	}

	// KindVector and KindMatrix: float3, int2, double3x3, ...
	if typ := parseVectorMatrix(s); typ != nil {
		return typ
	}

	if user != nil {
		return user(s)
	}
	return nil
}

func parseVectorMatrix(s string) *Type {
	for _, atomic := range []string{"bool", "int", "float", "double"} {
		if !strings.HasPrefix(s, atomic) {
			continue
		}
		dims := s[len(atomic):]
		if cols, rows, ok := strings.Cut(dims, "x"); ok {
			if atomic != "float" && atomic != "double" {
				return nil
			}
			c, err1 := strconv.Atoi(cols)
			r, err2 := strconv.Atoi(rows)
			if err1 != nil || err2 != nil || !validDim(c) || !validDim(r) {
				return nil
			}
			return NewMatrix(NewVector(NewType(atomic), r), c)
		}
		n, err := strconv.Atoi(dims)
		if err != nil || !validDim(n) {
			return nil
		}
		return NewVector(NewType(atomic), n)
	}
	return nil
}

func validDim(n int) bool { return n >= 2 && n <= 4 }

// String returns the textual name of this type as it appears in source code.
func (obj *Type) String() string {
	if obj == nil {
		return "<nil>"
	}
	switch obj.Kind {
	case KindBool, KindInt, KindFloat, KindDouble, KindString, KindColor,
		KindLightProfile, KindBSDF, KindEDF, KindVDF, KindBSDFMeasurement:
		return obj.Kind.String()

	case KindEnum:
		return obj.Symbol

	case KindStruct:
		if name, ok := predefinedStructs[obj.StructID]; ok {
			return name
		}
		return obj.Symbol

	case KindVector:
		return fmt.Sprintf("%s%d", obj.Val.String(), obj.Size)

	case KindMatrix:
		if obj.Val == nil || obj.Val.Val == nil {
			return "<malformed matrix>"
		}
		// columns x rows
		return fmt.Sprintf("%s%dx%d", obj.Val.Val.String(), obj.Size, obj.Val.Size)

	case KindTexture:
		if name, ok := textureShapes[obj.Shape]; ok {
			return name
		}
		return "<unknown texture>"

	case KindArray:
		if obj.IsImmediate() {
			return fmt.Sprintf("%s[%d]", obj.Val.String(), obj.Size)
		}
		return fmt.Sprintf("%s[%s]", obj.Val.String(), obj.Deferred)

	case KindAlias:
		prefix := ""
		if obj.Modifiers&ModUniform != 0 {
			prefix = "uniform "
		} else if obj.Modifiers&ModVarying != 0 {
			prefix = "varying "
		}
		return prefix + obj.Val.String()
	}

	return fmt.Sprintf("<%s>", obj.Kind)
}

// IsImmediate returns true if this is an immediate-size array.
func (obj *Type) IsImmediate() bool {
	return obj.Kind == KindArray && obj.Deferred == ""
}

// Skip returns the type with all aliases removed.
func (obj *Type) Skip() *Type {
	t := obj
	for t != nil && t.Kind == KindAlias {
		t = t.Val
	}
	return t
}

// AllModifiers returns the union of modifiers of every alias in the chain.
func (obj *Type) AllModifiers() Modifier {
	var mods Modifier
	for t := obj; t != nil && t.Kind == KindAlias; t = t.Val {
		mods |= t.Modifiers
	}
	return mods
}

// IsUser returns true for user defined enums and structs, and for arrays whose
// (innermost) element type is one of those.
func (obj *Type) IsUser() bool {
	t := obj.Skip()
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindEnum:
		return t.EnumID == EnumUser
	case KindStruct:
		return t.StructID == StructUser
	case KindArray:
		return t.Val.IsUser()
	}
	return false
}

// IsResource returns true for the kinds that reference external data.
func (obj *Type) IsResource() bool {
	t := obj.Skip()
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindTexture, KindLightProfile, KindBSDFMeasurement:
		return true
	}
	return false
}

// ValueName returns the name of the enumerator at index.
func (obj *Type) ValueName(index int) (string, error) {
	if obj.Kind != KindEnum {
		return "", fmt.Errorf("type %s is not an enum", obj)
	}
	if index < 0 || index >= len(obj.Enum) {
		return "", fmt.Errorf("enum %s has no value at index %d", obj.Symbol, index)
	}
	return obj.Enum[index].Name, nil
}

// Cmp compares this type to another one. It returns nil if they match.
func (obj *Type) Cmp(typ *Type) error {
	if obj == nil || typ == nil {
		if obj == typ {
			return nil
		}
		return fmt.Errorf("cannot compare to nil")
	}
	if obj.Kind != typ.Kind {
		return fmt.Errorf("base kind does not match (%s != %s)", obj.Kind, typ.Kind)
	}

	switch obj.Kind {
	case KindVector, KindMatrix:
		if obj.Size != typ.Size {
			return fmt.Errorf("size does not match (%d != %d)", obj.Size, typ.Size)
		}
		return errwrap.Wrapf(obj.Val.Cmp(typ.Val), "element type does not match")

	case KindArray:
		if obj.Size != typ.Size || obj.Deferred != typ.Deferred {
			return fmt.Errorf("array size does not match (%s != %s)", obj, typ)
		}
		return errwrap.Wrapf(obj.Val.Cmp(typ.Val), "array element type does not match")

	case KindAlias:
		if obj.Modifiers != typ.Modifiers {
			return fmt.Errorf("modifiers do not match")
		}
		return errwrap.Wrapf(obj.Val.Cmp(typ.Val), "alias base does not match")

	case KindTexture:
		if obj.Shape != typ.Shape {
			return fmt.Errorf("texture shape does not match (%s != %s)", obj, typ)
		}

	case KindEnum:
		if obj.Symbol != typ.Symbol || obj.EnumID != typ.EnumID {
			return fmt.Errorf("enum does not match (%s != %s)", obj, typ)
		}
		if len(obj.Enum) != len(typ.Enum) {
			return fmt.Errorf("enum length does not match")
		}
		for i, x := range obj.Enum {
			if x != typ.Enum[i] {
				return fmt.Errorf("enumerator %d does not match", i)
			}
		}

	case KindStruct:
		if obj.Symbol != typ.Symbol || obj.StructID != typ.StructID {
			return fmt.Errorf("struct does not match (%s != %s)", obj, typ)
		}
	}

	return nil
}
