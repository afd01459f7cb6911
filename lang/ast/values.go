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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Value is the payload of a literal expression.
type Value interface {
	fmt.Stringer

	// Type returns the type of this value.
	Type() Type
}

// BoolValue is a boolean literal.
type BoolValue struct {
	V bool
}

// Type returns the type of this value.
func (obj *BoolValue) Type() Type { return Bool }

// String returns the source spelling of this value.
func (obj *BoolValue) String() string { return strconv.FormatBool(obj.V) }

// IntValue is an integer literal.
type IntValue struct {
	V int32
}

// Type returns the type of this value.
func (obj *IntValue) Type() Type { return Int }

// String returns the source spelling of this value.
func (obj *IntValue) String() string { return strconv.FormatInt(int64(obj.V), 10) }

// FloatValue is a float literal.
type FloatValue struct {
	V float32
}

// Type returns the type of this value.
func (obj *FloatValue) Type() Type { return Float }

// String returns the source spelling of this value.
func (obj *FloatValue) String() string {
	return formatFloat(strconv.FormatFloat(float64(obj.V), 'g', -1, 32))
}

// DoubleValue is a double literal.
type DoubleValue struct {
	V float64
}

// Type returns the type of this value.
func (obj *DoubleValue) Type() Type { return Double }

// String returns the source spelling of this value.
func (obj *DoubleValue) String() string {
	return formatFloat(strconv.FormatFloat(obj.V, 'g', -1, 64)) + "d"
}

// formatFloat makes sure a float literal doesn't read as an integer.
func formatFloat(s string) string {
	if strings.ContainsAny(s, ".eEnN") { // also skips NaN and Inf
		return s
	}
	return s + ".0"
}

// StringValue is a string literal.
type StringValue struct {
	V string
}

// Type returns the type of this value.
func (obj *StringValue) Type() Type { return String }

// String returns the source spelling of this value.
func (obj *StringValue) String() string { return strconv.Quote(obj.V) }

// VectorValue is a vector literal.
type VectorValue struct {
	T *VectorType
	V []Value
}

// Type returns the type of this value.
func (obj *VectorValue) Type() Type { return obj.T }

// String returns the source spelling of this value.
func (obj *VectorValue) String() string {
	s := []string{}
	for _, x := range obj.V {
		s = append(s, x.String())
	}
	return fmt.Sprintf("%s(%s)", obj.T, strings.Join(s, ", "))
}

// NewInt2Zero returns the literal int2(0, 0).
func NewInt2Zero() *VectorValue {
	return &VectorValue{
		T: &VectorType{Elem: Int, Size: 2},
		V: []Value{&IntValue{V: 0}, &IntValue{V: 0}},
	}
}

// InvalidRefValue is the invalid reference of a resource or distribution
// function type.
type InvalidRefValue struct {
	T Type
}

// Type returns the type of this value.
func (obj *InvalidRefValue) Type() Type { return obj.T }

// String returns the source spelling of this value.
func (obj *InvalidRefValue) String() string { return fmt.Sprintf("%s()", obj.T) }

// GammaMode is the intensity encoding curve of a texture.
type GammaMode int

// These are the gamma modes.
const (
	GammaDefault GammaMode = iota
	GammaLinear
	GammaSRGB
)

// String returns the enumerator name of this gamma mode.
func (obj GammaMode) String() string {
	switch obj {
	case GammaDefault:
		return "gamma_default"
	case GammaLinear:
		return "gamma_linear"
	case GammaSRGB:
		return "gamma_srgb"
	}
	return fmt.Sprintf("GammaMode(%d)", int(obj))
}

// Hash is the content hash which identifies a resource that has no path.
type Hash [32]byte

// IsZero returns true if no hash was set.
func (obj Hash) IsZero() bool { return obj == Hash{} }

// String returns the hex encoding of this hash.
func (obj Hash) String() string { return hex.EncodeToString(obj[:]) }

// Resource is the identity of a resource value that could not be resolved to
// a path. It keeps resource literals comparable without filesystem access.
type Resource struct {
	URL   string
	TagID uint32
	Hash  Hash
}

func (obj *Resource) args() string {
	if obj.URL != "" {
		return strconv.Quote(obj.URL)
	}
	h := obj.Hash.String()
	return fmt.Sprintf("/* tag %d, hash %s */", obj.TagID, h[:16])
}

// TextureValue is a texture literal.
type TextureValue struct {
	Resource
	T     *TextureType
	Gamma GammaMode
}

// Type returns the type of this value.
func (obj *TextureValue) Type() Type { return obj.T }

// String returns the source spelling of this value.
func (obj *TextureValue) String() string { return fmt.Sprintf("%s(%s)", obj.T, obj.args()) }

// LightProfileValue is a light profile literal.
type LightProfileValue struct {
	Resource
}

// Type returns the type of this value.
func (obj *LightProfileValue) Type() Type { return LightProfile }

// String returns the source spelling of this value.
func (obj *LightProfileValue) String() string {
	return fmt.Sprintf("light_profile(%s)", obj.args())
}

// BSDFMeasurementValue is a bsdf measurement literal.
type BSDFMeasurementValue struct {
	Resource
}

// Type returns the type of this value.
func (obj *BSDFMeasurementValue) Type() Type { return BSDFMeasurement }

// String returns the source spelling of this value.
func (obj *BSDFMeasurementValue) String() string {
	return fmt.Sprintf("bsdf_measurement(%s)", obj.args())
}
