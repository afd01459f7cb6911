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

package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is a stable identifier addressing a record in the object store. The zero
// tag never addresses anything.
type Tag uint32

// InvalidTag is the tag that addresses nothing.
const InvalidTag Tag = 0

// IsValid returns true if this tag could address a record.
func (obj Tag) IsValid() bool { return obj != InvalidTag }

// String returns a short representation of this tag.
func (obj Tag) String() string { return fmt.Sprintf("tag(%d)", uint32(obj)) }

// Value represents a typed constant of the object model. Each kind of type has
// exactly one implementation.
type Value interface {
	fmt.Stringer // String() string (for display purposes)
	Type() *Type
}

// BoolValue represents a boolean value.
type BoolValue struct {
	V bool
}

// Type returns the type data structure that represents this type of value.
func (obj *BoolValue) Type() *Type { return TypeBool }

// String returns a visual representation of this value.
func (obj *BoolValue) String() string { return strconv.FormatBool(obj.V) }

// IntValue represents an integer value.
type IntValue struct {
	V int32
}

// Type returns the type data structure that represents this type of value.
func (obj *IntValue) Type() *Type { return TypeInt }

// String returns a visual representation of this value.
func (obj *IntValue) String() string { return strconv.FormatInt(int64(obj.V), 10) }

// FloatValue represents a single precision floating point value.
type FloatValue struct {
	V float32
}

// Type returns the type data structure that represents this type of value.
func (obj *FloatValue) Type() *Type { return TypeFloat }

// String returns a visual representation of this value.
func (obj *FloatValue) String() string {
	return strconv.FormatFloat(float64(obj.V), 'g', -1, 32)
}

// DoubleValue represents a double precision floating point value.
type DoubleValue struct {
	V float64
}

// Type returns the type data structure that represents this type of value.
func (obj *DoubleValue) Type() *Type { return TypeDouble }

// String returns a visual representation of this value.
func (obj *DoubleValue) String() string {
	return strconv.FormatFloat(obj.V, 'g', -1, 64)
}

// StringValue represents a string value.
type StringValue struct {
	V string
}

// Type returns the type data structure that represents this type of value.
func (obj *StringValue) Type() *Type { return TypeString }

// String returns a visual representation of this value.
func (obj *StringValue) String() string { return strconv.Quote(obj.V) }

// EnumValue is one enumerator of an enum type, addressed by its index in the
// declaration order.
type EnumValue struct {
	T     *Type
	Index int
}

// Type returns the type data structure that represents this type of value.
func (obj *EnumValue) Type() *Type { return obj.T }

// String returns a visual representation of this value.
func (obj *EnumValue) String() string {
	name, err := obj.T.Skip().ValueName(obj.Index)
	if err != nil {
		return fmt.Sprintf("%s(#%d)", obj.T, obj.Index)
	}
	return name
}

// CompoundValue represents a vector, matrix, color or struct value. The
// elements are stored in declaration order: vector components, matrix columns,
// the three color channels, or struct fields.
type CompoundValue struct {
	T *Type
	V []Value
}

// Type returns the type data structure that represents this type of value.
func (obj *CompoundValue) Type() *Type { return obj.T }

// String returns a visual representation of this value.
func (obj *CompoundValue) String() string {
	return fmt.Sprintf("%s(%s)", obj.T, joinValues(obj.V))
}

// ArrayValue represents an array value.
type ArrayValue struct {
	T *Type
	V []Value
}

// Type returns the type data structure that represents this type of value.
func (obj *ArrayValue) Type() *Type { return obj.T }

// String returns a visual representation of this value.
func (obj *ArrayValue) String() string {
	return fmt.Sprintf("%s(%s)", obj.T, joinValues(obj.V))
}

// InvalidDFValue is the invalid reference of a distribution function type.
type InvalidDFValue struct {
	T *Type
}

// Type returns the type data structure that represents this type of value.
func (obj *InvalidDFValue) Type() *Type { return obj.T }

// String returns a visual representation of this value.
func (obj *InvalidDFValue) String() string { return fmt.Sprintf("%s()", obj.T) }

// ResourceValue is a texture, light profile or bsdf measurement. It only holds
// the store tag of its record, which may be invalid.
type ResourceValue struct {
	T   *Type
	Tag Tag
}

// Type returns the type data structure that represents this type of value.
func (obj *ResourceValue) Type() *Type { return obj.T }

// String returns a visual representation of this value.
func (obj *ResourceValue) String() string {
	return fmt.Sprintf("%s(%s)", obj.T, obj.Tag)
}

func joinValues(values []Value) string {
	s := []string{}
	for _, x := range values {
		s = append(s, x.String())
	}
	return strings.Join(s, ", ")
}
