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
	"strings"

	"github.com/iancoleman/strcase"
)

// Semantic is the closed classification of what a called definition means.
// Calls whose definition is not a known built-in are SemUnknown.
type Semantic int

// The operator semantics come first, in unary, binary, ternary order. The
// unaryFirst and binaryLast style bounds below depend on this order.
const (
	SemUnknown Semantic = iota

	// unary operators
	SemOpBitwiseComplement
	SemOpLogicalNot
	SemOpPositive
	SemOpNegative
	SemOpPreIncrement
	SemOpPreDecrement
	SemOpPostIncrement
	SemOpPostDecrement

	// binary operators
	SemOpSelect
	SemOpArrayIndex
	SemOpMultiply
	SemOpDivide
	SemOpModulo
	SemOpPlus
	SemOpMinus
	SemOpShiftLeft
	SemOpShiftRight
	SemOpUnsignedShiftRight
	SemOpLess
	SemOpLessOrEqual
	SemOpGreaterOrEqual
	SemOpGreater
	SemOpEqual
	SemOpNotEqual
	SemOpBitwiseAnd
	SemOpBitwiseXor
	SemOpBitwiseOr
	SemOpLogicalAnd
	SemOpLogicalOr

	// ternary operator
	SemOpTernary

	// distribution functions
	SemDFDiffuseReflectionBSDF
	SemDFMeasuredEDF
	SemDFSpotEDF
	SemDFFresnelLayer
	SemDFColorFresnelLayer

	// state
	SemStateNormal
	SemStateTextureTangentU
	SemStateRoundedCornerNormal

	// textures
	SemTexWidth
	SemTexHeight
	SemTexTexelFloat
	SemTexTexelFloat2
	SemTexTexelFloat3
	SemTexTexelFloat4
	SemTexTexelColor
	SemTexLookupColor

	// math
	SemMathSin

	// structural built-ins of the flattened representation
	SemDAGFieldAccess
	SemDAGIndexAccess
	SemDAGArrayConstructor
	SemDAGArrayLength
	SemDAGSetObjectID
	SemDAGSetTransforms
)

const (
	unaryFirst   = SemOpBitwiseComplement
	unaryLast    = SemOpPostDecrement
	binaryFirst  = SemOpSelect
	binaryLast   = SemOpLogicalOr
	semanticLast = SemDAGSetTransforms
)

var semanticNames = map[Semantic]string{
	SemUnknown: "unknown",

	SemOpBitwiseComplement: "op_bitwise_complement",
	SemOpLogicalNot:        "op_logical_not",
	SemOpPositive:          "op_positive",
	SemOpNegative:          "op_negative",
	SemOpPreIncrement:      "op_pre_increment",
	SemOpPreDecrement:      "op_pre_decrement",
	SemOpPostIncrement:     "op_post_increment",
	SemOpPostDecrement:     "op_post_decrement",

	SemOpSelect:             "op_select",
	SemOpArrayIndex:         "op_array_index",
	SemOpMultiply:           "op_multiply",
	SemOpDivide:             "op_divide",
	SemOpModulo:             "op_modulo",
	SemOpPlus:               "op_plus",
	SemOpMinus:              "op_minus",
	SemOpShiftLeft:          "op_shift_left",
	SemOpShiftRight:         "op_shift_right",
	SemOpUnsignedShiftRight: "op_unsigned_shift_right",
	SemOpLess:               "op_less",
	SemOpLessOrEqual:        "op_less_or_equal",
	SemOpGreaterOrEqual:     "op_greater_or_equal",
	SemOpGreater:            "op_greater",
	SemOpEqual:              "op_equal",
	SemOpNotEqual:           "op_not_equal",
	SemOpBitwiseAnd:         "op_bitwise_and",
	SemOpBitwiseXor:         "op_bitwise_xor",
	SemOpBitwiseOr:          "op_bitwise_or",
	SemOpLogicalAnd:         "op_logical_and",
	SemOpLogicalOr:          "op_logical_or",

	SemOpTernary: "op_ternary",

	SemDFDiffuseReflectionBSDF: "df_diffuse_reflection_bsdf",
	SemDFMeasuredEDF:           "df_measured_edf",
	SemDFSpotEDF:               "df_spot_edf",
	SemDFFresnelLayer:          "df_fresnel_layer",
	SemDFColorFresnelLayer:     "df_color_fresnel_layer",

	SemStateNormal:              "state_normal",
	SemStateTextureTangentU:     "state_texture_tangent_u",
	SemStateRoundedCornerNormal: "state_rounded_corner_normal",

	SemTexWidth:       "tex_width",
	SemTexHeight:      "tex_height",
	SemTexTexelFloat:  "tex_texel_float",
	SemTexTexelFloat2: "tex_texel_float2",
	SemTexTexelFloat3: "tex_texel_float3",
	SemTexTexelFloat4: "tex_texel_float4",
	SemTexTexelColor:  "tex_texel_color",
	SemTexLookupColor: "tex_lookup_color",

	SemMathSin: "math_sin",

	SemDAGFieldAccess:      "dag_field_access",
	SemDAGIndexAccess:      "dag_index_access",
	SemDAGArrayConstructor: "dag_array_constructor",
	SemDAGArrayLength:      "dag_array_length",
	SemDAGSetObjectID:      "dag_set_object_id",
	SemDAGSetTransforms:    "dag_set_transforms",
}

// semanticLookup is keyed by the normalized form of each name.
var semanticLookup = func() map[string]Semantic {
	m := make(map[string]Semantic, len(semanticNames))
	for sema, name := range semanticNames {
		m[normalizeSemantic(name)] = sema
	}
	return m
}()

// normalizeSemantic folds the many spellings found in scene files (snake case,
// camel case, kebab case, the upper case DS_INTRINSIC_ enum names) to a single
// key. Underscores are dropped entirely since strcase splits digits off as
// separate words.
func normalizeSemantic(s string) string {
	key := strings.ReplaceAll(strcase.ToSnake(strings.TrimSpace(s)), "_", "")
	for _, prefix := range []string{"dsintrinsic", "ds"} {
		if k := strings.TrimPrefix(key, prefix); k != key && k != "" {
			return k
		}
	}
	return key
}

// ParseSemantic returns the semantic with the given name.
func ParseSemantic(s string) (Semantic, error) {
	if sema, ok := semanticLookup[normalizeSemantic(s)]; ok {
		return sema, nil
	}
	return SemUnknown, fmt.Errorf("unknown semantic: %s", s)
}

// String returns the canonical name of the semantic.
func (obj Semantic) String() string {
	if s, ok := semanticNames[obj]; ok {
		return s
	}
	return fmt.Sprintf("Semantic(%d)", int(obj))
}

// Valid returns true if this is a member of the closed enumeration.
func (obj Semantic) Valid() bool {
	return obj >= SemUnknown && obj <= semanticLast
}

// IsOperator returns true for every operator semantic.
func (obj Semantic) IsOperator() bool {
	return obj.IsUnary() || obj.IsBinary() || obj.IsTernary()
}

// IsUnary returns true for the unary operators.
func (obj Semantic) IsUnary() bool { return obj >= unaryFirst && obj <= unaryLast }

// IsBinary returns true for the binary operators.
func (obj Semantic) IsBinary() bool { return obj >= binaryFirst && obj <= binaryLast }

// IsTernary returns true for the conditional operator.
func (obj Semantic) IsTernary() bool { return obj == SemOpTernary }
