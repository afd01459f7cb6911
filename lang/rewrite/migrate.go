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
	"math"
	"slices"
	"strings"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/types"
)

// anyArity matches a call with any number of parameters.
const anyArity = -1

// insertion is an argument that a migration adds to a call.
type insertion struct {
	// At is the final position of the new argument. Appended arguments
	// use -1.
	At int

	// Name is the parameter name, used with the named convention.
	Name string

	// Value builds the default.
	Value func(obj *Builder) (ast.Expr, error)
}

// migration rewrites calls of a built-in whose signature changed in a later
// language version, so that old stored calls match the current signature.
type migration struct {
	// Rule names the migration, for logs and metrics.
	Rule string

	Semantics []types.Semantic

	// Arity is the old parameter count that triggers this migration.
	Arity int

	// Match is an additional trigger, if set.
	Match func(c *Call) bool

	// Callee replaces the callee name if set. Otherwise the version suffix
	// of the old name is removed.
	Callee string

	// Wrap maps the index of a supplied argument to the name of a one
	// argument constructor that it gets wrapped in.
	Wrap map[int]string

	// Insert lists the new arguments in increasing order of position.
	Insert []insertion

	// Tex2D restricts the insertions to calls whose first argument is a
	// two dimensional texture.
	Tex2D bool
}

// matches returns true if this migration applies to the call.
func (obj *migration) matches(c *Call) bool {
	found := false
	for _, sema := range obj.Semantics {
		if sema == c.Semantic {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if obj.Arity != anyArity && obj.Arity != c.Params {
		return false
	}
	return obj.Match == nil || obj.Match(c)
}

func floatLiteral(v float32) func(*Builder) (ast.Expr, error) {
	return func(*Builder) (ast.Expr, error) {
		return &ast.ExprLiteral{V: &ast.FloatValue{V: v}}, nil
	}
}

// textureTangentU builds state::texture_tangent_u(0).
func textureTangentU(obj *Builder) (ast.Expr, error) {
	qname, err := obj.QualifiedName("state::texture_tangent_u")
	if err != nil {
		return nil, err
	}
	t := &ast.VectorType{Elem: ast.Float, Size: 3}
	call := &ast.ExprCall{Ref: obj.reference(qname, nil), T: t}
	call.Add(&ast.Argument{Expr: &ast.ExprLiteral{V: &ast.IntValue{V: 0}}})
	return call, nil
}

func int2Zero(*Builder) (ast.Expr, error) {
	return &ast.ExprLiteral{V: ast.NewInt2Zero()}, nil
}

var uvTile = insertion{At: -1, Name: "uv_tile", Value: int2Zero}

// migrations is the table of signature changes. Adding a rule here is the only
// change needed to support another one.
var migrations = []*migration{
	{
		// 1.0 to 1.2, add multiplier and tangent_u
		Rule:      "measured_edf",
		Semantics: []types.Semantic{types.SemDFMeasuredEDF},
		Arity:     4,
		Insert: []insertion{
			{At: 1, Name: "multiplier", Value: floatLiteral(1.0)},
			{At: 4, Name: "tangent_u", Value: textureTangentU},
		},
	},
	{
		// 1.1 to 1.2, add tangent_u
		Rule:      "measured_edf",
		Semantics: []types.Semantic{types.SemDFMeasuredEDF},
		Arity:     5,
		Insert: []insertion{
			{At: 4, Name: "tangent_u", Value: textureTangentU},
		},
	},
	{
		// 1.3 to 1.4, the half colored layer becomes the colored one
		Rule:      "fresnel_layer",
		Semantics: []types.Semantic{types.SemDFFresnelLayer},
		Arity:     anyArity,
		Match: func(c *Call) bool {
			return strings.Contains(c.Name, interfaces.DeprecatedMarker)
		},
		Callee: "::df::color_fresnel_layer",
		Wrap:   map[int]string{1: "color"},
	},
	{
		// 1.0 to 1.1, add spread
		Rule:      "spot_edf",
		Semantics: []types.Semantic{types.SemDFSpotEDF},
		Arity:     4,
		Insert: []insertion{
			{At: 1, Name: "spread", Value: floatLiteral(float32(math.Pi))},
		},
	},
	{
		// 1.2 to 1.3, add roundness
		Rule:      "rounded_corner_normal",
		Semantics: []types.Semantic{types.SemStateRoundedCornerNormal},
		Arity:     2,
		Insert: []insertion{
			{At: -1, Name: "roundness", Value: floatLiteral(1.0)},
		},
	},
	{
		// 1.3 to 1.4, add uv_tile
		Rule:      "tex_size",
		Semantics: []types.Semantic{types.SemTexWidth, types.SemTexHeight},
		Arity:     1,
		Insert:    []insertion{uvTile},
		Tex2D:     true,
	},
	{
		// 1.3 to 1.4, add uv_tile
		Rule: "tex_texel",
		Semantics: []types.Semantic{
			types.SemTexTexelFloat,
			types.SemTexTexelFloat2,
			types.SemTexTexelFloat3,
			types.SemTexTexelFloat4,
			types.SemTexTexelColor,
		},
		Arity:  2,
		Insert: []insertion{uvTile},
		Tex2D:  true,
	},
}

// migrate applies the first matching migration. It returns false if there is
// none, and the call is handled by the later phases.
func (obj *Builder) migrate(c *Call) (ast.Expr, bool, error) {
	var m *migration
	for _, x := range migrations {
		if x.matches(c) {
			m = x
			break
		}
	}
	if m == nil {
		return nil, false, nil
	}

	name := m.Callee
	if name == "" {
		name = RemoveDeprecated(c.Name)
	}
	qname, err := obj.QualifiedName(name)
	if err != nil {
		return nil, true, err
	}

	// the supplied arguments, each transformed on its own
	args := []*ast.Argument{}
	for i := 0; i < c.Params; i++ {
		expr, err := obj.arg(c, i)
		if err != nil {
			return nil, true, err
		}
		if ctor, exists := m.Wrap[i]; exists {
			expr, err = obj.wrap(ctor, expr)
			if err != nil {
				return nil, true, err
			}
		}
		arg, err := obj.argument(c.Named, c.Args.Name(i), expr)
		if err != nil {
			return nil, true, err
		}
		args = append(args, arg)
	}

	applied := len(m.Wrap) > 0 || m.Callee != ""
	if !m.Tex2D || (len(args) > 0 && ast.IsTexture2D(args[0].Expr.Type())) {
		for _, x := range m.Insert {
			expr, err := x.Value(obj)
			if err != nil {
				return nil, true, err
			}
			arg, err := obj.argument(c.Named, x.Name, expr)
			if err != nil {
				return nil, true, err
			}
			if x.At < 0 || x.At >= len(args) {
				args = append(args, arg)
			} else {
				args = slices.Insert(args, x.At, arg)
			}
			applied = true
		}
	}

	if applied {
		if obj.Debug {
			obj.Logf("migration %s applied to %s", m.Rule, c.Name)
		}
		obj.Prometheus.UpdateMigrationsTotal(m.Rule)
	}

	call := &ast.ExprCall{
		Ref:  obj.reference(qname, nil),
		Args: args,
		T:    obj.TypeOf(c.Return),
	}
	return call, true, nil
}

// wrap calls a one argument constructor, such as color, on expr.
func (obj *Builder) wrap(ctor string, expr ast.Expr) (ast.Expr, error) {
	qname, err := obj.QualifiedName(ctor)
	if err != nil {
		return nil, err
	}
	var t ast.Type
	if ctor == "color" {
		t = ast.Color
	}
	call := &ast.ExprCall{Ref: obj.reference(qname, t), T: t}
	call.Add(&ast.Argument{Expr: expr})
	return call, nil
}
