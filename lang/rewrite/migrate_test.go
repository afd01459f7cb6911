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

//go:build !root

package rewrite

import (
	"fmt"
	"testing"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/util"
)

func TestMigrations(t *testing.T) {
	f := newFixture(t)

	type test struct { // an individual test
		name string
		call *Call
		exp  string
	}
	testCases := []test{}

	// both calling conventions for each call
	add := func(name string, c *Call, positional, named string) {
		p := *c
		p.Named = false
		testCases = append(testCases, test{name + " positional", &p, positional})
		n := *c
		n.Named = true
		testCases = append(testCases, test{name + " named", &n, named})
	}

	{
		args := ir.NewExprList().
			Add("profile", ic(1)).
			Add("global_distribution", bc(true)).
			Add("global_frame", ic(2)).
			Add("handle", sc("h"))
		add("measured_edf 1.0", &Call{
			Return:   types.NewType("edf"),
			Semantic: types.SemDFMeasuredEDF,
			Name:     "::df::measured_edf$1.0",
			Params:   4,
			Args:     args,
		},
			`::df::measured_edf(1, 1.0, true, 2, state::texture_tangent_u(0), "h")`,
			`::df::measured_edf(profile: 1, multiplier: 1.0, global_distribution: true, global_frame: 2, tangent_u: state::texture_tangent_u(0), handle: "h")`,
		)
	}
	{
		args := ir.NewExprList().
			Add("profile", ic(1)).
			Add("multiplier", fc(2)).
			Add("global_distribution", bc(true)).
			Add("global_frame", ic(2)).
			Add("handle", sc("h"))
		add("measured_edf 1.1", &Call{
			Return:   types.NewType("edf"),
			Semantic: types.SemDFMeasuredEDF,
			Name:     "::df::measured_edf$1.1",
			Params:   5,
			Args:     args,
		},
			`::df::measured_edf(1, 2.0, true, 2, state::texture_tangent_u(0), "h")`,
			`::df::measured_edf(profile: 1, multiplier: 2.0, global_distribution: true, global_frame: 2, tangent_u: state::texture_tangent_u(0), handle: "h")`,
		)
	}
	{
		args := ir.NewExprList().
			Add("ior", fc(1.5)).
			Add("weight", fc(0.5)).
			Add("layer", constant(&types.InvalidDFValue{T: types.NewType("bsdf")})).
			Add("base", constant(&types.InvalidDFValue{T: types.NewType("bsdf")}))
		add("fresnel_layer 1.3", &Call{
			Return:   types.NewType("bsdf"),
			Semantic: types.SemDFFresnelLayer,
			Name:     "::df::fresnel_layer$1.3",
			Params:   4,
			Args:     args,
		},
			`::df::color_fresnel_layer(1.5, color(0.5), bsdf(), bsdf())`,
			`::df::color_fresnel_layer(ior: 1.5, weight: color(0.5), layer: bsdf(), base: bsdf())`,
		)
	}
	{
		args := ir.NewExprList().
			Add("exponent", fc(2)).
			Add("global_distribution", bc(true)).
			Add("global_frame", ic(3)).
			Add("handle", sc("s"))
		add("spot_edf 1.0", &Call{
			Return:   types.NewType("edf"),
			Semantic: types.SemDFSpotEDF,
			Name:     "::df::spot_edf$1.0",
			Params:   4,
			Args:     args,
		},
			`::df::spot_edf(2.0, 3.1415927, true, 3, "s")`,
			`::df::spot_edf(exponent: 2.0, spread: 3.1415927, global_distribution: true, global_frame: 3, handle: "s")`,
		)
	}
	{
		args := ir.NewExprList().
			Add("radius", fc(0.5)).
			Add("across_materials", bc(false))
		add("rounded_corner_normal 1.2", &Call{
			Return:   types.NewType("float3"),
			Semantic: types.SemStateRoundedCornerNormal,
			Name:     "::state::rounded_corner_normal$1.2",
			Params:   2,
			Args:     args,
		},
			`::state::rounded_corner_normal(0.5, false, 1.0)`,
			`::state::rounded_corner_normal(radius: 0.5, across_materials: false, roundness: 1.0)`,
		)
	}
	{
		args := ir.NewExprList().Add("tex", tc(f.wood, types.Shape2D))
		add("tex width 2d", &Call{
			Return:   types.NewType("int"),
			Semantic: types.SemTexWidth,
			Name:     "::tex::width$1.3",
			Params:   1,
			Args:     args,
		},
			`::tex::width(texture_2d("wood.png", ::tex::gamma_srgb), int2(0, 0))`,
			`::tex::width(tex: texture_2d("wood.png", ::tex::gamma_srgb), uv_tile: int2(0, 0))`,
		)
	}
	{
		args := ir.NewExprList().Add("tex", tc(f.volume, types.Shape3D))
		add("tex height 3d", &Call{
			Return:   types.NewType("int"),
			Semantic: types.SemTexHeight,
			Name:     "::tex::height$1.3",
			Params:   1,
			Args:     args,
		},
			`::tex::height(texture_3d("vol.vdb", ::tex::gamma_default))`,
			`::tex::height(tex: texture_3d("vol.vdb", ::tex::gamma_default))`,
		)
	}
	{
		coord := constant(&types.CompoundValue{
			T: types.NewType("int2"),
			V: []types.Value{&types.IntValue{V: 1}, &types.IntValue{V: 2}},
		})
		for _, sema := range []types.Semantic{
			types.SemTexTexelFloat,
			types.SemTexTexelFloat2,
			types.SemTexTexelFloat3,
			types.SemTexTexelFloat4,
			types.SemTexTexelColor,
		} {
			args := ir.NewExprList().
				Add("tex", tc(f.wood, types.Shape2D)).
				Add("coord", coord)
			add(sema.String(), &Call{
				Return:   types.NewType("float"),
				Semantic: sema,
				Name:     "::tex::texel$1.3",
				Params:   2,
				Args:     args,
			},
				`::tex::texel(texture_2d("wood.png", ::tex::gamma_srgb), int2(1, 2), int2(0, 0))`,
				`::tex::texel(tex: texture_2d("wood.png", ::tex::gamma_srgb), coord: int2(1, 2), uv_tile: int2(0, 0))`,
			)
		}
	}
	{
		// newer arities pass through untouched
		args := ir.NewExprList().
			Add("exponent", fc(2)).
			Add("spread", fc(1)).
			Add("global_distribution", bc(true)).
			Add("global_frame", ic(3)).
			Add("handle", sc("s"))
		add("spot_edf current", &Call{
			Return:   types.NewType("edf"),
			Semantic: types.SemDFSpotEDF,
			Name:     "::df::spot_edf",
			Params:   5,
			Args:     args,
		},
			`::df::spot_edf(2.0, 1.0, true, 3, "s")`,
			`::df::spot_edf(exponent: 2.0, spread: 1.0, global_distribution: true, global_frame: 3, handle: "s")`,
		)
	}
	{
		// without the version marker this is the current fresnel layer
		args := ir.NewExprList().
			Add("ior", fc(1.5)).
			Add("weight", fc(0.5))
		add("fresnel_layer current", &Call{
			Return:   types.NewType("bsdf"),
			Semantic: types.SemDFFresnelLayer,
			Name:     "::df::fresnel_layer",
			Params:   2,
			Args:     args,
		},
			`::df::fresnel_layer(1.5, 0.5)`,
			`::df::fresnel_layer(ior: 1.5, weight: 0.5)`,
		)
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			b := f.builder(t, nil)
			expr, err := b.RewriteCall(tc.call)
			if err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: rewrite failed with: %+v", index, err)
				return
			}
			if s := expr.String(); s != tc.exp {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: expected: %s", index, tc.exp)
				t.Errorf("test #%d:      got: %s", index, s)
			}
		})
	}
}

// TestMigrationsStable tests that the same input always produces the same
// shape.
func TestMigrationsStable(t *testing.T) {
	f := newFixture(t)
	c := &Call{
		Return:   types.NewType("edf"),
		Semantic: types.SemDFSpotEDF,
		Name:     "::df::spot_edf$1.0",
		Params:   4,
		Args: ir.NewExprList().
			Add("exponent", fc(2)).
			Add("global_distribution", bc(true)).
			Add("global_frame", ic(3)).
			Add("handle", sc("s")),
	}
	var first string
	for i := 0; i < 3; i++ {
		expr, err := f.builder(t, nil).RewriteCall(c)
		if err != nil {
			t.Errorf("rewrite failed with: %+v", err)
			return
		}
		call, ok := expr.(*ast.ExprCall)
		if !ok {
			t.Errorf("expected a call, got: %T", expr)
			return
		}
		if len(call.Args) != 5 {
			t.Errorf("expected 5 arguments, got: %d", len(call.Args))
		}
		if i == 0 {
			first = expr.String()
			continue
		}
		if s := expr.String(); s != first {
			t.Errorf("run %d differs: %s != %s", i, s, first)
		}
	}
}

// TestMigrationTable checks the table itself, so that each rule can only be
// reached in one way.
func TestMigrationTable(t *testing.T) {
	type key struct {
		sema  types.Semantic
		arity int
	}
	seen := map[key]string{}
	for _, m := range migrations {
		if m.Rule == "" {
			t.Errorf("migration without a rule name")
		}
		if len(m.Semantics) == 0 {
			t.Errorf("migration %s has no semantics", m.Rule)
		}
		for _, sema := range m.Semantics {
			if sema.IsOperator() {
				t.Errorf("migration %s would shadow operator %s", m.Rule, sema)
			}
			k := key{sema, m.Arity}
			if other, exists := seen[k]; exists {
				t.Errorf("migration %s overlaps %s", m.Rule, other)
			}
			seen[k] = m.Rule
		}
		last := -1
		for _, x := range m.Insert {
			if x.At >= 0 && x.At <= last {
				t.Errorf("migration %s inserts out of order", m.Rule)
			}
			if x.At >= 0 {
				last = x.At
			}
		}
	}
}
