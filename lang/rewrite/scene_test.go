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
	"testing"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/store"
	"github.com/purpleidea/mdlast/prometheus"

	"github.com/kylelemons/godebug/pretty"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

const sceneCode = `
records:
  - name: "::df::spot_edf$1.0(float,bool,float3x3,string)"
    class: function_definition
    semantic: df_spot_edf
    params: 4
  - name: "::state::rounded_corner_normal$1.2(float,bool)"
    class: function_definition
    semantic: state_rounded_corner_normal
    params: 2
  - name: "::tex::width$1.3(texture_2d)"
    class: function_definition
    semantic: tex_width
    params: 1
  - name: "operator*(float,float)"
    class: function_definition
    semantic: op_multiply
    params: 2
  - name: "::m::plastic(color,float)"
    class: material_definition
    params: 2
  - name: spot
    class: function_call
    definition: "::df::spot_edf$1.0(float,bool,float3x3,string)"
    args:
      - {name: exponent, expr: {type: float, value: 2}}
      - {name: global_distribution, expr: {type: bool, value: true}}
      - {name: global_frame, expr: {type: float3x3, value: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]}}
      - {name: handle, expr: {type: string, value: "s"}}
  - name: plastic
    class: material_instance
    definition: "::m::plastic(color,float)"
    args:
      - {name: tint, expr: {type: color, parameter: 0}}
      - name: roughness
        expr:
          type: float
          definition: "operator*(float,float)"
          args:
            - {expr: {type: float, value: 0.5}}
            - {expr: {type: float, parameter: 1}}
  - name: wood
    class: texture
    image: wood_image
    gamma: 2.2
  - name: wood_image
    class: image
    filename: wood.png

args:
  - {name: tint, expr: {type: color, value: [1, 0.5, 0]}}
  - {name: scale, expr: {type: float, value: 3}}

exprs:
  - name: spot
    expr: {type: edf, call: spot}
  - name: rounded
    expr:
      type: float3
      definition: "::state::rounded_corner_normal$1.2(float,bool)"
      args:
        - {expr: {type: float, value: 0.5}}
        - {expr: {type: bool, value: false}}
  - name: width
    expr:
      type: int
      definition: "::tex::width$1.3(texture_2d)"
      args:
        - {expr: {type: texture_2d, value: wood}}
  - name: plastic
    expr: {type: material, call: plastic}
  - name: missing
    expr: {type: texture_2d}
`

func TestScene(t *testing.T) {
	scene, err := store.ParseScene([]byte(sceneCode))
	if err != nil {
		t.Errorf("could not parse scene: %+v", err)
		return
	}
	prom := &prometheus.Prometheus{}
	if err := prom.Init(); err != nil {
		t.Errorf("could not init prometheus: %+v", err)
		return
	}
	diags := &interfaces.DiagnosticList{}
	b := &Builder{
		Store:      scene.Store,
		Symbols:    ast.NewSymbolTable(),
		Args:       scene.Args,
		Sink:       diags,
		Prometheus: prom,
		Debug:      testing.Verbose(),
		Logf: func(format string, v ...interface{}) {
			t.Logf("rewrite: "+format, v...)
		},
	}
	if err := b.Init(); err != nil {
		t.Errorf("could not init builder: %+v", err)
		return
	}

	out := map[string]string{}
	for _, x := range scene.Exprs {
		expr, err := b.Build(x.Expr)
		if err != nil {
			t.Errorf("could not build %s: %+v", x.Name, err)
			continue
		}
		out[x.Name] = expr.String()
	}

	exp := map[string]string{
		"spot":    `::df::spot_edf(2.0, 3.1415927, true, float3x3(float3(1.0, 0.0, 0.0), float3(0.0, 1.0, 0.0), float3(0.0, 0.0, 1.0)), "s")`,
		"rounded": `::state::rounded_corner_normal(0.5, false, 1.0)`,
		"width":   `::tex::width(texture_2d("wood.png", ::tex::gamma_srgb), int2(0, 0))`,
		"plastic": `::m::plastic(tint: color(1.0, 0.5, 0.0), roughness: (0.5 * 3.0))`,
		"missing": `texture_2d()`,
	}
	if diff := pretty.Compare(exp, out); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
	if diags.Len() != 1 {
		t.Errorf("expected one diagnostic, got: %d", diags.Len())
	}

	n, err := promtest.GatherAndCount(prom.Gatherer(), "mdlast_migrations_total")
	if err != nil {
		t.Errorf("could not gather: %+v", err)
		return
	}
	if n != 3 {
		t.Errorf("expected 3 migration series, got: %d", n)
	}
}
