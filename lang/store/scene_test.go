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

package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/types"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const sceneCode = `
types:
  - name: "::m::mode"
    enum:
      - {name: fast, code: 0}
      - {name: slow, code: 1}
  - name: "::m::params"
    fields:
      - {name: mode, type: "::m::mode"}
      - {name: inner, type: "::m::inner"}
  - name: "::m::inner"
    fields:
      - {name: weight, type: float}

records:
  - name: "::df::spot_edf$1.0(float,bool,float3x3,string)"
    class: function_definition
    semantic: DS_INTRINSIC_DF_SPOT_EDF
    params: 4
  - name: spot
    class: FunctionCall
    definition: "::df::spot_edf$1.0(float,bool,float3x3,string)"
    args:
      - {name: exponent, expr: {type: float, value: 2}}
      - {name: global_distribution, expr: {type: bool, value: true}}
      - {name: global_frame, expr: {type: float3x3, value: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]}}
      - {name: handle, expr: {type: string, value: "s"}}
  - name: wood
    class: texture
    image: wood_image
    gamma: 2.2
  - name: wood_image
    class: image
    filename: wood.png

args:
  - {name: tint, expr: {type: color, value: [1, 0.5, 0]}}

exprs:
  - name: edf
    expr: {type: edf, call: spot}
  - expr: {type: texture_2d, value: wood}
  - name: params
    expr: {type: "::m::params", value: [slow, [0.25]]}
  - name: arg
    expr: {type: color, parameter: 0}
  - name: none
    expr: {type: bsdf}
`

func TestParseScene(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/scene.yaml", []byte(sceneCode), 0644); err != nil {
		t.Errorf("write failed: %+v", err)
		return
	}
	scene, err := LoadScene(fs, "/scene.yaml")
	if err != nil {
		t.Errorf("load failed: %+v", err)
		return
	}
	if testing.Verbose() {
		t.Logf("scene: %s", spew.Sdump(scene.Exprs))
	}

	if n := len(scene.Exprs); n != 5 {
		t.Errorf("expected 5 expressions, got: %d", n)
	}
	if scene.Expr("expr1") == nil {
		t.Errorf("expected a default name for the unnamed expression")
	}
	if scene.Args.Len() != 1 || scene.Args.Name(0) != "tint" {
		t.Errorf("unexpected args: %s", scene.Args)
	}

	call, ok := scene.Expr("edf").(*ir.ExprCall)
	if !ok {
		t.Errorf("expected a call, got: %T", scene.Expr("edf"))
		return
	}
	fcall, err := scene.Store.FunctionCall(call.Call)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	def, err := scene.Store.FunctionDefinition(fcall.Definition)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	if def.Semantic != types.SemDFSpotEDF || def.ParameterCount != 4 {
		t.Errorf("unexpected definition: %+v", def)
	}
	if fcall.Args.Len() != 4 || fcall.Args.Index("handle") != 3 {
		t.Errorf("unexpected call args: %s", fcall.Args)
	}

	// the texture refers to an image that is declared after it
	tex := scene.Expr("expr1").(*ir.ExprConstant).V.(*types.ResourceValue)
	texture, err := scene.Store.Texture(tex.Tag)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	if scene.Store.ClassID(texture.Image) != interfaces.ClassImage {
		t.Errorf("texture image did not resolve")
	}

	// the struct refers to a type that is declared after it
	params := scene.Expr("params").(*ir.ExprConstant).V.(*types.CompoundValue)
	if s := params.String(); s != "::m::params(slow, ::m::inner(0.25))" {
		t.Errorf("unexpected struct value: %s", s)
	}
	if !params.T.IsUser() {
		t.Errorf("expected a user type")
	}

	if _, ok := scene.Expr("none").(*ir.ExprConstant).V.(*types.InvalidDFValue); !ok {
		t.Errorf("expected an invalid df value")
	}
	if p, ok := scene.Expr("arg").(*ir.ExprParameter); !ok || p.Index != 0 {
		t.Errorf("expected parameter 0")
	}
}

func TestParseSceneErrors(t *testing.T) {
	code := `
types:
  - name: "::m::e"
    enum: [{name: a, code: 0}]
    fields: [{name: x, type: int}]
records:
  - name: f
    class: no_such_class
  - name: g
    class: function_call
    definition: missing
  - name: g
    class: image
  - class: image
exprs:
  - name: x
    expr: {type: int, value: 1.5}
  - name: x
    expr: {type: int, value: 1}
  - name: y
    expr: {type: int, call: f, parameter: 0}
  - name: z
    expr: {type: bsdf, value: 1}
`
	_, err := ParseScene([]byte(code))
	if err == nil {
		t.Errorf("expected an error")
		return
	}
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Errorf("expected every error at once, got: %T", err)
		return
	}
	// both vs enum/struct, class, definition, duplicate record, no name,
	// bad int, duplicate expression, two kinds, df value
	if n := len(merr.Errors); n != 9 {
		t.Errorf("expected 9 errors, got %d: %+v", n, err)
	}
	found := false
	for _, e := range merr.Errors {
		if errors.Is(e, interfaces.ErrNotFound) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a missing record error")
	}
}

func TestParseSceneInvalid(t *testing.T) {
	if _, err := ParseScene([]byte("records: {")); err == nil || !strings.Contains(err.Error(), "invalid yaml") {
		t.Errorf("expected a yaml error, got: %+v", err)
	}
	if _, err := LoadScene(afero.NewMemMapFs(), "/missing.yaml"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestParseClass(t *testing.T) {
	for _, s := range []string{"function_definition", "FunctionDefinition", "functionDefinition", " function-definition "} {
		c, err := parseClass(s)
		if err != nil || c != interfaces.ClassFunctionDefinition {
			t.Errorf("could not parse %q: %v, %+v", s, c, err)
		}
	}
	if c, err := parseClass("BSDFMeasurement"); err != nil || c != interfaces.ClassBSDFMeasurement {
		t.Errorf("could not parse BSDFMeasurement: %v, %+v", c, err)
	}
	if _, err := parseClass("none"); err == nil {
		t.Errorf("expected an error")
	}
}
