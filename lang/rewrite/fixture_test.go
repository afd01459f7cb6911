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
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/store"
	"github.com/purpleidea/mdlast/lang/types"
)

// fixture is a store with a few resources that most tests share.
type fixture struct {
	st    *store.Memory
	diags *interfaces.DiagnosticList

	wood    types.Tag // texture_2d, gamma 2.2, wood.png
	volume  types.Tag // texture, gamma 0, vol.vdb
	broken  types.Tag // texture without an image
	image   types.Tag // the image of wood
	profile types.Tag // light profile a.ies
}

func newFixture(t *testing.T) *fixture {
	obj := &fixture{
		st:    store.NewMemory(),
		diags: &interfaces.DiagnosticList{},
	}
	obj.image = obj.add(t, "wood_image", &interfaces.Image{OriginalFilename: "wood.png"})
	obj.wood = obj.add(t, "wood", &interfaces.Texture{Image: obj.image, Gamma: 2.2})
	vol := obj.add(t, "vol_image", &interfaces.Image{OriginalFilename: "vol.vdb"})
	obj.volume = obj.add(t, "vol", &interfaces.Texture{Image: vol})
	obj.broken = obj.add(t, "broken", &interfaces.Texture{})
	obj.profile = obj.add(t, "profile", &interfaces.LightProfile{OriginalFilename: "a.ies"})
	return obj
}

func (obj *fixture) add(t *testing.T, name string, data interface{}) types.Tag {
	t.Helper()
	tag, err := obj.st.Add(name, data)
	if err != nil {
		t.Fatalf("could not add %s: %+v", name, err)
	}
	return tag
}

// def adds a function definition.
func (obj *fixture) def(t *testing.T, name string, sema types.Semantic, params int) types.Tag {
	t.Helper()
	return obj.add(t, name, &interfaces.FunctionDefinition{
		Name:           name,
		Semantic:       sema,
		ParameterCount: params,
	})
}

// call adds a call of def and returns an expression that refers to it.
func (obj *fixture) call(t *testing.T, def types.Tag, ret *types.Type, args *ir.ExprList) ir.Expr {
	t.Helper()
	tag := obj.add(t, "", &interfaces.FunctionCall{Definition: def, Args: args})
	return &ir.ExprCall{T: ret, Call: tag}
}

func (obj *fixture) builder(t *testing.T, args *ir.ExprList) *Builder {
	t.Helper()
	b := &Builder{
		Store:   obj.st,
		Symbols: ast.NewSymbolTable(),
		Args:    args,
		Sink:    obj.diags,
		Debug:   testing.Verbose(), // set via the -test.v flag to `go test`
		Logf: func(format string, v ...interface{}) {
			t.Logf("rewrite: "+format, v...)
		},
	}
	if err := b.Init(); err != nil {
		t.Fatalf("could not init builder: %+v", err)
	}
	return b
}

func constant(v types.Value) ir.Expr {
	return &ir.ExprConstant{V: v}
}

func fc(v float32) ir.Expr { return constant(&types.FloatValue{V: v}) }

func ic(v int32) ir.Expr { return constant(&types.IntValue{V: v}) }

func bc(v bool) ir.Expr { return constant(&types.BoolValue{V: v}) }

func sc(v string) ir.Expr { return constant(&types.StringValue{V: v}) }

func tc(tag types.Tag, shape types.Shape) ir.Expr {
	return constant(&types.ResourceValue{T: types.NewTexture(shape), Tag: tag})
}
