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

package ast

import (
	"fmt"
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	testCases := []struct {
		value Value
		exp   string
	}{
		{&BoolValue{V: false}, "false"},
		{&IntValue{V: -7}, "-7"},
		{&FloatValue{V: 1}, "1.0"},
		{&FloatValue{V: 0.1}, "0.1"},
		{&FloatValue{V: 1e20}, "1e+20"},
		{&FloatValue{V: float32(math.Inf(1))}, "+Inf"},
		{&DoubleValue{V: 2}, "2.0d"},
		{&StringValue{V: "a\nb"}, `"a\nb"`},
		{NewInt2Zero(), "int2(0, 0)"},
		{&InvalidRefValue{T: EDF}, "edf()"},
		{&TextureValue{Resource: Resource{URL: "a.png"}, T: &TextureType{Shape: Shape3D}}, `texture_3d("a.png")`},
		{&LightProfileValue{Resource: Resource{TagID: 3}}, "light_profile(/* tag 3, hash 0000000000000000 */)"},
	}
	for index, tc := range testCases {
		if s := tc.value.String(); s != tc.exp {
			t.Errorf("test #%d: expected: %s, got: %s", index, tc.exp, s)
		}
	}
}

func TestExprString(t *testing.T) {
	syms := NewSymbolTable()
	ref := func(names ...string) *ExprReference {
		qname := &QualifiedName{}
		for _, x := range names {
			qname.Add(&SimpleName{Sym: syms.Symbol(x)})
		}
		return &ExprReference{Name: &TypeName{Name: qname}}
	}
	one := &ExprLiteral{V: &IntValue{V: 1}}

	call := &ExprCall{Ref: ref("f")}
	call.Add(&Argument{Expr: one})
	call.Add(&Argument{Name: &SimpleName{Sym: syms.Symbol("b")}, Expr: ref("x")})

	testCases := []struct {
		expr Expr
		exp  string
	}{
		{&ExprUnary{Op: OpLogicalNot, Arg: ref("x")}, "(!x)"},
		{&ExprUnary{Op: OpPostDecrement, Arg: ref("x")}, "(x--)"},
		{&ExprBinary{Op: OpShiftLeft, Left: one, Right: one}, "(1 << 1)"},
		{&ExprBinary{Op: OpSelect, Left: ref("s"), Right: ref("f")}, "s.f"},
		{&ExprBinary{Op: OpArrayIndex, Left: ref("a"), Right: one}, "a[1]"},
		{&ExprConditional{Cond: ref("c"), True: one, False: ref("x")}, "(c ? 1 : x)"},
		{call, "f(1, b: x)"},
		{ref("a", "b"), "a::b"},
		{&ExprInvalid{}, "<invalid>"},
	}
	for index, tc := range testCases {
		if s := tc.expr.String(); s != tc.exp {
			t.Errorf("test #%d: expected: %s, got: %s", index, tc.exp, s)
		}
	}
}

func TestTypeNameString(t *testing.T) {
	syms := NewSymbolTable()
	qname := &QualifiedName{Absolute: true}
	qname.Add(&SimpleName{Sym: syms.Symbol("m")})
	qname.Add(&SimpleName{Sym: syms.Symbol("s")})

	tn := &TypeName{Name: qname, Qualifier: QualUniform, Incomplete: true}
	if s := tn.String(); s != "uniform ::m::s[]" {
		t.Errorf("unexpected type name: %s", s)
	}
	tn.ArraySize = &ExprLiteral{V: &IntValue{V: 2}}
	if s := tn.String(); s != "uniform ::m::s[2]" {
		t.Errorf("unexpected type name: %s", s)
	}
	if !tn.IsArray() {
		t.Errorf("expected an array")
	}
}

func TestTypeString(t *testing.T) {
	syms := NewSymbolTable()
	testCases := []struct {
		typ Type
		exp string
	}{
		{Float, "float"},
		{&VectorType{Elem: Bool, Size: 3}, "bool3"},
		{&MatrixType{Col: &VectorType{Elem: Float, Size: 2}, Cols: 4}, "float4x2"},
		{&ArrayType{Elem: Int, Size: 3}, "int[3]"},
		{&ArrayType{Elem: Color, Deferred: syms.Symbol("n")}, "color[n]"},
		{GammaModeEnum, "::tex::gamma_mode"},
		{&StructType{Sym: syms.UserTypeSymbol("::m::s")}, "::m::s"},
		{BSDF, "bsdf"},
		{Error, "<error>"},
	}
	for index, tc := range testCases {
		if s := tc.typ.String(); s != tc.exp {
			t.Errorf("test #%d: expected: %s, got: %s", index, tc.exp, s)
		}
	}
	if !IsReference(VDF) || !IsReference(LightProfile) || IsReference(Color) {
		t.Errorf("unexpected reference classification")
	}
	if !IsTexture2D(&TextureType{Shape: Shape2D}) || IsTexture2D(&TextureType{Shape: ShapeCube}) || IsTexture2D(nil) {
		t.Errorf("unexpected texture classification")
	}
}

func TestSymbolTable(t *testing.T) {
	syms := NewSymbolTable()
	a := syms.Symbol("a")
	if syms.Symbol("a") != a {
		t.Errorf("expected the interned symbol")
	}
	u := syms.UserTypeSymbol("a")
	if u == a || !u.User {
		t.Errorf("expected a distinct user type symbol")
	}
	if syms.UserTypeSymbol("a") != u {
		t.Errorf("expected the interned user type symbol")
	}
	syms.Symbol("b")
	if syms.Len() != 3 {
		t.Errorf("expected 3 symbols, got: %d", syms.Len())
	}
	if s := fmt.Sprintf("%v", syms.Names()); s != "[a b]" {
		t.Errorf("unexpected names: %s", s)
	}
	if syms.ErrorSymbol() != syms.ErrorSymbol() {
		t.Errorf("expected one error symbol")
	}
}

func TestWalk(t *testing.T) {
	syms := NewSymbolTable()
	qname := &QualifiedName{}
	qname.Add(&SimpleName{Sym: syms.Symbol("f")})
	call := &ExprCall{Ref: &ExprReference{Name: &TypeName{Name: qname}}}
	call.Add(&Argument{Expr: &ExprUnary{Op: OpNegative, Arg: &ExprLiteral{V: &IntValue{V: 1}}}})
	call.Add(&Argument{Expr: &ExprLiteral{V: &IntValue{V: 2}}})

	seen := []string{}
	err := Walk(call, func(expr Expr) error {
		seen = append(seen, fmt.Sprintf("%T", expr))
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	exp := "[*ast.ExprCall *ast.ExprReference *ast.ExprUnary *ast.ExprLiteral *ast.ExprLiteral]"
	if s := fmt.Sprintf("%v", seen); s != exp {
		t.Errorf("unexpected walk: %s", s)
	}

	stop := fmt.Errorf("stop")
	count := 0
	err = Walk(call, func(expr Expr) error {
		count++
		if _, ok := expr.(*ExprUnary); ok {
			return stop
		}
		return nil
	})
	if err != stop || count != 3 {
		t.Errorf("expected the walk to stop, got: %v after %d", err, count)
	}
}
