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
	"errors"
	"fmt"
	"testing"

	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/util"
)

func TestQualifiedName(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		absolute bool
		parts    int
		scope    string
	}{
		{"absolute", "::df::spot_edf", true, 2, "::df"},
		{"relative", "state::normal", false, 2, "state"},
		{"simple", "color", false, 1, ""},
		{"deep", "::a::b::c::d", true, 4, "::a::b::c"},
		{"only separator", "::", false, 2, ""},
	}
	names := []string{}
	for index, tc := range testCases { // run all the tests
		if util.StrInList(tc.name, names) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			f := newFixture(t)
			b := f.builder(t, nil)

			qname, err := b.QualifiedName(tc.in)
			if err != nil {
				t.Errorf("test #%d: unexpected error: %+v", index, err)
				return
			}
			if qname.Absolute != tc.absolute {
				t.Errorf("test #%d: expected absolute: %t", index, tc.absolute)
			}
			if n := len(qname.Components); n != tc.parts {
				t.Errorf("test #%d: expected %d components, got: %d", index, tc.parts, n)
			}
			if tc.in != "::" && qname.String() != tc.in {
				t.Errorf("test #%d: round trip failed: %s != %s", index, qname, tc.in)
			}

			scope, err := b.ScopeName(tc.in)
			if err != nil {
				t.Errorf("test #%d: unexpected error: %+v", index, err)
				return
			}
			if s := scope.String(); s != tc.scope && !(tc.scope == "" && s == "::") {
				t.Errorf("test #%d: expected scope %q, got: %q", index, tc.scope, s)
			}
		})
	}
}

func TestSimpleName(t *testing.T) {
	f := newFixture(t)
	b := f.builder(t, nil)

	if _, err := b.SimpleName("a::b"); !errors.Is(err, interfaces.ErrInvariant) {
		t.Errorf("expected an invariant violation, got: %+v", err)
	}
	s1, err := b.SimpleName("x")
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	s2, _ := b.SimpleName("x")
	if s1.Sym != s2.Sym {
		t.Errorf("expected the same symbol for the same name")
	}
}

func TestTemporarySymbol(t *testing.T) {
	f := newFixture(t)
	b := f.builder(t, nil)

	for i := 0; i < 3; i++ {
		if s, exp := b.TemporarySymbol().Name, fmt.Sprintf("tmp%d", i); s != exp {
			t.Errorf("expected %s, got: %s", exp, s)
		}
	}

	// a new session starts from zero again
	if s := f.builder(t, nil).TemporarySymbol().Name; s != "tmp0" {
		t.Errorf("expected tmp0, got: %s", s)
	}
}

func TestNameHelpers(t *testing.T) {
	testCases := []struct {
		in         string
		unmangled  string
		deprecated string
	}{
		{"::df::spot_edf(float,bool)", "::df::spot_edf", "::df::spot_edf(float,bool)"},
		{"::df::spot_edf$1.0(float)", "::df::spot_edf$1.0", "::df::spot_edf"},
		{"::df::spot_edf$1.0", "::df::spot_edf$1.0", "::df::spot_edf"},
		{"::a$b::f$1.3", "::a$b::f$1.3", "::a$b::f"},
		{"plain", "plain", "plain"},
	}
	for index, tc := range testCases {
		if s := Unmangle(tc.in); s != tc.unmangled {
			t.Errorf("test #%d: expected unmangled %s, got: %s", index, tc.unmangled, s)
		}
		if s := RemoveDeprecated(tc.in); s != tc.deprecated {
			t.Errorf("test #%d: expected %s, got: %s", index, tc.deprecated, s)
		}
	}
}

func TestFieldName(t *testing.T) {
	testCases := []struct {
		in    string
		field string
		ok    bool
	}{
		{"material_surface.scattering", "scattering", true},
		{"::m::s.x", "x", true},
		{"mdl::/lib/base.mdle::material_surface.scattering", "scattering", true},
		{"mdl::C:/a.b/c.mdle::s.a.b", "b", true},
		{"material_surface", "", false},
		{"material_surface.", "", false},
		{"mdl::/lib/base.mdle::s", "", false},
	}
	for index, tc := range testCases {
		field, ok := FieldName(tc.in)
		if ok != tc.ok || field != tc.field {
			t.Errorf("test #%d: FieldName(%q) = %q, %t, expected: %q, %t", index, tc.in, field, ok, tc.field, tc.ok)
		}
	}
}
