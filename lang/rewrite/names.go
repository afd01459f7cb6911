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
	"fmt"
	"strings"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/util/errwrap"
)

// SimpleName returns the simple name for an identifier. The identifier must
// not contain a scope separator, so callers split scoped names first.
func (obj *Builder) SimpleName(name string) (*ast.SimpleName, error) {
	if strings.Contains(name, interfaces.ScopeSep) {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "scoped identifier %q used as a simple name", name)
	}
	return &ast.SimpleName{Sym: obj.Symbols.Symbol(name)}, nil
}

// QualifiedName splits a scoped name like `::df::spot_edf` into its
// components. A leading separator makes the name absolute.
func (obj *Builder) QualifiedName(name string) (*ast.QualifiedName, error) {
	qname, rest := obj.scope(name)
	for {
		before, after, found := strings.Cut(rest, interfaces.ScopeSep)
		if !found {
			break
		}
		qname.Add(&ast.SimpleName{Sym: obj.Symbols.Symbol(before)})
		rest = after
	}
	sname, err := obj.SimpleName(rest)
	if err != nil {
		return nil, err
	}
	qname.Add(sname)
	return qname, nil
}

// ScopeName is like QualifiedName, but it drops the last component, leaving
// only the enclosing scope. The caller appends what it needs to that.
func (obj *Builder) ScopeName(name string) (*ast.QualifiedName, error) {
	qname, rest := obj.scope(name)
	for {
		before, after, found := strings.Cut(rest, interfaces.ScopeSep)
		if !found {
			break
		}
		qname.Add(&ast.SimpleName{Sym: obj.Symbols.Symbol(before)})
		rest = after
	}
	return qname, nil
}

// scope returns an empty qualified name, absolute if name starts with a scope
// separator, along with the rest of the name.
func (obj *Builder) scope(name string) (*ast.QualifiedName, string) {
	qname := &ast.QualifiedName{}
	if len(name) > len(interfaces.ScopeSep) && strings.HasPrefix(name, interfaces.ScopeSep) {
		qname.Absolute = true
		name = name[len(interfaces.ScopeSep):]
	}
	return qname, name
}

// TemporarySymbol returns a new temporary name: tmp0, tmp1 and so on. It does
// not check for clashes with names that already exist.
func (obj *Builder) TemporarySymbol() *ast.Symbol {
	name := fmt.Sprintf("%s%d", interfaces.TemporaryPrefix, obj.tmpIndex)
	obj.tmpIndex++
	return obj.Symbols.Symbol(name)
}

// reference returns a reference expression to the qualified name. The type
// may be nil if it is not known.
func (obj *Builder) reference(qname *ast.QualifiedName, t ast.Type) *ast.ExprReference {
	return &ast.ExprReference{
		Name: &ast.TypeName{Name: qname, T: t},
		T:    t,
	}
}

// symbolReference returns a reference expression to a single symbol.
func (obj *Builder) symbolReference(sym *ast.Symbol, t ast.Type) *ast.ExprReference {
	qname := &ast.QualifiedName{}
	qname.Add(&ast.SimpleName{Sym: sym})
	return obj.reference(qname, t)
}

// argument wraps an expression as a named or positional argument.
func (obj *Builder) argument(named bool, name string, expr ast.Expr) (*ast.Argument, error) {
	if !named {
		return &ast.Argument{Expr: expr}, nil
	}
	sname, err := obj.SimpleName(name)
	if err != nil {
		return nil, err
	}
	return &ast.Argument{Name: sname, Expr: expr}, nil
}

// Unmangle removes the parameter signature from a mangled definition name. It
// keeps the version suffix of deprecated definitions.
func Unmangle(name string) string {
	if i := strings.Index(name, interfaces.SignatureStart); i >= 0 {
		return name[:i]
	}
	return name
}

// RemoveDeprecated removes the version suffix of a deprecated definition name.
func RemoveDeprecated(name string) string {
	if i := strings.LastIndex(name, interfaces.DeprecatedMarker); i >= 0 {
		return name[:i]
	}
	return name
}

// FieldName returns the field that a field access definition selects. Its
// name is the type, a dot and the field, and the type may be prefixed by a
// module path which contains dots of its own.
func FieldName(name string) (string, bool) {
	s := name
	if i := strings.Index(s, interfaces.ModuleMarker); i >= 0 {
		s = s[i+len(interfaces.ModuleMarker):]
	}
	i := strings.LastIndex(s, ".")
	if i < 0 || i == len(s)-1 {
		return "", false
	}
	return s[i+1:], true
}
