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

// Package ast contains the syntax tree that the rewriter produces. The nodes
// mirror what a source level material description would contain, and each one
// renders itself as source text with String, so a printer or compiler further
// down the line can consume either the nodes or the text.
package ast

import (
	"sort"
)

// Symbol is an interned identifier. Two names refer to the same entity when
// they hold the same *Symbol.
type Symbol struct {
	Name string
	ID   int

	// User is set on the symbols of user defined types.
	User bool
}

// String returns the name of this symbol.
func (obj *Symbol) String() string {
	if obj == nil {
		return "<nil>"
	}
	return obj.Name
}

// SymbolTable interns names. It is not safe for concurrent use, just like the
// builder session which owns it.
type SymbolTable struct {
	symbols map[string]*Symbol
	users   map[string]*Symbol
	next    int
	err     *Symbol
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
		users:   make(map[string]*Symbol),
		next:    1,
	}
}

// Symbol returns the symbol for name, creating it on first use.
func (obj *SymbolTable) Symbol(name string) *Symbol {
	if sym, exists := obj.symbols[name]; exists {
		return sym
	}
	sym := &Symbol{Name: name, ID: obj.next}
	obj.next++
	obj.symbols[name] = sym
	return sym
}

// UserTypeSymbol returns the symbol for the user defined type called name. It
// is distinct from a plain symbol of the same spelling.
func (obj *SymbolTable) UserTypeSymbol(name string) *Symbol {
	if sym, exists := obj.users[name]; exists {
		return sym
	}
	sym := &Symbol{Name: name, ID: obj.next, User: true}
	obj.next++
	obj.users[name] = sym
	return sym
}

// ErrorSymbol returns the symbol used in place of a name that could not be
// determined.
func (obj *SymbolTable) ErrorSymbol() *Symbol {
	if obj.err == nil {
		obj.err = &Symbol{Name: "<ERROR>", ID: 0}
	}
	return obj.err
}

// Len returns the number of interned symbols of both kinds.
func (obj *SymbolTable) Len() int {
	return len(obj.symbols) + len(obj.users)
}

// Names returns the sorted names of the plain symbols. It's useful in tests.
func (obj *SymbolTable) Names() []string {
	names := []string{}
	for name := range obj.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

