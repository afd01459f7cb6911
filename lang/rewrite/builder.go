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

// Package rewrite turns the flattened expression graphs of the object store
// into syntax trees. Calls of built-ins whose signature changed over the
// language versions are migrated to the current signature on the way.
package rewrite

import (
	"fmt"

	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/ir"
	"github.com/purpleidea/mdlast/lang/resource"
	"github.com/purpleidea/mdlast/lang/types"
	"github.com/purpleidea/mdlast/prometheus"
	"github.com/purpleidea/mdlast/util/errwrap"
)

// mode is the substitution mode of a session.
type mode int

const (
	modeNone mode = iota
	modeDeclare
	modeSubstitute
)

// binding is what a bound expression is replaced with: a reference to a
// symbol, or an expression.
type binding struct {
	sym  *ast.Symbol
	expr ast.Expr
}

// Builder is one rewrite session. It is bound to one store view and one top
// level argument list, and it is not safe for concurrent use. Run Init() on
// it before use.
type Builder struct {
	// Store is the view of the object store for this session.
	Store interfaces.Store

	// Symbols interns the names of the produced tree.
	Symbols interfaces.SymbolTable

	// Args is the top level argument list that parameters refer to.
	Args *ir.ExprList

	// Sink receives the diagnostics about data problems.
	Sink interfaces.Sink

	// Prometheus counts what the session does. It may be nil.
	Prometheus *prometheus.Prometheus

	// MaxDepth is the recursion ceiling. Zero means the default.
	MaxDepth int

	Debug bool
	Logf  func(format string, v ...interface{})

	resolver *resource.Resolver

	tmpIndex int
	depth    int

	mode mode
	env  map[ir.Expr]*binding

	usedUserTypes []*ast.Symbol
}

// Init validates the session and prepares it for use.
func (obj *Builder) Init() error {
	if obj.Store == nil {
		return fmt.Errorf("the Store is missing")
	}
	if obj.Symbols == nil {
		return fmt.Errorf("the Symbols are missing")
	}
	if obj.Sink == nil {
		return fmt.Errorf("the Sink is missing")
	}
	if obj.Args == nil {
		obj.Args = ir.NewExprList()
	}
	if obj.MaxDepth < 0 {
		return fmt.Errorf("invalid MaxDepth of %d", obj.MaxDepth)
	}
	if obj.MaxDepth == 0 {
		obj.MaxDepth = interfaces.DefaultMaxDepth
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {}
	}

	obj.resolver = &resource.Resolver{
		Store:      obj.Store,
		Sink:       obj.Sink,
		Prometheus: obj.Prometheus,
		Debug:      obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("resource: "+format, v...)
		},
	}
	if err := obj.resolver.Init(); err != nil {
		return errwrap.Wrapf(err, "could not init the resolver")
	}

	obj.env = make(map[ir.Expr]*binding)
	return nil
}

// DeclareParameter binds an expression to a symbol. Wherever the expression
// occurs, a reference to the symbol is produced instead. This is used to build
// a reusable body whose parameters are the declared symbols.
func (obj *Builder) DeclareParameter(sym *ast.Symbol, init ir.Expr) error {
	if obj.mode == modeSubstitute {
		return errwrap.Wrapf(interfaces.ErrSubstitutionMode, "can't declare %s in a substituting session", sym)
	}
	obj.mode = modeDeclare
	obj.env[init] = &binding{sym: sym}
	return nil
}

// SubstituteParameter binds an expression to a replacement expression, which
// is produced wherever the bound expression occurs. This is used to inline the
// arguments of a caller.
func (obj *Builder) SubstituteParameter(init ir.Expr, replacement ast.Expr) error {
	if obj.mode == modeDeclare {
		return errwrap.Wrapf(interfaces.ErrSubstitutionMode, "can't substitute %s in a declaring session", init)
	}
	obj.mode = modeSubstitute
	obj.env[init] = &binding{expr: replacement}
	return nil
}

// RemoveParameters removes every binding, which ends the pass. The next pass
// may use either mode.
func (obj *Builder) RemoveParameters() {
	obj.env = make(map[ir.Expr]*binding)
	obj.mode = modeNone
}

// UsedUserTypes returns the symbols of the user types that calls returned,
// in order of use. Duplicates are kept.
func (obj *Builder) UsedUserTypes() []*ast.Symbol {
	return obj.usedUserTypes
}

// Build rewrites one expression. An error means the input violated an
// invariant and the tree was abandoned. Data problems are only reported to
// the Sink.
func (obj *Builder) Build(expr ir.Expr) (ast.Expr, error) {
	obj.depth = 0
	result, err := obj.transform(expr)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (obj *Builder) enter() error {
	obj.depth++
	if obj.depth > obj.MaxDepth {
		return errwrap.Wrapf(interfaces.ErrRecursionLimit, "nested deeper than %d", obj.MaxDepth)
	}
	return nil
}

func (obj *Builder) leave() {
	obj.depth--
}

// transform is the recursive step of Build.
func (obj *Builder) transform(expr ir.Expr) (ast.Expr, error) {
	if expr == nil {
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "nil expression")
	}
	if err := obj.enter(); err != nil {
		return nil, err
	}
	defer obj.leave()

	if b, exists := obj.env[expr]; exists {
		if b.sym != nil {
			return obj.symbolReference(b.sym, obj.TypeOf(expr.Type())), nil
		}
		return b.expr, nil
	}

	obj.Prometheus.UpdateExpressionsTotal(expr.Kind().String())

	switch x := expr.(type) {
	case *ir.ExprConstant:
		return obj.value(x.V)

	case *ir.ExprCall:
		c, err := obj.resolveCall(x)
		if err != nil {
			return nil, err
		}
		return obj.RewriteCall(c)

	case *ir.ExprDirectCall:
		c, err := obj.resolveDirectCall(x)
		if err != nil {
			return nil, err
		}
		return obj.RewriteCall(c)

	case *ir.ExprParameter:
		arg := obj.Args.Get(x.Index)
		if arg == nil {
			return nil, errwrap.Wrapf(interfaces.ErrUnboundParameter, "parameter %d", x.Index)
		}
		return obj.transform(arg)

	case *ir.ExprTemporary:
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected %s", x)
	}

	return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unexpected expression kind %s", expr.Kind())
}

// definitionName picks the name of the definition that a re-export refers to,
// or the own name otherwise.
func definitionName(name, original string) string {
	if original != "" {
		return Unmangle(original)
	}
	return Unmangle(name)
}

// resolveCall looks up the function call or material instance of expr.
func (obj *Builder) resolveCall(expr *ir.ExprCall) (*Call, error) {
	switch class := obj.Store.ClassID(expr.Call); class {
	case interfaces.ClassFunctionCall:
		fcall, err := obj.Store.FunctionCall(expr.Call)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "%s", err.Error())
		}
		def, err := obj.Store.FunctionDefinition(fcall.Definition)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "definition of %s: %s", obj.Store.TagName(expr.Call), err.Error())
		}
		return &Call{
			Return:   expr.Type(),
			Semantic: def.Semantic,
			Name:     definitionName(def.Name, def.OriginalName),
			Params:   fcall.Args.Len(),
			Args:     fcall.Args,
		}, nil

	case interfaces.ClassMaterialInstance:
		inst, err := obj.Store.MaterialInstance(expr.Call)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "%s", err.Error())
		}
		def, err := obj.Store.MaterialDefinition(inst.Definition)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "definition of %s: %s", obj.Store.TagName(expr.Call), err.Error())
		}
		return &Call{
			Return:   expr.Type(),
			Semantic: types.SemUnknown,
			Name:     definitionName(def.Name, def.OriginalName),
			Params:   def.ParameterCount,
			Args:     inst.Args,
			Named:    true,
		}, nil

	default:
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unsupported callee %s of class %s", expr.Call, class)
	}
}

// resolveDirectCall looks up the definition that expr calls.
func (obj *Builder) resolveDirectCall(expr *ir.ExprDirectCall) (*Call, error) {
	switch class := obj.Store.ClassID(expr.Definition); class {
	case interfaces.ClassFunctionDefinition:
		def, err := obj.Store.FunctionDefinition(expr.Definition)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "%s", err.Error())
		}
		return &Call{
			Return:   expr.Type(),
			Semantic: def.Semantic,
			Name:     definitionName(def.Name, def.OriginalName),
			Params:   def.ParameterCount,
			Args:     expr.Args,
		}, nil

	case interfaces.ClassMaterialDefinition:
		def, err := obj.Store.MaterialDefinition(expr.Definition)
		if err != nil {
			return nil, errwrap.Wrapf(interfaces.ErrInvariant, "%s", err.Error())
		}
		return &Call{
			Return:   expr.Type(),
			Semantic: types.SemUnknown,
			Name:     definitionName(def.Name, def.OriginalName),
			Params:   def.ParameterCount,
			Args:     expr.Args,
			Named:    true,
		}, nil

	default:
		return nil, errwrap.Wrapf(interfaces.ErrInvariant, "unsupported callee %s of class %s", expr.Definition, class)
	}
}
