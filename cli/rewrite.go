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


package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	cliUtil "github.com/purpleidea/mdlast/cli/util"
	"github.com/purpleidea/mdlast/lang/ast"
	"github.com/purpleidea/mdlast/lang/interfaces"
	"github.com/purpleidea/mdlast/lang/rewrite"
	"github.com/purpleidea/mdlast/lang/store"
	"github.com/purpleidea/mdlast/prometheus"
	"github.com/purpleidea/mdlast/util"
	"github.com/purpleidea/mdlast/util/errwrap"

	"github.com/sanity-io/litter"
	"github.com/spf13/afero"
)

// RewriteArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `rewrite` subcommand.
type RewriteArgs struct {
	Input string `arg:"positional,required" help:"scene file to read"`

	Exprs []string `arg:"--expr,separate" help:"only rewrite the named expressions"`

	MaxDepth int `arg:"--max-depth" help:"recursion limit while rewriting, zero for the default"`

	Dump bool `arg:"--dump" help:"also dump the produced syntax trees"`

	Strict bool `arg:"--strict" help:"fail if any data problems were reported"`

	Prometheus       bool   `arg:"--prometheus" help:"start a prometheus instance"`
	PrometheusListen string `arg:"--prometheus-listen" help:"specify prometheus instance binding"`

	// fs is where the scene is read from. Nil means the real filesystem.
	fs afero.Fs `arg:"-"`

	// out is where the results are written. Nil means stdout.
	out io.Writer `arg:"-"`
}

// Run executes the correct subcommand. It errors if there's ever an error. It
// returns true if we did activate one of the subcommands. It returns false if
// we did not. This particular Run is the run for the main `rewrite`
// subcommand.
func (obj *RewriteArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	cliUtil.Hello(data.Program, data.Version, data.Flags) // say hello!
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf("main: "+format, v...)
	}
	defer Logf("goodbye!")

	fs := obj.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	out := obj.out
	if out == nil {
		out = os.Stdout
	}

	scene, err := store.LoadScene(fs, obj.Input)
	if err != nil {
		return false, errwrap.Wrapf(err, "can't load scene")
	}

	exprs := scene.Exprs
	if len(obj.Exprs) > 0 {
		exprs = []*store.NamedExpr{}
		for _, name := range util.StrRemoveDuplicatesInList(obj.Exprs) {
			expr := scene.Expr(name)
			if expr == nil {
				return false, fmt.Errorf("no expression named: %s", name)
			}
			exprs = append(exprs, &store.NamedExpr{Name: name, Expr: expr})
		}
	}

	var prom *prometheus.Prometheus
	if obj.Prometheus {
		prom = &prometheus.Prometheus{
			Listen: obj.PrometheusListen,
			Logf:   Logf,
		}
		if err := prom.Init(); err != nil {
			return false, errwrap.Wrapf(err, "can't initiate Prometheus instance")
		}
		Logf("Prometheus: Starting instance on %s", prom.Listen)
		if err := prom.Start(); err != nil {
			return false, errwrap.Wrapf(err, "can't start initiate Prometheus instance")
		}
		defer func() {
			if err := prom.Stop(); err != nil {
				Logf("Prometheus: error stopping: %+v", err)
			}
		}()
	}

	diags := &interfaces.DiagnosticList{}
	builder := &rewrite.Builder{
		Store:      scene.Store,
		Symbols:    ast.NewSymbolTable(),
		Args:       scene.Args,
		Sink:       diags,
		Prometheus: prom,
		MaxDepth:   obj.MaxDepth,
		Debug:      data.Flags.Debug,
		Logf: func(format string, v ...interface{}) {
			data.Flags.Logf("rewrite: "+format, v...)
		},
	}
	if err := builder.Init(); err != nil {
		return false, errwrap.Wrapf(err, "can't init the rewriter")
	}

	var reterr error
	for _, x := range exprs {
		if err := ctx.Err(); err != nil {
			return false, errwrap.Wrapf(err, "interrupted")
		}
		expr, err := builder.Build(x.Expr)
		if err != nil && !interfaces.IsInvariant(err) {
			return false, errwrap.Wrapf(err, "expression %s", x.Name)
		}
		if err != nil { // a malformed expression doesn't stop the others
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "expression %s", x.Name))
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", x.Name, expr)
		if data.Flags.Verbose {
			nodes := 0
			ast.Walk(expr, func(ast.Expr) error {
				nodes++
				return nil
			})
			Logf("%s: %d nodes", x.Name, nodes)
		}
		if obj.Dump {
			fmt.Fprintf(out, "%s\n", litter.Sdump(expr))
		}
	}

	for _, sym := range builder.UsedUserTypes() {
		fmt.Fprintf(out, "uses: %s\n", sym.Name)
	}

	for _, diag := range diags.Diagnostics {
		Logf("%s", diag)
	}
	if obj.Strict && diags.Len() > 0 {
		reterr = errwrap.Append(reterr, fmt.Errorf("%d data problem(s) reported", diags.Len()))
	}

	if data.Flags.Verbose {
		Logf("rewrote %d expression(s)", len(exprs))
	}
	return true, reterr
}
