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


// Package cli parses the command line of mdlast and runs the chosen
// subcommand on a scene file.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	cliUtil "github.com/purpleidea/mdlast/cli/util"
	"github.com/purpleidea/mdlast/util/errwrap"

	"github.com/alexflint/go-arg"
)

// CLI parses data.Args and runs the subcommand it names. With no subcommand it
// prints the usage.
func CLI(ctx context.Context, data *cliUtil.Data) error {
	if err := validate(data); err != nil {
		return err
	}
	if data.Flags.Logf == nil {
		data.Flags.Logf = func(format string, v ...interface{}) {}
	}

	args := &Args{
		version:     data.Version,
		description: data.Tagline,
	}
	parser, err := arg.NewParser(arg.Config{Program: data.Program}, args)
	if err != nil {
		return errwrap.Wrapf(err, "invalid argument struct") // a bug in Args
	}

	switch err := parser.Parse(data.Args[1:]); err {
	case nil:
	case arg.ErrHelp:
		parser.WriteHelp(os.Stdout)
		return nil
	case arg.ErrVersion:
		fmt.Println(data.Version)
		return nil
	default:
		return cliUtil.CliParseError(err)
	}

	if args.License {
		return printLicense(os.Stdout, data.Copying)
	}

	ok, err := args.Run(ctx, data)
	if err != nil || ok {
		return err
	}
	parser.WriteUsage(os.Stdout)
	return nil
}

// validate checks the values that main compiles in.
func validate(data *cliUtil.Data) error {
	if data == nil {
		return fmt.Errorf("no cli data")
	}
	if data.Program == "" || data.Version == "" {
		return fmt.Errorf("program name or version is missing from the build")
	}
	if data.Copying == "" {
		return fmt.Errorf("license text is missing from the build")
	}
	if len(data.Args) == 0 {
		return fmt.Errorf("missing program name in args")
	}
	return nil
}

func printLicense(w io.Writer, copying string) error {
	_, err := io.WriteString(w, copying)
	return err
}

// Args is the top level of the command line.
type Args struct {
	License bool `arg:"--license" help:"display the license and exit"`

	RewriteCmd *RewriteArgs `arg:"subcommand:rewrite" help:"rewrite the expressions of a scene into mdl source"`

	ListCmd *ListArgs `arg:"subcommand:list" help:"list the records and expressions of a scene"`

	version     string `arg:"-"`
	description string `arg:"-"`
}

// Version is read by go-arg for --version.
func (obj *Args) Version() string {
	return obj.version
}

// Description is read by go-arg for the help header.
func (obj *Args) Description() string {
	return obj.description
}

// Run runs the chosen subcommand. The bool is false when none was given.
func (obj *Args) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
	var cmd interface {
		Run(context.Context, *cliUtil.Data) (bool, error)
	}
	switch {
	case obj.RewriteCmd != nil:
		cmd = obj.RewriteCmd
	case obj.ListCmd != nil:
		cmd = obj.ListCmd
	default:
		return false, nil
	}
	if data.Flags.Debug {
		data.Flags.Logf("cli: subcommand: %s", cliUtil.LookupSubcommand(obj, cmd))
	}
	return cmd.Run(ctx, data)
}
