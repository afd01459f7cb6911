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
	"github.com/purpleidea/mdlast/lang/store"
	"github.com/purpleidea/mdlast/util/errwrap"

	"github.com/spf13/afero"
)

// ListArgs is the CLI parsing structure and type of the parsed result. This
// particular one contains all the flags for the `list` subcommand.
type ListArgs struct {
	Input string `arg:"positional,required" help:"scene file to read"`

	fs  afero.Fs  `arg:"-"`
	out io.Writer `arg:"-"`
}

// Run prints every record of the scene with its class and version, and then the
// names of its expressions.
func (obj *ListArgs) Run(ctx context.Context, data *cliUtil.Data) (bool, error) {
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

	for _, name := range scene.Store.Names() {
		tag, _ := scene.Store.Lookup(name)
		fmt.Fprintf(out, "record: %s (%s, v%d)\n", name, scene.Store.ClassID(tag), scene.Store.TagVersion(tag))
	}
	for _, x := range scene.Exprs {
		fmt.Fprintf(out, "expr: %s\n", x.Name)
	}
	return true, nil
}
