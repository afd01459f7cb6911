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

package interfaces

import (
	"errors"

	"github.com/purpleidea/mdlast/util"
)

const (
	// ErrInvariant is at the bottom of every error caused by input that is
	// structurally impossible for well formed data. It signals a defect, not
	// routine control flow, and the rewrite of that one tree stops.
	ErrInvariant = util.Error("invariant violation")

	// ErrUnboundParameter is returned when a parameter reference has neither
	// a top level argument nor a substitution.
	ErrUnboundParameter = util.Error("parameter has no argument")

	// ErrRecursionLimit is returned when the expression graph is nested more
	// deeply than the configured ceiling.
	ErrRecursionLimit = util.Error("recursion limit exceeded")

	// ErrSubstitutionMode is returned when a session mixes symbol bindings
	// with expression substitutions.
	ErrSubstitutionMode = util.Error("substitution mode mismatch")

	// ErrNotFound is returned by a store for a tag it doesn't hold.
	ErrNotFound = util.Error("record not found")

	// ErrWrongClass is returned by a store when the record at a tag is not of
	// the requested class.
	ErrWrongClass = util.Error("record has the wrong class")
)

// IsInvariant returns true if err stopped a rewrite because of malformed input
// rather than a problem with the caller's setup.
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant) || errors.Is(err, ErrUnboundParameter) || errors.Is(err, ErrRecursionLimit)
}
