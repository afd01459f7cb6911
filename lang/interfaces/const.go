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

const (
	// ScopeSep is the separator between the components of a qualified name
	// such as `::df::diffuse_reflection_bsdf`. A leading ScopeSep makes a
	// name absolute.
	ScopeSep = "::"

	// SignatureStart begins the parameter signature suffix of a mangled
	// definition name, as in `::state::normal()`.
	SignatureStart = "("

	// DeprecatedMarker begins the version suffix that the store appends to
	// the names of deprecated definitions, as in `::df::spot_edf$1.0`.
	DeprecatedMarker = "$"

	// ModuleMarker is found in the mangled names of definitions that live in
	// an mdle container, whose module path may contain dots of its own.
	ModuleMarker = ".mdle::"

	// TemporaryPrefix is the prefix of the names of fresh temporaries.
	TemporaryPrefix = "tmp"

	// DefaultMaxDepth is the default recursion ceiling of a builder session.
	DefaultMaxDepth = 4096
)
