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
	"fmt"
)

// Severity is the severity of a diagnostic.
type Severity int

// These are the severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a short name for the severity.
func (obj Severity) String() string {
	switch obj {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(obj))
}

// Category groups diagnostics by their origin.
type Category string

const (
	// CategoryDatabase is used for problems with store records.
	CategoryDatabase Category = "database"

	// CategoryResource is used for resources that can't be resolved.
	CategoryResource Category = "resource"
)

// Diagnostic is a message about a data problem that the rewriter recovered
// from.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message  string
}

// String returns a one line representation of this diagnostic.
func (obj *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", obj.Severity, obj.Category, obj.Message)
}

// Sink receives diagnostics. It is not consumed any further by the rewriter.
type Sink interface {
	Emit(diag *Diagnostic)
}

// DiagnosticList is a Sink which keeps every diagnostic in order.
type DiagnosticList struct {
	Diagnostics []*Diagnostic
}

// Emit records the diagnostic.
func (obj *DiagnosticList) Emit(diag *Diagnostic) {
	obj.Diagnostics = append(obj.Diagnostics, diag)
}

// Len returns the number of recorded diagnostics.
func (obj *DiagnosticList) Len() int {
	return len(obj.Diagnostics)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(diag *Diagnostic)

// Emit calls the function.
func (fn SinkFunc) Emit(diag *Diagnostic) { fn(diag) }
