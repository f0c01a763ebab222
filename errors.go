/*
Copyright © 2024 the colchem authors.
This file is part of colchem.

colchem is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

colchem is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with colchem.  If not, see <http://www.gnu.org/licenses/>.
*/

package colchem

import (
	"errors"
	"fmt"

	"github.com/spatialmodel/colchem/comm"
	"github.com/spatialmodel/colchem/science/aero/amicphys"
	"github.com/spatialmodel/colchem/science/aero/wateruptake"
	"github.com/spatialmodel/colchem/science/chem/gaschem"
	"github.com/spatialmodel/colchem/science/chem/linoz"
	"github.com/spatialmodel/colchem/science/photolysis"
)

// Kind classifies errors. Every Kind is fatal to the run.
type Kind int

// Error kinds.
const (
	ConfigurationError Kind = iota + 1
	TableAccessError
	FieldContractViolation
	NumericalDomainError
	CollectiveMismatch
)

func (k Kind) String() string {
	switch k {
	case ConfigurationError:
		return "configuration error"
	case TableAccessError:
		return "table access error"
	case FieldContractViolation:
		return "field contract violation"
	case NumericalDomainError:
		return "numerical domain error"
	case CollectiveMismatch:
		return "collective mismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error implements error so that a Kind can be the target of errors.Is.
func (k Kind) Error() string { return k.String() }

// Sentinels for errors.Is.
var (
	ErrConfiguration   error = ConfigurationError
	ErrTableAccess     error = TableAccessError
	ErrFieldContract   error = FieldContractViolation
	ErrNumericalDomain error = NumericalDomainError
	ErrCollective      error = CollectiveMismatch
)

// Error is an error with the context in which it occurred.
type Error struct {
	Kind    Kind
	Process string
	Column  int // -1 if unknown
	Level   int // -1 if unknown
	Err     error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("colchem: %s: %v", e.Kind, e.Process)
	if e.Column >= 0 {
		s += fmt.Sprintf(": column %d", e.Column)
	}
	if e.Level >= 0 {
		s += fmt.Sprintf(": level %d", e.Level)
	}
	return s + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is e's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// leafKinds maps errors from the science packages to their Kind.
var leafKinds = []struct {
	err  error
	kind Kind
}{
	{photolysis.ErrFileAccess, TableAccessError},
	{photolysis.ErrTableFormat, TableAccessError},
	{linoz.ErrClimatology, TableAccessError},
	{comm.ErrMismatch, CollectiveMismatch},
	{comm.ErrAborted, CollectiveMismatch},
	{wateruptake.ErrNonPhysical, NumericalDomainError},
	{gaschem.ErrNonFinite, NumericalDomainError},
	{gaschem.ErrNotConverged, NumericalDomainError},
	{amicphys.ErrNonFinite, NumericalDomainError},
}

// wrap returns err with its context. The Kind is taken from err if it is
// already an *Error or wraps a known science error, and is otherwise
// fallback.
func wrap(fallback Kind, process string, col, lev int, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	kind := fallback
	for _, l := range leafKinds {
		if errors.Is(err, l.err) {
			kind = l.kind
			break
		}
	}
	return &Error{Kind: kind, Process: process, Column: col, Level: lev, Err: err}
}

// configErrorf returns a ConfigurationError for process.
func configErrorf(process, format string, args ...interface{}) error {
	return &Error{Kind: ConfigurationError, Process: process, Column: -1, Level: -1, Err: fmt.Errorf(format, args...)}
}
