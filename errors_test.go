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
	"strings"
	"testing"

	"github.com/spatialmodel/colchem/comm"
	"github.com/spatialmodel/colchem/science/aero/amicphys"
	"github.com/spatialmodel/colchem/science/aero/wateruptake"
	"github.com/spatialmodel/colchem/science/photolysis"
)

func TestWrap(t *testing.T) {
	for _, test := range []struct {
		err  error
		want error
	}{
		{fmt.Errorf("photolysis: x.nc: %w", photolysis.ErrTableFormat), ErrTableAccess},
		{fmt.Errorf("%w: dry diameter", wateruptake.ErrNonPhysical), ErrNumericalDomain},
		{fmt.Errorf("%w: so4_a1", amicphys.ErrNonFinite), ErrNumericalDomain},
		{comm.ErrMismatch, ErrCollective},
		{errors.New("unknown"), ErrConfiguration},
	} {
		err := wrap(ConfigurationError, processName, 3, 7, test.err)
		if !errors.Is(err, test.want) {
			t.Errorf("%v: not %v", err, test.want)
		}
		if !errors.Is(err, test.err) {
			t.Errorf("%v does not wrap %v", err, test.err)
		}
	}
	if wrap(ConfigurationError, processName, -1, -1, nil) != nil {
		t.Error("wrapped nil error")
	}
}

func TestWrapKeepsContext(t *testing.T) {
	inner := wrap(NumericalDomainError, processName, 2, 5, amicphys.ErrNonFinite)
	outer := wrap(ConfigurationError, "other", -1, -1, fmt.Errorf("running: %w", inner))
	var e *Error
	if !errors.As(outer, &e) {
		t.Fatalf("%v is not an *Error", outer)
	}
	if e.Kind != NumericalDomainError || e.Column != 2 || e.Level != 5 || e.Process != processName {
		t.Errorf("context lost: %+v", e)
	}
	msg := inner.Error()
	for _, s := range []string{"numerical domain error", processName, "column 2", "level 5"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message %q does not contain %q", msg, s)
		}
	}
}

func TestKindString(t *testing.T) {
	if s := Kind(99).String(); s != "Kind(99)" {
		t.Errorf("unknown kind %q", s)
	}
	if errors.Is(configErrorf("p", "x"), ErrTableAccess) {
		t.Error("configuration error matches table access")
	}
}
