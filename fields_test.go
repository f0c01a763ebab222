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
	"testing"

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

func TestFieldsDeclare(t *testing.T) {
	f := NewFields(NewGrid(2, 4))
	if err := f.Declare("a",
		FieldSpec{Name: "T_mid", Intent: Required, Layout: Midpoints, Units: unit.Kelvin},
		FieldSpec{Name: "z_int", Intent: Computed, Layout: Interfaces, Units: unit.Meter},
	); err != nil {
		t.Fatal(err)
	}
	z := f.Get("z_int")
	if z == nil || len(z.Shape) != 2 || z.Shape[0] != 2 || z.Shape[1] != 5 {
		t.Fatalf("computed field not allocated with interface shape: %v", z)
	}

	// A second process updating the same field.
	if err := f.Declare("b", FieldSpec{Name: "T_mid", Intent: Computed, Layout: Midpoints, Units: unit.Kelvin}); err != nil {
		t.Fatal(err)
	}
	if s, _ := f.Spec("T_mid"); s.Intent != Updated {
		t.Errorf("merged intent %s, want updated", s.Intent)
	}

	err := f.Declare("c", FieldSpec{Name: "T_mid", Intent: Required, Layout: Midpoints, Units: unit.Pascal})
	if !errors.Is(err, ErrFieldContract) {
		t.Errorf("conflicting units: %v", err)
	}
	err = f.Declare("c", FieldSpec{Name: "T_mid", Intent: Required, Layout: Surface, Units: unit.Kelvin})
	if !errors.Is(err, ErrFieldContract) {
		t.Errorf("conflicting layout: %v", err)
	}
}

func TestFieldsValidate(t *testing.T) {
	f := NewFields(NewGrid(2, 4))
	specs := []FieldSpec{
		{Name: "p_mid", Intent: Required, Layout: Midpoints, Units: unit.Pascal},
		{Name: "phis", Intent: Required, Layout: Surface, Units: meter2PerSecond2},
	}
	if err := f.Declare("a", specs...); err != nil {
		t.Fatal(err)
	}
	if err := f.Validate("a"); !errors.Is(err, ErrFieldContract) {
		t.Errorf("missing fields: %v", err)
	}
	if err := f.Set("p_mid", unit.Pascal, sparse.ZerosDense(2, 4)); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("phis", unit.Meter, sparse.ZerosDense(2)); err != nil {
		t.Fatal(err)
	}
	if err := f.Validate("a"); !errors.Is(err, ErrFieldContract) {
		t.Errorf("wrong units: %v", err)
	}
	if err := f.Set("phis", meter2PerSecond2, sparse.ZerosDense(2)); err != nil {
		t.Fatal(err)
	}
	if err := f.Validate("a"); err != nil {
		t.Error(err)
	}
	if err := f.Validate("other"); err != nil {
		t.Errorf("process without fields: %v", err)
	}
	if err := f.Set("p_mid", unit.Pascal, sparse.ZerosDense(2, 5)); !errors.Is(err, ErrFieldContract) {
		t.Errorf("wrong shape: %v", err)
	}
}

func TestFieldsNames(t *testing.T) {
	f := NewFields(NewGrid(1, 1))
	if err := f.Set("x", unit.Dimless, sparse.ZerosDense(1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := f.Declare("a", FieldSpec{Name: "y", Intent: Computed, Layout: Midpoints, Units: unit.Dimless}); err != nil {
		t.Fatal(err)
	}
	names := f.Names()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("names %v", names)
	}
	if f.Get("z") != nil {
		t.Error("undeclared field has data")
	}
}
