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

package mam

import (
	"strings"
	"testing"
)

func TestDefaultLayout(t *testing.T) {
	c := Default()
	if c.GasPcnst != 31 {
		t.Errorf("GasPcnst = %d, want 31", c.GasPcnst)
	}
	if n := c.NumAeroTracers(); n != 21 {
		t.Errorf("NumAeroTracers = %d, want 21", n)
	}
	if n := c.NumTracerFields(); n != 56 {
		t.Errorf("NumTracerFields = %d, want 56", n)
	}
	tests := []struct {
		slot int
		name string
	}{
		{0, "O3"},
		{2, "H2SO4"},
		{6, "so4_a1"},
		{c.NumberIndex[Accumulation], "num_a1"},
		{c.MassIndex[Aitken][0], "so4_a2"},
		{c.NumberIndex[PrimaryCarbon], "num_a4"},
	}
	for _, test := range tests {
		if have := c.SlotName(test.slot); have != test.name {
			t.Errorf("slot %d: have %s, want %s", test.slot, have, test.name)
		}
	}
	if c.MassIndex[Aitken][4] != -1 {
		t.Errorf("aitken slot 4 should be empty, have %d", c.MassIndex[Aitken][4])
	}
	if c.NumberIndex[PrimaryCarbon] != 30 {
		t.Errorf("last number slot = %d", c.NumberIndex[PrimaryCarbon])
	}
	for _, test := range tests {
		if i, ok := c.SlotIndex(test.name); !ok || i != test.slot {
			t.Errorf("SlotIndex(%s) = %d, %v, want %d", test.name, i, ok, test.slot)
		}
	}
	for i := 0; i < c.GasPcnst; i++ {
		if j, ok := c.SlotIndex(c.SlotName(i)); !ok || j != i {
			t.Errorf("slot %d (%s) does not round trip: %d", i, c.SlotName(i), j)
		}
	}
	if _, ok := c.SlotIndex("so4_c1"); ok {
		t.Error("cloud-borne names have no working-array slot")
	}
	if i, ok := c.GasIndex("SOAG"); !ok || i != 5 {
		t.Errorf("SOAG index = %d, %v", i, ok)
	}
	if s := c.SpeciesSlot(Coarse, "so4"); s != 2 {
		t.Errorf("coarse so4 slot = %d", s)
	}
}

func TestCloudBorne(t *testing.T) {
	for in, want := range map[string]string{
		"so4_a1": "so4_c1",
		"num_a4": "num_c4",
		"O3":     "O3",
	} {
		if have := CloudBorne(in); have != want {
			t.Errorf("CloudBorne(%s) = %s, want %s", in, have, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := strings.Replace(mam4, `species = ["pom", "bc", "mom"]`, `species = ["pom", "bc", "xyz"]`, 1)
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Error("expected error for unknown species")
	}
	if _, err := Parse(strings.NewReader("[[gas]]\nname = \"O3\"\n")); err == nil {
		t.Error("expected error for incomplete description")
	}
}

func TestAirDensity(t *testing.T) {
	if rho := AirDensity(101325, 288.15); rho < 1.224 || rho > 1.226 {
		t.Errorf("air density %g, want 1.225", rho)
	}
	if AirDensity(50000, 250) >= AirDensity(100000, 250) {
		t.Error("air density does not increase with pressure")
	}
}
