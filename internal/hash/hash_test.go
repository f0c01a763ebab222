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

package hash

import (
	"math"
	"testing"
)

func TestFloat64s(t *testing.T) {
	a := Float64s([]float64{1, 2}, []float64{3})
	if b := Float64s([]float64{1, 2}, []float64{3}); a != b {
		t.Errorf("equal input hashed differently: %s, %s", a, b)
	}
	if b := Float64s([]float64{1}, []float64{2, 3}); a == b {
		t.Error("array boundaries should change the hash")
	}
	if Float64s([]float64{0}) == Float64s([]float64{math.Copysign(0, -1)}) {
		t.Error("signed zeros should hash differently")
	}
}

func TestSettings(t *testing.T) {
	type nucleation struct {
		Dens   float64
		Method int
	}
	type settings struct {
		DoCoag     bool
		Nucleation nucleation
		File       string
	}
	a := settings{true, nucleation{1770, 2}, "rsf.nc"}
	if Settings(a) != Settings(a) {
		t.Error("fingerprint is not deterministic")
	}
	b := a
	b.Nucleation.Dens = 1800
	if Settings(a) == Settings(b) {
		t.Error("different settings share a fingerprint")
	}
	nan := map[float64]int{math.NaN(): 1}
	if f := Settings(nan); f == "" || f != Settings(nan) {
		t.Errorf("fallback fingerprint %q is empty or not deterministic", f)
	}
}
