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
	"testing"

	"github.com/spatialmodel/colchem/science/aero/mam"
)

func TestHeights(t *testing.T) {
	temp := []float64{250, 270, 290}
	qv := []float64{0, 0, 0}
	p := []float64{25000, 50000, 85000}
	pdel := []float64{30000, 30000, 30000}
	zi := make([]float64, 4)
	zm := make([]float64, 3)
	Heights(temp, qv, p, pdel, zi, zm)

	if zi[3] != 0 {
		t.Errorf("surface height %g", zi[3])
	}
	for k := 2; k >= 0; k-- {
		dz := mam.RDryAir * temp[k] / gravity * pdel[k] / p[k]
		if different(zi[k]-zi[k+1], dz, 1e-12) {
			t.Errorf("level %d thickness %g, want %g", k, zi[k]-zi[k+1], dz)
		}
		if different(zm[k], zi[k+1]+0.5*dz, 1e-12) {
			t.Errorf("level %d midpoint %g, want %g", k, zm[k], zi[k+1]+0.5*dz)
		}
	}

	// Water vapor raises the virtual temperature.
	zi2 := make([]float64, 4)
	Heights(temp, []float64{0.01, 0.01, 0.01}, p, pdel, zi2, zm)
	if !(zi2[0] > zi[0]) {
		t.Errorf("moist column top %g not above dry column top %g", zi2[0], zi[0])
	}
}

func TestWetDry(t *testing.T) {
	q := []float64{1e-9, 2e-6, 1e8}
	want := append([]float64{}, q...)
	const qv = 0.015
	WetToDry(q, qv)
	if different(q[1], 2e-6/(1-qv), 1e-14) {
		t.Errorf("dry mixing ratio %g, want %g", q[1], 2e-6/(1-qv))
	}
	DryToWet(q, qv)
	for i := range q {
		if different(q[i], want[i], 1e-14) {
			t.Errorf("%d: %g, want %g", i, q[i], want[i])
		}
	}
}
