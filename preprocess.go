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
	"github.com/spatialmodel/colchem/science/aero/mam"
	"gonum.org/v1/gonum/floats"
)

const (
	gravity = 9.80616 // m/s2
	zvir    = 0.61    // virtual temperature coefficient of water vapor
)

// Heights calculates the height above the surface of each level interface
// zi (length nlev+1) and midpoint zm (length nlev) from temperature t [K],
// water vapor qv [kg/kg], midpoint pressure p [Pa] and pressure thickness
// pdel [Pa], integrating hydrostatically upward from the surface.
func Heights(t, qv, p, pdel, zi, zm []float64) {
	nlev := len(t)
	zi[nlev] = 0
	for k := nlev - 1; k >= 0; k-- {
		tv := t[k] * (1 + zvir*qv[k])
		dz := mam.RDryAir * tv / gravity * pdel[k] / p[k]
		zi[k] = zi[k+1] + dz
		zm[k] = zi[k+1] + 0.5*dz
	}
}

// WetToDry converts mixing ratios per unit moist air in q to mixing ratios
// per unit dry air, given the water vapor mixing ratio qv [kg/kg moist air].
func WetToDry(q []float64, qv float64) {
	floats.Scale(1/(1-qv), q)
}

// DryToWet reverses WetToDry.
func DryToWet(q []float64, qv float64) {
	floats.Scale(1-qv, q)
}
