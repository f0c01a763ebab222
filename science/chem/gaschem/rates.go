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

package gaschem

import (
	"fmt"
	"math"
)

const (
	boltzmann = 1.38065e-23 // J/K
	mwDryAir  = 28.966      // g/mol
	mwH2O     = 18.01528    // g/mol
)

// AirDensity returns the number density of air [molecules/cm3] at
// pressure p [Pa] and temperature t [K].
func AirDensity(p, t float64) float64 {
	return p / (boltzmann * t) * 1e-6
}

// Invariants calculates the concentrations [molecules/cm3] of the
// species that are not solved for. qv is the water vapor dry mixing
// ratio [kg/kg].
func (m *Mechanism) Invariants(p, t, qv float64, inv []float64) {
	M := AirDensity(p, t)
	inv[IndexM] = M
	inv[IndexN2] = 0.79 * M
	inv[IndexO2] = 0.21 * M
	inv[IndexH2O] = qv * mwDryAir / mwH2O * M
	inv[IndexOH] = m.Oxidants.OH * M
	inv[IndexHO2] = m.Oxidants.HO2 * M
	inv[IndexNO3] = m.Oxidants.NO3 * M
}

// rateConstant returns the rate constant of a thermal reaction at
// temperature t [K], air density M [molecules/cm3], and water vapor
// concentration h2o [molecules/cm3].
func rateConstant(r Reaction, t, M, h2o float64) (float64, error) {
	switch r.Kind {
	case "arrhenius":
		return r.A * math.Exp(r.E/t), nil
	case "usr_HO2_HO2":
		ko := 3.5e-13 * math.Exp(430/t)
		kinf := 1.7e-33 * M * math.Exp(1000/t)
		fc := 1 + 1.4e-21*h2o*math.Exp(2200/t)
		return (ko + kinf) * fc, nil
	case "usr_SO2_OH":
		fc := 3.0e-31 * math.Pow(300/t, 3.3)
		ko := fc * M / (1 + fc*M/1.5e-12)
		return ko * math.Pow(0.6, 1/(1+math.Pow(math.Log10(fc*M/1.5e-12), 2))), nil
	case "usr_DMS_OH":
		ko := 1 + 5.5e-31*math.Exp(7460/t)*M*0.21
		return 1.7e-42 * math.Exp(7810/t) * M * 0.21 / ko, nil
	default:
		return 0, fmt.Errorf("gaschem: reaction %s has unknown kind %q", r.Name, r.Kind)
	}
}
