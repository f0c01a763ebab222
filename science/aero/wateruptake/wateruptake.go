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

// Package wateruptake calculates the dry and wet sizes, wet densities and
// water content of the aerosol modes.
package wateruptake

import (
	"errors"
	"fmt"
	"math"

	"github.com/spatialmodel/colchem/science/aero/mam"
	"gonum.org/v1/gonum/floats"
)

// ErrNonPhysical indicates a non-finite or non-positive diameter or density.
var ErrNonPhysical = errors.New("wateruptake: non-physical aerosol property")

const (
	rhoWater = 1000. // kg/m3
	epsilon  = 0.622 // ratio of molar masses of water and dry air
	rhMax    = 0.98
)

// Result holds the properties of each mode.
type Result struct {
	DryDiameter [mam.NumModes]float64 // number median dry diameter [m]
	WetDiameter [mam.NumModes]float64 // number median wet diameter [m]
	WetDensity  [mam.NumModes]float64 // kg/m3
	Water       [mam.NumModes]float64 // aerosol water mass mixing ratio [kg/kg]
}

// RelativeHumidity returns the relative humidity with respect to liquid
// water for water vapor dry mixing ratio qv [kg/kg], temperature t [K]
// and pressure p [Pa].
func RelativeHumidity(qv, t, p float64) float64 {
	e := p * qv / (epsilon + qv)
	es := 611.2 * math.Exp(17.67*(t-273.15)/(t-29.65))
	es = math.Min(es, p)
	return e / es
}

// Compute calculates mode properties from the mass [kg/kg] and number
// [#/kg] mixing ratios in q, laid out according to c.
func Compute(c *mam.Config, q []float64, qv, t, p float64, r *Result) error {
	rh := math.Max(0, math.Min(RelativeHumidity(qv, t, p), rhMax))
	for m, mode := range c.Modes {
		ns := len(mode.Species)
		vol := make([]float64, ns)
		kappa := make([]float64, ns)
		var dryMass float64
		for s := 0; s < ns; s++ {
			props := c.SpeciesProperties(m, s)
			mass := math.Max(q[c.MassIndex[m][s]], 0)
			dryMass += mass
			vol[s] = mass / props.Density
			kappa[s] = props.Hygroscopicity
		}
		dryVol := floats.Sum(vol) // m3/kg air
		num := math.Max(q[c.NumberIndex[m]], 0)

		lnsg := math.Log(mode.SigmaG)
		shape := math.Pi / 6 * math.Exp(4.5*lnsg*lnsg)
		dgn := mode.Dgnum
		if num > 0 && dryVol > 0 {
			dgn = math.Cbrt(dryVol / (num * shape))
			dgn = math.Max(mode.DgnumLow, math.Min(dgn, mode.DgnumHigh))
		}

		// κ-Köhler growth without the curvature term, with linear
		// hysteresis between crystallization and deliquescence.
		var growth float64
		if dryVol > 0 {
			k := floats.Dot(vol, kappa) / dryVol
			full := k * rh / (1 - rh)
			switch {
			case rh <= mode.RHCrystal:
			case rh >= mode.RHDeliques:
				growth = full
			default:
				growth = full * (rh - mode.RHCrystal) / (mode.RHDeliques - mode.RHCrystal)
			}
		}
		water := rhoWater * dryVol * growth

		var density float64
		switch {
		case dryVol > 0:
			density = (dryMass + water) / (dryVol + water/rhoWater)
		case ns > 0:
			density = c.SpeciesProperties(m, 0).Density
		default:
			density = rhoWater
		}

		r.DryDiameter[m] = dgn
		r.WetDiameter[m] = dgn * math.Cbrt(1+growth)
		r.WetDensity[m] = density
		r.Water[m] = water
		for _, v := range []struct {
			name string
			val  float64
		}{
			{"dry diameter", r.DryDiameter[m]},
			{"wet diameter", r.WetDiameter[m]},
			{"wet density", r.WetDensity[m]},
		} {
			if math.IsNaN(v.val) || math.IsInf(v.val, 0) || v.val <= 0 {
				return fmt.Errorf("%w: %s mode %s = %g", ErrNonPhysical, mode.Name, v.name, v.val)
			}
		}
		if math.IsNaN(water) || math.IsInf(water, 0) || water < 0 {
			return fmt.Errorf("%w: %s mode water = %g", ErrNonPhysical, mode.Name, water)
		}
	}
	return nil
}
