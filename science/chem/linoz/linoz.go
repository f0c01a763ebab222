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

// Package linoz calculates linearized stratospheric ozone chemistry
// (Linoz) with polar stratospheric cloud loss, and the relaxation of ozone
// toward a fixed value at the lowest model levels.
package linoz

import (
	"fmt"
	"math"
)

const (
	gravity            = 9.80616 // m/s2
	mwO3               = 47.9982 // g/mol
	mwDryAir           = 28.966  // g/mol
	duPerMolecules     = 1 / 2.687e16
	chlorineLoading87  = 2.5977 // ppb
	pscLatitude        = 40 * math.Pi / 180
	pscMaxZenithDegree = 92.5
)

// Config holds the linearized ozone chemistry settings.
type Config struct {
	PSCT          float64 // PSC loss temperature threshold [K]
	O3Sfc         float64 // relaxation target [mol/mol]
	O3Tau         float64 // relaxation time [s]
	O3LBL         int     // number of relaxed levels above the bottom boundary
	PressureLimit float64 // chemistry applies below this pressure [Pa]

	// ClimatologyFile optionally holds the coefficient profiles.
	ClimatologyFile string
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		PSCT:          193,
		O3Sfc:         3.0e-8,
		O3Tau:         172800,
		O3LBL:         4,
		PressureLimit: 40000,
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch {
	case c.O3Tau <= 0:
		return fmt.Errorf("linoz: O3Tau must be positive, not %g", c.O3Tau)
	case c.O3LBL < 0:
		return fmt.Errorf("linoz: O3LBL must not be negative, not %d", c.O3LBL)
	case c.O3Sfc < 0:
		return fmt.Errorf("linoz: O3Sfc must not be negative, not %g", c.O3Sfc)
	case c.PressureLimit <= 0:
		return fmt.Errorf("linoz: PressureLimit must be positive, not %g", c.PressureLimit)
	}
	return nil
}

// Coefficients are the climatological values of one level.
type Coefficients struct {
	O3Clim      float64 // ozone [mol/mol]
	O3ColClim   float64 // overhead ozone column [DU]
	TClim       float64 // temperature [K]
	PmLClim     float64 // production minus loss [mol/mol/s]
	DPmLDO3     float64 // sensitivity of P-L to ozone [1/s]
	DPmLDT      float64 // sensitivity of P-L to temperature [mol/mol/s/K]
	DPmLDO3Col  float64 // sensitivity of P-L to the overhead column [mol/mol/s/DU]
	CariollePSC float64 // PSC loss frequency [1/s]
}

// Level holds the state of one model level.
type Level struct {
	Dt              float64 // s
	Pressure        float64 // Pa
	Temperature     float64 // K
	O3ColumnDensity float64 // overhead ozone [molecules/cm2]
	ZenithAngle     float64 // rad
	Latitude        float64 // rad
	ChlorineLoading float64 // ppb
}

// Diagnostics are the outputs of Solve.
type Diagnostics struct {
	DO3         float64 // linearized chemistry tendency [mol/mol/s]
	DO3PSC      float64 // PSC loss tendency [mol/mol/s]
	SteadyState float64 // steady-state ozone [mol/mol]
	O3ColDU     float64 // overhead ozone [DU]
	O3Clim      float64 // climatological ozone [mol/mol]
}

// Solve advances ozone mixing ratio o3 [mol/mol] at one level with the
// linearized chemistry and returns the diagnostics. Levels at or below the
// pressure limit are left unchanged.
func (c Config) Solve(lev Level, coef Coefficients, o3 *float64) Diagnostics {
	var d Diagnostics
	if lev.Pressure >= c.PressureLimit {
		return d
	}
	d.O3ColDU = lev.O3ColumnDensity * duPerMolecules
	d.O3Clim = coef.O3Clim

	pml := coef.PmLClim +
		coef.DPmLDT*(lev.Temperature-coef.TClim) +
		coef.DPmLDO3Col*(d.O3ColDU-coef.O3ColClim)
	old := *o3
	var o3new float64
	if coef.DPmLDO3 != 0 {
		d.SteadyState = coef.O3Clim - pml/coef.DPmLDO3
		tau := -1 / coef.DPmLDO3
		o3new = d.SteadyState + (old-d.SteadyState)*math.Exp(-lev.Dt/tau)
	} else {
		d.SteadyState = old
		o3new = old + lev.Dt*pml
	}
	d.DO3 = (o3new - old) / lev.Dt
	*o3 = o3new

	if math.Abs(lev.Latitude) > pscLatitude && lev.Temperature <= c.PSCT &&
		lev.ZenithAngle*180/math.Pi <= pscMaxZenithDegree {
		old = *o3
		cl := lev.ChlorineLoading / chlorineLoading87
		*o3 = old * math.Exp(-coef.CariollePSC*cl*cl*lev.Dt)
		d.DO3PSC = (*o3 - old) / lev.Dt
	}
	return d
}

// SinkApplies reports whether the surface sink acts on level k of nlev
// levels, numbered from the model top, when lbl levels are relaxed.
func SinkApplies(k, nlev, lbl int) bool {
	return k > nlev-lbl-1
}

// SurfaceSink relaxes ozone mixing ratio o3 [mol/mol] toward O3Sfc over
// step dt [s] and returns the ozone mass change [kg/m2] of a level with
// pressure thickness pdel [Pa].
func (c Config) SurfaceSink(dt, pdel float64, o3 *float64) float64 {
	old := *o3
	*o3 = old + (c.O3Sfc-old)*(1-math.Exp(-dt/c.O3Tau))
	return (*o3 - old) * pdel / gravity * mwO3 / mwDryAir
}
