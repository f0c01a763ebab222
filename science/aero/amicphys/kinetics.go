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

package amicphys

import (
	"math"

	"github.com/spatialmodel/colchem/science/aero/mam"
	"github.com/spatialmodel/colchem/science/aero/wateruptake"
)

// airState holds properties of the air at one level.
type airState struct {
	p, t float64
	rho  float64 // air density [kg/m3]
	conc float64 // air number concentration [molecules/cm3]
	mu   float64 // dynamic viscosity [kg/m/s]
	mfp  float64 // mean free path of air [m]
}

func newAirState(p, t float64) airState {
	a := airState{p: p, t: t}
	a.rho = mam.AirDensity(p, t)
	a.conc = p / (boltzmann * t) * 1.0e-6
	a.mu = 1.8e-5 * math.Pow(t/298.0, 0.85)
	a.mfp = 2 * a.mu / (p * math.Sqrt(8.0*mam.MWDryAir/1000/(math.Pi*rGas*t)))
	return a
}

// cunningham returns the slip correction factor for a particle of
// diameter d [m].
func (air airState) cunningham(d float64) float64 {
	kn := 2 * air.mfp / d
	return 1 + kn*(1.257+0.4*math.Exp(-1.1/kn))
}

// h2so4Diffusivity returns the gas diffusivity of H2SO4 [m2/s].
func (air airState) h2so4Diffusivity() float64 {
	return 1.0e-5 * math.Pow(air.t/273.15, 1.75) * 101325.0 / air.p
}

// meanSpeed returns the mean molecular speed [m/s] of a gas with molar
// mass mw [g/mol].
func (air airState) meanSpeed(mw float64) float64 {
	return math.Sqrt(8 * rGas * air.t / (math.Pi * mw / 1000))
}

// fuchsSutugin returns the transition-regime correction to the
// continuum mass transfer rate for Knudsen number kn and accommodation
// coefficient alpha.
func fuchsSutugin(kn, alpha float64) float64 {
	return (1 + kn) / (1 + (0.377+4/(3*alpha))*kn + 4/(3*alpha)*kn*kn)
}

// modeSize returns the wet number median diameter [m] and wet density
// [kg/m3] of mode m, falling back to nominal values when no size
// information is available.
func (a *AMicPhys) modeSize(sizes *wateruptake.Result, m int) (d, dens float64) {
	if sizes != nil && sizes.WetDiameter[m] > 0 && sizes.WetDensity[m] > 0 {
		return sizes.WetDiameter[m], sizes.WetDensity[m]
	}
	d = a.c.Modes[m].Dgnum
	dens = 1000
	if len(a.c.Modes[m].Species) > 0 {
		dens = a.c.SpeciesProperties(m, 0).Density
	}
	return d, dens
}

// uptakeCoefficient returns the first-order H2SO4 loss rate [1/s] to the
// particles of mode m.
func (a *AMicPhys) uptakeCoefficient(air airState, vmr []float64, sizes *wateruptake.Result, m int) float64 {
	num := vmr[a.c.NumberIndex[m]] * air.rho // #/m3
	if num <= 0 {
		return 0
	}
	d, _ := a.modeSize(sizes, m)
	lnsg := math.Log(a.c.Modes[m].SigmaG)
	dEff := d * math.Exp(0.5*lnsg*lnsg) // number-weighted mean diameter
	dg := air.h2so4Diffusivity()
	gasMFP := 3 * dg / air.meanSpeed(98.0784)
	kn := 2 * gasMFP / dEff
	return 2 * math.Pi * dg * dEff * num * fuchsSutugin(kn, a.Nucleation.AccomCoefH2SO4)
}

// h2so4Sink returns the total H2SO4 loss rate [1/s] to all modes that
// hold sulfate.
func (a *AMicPhys) h2so4Sink(air airState, vmr []float64, sizes *wateruptake.Result) float64 {
	var k float64
	for m := 0; m < mam.NumModes; m++ {
		if a.so4Slot[m] >= 0 {
			k += a.uptakeCoefficient(air, vmr, sizes, m)
		}
	}
	return k
}

// coagKernel returns the Fuchs Brownian coagulation coefficient [m3/s]
// for particles with diameters d1, d2 [m] and densities r1, r2 [kg/m3].
func (air airState) coagKernel(d1, r1, d2, r2 float64) float64 {
	diff := func(d float64) float64 {
		return boltzmann * air.t * air.cunningham(d) / (3 * math.Pi * air.mu * d)
	}
	speed := func(d, r float64) float64 {
		mass := r * math.Pi / 6 * d * d * d
		return math.Sqrt(8 * boltzmann * air.t / (math.Pi * mass))
	}
	g := func(d, dc, c float64) float64 {
		l := 8 * dc / (math.Pi * c)
		return (math.Pow(d+l, 3)-math.Pow(d*d+l*l, 1.5))/(3*d*l) - d
	}
	D1, D2 := diff(d1), diff(d2)
	c1, c2 := speed(d1, r1), speed(d2, r2)
	g12 := math.Hypot(g(d1, D1, c1), g(d2, D2, c2))
	c12 := math.Hypot(c1, c2)
	dsum := d1 + d2
	beta := 1 / (dsum/(dsum+2*g12) + 8*(D1+D2)/(c12*dsum))
	return 2 * math.Pi * (D1 + D2) * dsum * beta
}
