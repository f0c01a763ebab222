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
)

const (
	nucleusDiameter   = 1.0     // nm
	minNucleationConc = 1.0e4   // molecules/cm3
	activationCoef    = 1.0e-6  // 1/s
	kineticCoef       = 1.0e-12 // cm3/s
	growthGamma       = 0.23    // nm2 m2/h
	mwH2SO4           = 98.0784 // g/mol
	maxNucleatedFrac  = 0.9
)

// nucleationRate returns the nucleation rate [#/cm3/s] for H2SO4
// concentration c [molecules/cm3]. Method 1 is the activation
// parameterization and method 2 the kinetic parameterization; method 0
// turns nucleation off.
func nucleationRate(method int, c float64) float64 {
	switch method {
	case 1:
		return activationCoef * c
	case 2:
		return kineticCoef * c * c
	default:
		return 0
	}
}

// nucleate forms new Aitken particles from H2SO4. h2so4 is the gas mixing
// ratio used for the rate and condSink the H2SO4 condensation sink [1/s]
// that scavenges new particles before they reach Aitken size.
func (a *AMicPhys) nucleate(lev Level, air airState, h2so4, condSink float64, vmr []float64) {
	n := a.Nucleation
	c := math.Max(h2so4, 0) * air.conc
	if c < minNucleationConc {
		return
	}
	j := nucleationRate(n.NewnucMethodUserChoice, c)
	if lev.Zm <= lev.PBLH {
		j = math.Max(j, n.AdjustFactorPBLRatenucl*nucleationRate(n.PBLNucWang2008UserChoice, c))
	}
	j *= 1 - math.Max(0, math.Min(lev.CloudFraction, 1))
	if j <= 0 {
		return
	}

	// Survival while growing to Aitken size (Kerminen and Kulmala, 2002).
	dAit := a.c.Modes[mam.Aitken].DgnumLow
	gr := 3.0e-9 / n.DensSO4aHost * air.meanSpeed(mwH2SO4) * mwH2SO4 * c // nm/h
	csPrime := condSink / (4 * math.Pi * air.h2so4Diffusivity())        // 1/m2
	eta := growthGamma * n.NewnucAdjustFactorDnaitdt * csPrime / gr
	jAit := j * math.Exp(eta*(1/(dAit*1e9)-1/nucleusDiameter))

	dnum := jAit * 1.0e6 / air.rho * lev.Dt // #/kg
	molPerParticle := n.DensSO4aHost * math.Pi / 6 * dAit * dAit * dAit / (n.MWSO4aHost / 1000)
	dso4 := dnum * molPerParticle * mam.MWDryAir / 1000
	if avail := maxNucleatedFrac * math.Max(vmr[a.h2so4], 0); dso4 > avail {
		dnum *= avail / dso4
		dso4 = avail
	}
	if dso4 <= 0 {
		return
	}
	vmr[a.h2so4] -= dso4
	vmr[a.c.MassIndex[mam.Aitken][a.so4Slot[mam.Aitken]]] += dso4
	vmr[a.c.NumberIndex[mam.Aitken]] += dnum
}
