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

// soagUptakeRatio is the ratio of the SOAG to the H2SO4 uptake rate.
const soagUptakeRatio = 0.81

// condense transfers H2SO4 to the sulfate and SOAG to the secondary
// organic component of each mode in proportion to the mode's uptake rate.
// It returns the total H2SO4 condensation sink [1/s].
func (a *AMicPhys) condense(lev Level, air airState, vmr []float64, in Inputs) float64 {
	var k, kSOA [mam.NumModes]float64
	var kTot, kSOATot float64
	for m := 0; m < mam.NumModes; m++ {
		if a.so4Slot[m] < 0 && a.soaSlot[m] < 0 {
			continue
		}
		km := a.uptakeCoefficient(air, vmr, in.Sizes, m)
		if a.so4Slot[m] >= 0 {
			k[m] = km
			kTot += km
		}
		if a.soaSlot[m] >= 0 {
			kSOA[m] = soagUptakeRatio * km
			kSOATot += kSOA[m]
		}
	}
	dt := lev.Dt

	if kTot > 0 {
		g := math.Max(vmr[a.h2so4], 0)
		decay := math.Exp(-kTot * dt)
		gNew := g * decay
		if a.GaexchH2SO4UptakeOptaa == 2 && in.VmrPreGasChem != nil && in.VmrPreCldChem != nil {
			// Production by gas-phase chemistry is spread over the step.
			prod := math.Max(0, (in.VmrPreCldChem[a.h2so4]-in.VmrPreGasChem[a.h2so4])/dt)
			g0 := math.Max(0, g-prod*dt)
			gNew = g0*decay + prod/kTot*(1-decay)
		}
		a.distribute(vmr, a.h2so4, g-gNew, k, kTot, a.so4Slot)
	}
	if kSOATot > 0 {
		g := math.Max(vmr[a.soag], 0)
		a.distribute(vmr, a.soag, g*(1-math.Exp(-kSOATot*dt)), kSOA, kSOATot, a.soaSlot)
	}
	return kTot
}

// distribute moves amount of gas to the species in position slot[m] of
// each mode m, weighted by k[m]/kTot.
func (a *AMicPhys) distribute(vmr []float64, gas int, amount float64, k [mam.NumModes]float64, kTot float64, slot [mam.NumModes]int) {
	if amount <= 0 {
		return
	}
	vmr[gas] -= amount
	for m := 0; m < mam.NumModes; m++ {
		if slot[m] < 0 || k[m] == 0 {
			continue
		}
		vmr[a.c.MassIndex[m][slot[m]]] += amount * k[m] / kTot
	}
}
