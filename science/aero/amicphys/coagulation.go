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

// coagulate calculates Brownian coagulation of interstitial particles
// over interval dt [s]. Aitken and primary carbon particles that collide
// with accumulation particles join the accumulation mode; collisions
// within a mode reduce its number.
func (a *AMicPhys) coagulate(air airState, dt float64, vmr []float64, sizes *wateruptake.Result) {
	acc := mam.Accumulation
	nAcc := math.Max(vmr[a.c.NumberIndex[acc]], 0) * air.rho // #/m3
	dAcc, rAcc := a.modeSize(sizes, acc)
	if nAcc > 0 {
		for _, m := range []int{mam.Aitken, mam.PrimaryCarbon} {
			if vmr[a.c.NumberIndex[m]] <= 0 {
				continue
			}
			d, r := a.modeSize(sizes, m)
			k := air.coagKernel(d, r, dAcc, rAcc)
			frac := 1 - math.Exp(-k*nAcc*dt)
			a.transferMode(vmr, m, acc, frac, frac, false)
		}
	}
	for _, m := range []int{mam.Aitken, mam.Accumulation, mam.PrimaryCarbon} {
		i := a.c.NumberIndex[m]
		n0 := vmr[i] * air.rho
		if n0 <= 0 {
			continue
		}
		d, r := a.modeSize(sizes, m)
		k := air.coagKernel(d, r, d, r)
		vmr[i] /= 1 + 0.5*k*n0*dt
	}
}
