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

// rename moves the large-particle tail of the Aitken mode into the
// accumulation mode after the Aitken mode has grown. Interstitial
// particles are renamed when they grew during this step; cloud-borne
// particles when cloud chemistry grew them.
func (a *AMicPhys) rename(aitkenVolBefore float64, vmr, vmrcw []float64, in Inputs) {
	a.renameMode(aitkenVolBefore, vmr)
	if in.VmrcwPreCldChem != nil {
		a.renameMode(a.dryVolume(in.VmrcwPreCldChem, mam.Aitken), vmrcw)
	}
}

func (a *AMicPhys) renameMode(volBefore float64, q []float64) {
	ait, acc := a.c.Modes[mam.Aitken], a.c.Modes[mam.Accumulation]
	vol := a.dryVolume(q, mam.Aitken)
	num := q[a.c.NumberIndex[mam.Aitken]]
	if vol <= volBefore || num <= 0 {
		return
	}
	lnsg := math.Log(ait.SigmaG)
	dgn := math.Cbrt(vol / (num * math.Pi / 6 * math.Exp(4.5*lnsg*lnsg)))
	if dgn <= ait.Dgnum {
		return
	}
	dcut := math.Sqrt(ait.Dgnum * acc.Dgnum)
	xn := math.Log(dcut/dgn) / (math.Sqrt2 * lnsg)
	fracNum := 0.5 * math.Erfc(xn)
	fracVol := 0.5 * math.Erfc(xn-3*lnsg/math.Sqrt2)
	a.transferMode(q, mam.Aitken, mam.Accumulation, fracNum, fracVol, true)
}

// transferMode moves fraction fmass of each species in mode from to the
// same species in mode to, and removes fraction fnum of the number in
// mode from. The removed number is added to mode to if addNumber is set.
func (a *AMicPhys) transferMode(q []float64, from, to int, fnum, fmass float64, addNumber bool) {
	for s, name := range a.c.Modes[from].Species {
		ts := a.c.SpeciesSlot(to, name)
		if ts < 0 {
			continue
		}
		i, j := a.c.MassIndex[from][s], a.c.MassIndex[to][ts]
		dq := fmass * math.Max(q[i], 0)
		q[i] -= dq
		q[j] += dq
	}
	i, j := a.c.NumberIndex[from], a.c.NumberIndex[to]
	dn := fnum * math.Max(q[i], 0)
	q[i] -= dn
	if addNumber {
		q[j] += dn
	}
}
