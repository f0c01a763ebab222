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

package photolysis

import (
	"fmt"
	"math"
)

// xfactor converts pressure thickness [Pa] times volume mixing ratio into
// a column density [molecules/cm2].
const xfactor = 2.8704e21 / (9.80616 * 1.38044)

// O3ColumnDensity calculates the ozone column density above the middle of
// each level [molecules/cm2] from the ozone volume mixing ratio and the
// level pressure thicknesses [Pa]. Level 0 is the model top; the layer
// above the model top contributes nothing.
func O3ColumnDensity(o3vmr, pdel, colDens []float64) {
	var prev float64
	for k := range o3vmr {
		delta := xfactor * pdel[k] * o3vmr[k]
		if k == 0 {
			colDens[k] = 0.5 * delta
		} else {
			colDens[k] = colDens[k-1] + 0.5*(prev+delta)
		}
		prev = delta
	}
}

// Column holds the column inputs needed to interpolate photolysis rates.
type Column struct {
	Pressure          []float64 // Pa
	PressureThickness []float64 // Pa
	Temperature       []float64 // K
	O3ColumnDensity   []float64 // molecules/cm2

	ZenithAngle    float64 // radians
	SurfaceAlbedo  float64
	EarthSunFactor float64
}

// Rates interpolates photolysis rates [1/s] for every level of column c
// into rates, which must have one row per level and one column per entry
// in ReactionNames.
func (t *Table) Rates(c *Column, rates [][]float64) error {
	nlev := len(c.Pressure)
	if len(rates) != nlev {
		return fmt.Errorf("photolysis: rates has %d levels, column has %d", len(rates), nlev)
	}
	for k := range rates {
		for j := range rates[k] {
			rates[k][j] = 0
		}
	}
	szaDeg := c.ZenithAngle * 180 / math.Pi
	if t.Numsza == 0 || szaDeg > t.Sza[t.Numsza-1] {
		return nil // night
	}
	rsf := make([]float64, t.Nw)
	for k := 0; k < nlev; k++ {
		if len(rates[k]) != len(ReactionNames) {
			return fmt.Errorf("photolysis: rates level %d has %d reactions, want %d", k, len(rates[k]), len(ReactionNames))
		}
		pHPa := c.Pressure[k] * 0.01
		t.interpolateRSF(pHPa, szaDeg, c.SurfaceAlbedo, c.O3ColumnDensity[k], rsf)
		// Clear-sky rates; no cloud adjustment is applied.
		fac := c.EarthSunFactor
		it := t.temperatureIndex(c.Temperature[k])
		ip, wp := locate(t.Prs, t.Dprs, pHPa)
		for m, row := range t.LngIndexer {
			var j float64
			for w := 0; w < t.Nw; w++ {
				xs := t.Xsqy.Get(row, w, it, ip)
				if wp > 0 {
					xs += wp * (t.Xsqy.Get(row, w, it, ip+1) - xs)
				}
				j += xs * rsf[w] * t.Etfphot[w]
			}
			alias := 1.0
			if m < len(t.PhtAliasMult) {
				alias = t.PhtAliasMult[m]
			}
			rates[k][m] = j * fac * alias
		}
	}
	return nil
}

// temperatureIndex returns the cross-section temperature bin for
// temperature temp. Bins are 1 K wide starting at 148.5 K.
func (t *Table) temperatureIndex(temp float64) int {
	const tlow = 148.5
	tt := math.Max(tlow, temp)
	i := int(tt - tlow)
	if i > t.Nt-1 {
		i = t.Nt - 1
	}
	return i
}

// interpolateRSF interpolates the radiative source function in
// pressure, zenith angle, albedo, and ozone column ratio.
func (t *Table) interpolateRSF(pHPa, szaDeg, alb, o3col float64, rsf []float64) {
	ip, wp := locate(t.Press, t.DelP, pHPa)
	is, ws := locate(t.Sza, t.DelSza, szaDeg)
	ia, wa := locate(t.Alb, t.DelAlb, alb)

	// Ratio of the overhead column to the standard column at this pressure.
	stdCol := t.Colo3[ip]
	if wp > 0 {
		stdCol += wp * (t.Colo3[ip+1] - stdCol)
	}
	ratio := 1.0
	if stdCol > 0 {
		ratio = o3col / stdCol
	}
	io, wo := locate(t.O3Rat, t.DelO3Rat, ratio)

	type corner struct {
		i int
		w float64
	}
	axis := func(i int, w float64) []corner {
		if w == 0 {
			return []corner{{i, 1}}
		}
		return []corner{{i, 1 - w}, {i + 1, w}}
	}
	ca, co, cs, cp := axis(ia, wa), axis(io, wo), axis(is, ws), axis(ip, wp)
	for w := range rsf {
		var v float64
		for _, a := range ca {
			for _, o := range co {
				for _, s := range cs {
					for _, p := range cp {
						v += a.w * o.w * s.w * p.w * t.Rsf.Get(w, a.i, o.i, s.i, p.i)
					}
				}
			}
		}
		rsf[w] = v
	}
}

// locate finds the interval of grid containing x, after clamping x to the
// grid range, and returns the lower index and the fractional distance to
// the next grid point. inv holds the inverse spacing of each interval.
// Grids may be ascending or descending.
func locate(grid, inv []float64, x float64) (int, float64) {
	n := len(grid)
	if n < 2 {
		return 0, 0
	}
	ascending := grid[n-1] > grid[0]
	lo, hi := grid[0], grid[n-1]
	if !ascending {
		lo, hi = hi, lo
	}
	x = math.Max(lo, math.Min(hi, x))
	for i := 0; i < n-1; i++ {
		a, b := grid[i], grid[i+1]
		if (ascending && x <= b) || (!ascending && x >= b) {
			return i, math.Abs(x-a) * inv[i]
		}
	}
	return n - 2, 1
}
