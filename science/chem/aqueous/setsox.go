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

// Package aqueous calculates in-cloud sulfate production: oxidation of
// dissolved SO2 by hydrogen peroxide and uptake of sulfuric acid vapor
// by cloud droplets.
package aqueous

import (
	"fmt"
	"math"

	"github.com/ctessum/atmos/seinfeld"
	"github.com/spatialmodel/colchem/science/aero/mam"
)

const (
	rhoWater     = 1000.  // kg/m3
	pascalPerAtm = 101325.
	diffH2SO4    = 1.0e-5 // gas diffusivity of H2SO4 [m2/s]

	// minimum cloud liquid water and fraction for cloud chemistry
	lwcMin = 1e-8 // kg/kg
	cfMin  = 1e-5
)

// Config holds the cloud chemistry settings.
type Config struct {
	// PH is the cloud water pH.
	PH float64
}

// DefaultConfig returns the default cloud chemistry settings.
func DefaultConfig() Config {
	return Config{PH: 4.5}
}

// Level holds the state of one model level.
type Level struct {
	Dt                 float64 // s
	Pressure           float64 // Pa
	Temperature        float64 // K
	LWC                float64 // cloud liquid water [kg/kg]
	CloudFraction      float64
	CloudDropletNumber float64 // #/kg
}

// SetSOx performs cloud sulfur chemistry on working arrays laid out
// according to a tracer configuration.
type SetSOx struct {
	Config
	so2, h2o2, h2so4 int
	so4cw            []int // cloud-borne sulfate slot in each mode, or -1
	numcw            []int // cloud-borne number slot in each mode
}

// New returns a SetSOx for the given tracer configuration.
func New(cfg Config, c *mam.Config) (*SetSOx, error) {
	if cfg.PH <= 0 || cfg.PH > 14 {
		return nil, fmt.Errorf("aqueous: invalid pH %g", cfg.PH)
	}
	s := &SetSOx{Config: cfg}
	for _, g := range []struct {
		name string
		dst  *int
	}{{"SO2", &s.so2}, {"H2O2", &s.h2o2}, {"H2SO4", &s.h2so4}} {
		i, ok := c.GasIndex(g.name)
		if !ok {
			return nil, fmt.Errorf("aqueous: gas %s is missing from the tracer configuration", g.name)
		}
		*g.dst = i
	}
	for m := 0; m < mam.NumModes; m++ {
		slot := -1
		if sp := c.SpeciesSlot(m, "so4"); sp >= 0 {
			slot = c.MassIndex[m][sp]
		}
		s.so4cw = append(s.so4cw, slot)
		s.numcw = append(s.numcw, c.NumberIndex[m])
	}
	if s.so4cw[mam.Accumulation] < 0 {
		return nil, fmt.Errorf("aqueous: accumulation mode has no sulfate")
	}
	return s, nil
}

// Step updates the interstitial (vmr) and cloud-borne (vmrcw) volume mixing
// ratios of one level and returns the sulfate produced [mol/mol].
func (s *SetSOx) Step(lev Level, vmrcw, vmr []float64) float64 {
	if lev.LWC < lwcMin || lev.CloudFraction < cfMin {
		return 0
	}
	cf := math.Min(lev.CloudFraction, 1)
	rhoAir := mam.AirDensity(lev.Pressure, lev.Temperature)
	// in-cloud liquid water volume fraction [m3 water/m3 air]
	wL := lev.LWC / cf * rhoAir / rhoWater

	// S(IV) + H2O2
	pAtm := lev.Pressure / pascalPerAtm
	k := seinfeld.SulfurH2O2aqueousOxidationRate(vmr[s.h2o2]*1e9, s.PH, lev.Temperature, pAtm, wL)
	dso2 := cf * vmr[s.so2] * (1 - math.Exp(-k*lev.Dt))
	dso2 = math.Min(dso2, math.Min(vmr[s.so2], vmr[s.h2o2]))
	dso2 = math.Max(dso2, 0)
	vmr[s.so2] -= dso2
	vmr[s.h2o2] -= dso2

	// H2SO4 condensation onto droplets
	var dh2so4 float64
	if lev.CloudDropletNumber > 0 {
		nd := lev.CloudDropletNumber * rhoAir / cf // #/m3 in cloud
		r := math.Cbrt(3 * wL / (4 * math.Pi * nd))
		kc := 4 * math.Pi * diffH2SO4 * r * nd
		dh2so4 = cf * vmr[s.h2so4] * (1 - math.Exp(-kc*lev.Dt))
		vmr[s.h2so4] -= dh2so4
	}

	s.distribute(dso2+dh2so4, vmrcw)
	return dso2 + dh2so4
}

// distribute adds sulfate to the cloud-borne modes in proportion to their
// cloud-borne number.
func (s *SetSOx) distribute(dso4 float64, vmrcw []float64) {
	if dso4 <= 0 {
		return
	}
	var total float64
	for m, slot := range s.so4cw {
		if slot >= 0 {
			total += math.Max(vmrcw[s.numcw[m]], 0)
		}
	}
	if total <= 0 {
		vmrcw[s.so4cw[mam.Accumulation]] += dso4
		return
	}
	for m, slot := range s.so4cw {
		if slot >= 0 {
			vmrcw[slot] += dso4 * math.Max(vmrcw[s.numcw[m]], 0) / total
		}
	}
}
