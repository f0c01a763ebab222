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

// Package amicphys calculates aerosol microphysics: gas-aerosol exchange
// (condensation), renaming of Aitken particles into the accumulation mode,
// new particle formation, and Brownian coagulation.
package amicphys

import (
	"errors"
	"fmt"
	"math"

	"github.com/spatialmodel/colchem/science/aero/mam"
	"github.com/spatialmodel/colchem/science/aero/wateruptake"
)

// ErrNonFinite indicates that a process produced a non-finite mixing ratio.
var ErrNonFinite = errors.New("amicphys: non-finite mixing ratio")

// Tendency categories.
const (
	Cond = iota
	Rename
	Newnuc
	Coag
	NumCategories
)

// CategoryNames are short names for the tendency categories.
var CategoryNames = [NumCategories]string{"cond", "rename", "newnuc", "coag"}

const (
	boltzmann = 1.380649e-23 // J/K
	avogadro  = 6.02214076e23
	rGas      = 8.314462618 // J/mol/K
)

// NucleationConfig holds the new particle formation settings.
type NucleationConfig struct {
	DensSO4aHost              float64 // kg/m3
	MWSO4aHost                float64 // g/mol
	NewnucMethodUserChoice    int
	PBLNucWang2008UserChoice  int
	AdjustFactorPBLRatenucl   float64
	AccomCoefH2SO4            float64
	NewnucAdjustFactorDnaitdt float64
}

// Config holds the microphysics settings.
type Config struct {
	DoCond   bool
	DoRename bool
	DoNewnuc bool
	DoCoag   bool

	Nucleation NucleationConfig

	// GaexchH2SO4UptakeOptaa selects the H2SO4 uptake treatment: 1 uses
	// the current gas mixing ratio, 2 integrates the gas-phase
	// production over the step.
	GaexchH2SO4UptakeOptaa int

	// NewnucH2SO4ConcOptaa selects the H2SO4 concentration used for
	// nucleation: 1 is the value after condensation, 2 the average of the
	// values before and after condensation.
	NewnucH2SO4ConcOptaa int

	// CoagInterval is the number of steps between coagulation updates.
	CoagInterval int
}

// DefaultConfig returns the default microphysics settings.
func DefaultConfig() Config {
	return Config{
		DoCond:   true,
		DoRename: true,
		DoNewnuc: true,
		DoCoag:   true,
		Nucleation: NucleationConfig{
			DensSO4aHost:              1770.0,
			MWSO4aHost:                115.0,
			NewnucMethodUserChoice:    2,
			PBLNucWang2008UserChoice:  1,
			AdjustFactorPBLRatenucl:   1.0,
			AccomCoefH2SO4:            1.0,
			NewnucAdjustFactorDnaitdt: 1.0,
		},
		GaexchH2SO4UptakeOptaa: 2,
		NewnucH2SO4ConcOptaa:   2,
		CoagInterval:           1,
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	n := c.Nucleation
	switch {
	case n.DensSO4aHost <= 0 || n.MWSO4aHost <= 0:
		return fmt.Errorf("amicphys: nucleation sulfate density and molar mass must be positive")
	case n.NewnucMethodUserChoice < 0 || n.NewnucMethodUserChoice > 2:
		return fmt.Errorf("amicphys: invalid NewnucMethodUserChoice %d", n.NewnucMethodUserChoice)
	case n.PBLNucWang2008UserChoice < 0 || n.PBLNucWang2008UserChoice > 2:
		return fmt.Errorf("amicphys: invalid PBLNucWang2008UserChoice %d", n.PBLNucWang2008UserChoice)
	case n.AccomCoefH2SO4 <= 0 || n.AccomCoefH2SO4 > 1:
		return fmt.Errorf("amicphys: AccomCoefH2SO4 must be in (0, 1], not %g", n.AccomCoefH2SO4)
	case n.AdjustFactorPBLRatenucl < 0 || n.NewnucAdjustFactorDnaitdt < 0:
		return fmt.Errorf("amicphys: nucleation adjustment factors must not be negative")
	case c.GaexchH2SO4UptakeOptaa != 1 && c.GaexchH2SO4UptakeOptaa != 2:
		return fmt.Errorf("amicphys: invalid GaexchH2SO4UptakeOptaa %d", c.GaexchH2SO4UptakeOptaa)
	case c.NewnucH2SO4ConcOptaa != 1 && c.NewnucH2SO4ConcOptaa != 2:
		return fmt.Errorf("amicphys: invalid NewnucH2SO4ConcOptaa %d", c.NewnucH2SO4ConcOptaa)
	case c.CoagInterval < 1:
		return fmt.Errorf("amicphys: CoagInterval must be at least 1, not %d", c.CoagInterval)
	}
	return nil
}

// Level holds the state of one model level.
type Level struct {
	Step          int     // elapsed time steps
	Dt            float64 // s
	Pressure      float64 // Pa
	Temperature   float64 // K
	Zm            float64 // height above the surface [m]
	PBLH          float64 // planetary boundary layer height [m]
	CloudFraction float64 // new particles form in the clear fraction only
}

// Inputs are the pre-chemistry mixing ratios and the mode properties
// used by Process.
type Inputs struct {
	VmrPreGasChem   []float64
	VmrPreCldChem   []float64
	VmrcwPreCldChem []float64
	Sizes           *wateruptake.Result
}

// Tendencies holds the tendency [mixing ratio/s] of each working-array
// slot in each category, for interstitial (Vmr) and cloud-borne (Vmrcw)
// tracers.
type Tendencies struct {
	Vmr   [][NumCategories]float64
	Vmrcw [][NumCategories]float64
}

// NewTendencies returns zeroed tendencies for n working-array slots.
func NewTendencies(n int) *Tendencies {
	return &Tendencies{
		Vmr:   make([][NumCategories]float64, n),
		Vmrcw: make([][NumCategories]float64, n),
	}
}

// Total returns the tendency of category cat summed over all slots.
func (t *Tendencies) Total(cat int) float64 {
	var sum float64
	for i := range t.Vmr {
		sum += t.Vmr[i][cat] + t.Vmrcw[i][cat]
	}
	return sum
}

// AMicPhys calculates aerosol microphysics for a tracer configuration.
type AMicPhys struct {
	Config
	c                *mam.Config
	h2so4, soag      int
	so4Slot, soaSlot [mam.NumModes]int // species position in each mode, or -1
}

// New returns an AMicPhys for tracer configuration c.
func New(cfg Config, c *mam.Config) (*AMicPhys, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &AMicPhys{Config: cfg, c: c}
	var ok bool
	if a.h2so4, ok = c.GasIndex("H2SO4"); !ok {
		return nil, fmt.Errorf("amicphys: no H2SO4 in tracer configuration")
	}
	if a.soag, ok = c.GasIndex("SOAG"); !ok {
		return nil, fmt.Errorf("amicphys: no SOAG in tracer configuration")
	}
	for m := 0; m < mam.NumModes; m++ {
		a.so4Slot[m] = c.SpeciesSlot(m, "so4")
		a.soaSlot[m] = c.SpeciesSlot(m, "soa")
	}
	if a.so4Slot[mam.Aitken] < 0 {
		return nil, fmt.Errorf("amicphys: Aitken mode has no sulfate for new particles")
	}
	return a, nil
}

// Process advances the interstitial (vmr) and cloud-borne (vmrcw) mixing
// ratios of one level through condensation, renaming, nucleation and
// coagulation, in that order, and records the change caused by each
// process in tend. Disabled processes leave their tendencies zero.
func (a *AMicPhys) Process(lev Level, vmr, vmrcw []float64, in Inputs, tend *Tendencies) error {
	for i := range tend.Vmr {
		tend.Vmr[i] = [NumCategories]float64{}
		tend.Vmrcw[i] = [NumCategories]float64{}
	}
	air := newAirState(lev.Pressure, lev.Temperature)
	aitkenVolBefore := a.dryVolume(vmr, mam.Aitken)

	var state stage
	state.start(vmr, vmrcw)

	h2so4BeforeCond := vmr[a.h2so4]
	var condSink float64 // H2SO4 condensation sink [1/s]
	if a.DoCond {
		condSink = a.condense(lev, air, vmr, in)
		state.finish(vmr, vmrcw, tend, Cond, lev.Dt)
	} else {
		condSink = a.h2so4Sink(air, vmr, in.Sizes)
	}

	if a.DoRename {
		state.start(vmr, vmrcw)
		a.rename(aitkenVolBefore, vmr, vmrcw, in)
		state.finish(vmr, vmrcw, tend, Rename, lev.Dt)
	}

	if a.DoNewnuc {
		state.start(vmr, vmrcw)
		h2so4 := vmr[a.h2so4]
		if a.NewnucH2SO4ConcOptaa == 2 {
			h2so4 = 0.5 * (h2so4BeforeCond + vmr[a.h2so4])
		}
		a.nucleate(lev, air, h2so4, condSink, vmr)
		state.finish(vmr, vmrcw, tend, Newnuc, lev.Dt)
	}

	if a.DoCoag && lev.Step%a.CoagInterval == 0 {
		state.start(vmr, vmrcw)
		a.coagulate(air, float64(a.CoagInterval)*lev.Dt, vmr, in.Sizes)
		state.finish(vmr, vmrcw, tend, Coag, lev.Dt)
	}

	for i := range vmr {
		if math.IsNaN(vmr[i]) || math.IsInf(vmr[i], 0) || math.IsNaN(vmrcw[i]) || math.IsInf(vmrcw[i], 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, a.c.SlotName(i))
		}
	}
	return nil
}

// stage records mixing ratios at the start of a process so that the
// process tendency can be calculated when it finishes.
type stage struct {
	vmr, vmrcw []float64
}

func (s *stage) start(vmr, vmrcw []float64) {
	s.vmr = append(s.vmr[:0], vmr...)
	s.vmrcw = append(s.vmrcw[:0], vmrcw...)
}

func (s *stage) finish(vmr, vmrcw []float64, tend *Tendencies, cat int, dt float64) {
	for i := range vmr {
		tend.Vmr[i][cat] = (vmr[i] - s.vmr[i]) / dt
		tend.Vmrcw[i][cat] = (vmrcw[i] - s.vmrcw[i]) / dt
	}
}

// dryVolume returns the dry volume of mode m [m3/kg air].
func (a *AMicPhys) dryVolume(vmr []float64, m int) float64 {
	var v float64
	for s := range a.c.Modes[m].Species {
		props := a.c.SpeciesProperties(m, s)
		mmr := math.Max(vmr[a.c.MassIndex[m][s]], 0) * props.MolarMass / mam.MWDryAir
		v += mmr / props.Density
	}
	return v
}
