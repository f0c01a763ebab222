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
	"errors"
	"math"
	"testing"

	"github.com/spatialmodel/colchem/science/aero/mam"
)

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	return 2*math.Abs(a-b)/math.Abs(a+b) > tolerance
}

// setMode fills mode m of vmr with num [#/kg] particles of number median
// diameter dgn whose volume is split evenly between the given species.
func setMode(c *mam.Config, vmr []float64, m int, num, dgn float64, species ...string) {
	mode := c.Modes[m]
	lnsg := math.Log(mode.SigmaG)
	vol := num * math.Pi / 6 * dgn * dgn * dgn * math.Exp(4.5*lnsg*lnsg)
	vmr[c.NumberIndex[m]] = num
	for _, name := range species {
		s := c.SpeciesSlot(m, name)
		props := c.SpeciesProperties(m, s)
		mmr := vol / float64(len(species)) * props.Density
		vmr[c.MassIndex[m][s]] = mmr * mam.MWDryAir / props.MolarMass
	}
}

type testCase struct {
	c          *mam.Config
	lev        Level
	vmr, vmrcw []float64
	in         Inputs
}

func newTestCase() *testCase {
	c := mam.Default()
	tc := &testCase{
		c: c,
		lev: Level{
			Dt:            1800,
			Pressure:      90000,
			Temperature:   285,
			Zm:            500,
			PBLH:          1000,
			CloudFraction: 0.2,
		},
		vmr:   make([]float64, c.GasPcnst),
		vmrcw: make([]float64, c.GasPcnst),
	}
	h2so4, _ := c.GasIndex("H2SO4")
	soag, _ := c.GasIndex("SOAG")
	tc.vmr[h2so4] = 2.0e-11
	tc.vmr[soag] = 5.0e-11
	setMode(c, tc.vmr, mam.Accumulation, 1.0e8, 1.1e-7, "so4", "pom", "soa")
	setMode(c, tc.vmr, mam.Aitken, 5.0e8, 2.6e-8, "so4", "soa")
	setMode(c, tc.vmr, mam.Coarse, 1.0e5, 2.0e-6, "dst", "ncl")
	setMode(c, tc.vmr, mam.PrimaryCarbon, 1.0e8, 5.0e-8, "pom", "bc")
	setMode(c, tc.vmrcw, mam.Accumulation, 5.0e7, 1.5e-7, "so4")
	setMode(c, tc.vmrcw, mam.Aitken, 1.0e7, 3.0e-8, "so4")

	pre := append([]float64{}, tc.vmr...)
	pre[h2so4] = 1.0e-11
	tc.in = Inputs{
		VmrPreGasChem:   pre,
		VmrPreCldChem:   append([]float64{}, tc.vmr...),
		VmrcwPreCldChem: append([]float64{}, tc.vmrcw...),
	}
	return tc
}

func (tc *testCase) run(t *testing.T, cfg Config) *Tendencies {
	a, err := New(cfg, tc.c)
	if err != nil {
		t.Fatal(err)
	}
	tend := NewTendencies(tc.c.GasPcnst)
	if err := a.Process(tc.lev, tc.vmr, tc.vmrcw, tc.in, tend); err != nil {
		t.Fatal(err)
	}
	return tend
}

// totalSpecies returns the number of moles per mole air of the named
// species summed over all modes, plus the named gas if any.
func totalSpecies(c *mam.Config, vmr, vmrcw []float64, species, gas string) float64 {
	var sum float64
	if i, ok := c.GasIndex(gas); ok {
		sum += vmr[i]
	}
	for m := 0; m < mam.NumModes; m++ {
		if s := c.SpeciesSlot(m, species); s >= 0 {
			sum += vmr[c.MassIndex[m][s]] + vmrcw[c.MassIndex[m][s]]
		}
	}
	return sum
}

func disabled() Config {
	cfg := DefaultConfig()
	cfg.DoCond = false
	cfg.DoRename = false
	cfg.DoNewnuc = false
	cfg.DoCoag = false
	return cfg
}

func TestProcessDisabled(t *testing.T) {
	tc := newTestCase()
	vmr0 := append([]float64{}, tc.vmr...)
	vmrcw0 := append([]float64{}, tc.vmrcw...)
	tend := tc.run(t, disabled())
	for i := range vmr0 {
		if tc.vmr[i] != vmr0[i] || tc.vmrcw[i] != vmrcw0[i] {
			t.Errorf("%s changed with all processes disabled", tc.c.SlotName(i))
		}
		for cat := 0; cat < NumCategories; cat++ {
			if tend.Vmr[i][cat] != 0 || tend.Vmrcw[i][cat] != 0 {
				t.Errorf("%s has nonzero %s tendency", tc.c.SlotName(i), CategoryNames[cat])
			}
		}
	}
}

func TestProcessConservation(t *testing.T) {
	tc := newTestCase()
	vmr0 := append([]float64{}, tc.vmr...)
	vmrcw0 := append([]float64{}, tc.vmrcw...)
	tend := tc.run(t, DefaultConfig())

	for _, v := range []struct{ species, gas string }{
		{"so4", "H2SO4"},
		{"soa", "SOAG"},
		{"pom", ""},
		{"bc", ""},
		{"dst", ""},
	} {
		before := totalSpecies(tc.c, vmr0, vmrcw0, v.species, v.gas)
		after := totalSpecies(tc.c, tc.vmr, tc.vmrcw, v.species, v.gas)
		if different(before, after, 1e-10) {
			t.Errorf("%s not conserved: %g before, %g after", v.species, before, after)
		}
	}
	for i := range tc.vmr {
		if tc.vmr[i] < 0 || tc.vmrcw[i] < 0 {
			t.Errorf("%s is negative", tc.c.SlotName(i))
		}
		var sum, sumcw float64
		for cat := 0; cat < NumCategories; cat++ {
			sum += tend.Vmr[i][cat] * tc.lev.Dt
			sumcw += tend.Vmrcw[i][cat] * tc.lev.Dt
		}
		if d := tc.vmr[i] - vmr0[i]; math.Abs(d-sum) > 1e-9*math.Max(math.Abs(vmr0[i]), math.Abs(tc.vmr[i])) {
			t.Errorf("%s: change %g, summed tendencies %g", tc.c.SlotName(i), d, sum)
		}
		if d := tc.vmrcw[i] - vmrcw0[i]; math.Abs(d-sumcw) > 1e-9*math.Max(math.Abs(vmrcw0[i]), math.Abs(tc.vmrcw[i])) {
			t.Errorf("cloud-borne %s: change %g, summed tendencies %g", tc.c.SlotName(i), d, sumcw)
		}
	}
}

func TestProcessToggles(t *testing.T) {
	for _, test := range []struct {
		cat     int
		disable func(*Config)
	}{
		{Cond, func(c *Config) { c.DoCond = false }},
		{Rename, func(c *Config) { c.DoRename = false }},
		{Newnuc, func(c *Config) { c.DoNewnuc = false }},
		{Coag, func(c *Config) { c.DoCoag = false }},
	} {
		name := CategoryNames[test.cat]
		tc := newTestCase()
		vmr0 := append([]float64{}, tc.vmr...)
		vmrcw0 := append([]float64{}, tc.vmrcw...)
		cfg := DefaultConfig()
		test.disable(&cfg)
		tend := tc.run(t, cfg)

		var active float64
		for i := range tc.vmr {
			if tend.Vmr[i][test.cat] != 0 || tend.Vmrcw[i][test.cat] != 0 {
				t.Errorf("%s off: %s has tendency %g, %g", name, tc.c.SlotName(i),
					tend.Vmr[i][test.cat], tend.Vmrcw[i][test.cat])
			}
			var sum, sumcw float64
			for cat := 0; cat < NumCategories; cat++ {
				sum += tend.Vmr[i][cat] * tc.lev.Dt
				sumcw += tend.Vmrcw[i][cat] * tc.lev.Dt
				active += math.Abs(tend.Vmr[i][cat]) + math.Abs(tend.Vmrcw[i][cat])
			}
			if d := tc.vmr[i] - vmr0[i]; math.Abs(d-sum) > 1e-9*math.Max(math.Abs(vmr0[i]), math.Abs(tc.vmr[i])) {
				t.Errorf("%s off: %s change %g, summed tendencies %g", name, tc.c.SlotName(i), d, sum)
			}
			if d := tc.vmrcw[i] - vmrcw0[i]; math.Abs(d-sumcw) > 1e-9*math.Max(math.Abs(vmrcw0[i]), math.Abs(tc.vmrcw[i])) {
				t.Errorf("%s off: cloud-borne %s change %g, summed tendencies %g", name, tc.c.SlotName(i), d, sumcw)
			}
		}
		if active == 0 {
			t.Errorf("%s off: no other process changed the state", name)
		}
	}
}

func TestCondensation(t *testing.T) {
	h2so4, _ := mam.Default().GasIndex("H2SO4")
	soag, _ := mam.Default().GasIndex("SOAG")
	var after [2]float64
	for i, opt := range []int{1, 2} {
		tc := newTestCase()
		cfg := disabled()
		cfg.DoCond = true
		cfg.GaexchH2SO4UptakeOptaa = opt
		g0 := tc.vmr[h2so4]
		so40 := tc.vmr[tc.c.MassIndex[mam.Accumulation][0]]
		tend := tc.run(t, cfg)
		after[i] = tc.vmr[h2so4]
		if tc.vmr[h2so4] >= g0 {
			t.Errorf("option %d: H2SO4 did not condense", opt)
		}
		if tc.vmr[tc.c.MassIndex[mam.Accumulation][0]] <= so40 {
			t.Errorf("option %d: accumulation sulfate did not grow", opt)
		}
		if tend.Vmr[h2so4][Cond] >= 0 || tend.Vmr[soag][Cond] >= 0 {
			t.Errorf("option %d: gas condensation tendencies %g, %g", opt, tend.Vmr[h2so4][Cond], tend.Vmr[soag][Cond])
		}
		if tend.Total(Rename) != 0 || tend.Total(Newnuc) != 0 || tend.Total(Coag) != 0 {
			t.Errorf("option %d: disabled process has a tendency", opt)
		}
	}
	// Spreading gas-phase production over the step leaves more vapor.
	if after[1] <= after[0] {
		t.Errorf("H2SO4 with production %g should exceed %g", after[1], after[0])
	}
}

func TestRename(t *testing.T) {
	c := mam.Default()
	a, err := New(DefaultConfig(), c)
	if err != nil {
		t.Fatal(err)
	}
	q := make([]float64, c.GasPcnst)
	setMode(c, q, mam.Aitken, 5.0e8, 6.0e-8, "so4")
	so4 := q[c.MassIndex[mam.Aitken][0]]
	numAit := q[c.NumberIndex[mam.Aitken]]
	volBefore := 0.5 * a.dryVolume(q, mam.Aitken)

	unchanged := append([]float64{}, q...)
	a.renameMode(2*volBefore, unchanged)
	for i := range q {
		if unchanged[i] != q[i] {
			t.Fatalf("renaming without growth changed %s", c.SlotName(i))
		}
	}

	a.renameMode(volBefore, q)
	movedNum := numAit - q[c.NumberIndex[mam.Aitken]]
	if movedNum <= 0 {
		t.Fatal("no particles renamed")
	}
	if different(q[c.NumberIndex[mam.Accumulation]], movedNum, 1e-12) {
		t.Errorf("accumulation number %g, want %g", q[c.NumberIndex[mam.Accumulation]], movedNum)
	}
	movedSO4 := so4 - q[c.MassIndex[mam.Aitken][0]]
	if different(q[c.MassIndex[mam.Accumulation][0]], movedSO4, 1e-12) {
		t.Errorf("accumulation sulfate %g, want %g", q[c.MassIndex[mam.Accumulation][0]], movedSO4)
	}
	// The largest particles move, so mass moves preferentially.
	if movedSO4/so4 <= movedNum/numAit {
		t.Errorf("mass fraction %g should exceed number fraction %g", movedSO4/so4, movedNum/numAit)
	}
}

func TestCoagulation(t *testing.T) {
	tc := newTestCase()
	cfg := disabled()
	cfg.DoCoag = true
	c := tc.c
	ait0 := tc.vmr[c.NumberIndex[mam.Aitken]]
	acc0 := tc.vmr[c.NumberIndex[mam.Accumulation]]
	pc0 := tc.vmr[c.NumberIndex[mam.PrimaryCarbon]]
	bcAcc0 := tc.vmr[c.MassIndex[mam.Accumulation][c.SpeciesSlot(mam.Accumulation, "bc")]]
	so4Before := totalSpecies(c, tc.vmr, tc.vmrcw, "so4", "")
	tend := tc.run(t, cfg)

	if tc.vmr[c.NumberIndex[mam.Aitken]] >= ait0 {
		t.Error("Aitken number did not decrease")
	}
	if tc.vmr[c.NumberIndex[mam.PrimaryCarbon]] >= pc0 {
		t.Error("primary carbon number did not decrease")
	}
	if tc.vmr[c.NumberIndex[mam.Accumulation]] > acc0 {
		t.Error("accumulation number increased")
	}
	if tc.vmr[c.MassIndex[mam.Accumulation][c.SpeciesSlot(mam.Accumulation, "bc")]] <= bcAcc0 {
		t.Error("black carbon not transferred to the accumulation mode")
	}
	if so4After := totalSpecies(c, tc.vmr, tc.vmrcw, "so4", ""); different(so4Before, so4After, 1e-12) {
		t.Errorf("sulfate not conserved: %g, %g", so4Before, so4After)
	}
	if tend.Vmr[c.NumberIndex[mam.Aitken]][Coag] >= 0 {
		t.Error("Aitken coagulation tendency should be negative")
	}

	// Coagulation only runs on every CoagInterval-th step.
	tc = newTestCase()
	cfg.CoagInterval = 2
	tc.lev.Step = 1
	vmr0 := append([]float64{}, tc.vmr...)
	tc.run(t, cfg)
	for i := range vmr0 {
		if tc.vmr[i] != vmr0[i] {
			t.Errorf("%s changed between coagulation steps", c.SlotName(i))
		}
	}
}

func TestNucleation(t *testing.T) {
	tc := newTestCase()
	cfg := disabled()
	cfg.DoNewnuc = true
	c := tc.c
	h2so4, _ := c.GasIndex("H2SO4")
	tc.vmr[h2so4] = 1.0e-10
	num0 := tc.vmr[c.NumberIndex[mam.Aitken]]
	so4Before := totalSpecies(c, tc.vmr, tc.vmrcw, "so4", "H2SO4")
	tend := tc.run(t, cfg)
	if tc.vmr[c.NumberIndex[mam.Aitken]] <= num0 {
		t.Error("no new particles formed")
	}
	if tend.Vmr[h2so4][Newnuc] >= 0 {
		t.Errorf("H2SO4 nucleation tendency = %g", tend.Vmr[h2so4][Newnuc])
	}
	if so4After := totalSpecies(c, tc.vmr, tc.vmrcw, "so4", "H2SO4"); different(so4Before, so4After, 1e-12) {
		t.Errorf("sulfur not conserved: %g, %g", so4Before, so4After)
	}
	if tc.vmr[h2so4] < (1-maxNucleatedFrac)*1.0e-10*(1-1e-12) {
		t.Errorf("nucleation consumed too much H2SO4: %g left", tc.vmr[h2so4])
	}

	// Above the boundary layer with free-troposphere nucleation off.
	tc = newTestCase()
	tc.vmr[h2so4] = 1.0e-10
	tc.lev.Zm = 2000
	cfg.Nucleation.NewnucMethodUserChoice = 0
	vmr0 := append([]float64{}, tc.vmr...)
	tc.run(t, cfg)
	for i := range vmr0 {
		if tc.vmr[i] != vmr0[i] {
			t.Errorf("%s changed without nucleation", c.SlotName(i))
		}
	}
}

func TestProcessNonFinite(t *testing.T) {
	tc := newTestCase()
	h2so4, _ := tc.c.GasIndex("H2SO4")
	tc.vmr[h2so4] = math.NaN()
	a, err := New(disabled(), tc.c)
	if err != nil {
		t.Fatal(err)
	}
	err = a.Process(tc.lev, tc.vmr, tc.vmrcw, tc.in, NewTendencies(tc.c.GasPcnst))
	if !errors.Is(err, ErrNonFinite) {
		t.Errorf("have %v, want ErrNonFinite", err)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	for name, modify := range map[string]func(*Config){
		"density":  func(c *Config) { c.Nucleation.DensSO4aHost = 0 },
		"method":   func(c *Config) { c.Nucleation.NewnucMethodUserChoice = 3 },
		"pbl":      func(c *Config) { c.Nucleation.PBLNucWang2008UserChoice = -1 },
		"accom":    func(c *Config) { c.Nucleation.AccomCoefH2SO4 = 1.5 },
		"uptake":   func(c *Config) { c.GaexchH2SO4UptakeOptaa = 0 },
		"conc":     func(c *Config) { c.NewnucH2SO4ConcOptaa = 3 },
		"interval": func(c *Config) { c.CoagInterval = 0 },
	} {
		cfg := DefaultConfig()
		modify(&cfg)
		if cfg.Validate() == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestCoagKernel(t *testing.T) {
	air := newAirState(101325, 298)
	k1 := air.coagKernel(1e-8, 1500, 1e-6, 1500)
	k2 := air.coagKernel(1e-6, 1500, 1e-8, 1500)
	if different(k1, k2, 1e-12) {
		t.Errorf("kernel not symmetric: %g, %g", k1, k2)
	}
	same := air.coagKernel(1e-7, 1500, 1e-7, 1500)
	if same <= 0 || k1 < 100*same {
		t.Errorf("kernels: dissimilar %g, similar %g", k1, same)
	}
	if fuchsSutugin(0, 1) != 1 {
		t.Errorf("continuum correction = %g", fuchsSutugin(0, 1))
	}
	if fuchsSutugin(10, 1) >= fuchsSutugin(1, 1) {
		t.Error("transition correction should decrease with Knudsen number")
	}
}
