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

package colchem

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/colchem/comm"
	"github.com/spatialmodel/colchem/science/aero/amicphys"
	"github.com/spatialmodel/colchem/science/aero/mam"
	"github.com/spatialmodel/colchem/science/aero/wateruptake"
	"github.com/spatialmodel/colchem/science/chem/aqueous"
	"github.com/spatialmodel/colchem/science/chem/gaschem"
	"github.com/spatialmodel/colchem/science/chem/linoz"
	"github.com/spatialmodel/colchem/science/photolysis"
)

const processName = "mam4_microphysics"

type lifecycle int

const (
	created lifecycle = iota
	configured
	gridded
	initialized
	finalized
)

func (l lifecycle) String() string {
	return [...]string{"created", "configured", "gridded", "initialized", "finalized"}[l]
}

// Microphysics is the aerosol microphysics process. It advances the gas
// and aerosol tracers of every column through gas-phase chemistry, cloud
// chemistry, aerosol microphysics and linearized stratospheric ozone
// chemistry.
//
// The methods must be called in the order Configure, SetGrids,
// Initialize, Run (any number of times) and Finalize.
type Microphysics struct {
	// Log receives progress messages. logrus.StandardLogger() is used if
	// it is nil.
	Log logrus.FieldLogger

	// Comm is used to share the photolysis table between workers.
	// comm.Serial is used if it is nil.
	Comm comm.Communicator

	// StepCounter is the number of completed time steps.
	StepCounter int

	state   lifecycle
	cfg     Config
	tracers *mam.Config

	mech   *gaschem.Mechanism
	setsox *aqueous.SetSOx
	amp    *amicphys.AMicPhys
	o3     int // working-array slot of ozone

	grid   *Grid
	fields *Fields

	table *photolysis.Table
	clim  *linoz.Climatology
	ts    *TracerState

	tMid, pMid, pdel, qv, cldfrac, pbl, phis *sparse.DenseArray
	zMid, zInt                               *sparse.DenseArray
	dgnum, dgnumwet, qaerwat, wetdens        [mam.NumModes]*sparse.DenseArray
	do3, do3PSC, do3Mass                     *sparse.DenseArray
	tend                                     [amicphys.NumCategories]*sparse.DenseArray
}

func (p *Microphysics) log() logrus.FieldLogger {
	if p.Log == nil {
		p.Log = logrus.StandardLogger()
	}
	return p.Log
}

func (p *Microphysics) expect(s lifecycle, op string) error {
	if p.state != s {
		return configErrorf(processName, "%s called in state %s, want %s", op, p.state, s)
	}
	return nil
}

// Configure sets the run-wide settings and resolves the tracer layout
// and chemical mechanism.
func (p *Microphysics) Configure(cfg Config) error {
	if err := p.expect(created, "Configure"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.cfg = cfg
	p.tracers = mam.Default()

	var err error
	if p.amp, err = amicphys.New(cfg.Microphysics, p.tracers); err != nil {
		return configErrorf(processName, "%v", err)
	}
	if p.setsox, err = aqueous.New(cfg.Aqueous, p.tracers); err != nil {
		return configErrorf(processName, "%v", err)
	}
	if p.mech, err = gaschem.Default(p.tracers.SlotIndex, photolysis.ReactionNames); err != nil {
		return configErrorf(processName, "%v", err)
	}
	p.mech.Oxidants = gaschem.Oxidants{
		OH:  cfg.Unresolved.OH,
		HO2: cfg.Unresolved.HO2,
		NO3: cfg.Unresolved.NO3,
	}
	var ok bool
	if p.o3, ok = p.tracers.GasIndex("O3"); !ok {
		return configErrorf(processName, "no O3 in the tracer configuration")
	}
	if p.Comm == nil {
		p.Comm = comm.Serial{}
	}
	p.state = configured
	return nil
}

// referenceSpecs returns the declarations of the atmospheric state and
// diagnostic fields.
func (p *Microphysics) referenceSpecs() []FieldSpec {
	specs := []FieldSpec{
		{"omega", Required, Midpoints, pascalPerSecond},
		{"T_mid", Required, Midpoints, unit.Kelvin},
		{"p_mid", Required, Midpoints, unit.Pascal},
		{"qv", Required, Midpoints, unit.Dimless},
		{"qi", Required, Midpoints, unit.Dimless},
		{"ni", Required, Midpoints, perKilogram},
		{"pbl_height", Required, Surface, unit.Meter},
		{"pseudo_density", Required, Midpoints, unit.Pascal},
		{"phis", Required, Surface, meter2PerSecond2},
		{"cldfrac_tot", Required, Midpoints, unit.Dimless},
		{"qc", Updated, Midpoints, unit.Dimless},
		{"nc", Updated, Midpoints, perKilogram},
		{"z_mid", Computed, Midpoints, unit.Meter},
		{"z_int", Computed, Interfaces, unit.Meter},
		{"linoz_do3", Computed, Midpoints, unit.Herz},
		{"linoz_do3_psc", Computed, Midpoints, unit.Herz},
		{"linoz_do3_mass", Computed, Midpoints, kilogramPerMeter2},
	}
	for m := range p.tracers.Modes {
		sfx := p.tracers.Modes[m].Suffix
		specs = append(specs,
			FieldSpec{"dgnum_a" + sfx, Computed, Midpoints, unit.Meter},
			FieldSpec{"dgnumwet_a" + sfx, Computed, Midpoints, unit.Meter},
			FieldSpec{"qaerwat_a" + sfx, Computed, Midpoints, unit.Dimless},
			FieldSpec{"wetdens_a" + sfx, Computed, Midpoints, unit.KilogramPerMeter3},
		)
	}
	for _, name := range amicphys.CategoryNames {
		specs = append(specs, FieldSpec{"aero_tend_" + name, Computed, Midpoints, unit.Herz})
	}
	return specs
}

// SetGrids binds the process to grid g and declares its fields in f.
func (p *Microphysics) SetGrids(g *Grid, f *Fields) error {
	if err := p.expect(configured, "SetGrids"); err != nil {
		return err
	}
	if err := g.validate(); err != nil {
		return configErrorf(processName, "%v", err)
	}
	if g.NumTracers != 0 && g.NumTracers != p.tracers.NumTracerFields() {
		return configErrorf(processName, "tracer group has %d members, want 2*(%d modes + %d aerosol tracers) + %d gases = %d",
			g.NumTracers, mam.NumModes, p.tracers.NumAeroTracers(), len(p.tracers.Gases), p.tracers.NumTracerFields())
	}
	if err := f.Declare(processName, p.referenceSpecs()...); err != nil {
		return err
	}
	if err := f.Declare(processName, tracerSpecs(p.tracers)...); err != nil {
		return err
	}
	p.grid = g
	p.fields = f
	p.state = gridded
	return nil
}

// Initialize checks that the declared fields have been supplied, builds
// the photolysis table and reads the ozone climatology.
func (p *Microphysics) Initialize() error {
	if err := p.expect(gridded, "Initialize"); err != nil {
		return err
	}
	if err := p.fields.Validate(processName); err != nil {
		p.log().WithField("process", processName).Error(err)
		return err
	}

	table, err := photolysis.Build(p.cfg.RSFFile, p.cfg.XSLongFile, p.Comm)
	if err != nil {
		err = wrap(TableAccessError, processName, -1, -1, err)
		p.log().WithField("process", processName).Error(err)
		return err
	}
	p.table = table
	p.log().WithFields(logrus.Fields{
		"process":  processName,
		"rank":     p.Comm.Rank(),
		"checksum": table.Checksum(),
		"settings": p.cfg.Fingerprint(),
	}).Infof("photolysis table: %s", table.Dims())

	if path := p.cfg.Linoz.ClimatologyFile; path != "" {
		if p.clim, err = linoz.ReadClimatology(path, p.grid.NumLevels); err != nil {
			return wrap(TableAccessError, processName, -1, -1, err)
		}
	} else {
		p.clim = linoz.Placeholder(p.grid.NumLevels)
	}

	if inc := p.cfg.Unresolved.Incomplete(); len(inc) > 0 {
		p.log().WithField("process", processName).Warnf("placeholder values in use for %s", strings.Join(inc, ", "))
	}

	f := p.fields
	p.ts = NewTracerState(p.tracers, f)
	p.tMid, p.pMid, p.pdel = f.Get("T_mid"), f.Get("p_mid"), f.Get("pseudo_density")
	p.qv, p.cldfrac = f.Get("qv"), f.Get("cldfrac_tot")
	p.pbl, p.phis = f.Get("pbl_height"), f.Get("phis")
	p.zMid, p.zInt = f.Get("z_mid"), f.Get("z_int")
	p.do3, p.do3PSC, p.do3Mass = f.Get("linoz_do3"), f.Get("linoz_do3_psc"), f.Get("linoz_do3_mass")
	for m := range p.tracers.Modes {
		sfx := p.tracers.Modes[m].Suffix
		p.dgnum[m] = f.Get("dgnum_a" + sfx)
		p.dgnumwet[m] = f.Get("dgnumwet_a" + sfx)
		p.qaerwat[m] = f.Get("qaerwat_a" + sfx)
		p.wetdens[m] = f.Get("wetdens_a" + sfx)
	}
	for c, name := range amicphys.CategoryNames {
		p.tend[c] = f.Get("aero_tend_" + name)
	}
	p.state = initialized
	return nil
}

// Run advances every column by dt seconds.
func (p *Microphysics) Run(dt float64) error {
	if err := p.expect(initialized, "Run"); err != nil {
		return err
	}
	if !(dt > 0) {
		return configErrorf(processName, "time step must be positive, not %g", dt)
	}
	p.log().WithFields(logrus.Fields{
		"process": processName,
		"step":    p.StepCounter,
		"dt":      dt,
	}).Debug("running")
	if err := forEachColumn(p.grid.NumColumns, func(col int) error {
		return p.runColumn(col, dt)
	}); err != nil {
		p.log().WithFields(logrus.Fields{
			"process": processName,
			"step":    p.StepCounter,
		}).Error(err)
		return err
	}
	p.StepCounter++
	return nil
}

// Finalize ends the run. The process cannot be used afterwards.
func (p *Microphysics) Finalize() error {
	if p.state != initialized && p.state != gridded && p.state != configured {
		return configErrorf(processName, "Finalize called in state %s", p.state)
	}
	p.log().WithFields(logrus.Fields{
		"process": processName,
		"steps":   p.StepCounter,
	}).Info("finalized")
	p.table = nil
	p.state = finalized
	return nil
}

// column holds the per-level inputs and working arrays of one column.
type column struct {
	t, pm, pdel, qv, cf []float64
	zm, zi              []float64
	pbl, phis           float64

	vmr, vmrcw [][]float64
	o3col      []float64
	rates      [][]float64
}

func (p *Microphysics) newColumn(col int) *column {
	nlev := p.grid.NumLevels
	c := &column{
		t:     make([]float64, nlev),
		pm:    make([]float64, nlev),
		pdel:  make([]float64, nlev),
		qv:    make([]float64, nlev),
		cf:    make([]float64, nlev),
		zm:    make([]float64, nlev),
		zi:    make([]float64, nlev+1),
		pbl:   p.pbl.Get(col),
		phis:  p.phis.Get(col),
		vmr:   make([][]float64, nlev),
		vmrcw: make([][]float64, nlev),
		o3col: make([]float64, nlev),
		rates: make([][]float64, nlev),
	}
	for k := 0; k < nlev; k++ {
		c.t[k] = p.tMid.Get(col, k)
		c.pm[k] = p.pMid.Get(col, k)
		c.pdel[k] = p.pdel.Get(col, k)
		c.qv[k] = p.qv.Get(col, k)
		c.cf[k] = p.cldfrac.Get(col, k)
		c.vmr[k] = make([]float64, p.tracers.GasPcnst)
		c.vmrcw[k] = make([]float64, p.tracers.GasPcnst)
		c.rates[k] = make([]float64, len(photolysis.ReactionNames))
	}
	return c
}

func put(a *sparse.DenseArray, v float64, index ...int) {
	a.Elements[a.Index1d(index...)] = v
}

func (p *Microphysics) runColumn(col int, dt float64) error {
	nlev := p.grid.NumLevels
	c := p.newColumn(col)
	Heights(c.t, c.qv, c.pm, c.pdel, c.zi, c.zm)
	for k := 0; k <= nlev; k++ {
		put(p.zInt, c.zi[k], col, k)
	}

	q := make([]float64, p.tracers.GasPcnst)
	qqcw := make([]float64, p.tracers.GasPcnst)
	o3 := make([]float64, nlev)
	for k := 0; k < nlev; k++ {
		put(p.zMid, c.zm[k], col, k)
		p.ts.ToWorkingArray(col, k, q, qqcw)
		WetToDry(q, c.qv[k])
		WetToDry(qqcw, c.qv[k])
		ConvertToVMR(p.tracers, q, c.vmr[k])
		ConvertToVMR(p.tracers, qqcw, c.vmrcw[k])
		o3[k] = c.vmr[k][p.o3]
	}

	// Column-wide lookups finish before any level runs.
	photolysis.O3ColumnDensity(o3, c.pdel, c.o3col)
	if p.cfg.DoGasChem {
		u := p.cfg.Unresolved
		if err := p.table.Rates(&photolysis.Column{
			Pressure:          c.pm,
			PressureThickness: c.pdel,
			Temperature:       c.t,
			O3ColumnDensity:   c.o3col,
			ZenithAngle:       u.ZenithAngle,
			SurfaceAlbedo:     u.SurfaceAlbedo,
			EarthSunFactor:    u.EarthSunFactor,
		}, c.rates); err != nil {
			return wrap(NumericalDomainError, processName, col, -1, err)
		}
	}

	return forEachLevel(nlev, func(k int) error {
		return p.runLevel(col, k, dt, c)
	})
}

func (p *Microphysics) runLevel(col, k int, dt float64, c *column) error {
	n := p.tracers.GasPcnst
	vmr, vmrcw := c.vmr[k], c.vmrcw[k]
	u := p.cfg.Unresolved
	qvDry := c.qv[k] / (1 - c.qv[k])

	preGas := append([]float64{}, vmr...)
	if p.cfg.DoGasChem {
		extfrc := make([]float64, p.mech.NumForcings())
		for i := range extfrc {
			extfrc[i] = u.ExternalForcing
		}
		inv := make([]float64, gaschem.NumInvariants)
		if err := p.mech.Advance(gaschem.Level{
			Zm:          c.zm[k],
			Zi:          c.zi[k],
			Phis:        c.phis,
			Temperature: c.t[k],
			Pressure:    c.pm[k],
			Pdel:        c.pdel[k],
			Qv:          qvDry,
		}, dt, c.rates[k], extfrc, vmr, inv); err != nil {
			return wrap(NumericalDomainError, processName, col, k, err)
		}
	}

	preCld := append([]float64{}, vmr...)
	preCldCw := append([]float64{}, vmrcw...)
	if p.cfg.DoAqueousChem {
		p.setsox.Step(aqueous.Level{
			Dt:                 dt,
			Pressure:           c.pm[k],
			Temperature:        c.t[k],
			LWC:                u.LiquidWaterContent,
			CloudFraction:      c.cf[k],
			CloudDropletNumber: u.CloudDropletNumber,
		}, vmrcw, vmr)
	}

	q := make([]float64, n)
	ConvertToMMR(p.tracers, vmr, q)
	var sizes wateruptake.Result
	if err := wateruptake.Compute(p.tracers, q, qvDry, c.t[k], c.pm[k], &sizes); err != nil {
		return wrap(NumericalDomainError, processName, col, k, err)
	}

	tend := amicphys.NewTendencies(n)
	if err := p.amp.Process(amicphys.Level{
		Step:          p.StepCounter,
		Dt:            dt,
		Pressure:      c.pm[k],
		Temperature:   c.t[k],
		Zm:            c.zm[k],
		PBLH:          c.pbl,
		CloudFraction: c.cf[k],
	}, vmr, vmrcw, amicphys.Inputs{
		VmrPreGasChem:   preGas,
		VmrPreCldChem:   preCld,
		VmrcwPreCldChem: preCldCw,
		Sizes:           &sizes,
	}, tend); err != nil {
		return wrap(NumericalDomainError, processName, col, k, err)
	}

	var d linoz.Diagnostics
	var do3Mass float64
	if p.cfg.DoLinoz {
		d = p.cfg.Linoz.Solve(linoz.Level{
			Dt:              dt,
			Pressure:        c.pm[k],
			Temperature:     c.t[k],
			O3ColumnDensity: c.o3col[k],
			ZenithAngle:     u.ZenithAngle,
			Latitude:        p.grid.Latitude[col] * math.Pi / 180,
			ChlorineLoading: u.ChlorineLoading,
		}, p.clim.Levels[k], &vmr[p.o3])
		if linoz.SinkApplies(k, p.grid.NumLevels, p.cfg.Linoz.O3LBL) {
			do3Mass = p.cfg.Linoz.SurfaceSink(dt, c.pdel[k], &vmr[p.o3])
		}
	}

	for i := range vmr {
		vmr[i] = math.Max(vmr[i], 0)
		vmrcw[i] = math.Max(vmrcw[i], 0)
	}
	qqcw := make([]float64, n)
	ConvertToMMR(p.tracers, vmr, q)
	ConvertToMMR(p.tracers, vmrcw, qqcw)
	DryToWet(q, c.qv[k])
	DryToWet(qqcw, c.qv[k])
	p.ts.FromWorkingArray(col, k, q, qqcw)

	for m := range p.tracers.Modes {
		put(p.dgnum[m], sizes.DryDiameter[m], col, k)
		put(p.dgnumwet[m], sizes.WetDiameter[m], col, k)
		put(p.qaerwat[m], sizes.Water[m], col, k)
		put(p.wetdens[m], sizes.WetDensity[m], col, k)
	}
	for cat := range p.tend {
		put(p.tend[cat], tend.Total(cat), col, k)
	}
	put(p.do3, d.DO3, col, k)
	put(p.do3PSC, d.DO3PSC, col, k)
	put(p.do3Mass, do3Mass, col, k)
	return nil
}

func (p *Microphysics) String() string {
	return fmt.Sprintf("%s (%s, step %d)", processName, p.state, p.StepCounter)
}
