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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/colchem/science/aero/mam"
	"github.com/spatialmodel/colchem/science/photolysis"
)

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	return 2*math.Abs(a-b)/math.Abs(a+b) > tolerance
}

type ncVar struct {
	name string
	dims []string
	data []float64
}

func writeNCF(t *testing.T, path string, dims []string, lengths []int, vars []ncVar) {
	h := cdf.NewHeader(dims, lengths)
	for _, v := range vars {
		h.AddVariable(v.name, v.dims, []float64{0})
	}
	h.Define()
	for _, err := range h.Check() {
		if err != nil {
			t.Fatal(err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ff, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vars {
		end := ff.Header.Lengths(v.name)
		w := ff.Writer(v.name, make([]int, len(end)), end)
		if _, err := w.Write(v.data); err != nil {
			t.Fatalf("writing %s: %v", v.name, err)
		}
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		t.Fatal(err)
	}
}

// writeTestTables writes a minimal pair of photolysis table files.
func writeTestTables(t *testing.T) (rsfPath, xsPath string) {
	dir := t.TempDir()
	rsfPath = filepath.Join(dir, "rsf.nc")
	xsPath = filepath.Join(dir, "xs.nc")

	pm := []float64{1000, 100}
	sza := []float64{0, 90}
	alb := []float64{0, 1}
	colo3fact := []float64{0.5, 1.5}
	wc := []float64{300, 400}
	wlintv := []float64{10, 20}
	rsf := make([]float64, len(wc)*len(alb)*len(colo3fact)*len(sza)*len(pm))
	for i := range rsf {
		rsf[i] = 1
	}
	writeNCF(t, rsfPath,
		[]string{"numz", "numsza", "numalb", "numcolo3fact", "numwl"},
		[]int{len(pm), len(sza), len(alb), len(colo3fact), len(wc)},
		[]ncVar{
			{"pm", []string{"numz"}, pm},
			{"colo3", []string{"numz"}, []float64{8e18, 2e18}},
			{"sza", []string{"numsza"}, sza},
			{"alb", []string{"numalb"}, alb},
			{"colo3fact", []string{"numcolo3fact"}, colo3fact},
			{"wc", []string{"numwl"}, wc},
			{"wlintv", []string{"numwl"}, wlintv},
			{"RSF", []string{"numwl", "numalb", "numcolo3fact", "numsza", "numz"}, rsf},
		})

	const nt = 201
	prs := []float64{1000, 10}
	xsVars := []ncVar{{"pressure", []string{"numprs"}, prs}}
	for _, name := range photolysis.ReactionNames {
		d := make([]float64, len(wc)*nt*len(prs))
		for i := range d {
			d[i] = 1e-20
		}
		xsVars = append(xsVars, ncVar{name, []string{"numwl", "numtemp", "numprs"}, d})
	}
	writeNCF(t, xsPath, []string{"numtemp", "numwl", "numprs"}, []int{nt, len(wc), len(prs)}, xsVars)
	return rsfPath, xsPath
}

// testConfig returns the default settings reading the test tables.
func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.RSFFile, cfg.XSLongFile = writeTestTables(t)
	return cfg
}

// disabled turns off every chemistry and microphysics stage.
func disabled(cfg Config) Config {
	cfg.DoGasChem, cfg.DoAqueousChem, cfg.DoLinoz = false, false, false
	cfg.Microphysics.DoCond = false
	cfg.Microphysics.DoRename = false
	cfg.Microphysics.DoNewnuc = false
	cfg.Microphysics.DoCoag = false
	return cfg
}

// testValue returns a plausible value of a host-supplied field at level k
// of nlev, counted from the model top.
func testValue(c *mam.Config, name string, col, k, nlev int) float64 {
	frac := (float64(k) + 0.5) / float64(nlev) // 0 at the top, 1 at the surface
	switch name {
	case "T_mid":
		return 210 + 80*frac + float64(col)
	case "p_mid":
		return 1e5 * frac
	case "pseudo_density":
		return 1e5 / float64(nlev)
	case "qv":
		return 1e-2 * frac * frac
	case "cldfrac_tot":
		return 0.3
	case "pbl_height":
		return 1000
	case "omega", "phis", "qi", "ni", "qc", "nc":
		return 0
	case "O3":
		return 1e-6 * (1 - frac)
	case "H2O2", "SO2":
		return 1e-9
	case "H2SO4":
		return 1e-11
	case "DMS", "SOAG":
		return 1e-10
	}
	for m := range c.Modes {
		number := []float64{1e8, 1e9, 1e6, 1e8}[m]
		switch name {
		case c.NumberName(m):
			return number
		case mam.CloudBorne(c.NumberName(m)):
			return 0.5 * number
		}
		for s := range c.Modes[m].Species {
			switch name {
			case c.MassName(m, s):
				return 1e-9
			case mam.CloudBorne(c.MassName(m, s)):
				return 0.5e-9
			}
		}
	}
	return 0
}

// supply fills every declared Required or Updated field of f with test
// values.
func supply(t *testing.T, f *Fields) {
	c := mam.Default()
	for _, name := range f.Names() {
		spec, _ := f.Spec(name)
		if spec.Intent == Computed {
			continue
		}
		shape := f.shape(spec.Layout)
		a := sparse.ZerosDense(shape...)
		nlev := f.grid.NumLevels
		for col := 0; col < f.grid.NumColumns; col++ {
			if spec.Layout == Surface {
				a.Elements[a.Index1d(col)] = testValue(c, name, col, nlev-1, nlev)
				continue
			}
			for k := 0; k < shape[1]; k++ {
				a.Elements[a.Index1d(col, k)] = testValue(c, name, col, k, nlev)
			}
		}
		if err := f.Set(name, spec.Units, a); err != nil {
			t.Fatal(err)
		}
	}
}

// newTestProcess returns an initialized Microphysics process on a grid of
// ncol columns and nlev levels.
func newTestProcess(t *testing.T, cfg Config, ncol, nlev int) (*Microphysics, *Fields) {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	p := &Microphysics{Log: log}
	if err := p.Configure(cfg); err != nil {
		t.Fatal(err)
	}
	g := NewGrid(ncol, nlev)
	for i := range g.Latitude {
		g.Latitude[i] = -60 + 120*float64(i)/float64(ncol)
	}
	f := NewFields(g)
	if err := p.SetGrids(g, f); err != nil {
		t.Fatal(err)
	}
	supply(t, f)
	if err := p.Initialize(); err != nil {
		t.Fatal(err)
	}
	return p, f
}

// tracerSnapshot copies every tracer field of f.
func tracerSnapshot(f *Fields) map[string][]float64 {
	out := make(map[string][]float64)
	for _, s := range tracerSpecs(mam.Default()) {
		out[s.Name] = append([]float64{}, f.Get(s.Name).Elements...)
	}
	return out
}
