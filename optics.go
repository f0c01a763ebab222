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
	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

const opticsProcessName = "mam4_optics"

// Reference aerosol optical properties.
const (
	refAsymmetry    = 0.5
	refSingleScat   = 0.7
	refShortwaveTau = 0
	refLongwaveTau  = 0
	refCCN          = 50 // #/cm3
)

// Optics provides aerosol optical properties to the radiation and cloud
// processes. The properties are uniform reference values.
type Optics struct {
	Log logrus.FieldLogger

	grid   *Grid
	fields *Fields
	ready  bool
}

var opticsFields = []struct {
	name  string
	units unit.Dimensions
	value float64
}{
	{"aero_g_sw", unit.Dimless, refAsymmetry},
	{"aero_ssa_sw", unit.Dimless, refSingleScat},
	{"aero_tau_sw", unit.Dimless, refShortwaveTau},
	{"aero_tau_lw", unit.Dimless, refLongwaveTau},
	{"nccn", unit.Dimless, refCCN}, // #/cm3
}

// SetGrids declares the optical property fields in f.
func (o *Optics) SetGrids(g *Grid, f *Fields) error {
	if err := g.validate(); err != nil {
		return configErrorf(opticsProcessName, "%v", err)
	}
	for _, v := range opticsFields {
		if err := f.Declare(opticsProcessName, FieldSpec{Name: v.name, Intent: Computed, Layout: Midpoints, Units: v.units}); err != nil {
			return err
		}
	}
	o.grid, o.fields = g, f
	return nil
}

// Initialize checks the declared fields.
func (o *Optics) Initialize() error {
	if o.fields == nil {
		return configErrorf(opticsProcessName, "Initialize called before SetGrids")
	}
	if err := o.fields.Validate(opticsProcessName); err != nil {
		return err
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	o.ready = true
	return nil
}

// Run fills the optical property fields of every column.
func (o *Optics) Run(dt float64) error {
	if !o.ready {
		return configErrorf(opticsProcessName, "Run called before Initialize")
	}
	o.Log.WithFields(logrus.Fields{"process": opticsProcessName, "dt": dt}).Debug("running")
	return forEachColumn(o.grid.NumColumns, func(col int) error {
		for _, v := range opticsFields {
			a := o.fields.Get(v.name)
			for k := 0; k < o.grid.NumLevels; k++ {
				a.Elements[a.Index1d(col, k)] = v.value
			}
		}
		return nil
	})
}

// Finalize ends the run.
func (o *Optics) Finalize() error {
	o.ready = false
	return nil
}
