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
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
	"github.com/spatialmodel/colchem/science/aero/mam"
)

// TracerState gives access to the tracer fields of the grid through
// flat working arrays laid out according to a tracer configuration.
type TracerState struct {
	c            *mam.Config
	interstitial []*sparse.DenseArray // one per working-array slot
	cloudBorne   []*sparse.DenseArray // nil for gases
}

// tracerSpecs returns the declarations of the interstitial, cloud-borne
// and gas tracer fields of configuration c.
func tracerSpecs(c *mam.Config) []FieldSpec {
	specs := make([]FieldSpec, 0, c.NumTracerFields())
	add := func(name string, units unit.Dimensions) {
		specs = append(specs, FieldSpec{Name: name, Intent: Updated, Layout: Midpoints, Units: units})
	}
	for m, mode := range c.Modes {
		add(c.NumberName(m), perKilogram)
		add(mam.CloudBorne(c.NumberName(m)), perKilogram)
		for s := range mode.Species {
			add(c.MassName(m, s), unit.Dimless)
			add(mam.CloudBorne(c.MassName(m, s)), unit.Dimless)
		}
	}
	for _, g := range c.Gases {
		add(g.Name, unit.Dimless)
	}
	return specs
}

// NewTracerState binds the tracer fields of f to the working-array layout
// of c. Fields that have not been supplied are skipped.
func NewTracerState(c *mam.Config, f *Fields) *TracerState {
	ts := &TracerState{
		c:            c,
		interstitial: make([]*sparse.DenseArray, c.GasPcnst),
		cloudBorne:   make([]*sparse.DenseArray, c.GasPcnst),
	}
	for i := range c.Gases {
		ts.interstitial[i] = f.Get(c.SlotName(i))
	}
	for m, mode := range c.Modes {
		i := c.NumberIndex[m]
		ts.interstitial[i] = f.Get(c.NumberName(m))
		ts.cloudBorne[i] = f.Get(mam.CloudBorne(c.NumberName(m)))
		for s := range mode.Species {
			i := c.MassIndex[m][s]
			ts.interstitial[i] = f.Get(c.MassName(m, s))
			ts.cloudBorne[i] = f.Get(mam.CloudBorne(c.MassName(m, s)))
		}
	}
	return ts
}

// ToWorkingArray copies the interstitial and cloud-borne tracers of one
// level into q and qqcw, which must have length GasPcnst. Slots without a
// field are set to zero.
func (ts *TracerState) ToWorkingArray(col, lev int, q, qqcw []float64) {
	for i := range q {
		q[i], qqcw[i] = 0, 0
		if a := ts.interstitial[i]; a != nil {
			q[i] = a.Get(col, lev)
		}
		if a := ts.cloudBorne[i]; a != nil {
			qqcw[i] = a.Get(col, lev)
		}
	}
}

// FromWorkingArray copies q and qqcw back into the tracer fields of one
// level. Slots without a field are not written.
func (ts *TracerState) FromWorkingArray(col, lev int, q, qqcw []float64) {
	for i := range q {
		if a := ts.interstitial[i]; a != nil {
			a.Elements[a.Index1d(col, lev)] = q[i]
		}
		if a := ts.cloudBorne[i]; a != nil {
			a.Elements[a.Index1d(col, lev)] = qqcw[i]
		}
	}
}

// ConvertToVMR converts mass mixing ratios q [kg/kg] to volume mixing
// ratios vmr [mol/mol]. Number mixing ratios pass through unchanged.
func ConvertToVMR(c *mam.Config, q, vmr []float64) {
	for i, mw := range c.MolarMass {
		vmr[i] = q[i] * (mam.MWDryAir / mw)
	}
}

// ConvertToMMR converts volume mixing ratios vmr [mol/mol] to mass mixing
// ratios q [kg/kg]. Number mixing ratios pass through unchanged.
func ConvertToMMR(c *mam.Config, vmr, q []float64) {
	for i, mw := range c.MolarMass {
		q[i] = vmr[i] * (mw / mam.MWDryAir)
	}
}
