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

	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// Intent describes how a process uses a field.
type Intent int

const (
	// Required fields are read but not modified.
	Required Intent = iota
	// Updated fields are read and modified.
	Updated
	// Computed fields are written only.
	Computed
)

func (i Intent) String() string {
	switch i {
	case Required:
		return "required"
	case Updated:
		return "updated"
	case Computed:
		return "computed"
	default:
		return fmt.Sprintf("Intent(%d)", int(i))
	}
}

// Layout describes the shape of a field.
type Layout int

const (
	// Midpoints fields have shape [columns, levels].
	Midpoints Layout = iota
	// Interfaces fields have shape [columns, levels+1].
	Interfaces
	// Surface fields have shape [columns].
	Surface
)

func (l Layout) String() string {
	switch l {
	case Midpoints:
		return "midpoints"
	case Interfaces:
		return "interfaces"
	case Surface:
		return "surface"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Units used by the fields.
var (
	perKilogram       = unit.Dimensions{unit.MassDim: -1}
	meter2PerSecond2  = unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2}
	pascalPerSecond   = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -1, unit.TimeDim: -3}
	kilogramPerMeter2 = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: -2}
)

// FieldSpec declares a field used by a process.
type FieldSpec struct {
	Name   string
	Intent Intent
	Layout Layout
	Units  unit.Dimensions
}

type field struct {
	FieldSpec
	data      *sparse.DenseArray
	units     unit.Dimensions // units of the supplied data
	processes []string
}

// Fields is a registry of named gridded fields shared between the host
// model and the processes.
type Fields struct {
	grid   *Grid
	fields map[string]*field
	order  []string
}

// NewFields returns an empty registry for grid g.
func NewFields(g *Grid) *Fields {
	return &Fields{grid: g, fields: make(map[string]*field)}
}

func (f *Fields) shape(l Layout) []int {
	switch l {
	case Interfaces:
		return []int{f.grid.NumColumns, f.grid.NumLevels + 1}
	case Surface:
		return []int{f.grid.NumColumns}
	default:
		return []int{f.grid.NumColumns, f.grid.NumLevels}
	}
}

func contractErrorf(process, format string, args ...interface{}) error {
	return &Error{Kind: FieldContractViolation, Process: process, Column: -1, Level: -1, Err: fmt.Errorf(format, args...)}
}

// Declare records that process uses the given fields. A field declared by
// more than one process must have the same layout and units each time.
// Computed fields are allocated and zeroed if no data has been supplied.
func (f *Fields) Declare(process string, specs ...FieldSpec) error {
	for _, s := range specs {
		fl, ok := f.fields[s.Name]
		if !ok {
			fl = &field{FieldSpec: s}
			f.fields[s.Name] = fl
			f.order = append(f.order, s.Name)
		} else if len(fl.processes) > 0 {
			if fl.Layout != s.Layout || !fl.Units.Matches(s.Units) {
				return contractErrorf(process, "field %s declared as %s [%v], previously %s [%v] by %v",
					s.Name, s.Layout, s.Units, fl.Layout, fl.Units, fl.processes)
			}
			if s.Intent != fl.Intent {
				s.Intent = Updated
			}
			fl.FieldSpec = s
		} else {
			fl.FieldSpec = s
		}
		fl.processes = append(fl.processes, process)
		if s.Intent == Computed && fl.data == nil {
			fl.data = sparse.ZerosDense(f.shape(s.Layout)...)
			fl.units = s.Units
		}
	}
	return nil
}

// Set supplies the data of a field in the given units. The data must
// have the shape of the field's layout if the field has been declared.
func (f *Fields) Set(name string, units unit.Dimensions, data *sparse.DenseArray) error {
	fl, ok := f.fields[name]
	if !ok {
		fl = &field{FieldSpec: FieldSpec{Name: name, Units: units}}
		f.fields[name] = fl
		f.order = append(f.order, name)
		if len(data.Shape) == 1 {
			fl.Layout = Surface
		} else if len(data.Shape) == 2 && data.Shape[1] == f.grid.NumLevels+1 {
			fl.Layout = Interfaces
		}
	}
	if len(fl.processes) > 0 {
		if err := checkShape(data.Shape, f.shape(fl.Layout)); err != nil {
			return contractErrorf(fl.processes[0], "field %s: %v", name, err)
		}
	}
	fl.data = data
	fl.units = units
	return nil
}

func checkShape(have, want []int) error {
	if len(have) != len(want) {
		return fmt.Errorf("shape %v, want %v", have, want)
	}
	for i := range have {
		if have[i] != want[i] {
			return fmt.Errorf("shape %v, want %v", have, want)
		}
	}
	return nil
}

// Get returns the data of the named field, or nil if none has been
// supplied.
func (f *Fields) Get(name string) *sparse.DenseArray {
	if fl, ok := f.fields[name]; ok {
		return fl.data
	}
	return nil
}

// Spec returns the declaration of the named field.
func (f *Fields) Spec(name string) (FieldSpec, bool) {
	fl, ok := f.fields[name]
	if !ok {
		return FieldSpec{}, false
	}
	return fl.FieldSpec, true
}

// Names returns the names of all fields, in the order they were first
// declared or supplied.
func (f *Fields) Names() []string {
	return append([]string{}, f.order...)
}

// Units returns the units of the supplied data of the named field.
func (f *Fields) Units(name string) unit.Dimensions {
	if fl, ok := f.fields[name]; ok {
		return fl.units
	}
	return nil
}

// Validate checks that every field declared by process has data with the
// declared units and layout.
func (f *Fields) Validate(process string) error {
	for _, name := range f.order {
		fl := f.fields[name]
		if !contains(fl.processes, process) {
			continue
		}
		if fl.data == nil {
			return contractErrorf(process, "%s field %s has not been supplied", fl.Intent, name)
		}
		if !fl.units.Matches(fl.Units) {
			return contractErrorf(process, "field %s has units [%v], want [%v]", name, fl.units, fl.Units)
		}
		if err := checkShape(fl.data.Shape, f.shape(fl.Layout)); err != nil {
			return contractErrorf(process, "field %s (%s): %v", name, fl.Layout, err)
		}
	}
	return nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
