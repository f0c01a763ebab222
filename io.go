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
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// Dimension names of column state files.
const (
	colDim  = "ncol"
	levDim  = "lev"
	ilevDim = "ilev"
)

// unitString returns the units attribute written for d.
func unitString(d unit.Dimensions) string {
	if s := d.String(); s != "" {
		return s
	}
	return "1"
}

func layoutDims(l Layout) []string {
	switch l {
	case Interfaces:
		return []string{colDim, ilevDim}
	case Surface:
		return []string{colDim}
	default:
		return []string{colDim, levDim}
	}
}

// readFloats reads the whole of variable v as float64.
func readFloats(f *cdf.File, v string) ([]float64, error) {
	r := f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("reading %s: %v", v, err)
	}
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, x := range b {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s has unsupported type %T", v, buf)
	}
}

// ReadGrid reads the grid of the column state file at path. The file
// must have dimensions ncol and lev and may have lat and lon variables
// [degrees].
func ReadGrid(path string) (*Grid, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, configErrorf("io", "opening column state: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, configErrorf("io", "reading column state %s: %v", path, err)
	}
	ncol, nlev := -1, -1
	for _, v := range f.Header.Variables() {
		lengths := f.Header.Lengths(v)
		for i, d := range f.Header.Dimensions(v) {
			switch d {
			case colDim:
				ncol = lengths[i]
			case levDim:
				nlev = lengths[i]
			}
		}
	}
	if ncol < 0 || nlev < 0 {
		return nil, configErrorf("io", "column state %s needs variables with dimensions %s and %s", path, colDim, levDim)
	}
	g := NewGrid(ncol, nlev)
	for _, v := range []struct {
		name string
		dst  []float64
	}{{"lat", g.Latitude}, {"lon", g.Longitude}} {
		if f.Header.Lengths(v.name) == nil {
			continue
		}
		data, err := readFloats(f, v.name)
		if err != nil {
			return nil, configErrorf("io", "%s: %v", path, err)
		}
		if len(data) != ncol {
			return nil, configErrorf("io", "%s: %s has %d values, want %d", path, v.name, len(data), ncol)
		}
		copy(v.dst, data)
	}
	return g, nil
}

// ReadFields supplies every declared field present in the column state
// file at path. A field whose units attribute differs from its declared
// units is a FieldContractViolation. Declared fields missing from the file
// are left for Fields.Validate to report.
func ReadFields(path string, fields *Fields) error {
	ff, err := os.Open(path)
	if err != nil {
		return configErrorf("io", "opening column state: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return configErrorf("io", "reading column state %s: %v", path, err)
	}
	for _, name := range fields.Names() {
		spec, _ := fields.Spec(name)
		lengths := f.Header.Lengths(name)
		if lengths == nil {
			continue
		}
		if u, ok := f.Header.GetAttribute(name, "units").(string); ok && u != unitString(spec.Units) {
			return contractErrorf("io", "field %s has units %q in %s, want %q", name, u, path, unitString(spec.Units))
		}
		data, err := readFloats(f, name)
		if err != nil {
			return configErrorf("io", "%s: %v", path, err)
		}
		a := sparse.ZerosDense(lengths...)
		copy(a.Elements, data)
		if err := fields.Set(name, spec.Units, a); err != nil {
			return err
		}
	}
	return nil
}

// WriteFields writes the grid and every field with data to a new column
// state file at path.
func WriteFields(path string, g *Grid, fields *Fields) error {
	h := cdf.NewHeader([]string{colDim, levDim, ilevDim}, []int{g.NumColumns, g.NumLevels, g.NumLevels + 1})
	for _, v := range []string{"lat", "lon"} {
		h.AddVariable(v, []string{colDim}, []float64{0})
		h.AddAttribute(v, "units", "degrees")
	}
	var names []string
	for _, name := range fields.Names() {
		if fields.Get(name) == nil {
			continue
		}
		spec, _ := fields.Spec(name)
		h.AddVariable(name, layoutDims(spec.Layout), []float64{0})
		h.AddAttribute(name, "units", unitString(fields.Units(name)))
		names = append(names, name)
	}
	h.Define()
	for _, err := range h.Check() {
		return configErrorf("io", "creating column state file: %v", err)
	}

	ff, err := os.Create(path)
	if err != nil {
		return configErrorf("io", "creating column state file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return configErrorf("io", "creating column state file: %v", err)
	}
	write := func(name string, data []float64) error {
		w := f.Writer(name, make([]int, len(f.Header.Lengths(name))), f.Header.Lengths(name))
		if _, err := w.Write(data); err != nil {
			return configErrorf("io", "writing variable %s to column state file: %v", name, err)
		}
		return nil
	}
	if err := write("lat", g.Latitude); err != nil {
		return err
	}
	if err := write("lon", g.Longitude); err != nil {
		return err
	}
	for _, name := range names {
		if err := write(name, fields.Get(name).Elements); err != nil {
			return err
		}
	}
	if err := cdf.UpdateNumRecs(ff); err != nil {
		return configErrorf("io", "writing column state file: %v", err)
	}
	return nil
}
