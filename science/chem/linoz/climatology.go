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

package linoz

import (
	"errors"
	"fmt"
	"os"

	"github.com/ctessum/cdf"
)

// ErrClimatology indicates that the climatology file could not be read
// or is malformed.
var ErrClimatology = errors.New("linoz: invalid climatology")

// Climatology holds the coefficients of each model level, ordered from
// the model top.
type Climatology struct {
	Levels []Coefficients
}

// Placeholder returns a climatology of zero coefficients for nlev levels.
// With it, Solve leaves ozone unchanged.
func Placeholder(nlev int) *Climatology {
	return &Climatology{Levels: make([]Coefficients, nlev)}
}

// climatologyVars are the file variable names of each coefficient.
var climatologyVars = []struct {
	name string
	set  func(*Coefficients, float64)
}{
	{"o3_clim", func(c *Coefficients, v float64) { c.O3Clim = v }},
	{"o3col_clim", func(c *Coefficients, v float64) { c.O3ColClim = v }},
	{"t_clim", func(c *Coefficients, v float64) { c.TClim = v }},
	{"PmL_clim", func(c *Coefficients, v float64) { c.PmLClim = v }},
	{"dPmL_dO3", func(c *Coefficients, v float64) { c.DPmLDO3 = v }},
	{"dPmL_dT", func(c *Coefficients, v float64) { c.DPmLDT = v }},
	{"dPmL_dO3col", func(c *Coefficients, v float64) { c.DPmLDO3Col = v }},
	{"cariolle_pscs", func(c *Coefficients, v float64) { c.CariollePSC = v }},
}

// ReadClimatology reads coefficient profiles with nlev levels from the
// netCDF file at path. Every coefficient variable must have dimension
// "lev".
func ReadClimatology(path string, nlev int) (*Climatology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClimatology, err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrClimatology, path, err)
	}
	c := Placeholder(nlev)
	for _, v := range climatologyVars {
		dims := ff.Header.Dimensions(v.name)
		lengths := ff.Header.Lengths(v.name)
		if len(dims) != 1 || dims[0] != "lev" {
			return nil, fmt.Errorf("%w: %s: variable %s must have the single dimension lev", ErrClimatology, path, v.name)
		}
		if lengths[0] != nlev {
			return nil, fmt.Errorf("%w: %s: variable %s has %d levels, want %d", ErrClimatology, path, v.name, lengths[0], nlev)
		}
		r := ff.Reader(v.name, nil, nil)
		buf := r.Zero(nlev)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("%w: %s: reading %s: %v", ErrClimatology, path, v.name, err)
		}
		switch b := buf.(type) {
		case []float64:
			for k, val := range b {
				v.set(&c.Levels[k], val)
			}
		case []float32:
			for k, val := range b {
				v.set(&c.Levels[k], float64(val))
			}
		default:
			return nil, fmt.Errorf("%w: %s: variable %s has unsupported type %T", ErrClimatology, path, v.name, buf)
		}
	}
	return c, nil
}
