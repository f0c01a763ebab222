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

import "fmt"

// Grid is the horizontal and vertical layout of the physics columns.
// Level 0 is the model top and level NumLevels-1 is adjacent to the
// surface.
type Grid struct {
	NumColumns int
	NumLevels  int

	// Latitude and Longitude of each column [degrees].
	Latitude, Longitude []float64

	// NumTracers is the size of the host model's advected tracer group,
	// or zero if the host does not report it.
	NumTracers int
}

// NewGrid returns a grid of ncol columns with nlev levels located at
// latitude and longitude zero.
func NewGrid(ncol, nlev int) *Grid {
	return &Grid{
		NumColumns: ncol,
		NumLevels:  nlev,
		Latitude:   make([]float64, ncol),
		Longitude:  make([]float64, ncol),
	}
}

func (g *Grid) validate() error {
	if g == nil {
		return fmt.Errorf("nil grid")
	}
	if g.NumColumns < 1 || g.NumLevels < 1 {
		return fmt.Errorf("grid must have at least one column and level, has %d and %d", g.NumColumns, g.NumLevels)
	}
	if len(g.Latitude) != g.NumColumns || len(g.Longitude) != g.NumColumns {
		return fmt.Errorf("grid has %d columns but %d latitudes and %d longitudes", g.NumColumns, len(g.Latitude), len(g.Longitude))
	}
	return nil
}
