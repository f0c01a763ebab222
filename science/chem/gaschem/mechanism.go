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

// Package gaschem advances the gas-phase chemical mechanism by one time
// step with an implicit Newton solver.
package gaschem

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNonFinite indicates that the solver produced a non-finite
	// concentration.
	ErrNonFinite = errors.New("gaschem: non-finite concentration")

	// ErrNotConverged indicates that the Newton iteration failed to
	// converge even after the maximum number of time step cuts.
	ErrNotConverged = errors.New("gaschem: Newton iteration did not converge")
)

// Invariant species indices.
const (
	IndexM = iota
	IndexN2
	IndexO2
	IndexH2O
	IndexOH
	IndexHO2
	IndexNO3
	NumInvariants
)

var invariantNames = []string{"M", "N2", "O2", "H2O", "OH", "HO2", "NO3"}

// Reaction is one reaction of the mechanism. Repeated reactants or products
// express stoichiometric coefficients.
type Reaction struct {
	Name      string   `toml:"name"`
	Kind      string   `toml:"kind"`
	A         float64  `toml:"a"`
	E         float64  `toml:"e"`
	Reactants []string `toml:"reactants"`
	Products  []string `toml:"products"`
}

// Forcing is an external source of a tracer.
type Forcing struct {
	Species string `toml:"species"`
	Number  bool   `toml:"number"` // the species is a number concentration
}

type term struct {
	slot      int // working-array slot, or -1 for an invariant
	invariant int
	solve     int // position in the solve vector, or -1
}

// Mechanism is a resolved chemical mechanism.
type Mechanism struct {
	Solve     []string   `toml:"solve"`
	Reactions []Reaction `toml:"reaction"`
	Forcings  []Forcing  `toml:"forcing"`

	// Oxidants holds the prescribed volume mixing ratios of OH, HO2, and
	// NO3 [mol/mol].
	Oxidants Oxidants `toml:"-"`

	solveSlots   []int
	reactants    [][]term
	products     [][]term
	photoIndex   []int
	forcingSlots []int
}

// Oxidants are prescribed oxidant volume mixing ratios.
type Oxidants struct {
	OH, HO2, NO3 float64
}

// Parse reads a TOML mechanism description.
func Parse(r io.Reader) (*Mechanism, error) {
	m := new(Mechanism)
	if _, err := toml.DecodeReader(r, m); err != nil {
		return nil, fmt.Errorf("gaschem: decoding mechanism: %v", err)
	}
	return m, nil
}

// Default returns the built-in mechanism resolved against a working-array
// layout. slot returns the working-array index of a tracer name and
// photoNames lists the reactions available from the photolysis table.
func Default(slot func(name string) (int, bool), photoNames []string) (*Mechanism, error) {
	m, err := Parse(strings.NewReader(mechanism))
	if err != nil {
		return nil, err
	}
	if err := m.Resolve(slot, photoNames); err != nil {
		return nil, err
	}
	return m, nil
}

// NumForcings returns the number of external forcings expected by Advance.
func (m *Mechanism) NumForcings() int { return len(m.Forcings) }

// Resolve binds species names to working-array slots.
func (m *Mechanism) Resolve(slot func(name string) (int, bool), photoNames []string) error {
	solvePos := make(map[string]int)
	m.solveSlots = make([]int, len(m.Solve))
	for i, s := range m.Solve {
		j, ok := slot(s)
		if !ok {
			return fmt.Errorf("gaschem: solve species %s has no working-array slot", s)
		}
		m.solveSlots[i] = j
		solvePos[s] = i
	}
	invPos := make(map[string]int)
	for i, s := range invariantNames {
		invPos[s] = i
	}
	resolve := func(r Reaction, names []string) ([]term, error) {
		t := make([]term, len(names))
		for i, n := range names {
			if p, ok := solvePos[n]; ok {
				t[i] = term{slot: m.solveSlots[p], solve: p, invariant: -1}
			} else if p, ok := invPos[n]; ok {
				t[i] = term{slot: -1, solve: -1, invariant: p}
			} else {
				return nil, fmt.Errorf("gaschem: reaction %s: unknown species %s", r.Name, n)
			}
		}
		return t, nil
	}
	m.reactants = make([][]term, len(m.Reactions))
	m.products = make([][]term, len(m.Reactions))
	m.photoIndex = make([]int, len(m.Reactions))
	for i, r := range m.Reactions {
		var err error
		if m.reactants[i], err = resolve(r, r.Reactants); err != nil {
			return err
		}
		if m.products[i], err = resolve(r, r.Products); err != nil {
			return err
		}
		m.photoIndex[i] = -1
		if r.Kind == "photolysis" {
			for j, n := range photoNames {
				if n == r.Name {
					m.photoIndex[i] = j
				}
			}
			if m.photoIndex[i] < 0 {
				return fmt.Errorf("gaschem: photolysis reaction %s is not in the photolysis table", r.Name)
			}
		} else if _, err := rateConstant(r, 250, 2.5e19, 0); err != nil {
			return err
		}
	}
	m.forcingSlots = make([]int, len(m.Forcings))
	for i, f := range m.Forcings {
		j, ok := slot(f.Species)
		if !ok {
			return fmt.Errorf("gaschem: forcing species %s has no working-array slot", f.Species)
		}
		m.forcingSlots[i] = j
	}
	return nil
}
