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

package gaschem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	maxIterations = 11
	maxCuts       = 5
	relTolerance  = 1e-4
	smallConc     = 1e-30 // molecules/cm3
)

// Level holds the atmospheric state of one model level.
type Level struct {
	Zm, Zi      float64 // mid-level and interface height above the surface [m]
	Phis        float64 // surface geopotential [m2/s2]
	Temperature float64 // K
	Pressure    float64 // Pa
	Pdel        float64 // pressure thickness [Pa]
	Qv          float64 // water vapor dry mixing ratio [kg/kg]
}

// Advance advances the volume mixing ratios vmr [mol/mol; number
// concentrations in #/kg] by dt seconds using backward Euler integration,
// given photolysis rates photo [1/s] indexed as in the photolysis table and
// external forcings extfrc [molecules/cm3/s or #/cm3/s] indexed as
// m.Forcings. The concentrations of the invariant species [molecules/cm3]
// are written to inv, which must have length NumInvariants.
func (m *Mechanism) Advance(lev Level, dt float64, photo, extfrc, vmr, inv []float64) error {
	if len(inv) != NumInvariants {
		return fmt.Errorf("gaschem: invariants has length %d, want %d", len(inv), NumInvariants)
	}
	if len(extfrc) != len(m.Forcings) {
		return fmt.Errorf("gaschem: %d external forcings, want %d", len(extfrc), len(m.Forcings))
	}
	m.Invariants(lev.Pressure, lev.Temperature, lev.Qv, inv)
	M := inv[IndexM]

	k := make([]float64, len(m.Reactions))
	for i, r := range m.Reactions {
		if p := m.photoIndex[i]; p >= 0 {
			if p < len(photo) {
				k[i] = photo[p]
			}
			continue
		}
		var err error
		if k[i], err = rateConstant(r, lev.Temperature, M, inv[IndexH2O]); err != nil {
			return err
		}
	}

	// Sources of solved species [molecules/cm3/s]; other tracers are
	// updated directly.
	src := make([]float64, len(m.Solve))
	rho := lev.Pressure / (287.04 * lev.Temperature) // kg/m3
	for i, f := range extfrc {
		if f == 0 {
			continue
		}
		slot := m.forcingSlots[i]
		solved := false
		for j, s := range m.solveSlots {
			if s == slot {
				src[j] += f
				solved = true
			}
		}
		if solved {
			continue
		}
		if m.Forcings[i].Number {
			vmr[slot] += dt * f * 1e6 / rho
		} else {
			vmr[slot] += dt * f / M
		}
	}

	n := make([]float64, len(m.Solve))
	for i, s := range m.solveSlots {
		n[i] = vmr[s] * M
	}
	if err := m.integrate(n, src, k, inv, dt, 0); err != nil {
		return err
	}
	for i, s := range m.solveSlots {
		if math.IsNaN(n[i]) || math.IsInf(n[i], 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, m.Solve[i])
		}
		vmr[s] = n[i] / M
	}
	return nil
}

// integrate takes a backward Euler step of length dt, halving the step
// when the Newton iteration fails to converge.
func (m *Mechanism) integrate(n, src, k, inv []float64, dt float64, cuts int) error {
	n0 := append([]float64(nil), n...)
	if m.newton(n, n0, src, k, inv, dt) {
		return nil
	}
	if cuts >= maxCuts {
		return fmt.Errorf("%w after %d time step cuts", ErrNotConverged, cuts)
	}
	copy(n, n0)
	for s := 0; s < 2; s++ {
		if err := m.integrate(n, src, k, inv, dt/2, cuts+1); err != nil {
			return err
		}
	}
	return nil
}

// newton solves n - n0 - dt·f(n) = 0 for n, starting from n0. It returns
// false if the iteration does not converge.
func (m *Mechanism) newton(n, n0, src, k, inv []float64, dt float64) bool {
	ns := len(n)
	if ns == 0 {
		return true
	}
	f := make([]float64, ns)
	jac := mat.NewDense(ns, ns, nil)
	b := mat.NewVecDense(ns, nil)
	var delta mat.VecDense
	for iter := 0; iter < maxIterations; iter++ {
		m.tendency(n, src, k, inv, f, jac)
		// A = I - dt·J; b = -(n - n0 - dt·f)
		jac.Scale(-dt, jac)
		for i := 0; i < ns; i++ {
			jac.Set(i, i, jac.At(i, i)+1)
			b.SetVec(i, -(n[i] - n0[i] - dt*f[i]))
		}
		if err := delta.SolveVec(jac, b); err != nil {
			if _, ok := err.(mat.Condition); !ok {
				return false
			}
		}
		converged := true
		for i := 0; i < ns; i++ {
			d := delta.AtVec(i)
			n[i] += d
			if n[i] < 0 {
				n[i] = 0
			}
			if math.Abs(d) > relTolerance*math.Max(n[i], smallConc) {
				converged = false
			}
		}
		if floats.HasNaN(n) {
			return false
		}
		if converged {
			return true
		}
	}
	return false
}

// tendency calculates the chemical tendency f [molecules/cm3/s] of the
// solved species at concentrations n and its Jacobian jac.
func (m *Mechanism) tendency(n, src, k, inv, f []float64, jac *mat.Dense) {
	copy(f, src)
	ns := len(n)
	for i := 0; i < ns; i++ {
		for j := 0; j < ns; j++ {
			jac.Set(i, j, 0)
		}
	}
	conc := func(t term) float64 {
		if t.solve >= 0 {
			return n[t.solve]
		}
		return inv[t.invariant]
	}
	for r, reactants := range m.reactants {
		rate := k[r]
		for _, t := range reactants {
			rate *= conc(t)
		}
		// Partial derivative of the rate with respect to each solved
		// reactant occurrence.
		for p, tp := range reactants {
			if tp.solve < 0 {
				continue
			}
			d := k[r]
			for q, tq := range reactants {
				if q != p {
					d *= conc(tq)
				}
			}
			for _, t := range reactants {
				if t.solve >= 0 {
					jac.Set(t.solve, tp.solve, jac.At(t.solve, tp.solve)-d)
				}
			}
			for _, t := range m.products[r] {
				if t.solve >= 0 {
					jac.Set(t.solve, tp.solve, jac.At(t.solve, tp.solve)+d)
				}
			}
		}
		for _, t := range reactants {
			if t.solve >= 0 {
				f[t.solve] -= rate
			}
		}
		for _, t := range m.products[r] {
			if t.solve >= 0 {
				f[t.solve] += rate
			}
		}
	}
}
