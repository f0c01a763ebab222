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

// Package photolysis builds the photolysis rate lookup table from
// radiative-transfer and cross-section files and interpolates rates
// for atmospheric columns.
package photolysis

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/colchem/comm"
	"github.com/spatialmodel/colchem/internal/hash"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrFileAccess indicates that a table file could not be opened or read.
	ErrFileAccess = errors.New("photolysis: file access error")

	// ErrTableFormat indicates that a table file is missing a required
	// dimension or variable or that its contents are inconsistent.
	ErrTableFormat = errors.New("photolysis: table format error")
)

// ReactionNames are the tagged reactions of the chemical mechanism whose
// rates are looked up in the cross-section file.
var ReactionNames = []string{"jh2o2", "usr_HO2_HO2", "usr_SO2_OH", "usr_DMS_OH"}

const root = 0

// Table holds tabulated photolysis data. A Table is read-only after Build
// returns and may be shared between goroutines.
type Table struct {
	// Table dimensions.
	Nw, Nt, NpXS, Numj, Nump, Numsza, Numcolo3, Numalb int

	// Rsf is the radiative source function with shape
	// [Nw, Numalb, Numcolo3, Numsza, Nump].
	Rsf *sparse.DenseArray

	// Xsqy holds cross section times quantum yield with shape
	// [Numj, Nw, Nt, NpXS].
	Xsqy *sparse.DenseArray

	Sza   []float64 // solar zenith angle grid [degrees]
	Alb   []float64 // surface albedo grid
	Press []float64 // RSF pressure grid [hPa]
	Colo3 []float64 // standard ozone column on the RSF pressure grid [molecules/cm2]
	O3Rat []float64 // ozone column ratio grid
	Prs   []float64 // cross-section pressure grid [hPa]

	// Etfphot is the extraterrestrial photon flux rebinned to the table
	// wavelength bands.
	Etfphot []float64

	// Wavelength band edges [nm].
	We []float64

	// Inverse grid spacings.
	DelP, DelSza, DelAlb, DelO3Rat, Dprs []float64

	// LngIndexer maps each entry of ReactionNames to its row in Xsqy.
	LngIndexer []int

	PhtAliasMult []float64
}

// Build reads the table on the root worker of c and broadcasts it to the
// other workers. Every worker must call Build; all of them return
// identical tables.
func Build(rsfFile, xsLongFile string, c comm.Communicator) (*Table, error) {
	t := new(Table)
	var readErr error
	header := make([]int, 9)
	if c.Rank() == root {
		readErr = t.read(rsfFile, xsLongFile)
		if readErr == nil {
			copy(header[1:], []int{t.Nump, t.Numsza, t.Numcolo3, t.Numalb, t.Nt, t.Nw, t.NpXS, t.Numj})
		} else {
			header[0] = 1
		}
	}
	if err := c.BroadcastInts(header, root); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, readErr
	}
	if header[0] != 0 {
		return nil, fmt.Errorf("%w: table read failed on root worker", ErrFileAccess)
	}
	if c.Rank() != root {
		t.Nump, t.Numsza, t.Numcolo3, t.Numalb = header[1], header[2], header[3], header[4]
		t.Nt, t.Nw, t.NpXS, t.Numj = header[5], header[6], header[7], header[8]
		t.allocate()
	}

	if err := c.BroadcastInts(t.LngIndexer, root); err != nil {
		return nil, err
	}
	for _, buf := range [][]float64{
		t.PhtAliasMult,
		t.Rsf.Elements,
		t.Xsqy.Elements,
		t.Sza,
		t.Alb,
		t.Press,
		t.O3Rat,
		t.Colo3,
		t.Etfphot,
		t.Prs,
		t.We,
	} {
		if err := c.BroadcastFloats(buf, root); err != nil {
			return nil, err
		}
	}
	if err := t.computeSpacings(); err != nil {
		return nil, err
	}
	return t, nil
}

// allocate creates the table arrays from the table dimensions.
func (t *Table) allocate() {
	t.Rsf = sparse.ZerosDense(t.Nw, t.Numalb, t.Numcolo3, t.Numsza, t.Nump)
	t.Xsqy = sparse.ZerosDense(max1(t.Numj), t.Nw, t.Nt, t.NpXS)
	t.Sza = make([]float64, t.Numsza)
	t.Alb = make([]float64, t.Numalb)
	t.Press = make([]float64, t.Nump)
	t.Colo3 = make([]float64, t.Nump)
	t.O3Rat = make([]float64, t.Numcolo3)
	t.Prs = make([]float64, t.NpXS)
	t.Etfphot = make([]float64, t.Nw)
	t.We = make([]float64, t.Nw+1)
	t.LngIndexer = make([]int, len(ReactionNames))
	t.PhtAliasMult = make([]float64, 2)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// computeSpacings computes the inverse grid spacings for the five
// tabulated axes concurrently.
func (t *Table) computeSpacings() error {
	t.DelP = make([]float64, max0(t.Nump-1))
	t.DelSza = make([]float64, max0(t.Numsza-1))
	t.DelAlb = make([]float64, max0(t.Numalb-1))
	t.DelO3Rat = make([]float64, max0(t.Numcolo3-1))
	t.Dprs = make([]float64, max0(t.NpXS-1))

	var g errgroup.Group
	spacing := func(name string, dst, grid []float64, f func(a, b float64) float64) {
		g.Go(func() error {
			for i := range dst {
				d := f(grid[i], grid[i+1])
				if d == 0 || math.IsNaN(d) {
					return fmt.Errorf("%w: repeated value %g in %s grid at index %d", ErrTableFormat, grid[i], name, i)
				}
				dst[i] = 1 / d
			}
			return nil
		})
	}
	spacing("pm", t.DelP, t.Press, func(a, b float64) float64 { return math.Abs(a - b) })
	spacing("sza", t.DelSza, t.Sza, func(a, b float64) float64 { return b - a })
	spacing("alb", t.DelAlb, t.Alb, func(a, b float64) float64 { return b - a })
	spacing("colo3fact", t.DelO3Rat, t.O3Rat, func(a, b float64) float64 { return b - a })
	spacing("pressure", t.Dprs, t.Prs, func(a, b float64) float64 { return a - b })
	return g.Wait()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Checksum returns a hash of the table contents.
func (t *Table) Checksum() string {
	dims := []float64{float64(t.Nw), float64(t.Nt), float64(t.NpXS), float64(t.Numj),
		float64(t.Nump), float64(t.Numsza), float64(t.Numcolo3), float64(t.Numalb)}
	for _, i := range t.LngIndexer {
		dims = append(dims, float64(i))
	}
	return hash.Float64s(dims, t.Rsf.Elements, t.Xsqy.Elements, t.Sza, t.Alb,
		t.Press, t.Colo3, t.O3Rat, t.Prs, t.Etfphot, t.We, t.DelP, t.DelSza,
		t.DelAlb, t.DelO3Rat, t.Dprs, t.PhtAliasMult)
}

// Dims summarizes the table dimensions.
func (t *Table) Dims() string {
	return fmt.Sprintf("nw=%d nt=%d np_xs=%d numj=%d nump=%d numsza=%d numcolo3=%d numalb=%d",
		t.Nw, t.Nt, t.NpXS, t.Numj, t.Nump, t.Numsza, t.Numcolo3, t.Numalb)
}

// read reads the table files. It is called only on the root worker.
func (t *Table) read(rsfFile, xsLongFile string) error {
	rsfF, rsf, err := openNCF(rsfFile)
	if err != nil {
		return err
	}
	defer rsfF.Close()
	xsF, xs, err := openNCF(xsLongFile)
	if err != nil {
		return err
	}
	defer xsF.Close()

	for _, d := range []struct {
		f    *cdf.File
		file string
		name string
		dst  *int
	}{
		{rsf, rsfFile, "numz", &t.Nump},
		{rsf, rsfFile, "numsza", &t.Numsza},
		{rsf, rsfFile, "numalb", &t.Numalb},
		{rsf, rsfFile, "numcolo3fact", &t.Numcolo3},
		{xs, xsLongFile, "numtemp", &t.Nt},
		{xs, xsLongFile, "numwl", &t.Nw},
		{xs, xsLongFile, "numprs", &t.NpXS},
	} {
		n, err := dimension(d.f, d.name)
		if err != nil {
			return fmt.Errorf("photolysis: %s: %w", d.file, err)
		}
		*d.dst = n
	}

	indexer, numj, err := lngIndexer(xs)
	if err != nil {
		return fmt.Errorf("photolysis: %s: %w", xsLongFile, err)
	}
	t.Numj = numj
	t.allocate()
	copy(t.LngIndexer, indexer)
	for i := range t.PhtAliasMult {
		t.PhtAliasMult[i] = 1
	}

	for _, v := range []struct {
		f    *cdf.File
		file string
		name string
		dst  []float64
	}{
		{rsf, rsfFile, "pm", t.Press},
		{rsf, rsfFile, "sza", t.Sza},
		{rsf, rsfFile, "alb", t.Alb},
		{rsf, rsfFile, "colo3fact", t.O3Rat},
		{rsf, rsfFile, "colo3", t.Colo3},
		{rsf, rsfFile, "RSF", t.Rsf.Elements},
		{xs, xsLongFile, "pressure", t.Prs},
	} {
		if err := readVar(v.f, v.name, v.dst); err != nil {
			return fmt.Errorf("photolysis: %s: %w", v.file, err)
		}
	}

	// Cross sections for each distinct reaction.
	rowSize := t.Nw * t.Nt * t.NpXS
	read := make(map[int]bool)
	for m, row := range t.LngIndexer {
		if read[row] {
			continue
		}
		read[row] = true
		dst := t.Xsqy.Elements[row*rowSize : (row+1)*rowSize]
		if err := readVar(xs, ReactionNames[m], dst); err != nil {
			return fmt.Errorf("photolysis: %s: %w", xsLongFile, err)
		}
	}

	wc := make([]float64, t.Nw)
	wlintv := make([]float64, t.Nw)
	if err := readVar(rsf, "wc", wc); err != nil {
		return fmt.Errorf("photolysis: %s: %w", rsfFile, err)
	}
	if err := readVar(rsf, "wlintv", wlintv); err != nil {
		return fmt.Errorf("photolysis: %s: %w", rsfFile, err)
	}
	WavelengthEdges(wc, wlintv, t.We)
	RebinSolarFlux(t.We, t.Etfphot)
	return nil
}

// WavelengthEdges computes the band edges we (length len(wc)+1) from the
// band centers wc and widths wlintv.
func WavelengthEdges(wc, wlintv, we []float64) {
	nw := len(wc)
	for i := 0; i < nw; i++ {
		we[i] = wc[i] - 0.5*wlintv[i]
	}
	if nw > 0 {
		we[nw] = wc[nw-1] + 0.5*wlintv[nw-1]
	}
}

// RebinSolarFlux fills etfphot with the extraterrestrial photon flux in
// the bands bounded by we. No solar spectrum source is available, so the
// flux is zero. Photolysis rates computed from the table are therefore zero.
func RebinSolarFlux(we, etfphot []float64) {
	for i := range etfphot {
		etfphot[i] = 0
	}
}

// lngIndexer finds the cross-section variable of each tagged reaction and
// returns the Xsqy row of each reaction and the number of distinct rows.
// Reactions that share a variable share a row.
func lngIndexer(xs *cdf.File) ([]int, int, error) {
	varIndex := make(map[string]int)
	for i, v := range xs.Header.Variables() {
		varIndex[v] = i
	}
	rowOfVar := make(map[int]int)
	indexer := make([]int, len(ReactionNames))
	for m, name := range ReactionNames {
		id, ok := varIndex[name]
		if !ok {
			return nil, 0, fmt.Errorf("%w: missing cross-section variable %s", ErrTableFormat, name)
		}
		row, ok := rowOfVar[id]
		if !ok {
			row = len(rowOfVar)
			rowOfVar[id] = row
		}
		indexer[m] = row
	}
	return indexer, len(rowOfVar), nil
}

func openNCF(path string) (*os.File, *cdf.File, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: empty file path", ErrFileAccess)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFileAccess, err)
	}
	ff, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrFileAccess, path, err)
	}
	return f, ff, nil
}

// dimension returns the length of the named dimension, found through the
// variables that use it.
func dimension(f *cdf.File, name string) (int, error) {
	for _, v := range f.Header.Variables() {
		lengths := f.Header.Lengths(v)
		for i, d := range f.Header.Dimensions(v) {
			if d == name {
				return lengths[i], nil
			}
		}
	}
	return 0, fmt.Errorf("%w: missing dimension %s", ErrTableFormat, name)
}

// readVar reads the named variable into dst, which must have the same
// number of elements as the variable.
func readVar(f *cdf.File, name string, dst []float64) error {
	lengths := f.Header.Lengths(name)
	if lengths == nil {
		return fmt.Errorf("%w: missing variable %s", ErrTableFormat, name)
	}
	n := 1
	for _, l := range lengths {
		n *= l
	}
	if n != len(dst) {
		return fmt.Errorf("%w: variable %s has %d elements, want %d", ErrTableFormat, name, n, len(dst))
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return fmt.Errorf("%w: reading variable %s: %v", ErrFileAccess, name, err)
	}
	switch b := buf.(type) {
	case []float64:
		copy(dst, b)
	case []float32:
		for i, v := range b {
			dst[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			dst[i] = float64(v)
		}
	default:
		return fmt.Errorf("%w: variable %s has unsupported type %T", ErrTableFormat, name, buf)
	}
	return nil
}
