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
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// forEachColumn concurrently runs f on every column, striping the columns
// over GOMAXPROCS goroutines. It returns the first error encountered by
// the lowest-numbered goroutine.
func forEachColumn(ncol int, f func(col int) error) error {
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	if nprocs > ncol {
		nprocs = ncol
	}
	errs := make([]error, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for ii := pp; ii < ncol; ii += nprocs {
				if err := f(ii); err != nil {
					errs[pp] = err
					return
				}
			}
		}(pp)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// forEachLevel concurrently runs f on every level of a column and waits
// for all of them to finish.
func forEachLevel(nlev int, f func(k int) error) error {
	var g errgroup.Group
	for k := 0; k < nlev; k++ {
		k := k
		g.Go(func() error { return f(k) })
	}
	return g.Wait()
}
