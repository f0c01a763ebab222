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

package comm

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBroadcast(t *testing.T) {
	const n = 4
	group := NewLocalGroup(n)
	results := make([][]float64, n)
	ints := make([][]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i, c := range group {
		go func(i int, c *Local) {
			defer wg.Done()
			dims := make([]int, 2)
			if c.Rank() == 0 {
				dims[0], dims[1] = 3, 7
			}
			if err := c.BroadcastInts(dims, 0); err != nil {
				errs[i] = err
				return
			}
			buf := make([]float64, dims[0])
			if c.Rank() == 0 {
				buf[0], buf[1], buf[2] = 1.5, -2, 1e30
			}
			errs[i] = c.BroadcastFloats(buf, 0)
			results[i] = buf
			ints[i] = dims
		}(i, c)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("rank %d: %v", i, errs[i])
		}
		if ints[i][0] != 3 || ints[i][1] != 7 {
			t.Errorf("rank %d: dims = %v", i, ints[i])
		}
		want := []float64{1.5, -2, 1e30}
		for j, v := range want {
			if results[i][j] != v {
				t.Errorf("rank %d element %d: have %g, want %g", i, j, results[i][j], v)
			}
		}
	}
}

func TestLocalBroadcastMismatch(t *testing.T) {
	group := NewLocalGroup(2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = group[0].BroadcastFloats(make([]float64, 4), 0)
	}()
	go func() {
		defer wg.Done()
		errs[1] = group[1].BroadcastFloats(make([]float64, 5), 0)
	}()
	wg.Wait()
	if !errors.Is(errs[1], ErrMismatch) {
		t.Errorf("have %v, want ErrMismatch", errs[1])
	}
}

func TestLocalAbort(t *testing.T) {
	group := NewLocalGroup(3)
	done := make(chan error)
	go func() {
		done <- group[2].BroadcastInts(make([]int, 1), 0)
	}()
	group[0].Abort(errors.New("root failed"))
	if err := <-done; !errors.Is(err, ErrAborted) {
		t.Errorf("have %v, want ErrAborted", err)
	}
}

func TestSerial(t *testing.T) {
	var c Communicator = Serial{}
	if c.Rank() != 0 || c.Size() != 1 {
		t.Errorf("rank %d size %d", c.Rank(), c.Size())
	}
	if err := c.BroadcastInts([]int{1}, 0); err != nil {
		t.Error(err)
	}
	if err := c.BroadcastFloats([]float64{1}, 1); !errors.Is(err, ErrMismatch) {
		t.Errorf("have %v, want ErrMismatch", err)
	}
}
