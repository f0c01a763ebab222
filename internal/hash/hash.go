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

// Package hash computes checksums used to confirm that replicated data
// are identical across workers.
package hash

import (
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/davecgh/go-spew/spew"
)

// Settings returns a fingerprint of a settings value such as a run
// configuration, so that runs with identical settings can be matched in
// the logs. Values gob cannot encode are fingerprinted from a sorted dump
// without pointer addresses.
func Settings(v interface{}) string {
	h := fnv.New128a()
	if err := gob.NewEncoder(h).Encode(v); err != nil {
		h.Reset()
		dump := spew.ConfigState{
			SortKeys:                true,
			DisableMethods:          true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		}
		dump.Fprint(h, v)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Float64s returns a hash of the bit patterns of the given arrays, so
// that values that compare equal but differ in representation
// (e.g., 0 and -0, or NaN payloads) hash differently.
func Float64s(arrays ...[]float64) string {
	h := fnv.New128a()
	var buf [8]byte
	for _, a := range arrays {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(a)))
		h.Write(buf[:])
		for _, v := range a {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
