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

// Package comm provides the collective communication used to replicate
// read-once data across the workers of a run.
package comm

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMismatch is returned when broadcast participants disagree on
	// the root, the element type, or the size of the buffer.
	ErrMismatch = errors.New("comm: collective mismatch")

	// ErrAborted is returned by collectives on a group that has been aborted.
	ErrAborted = errors.New("comm: group aborted")
)

// A Communicator identifies a worker within a group and broadcasts
// fixed-size buffers from a root worker to all others.
type Communicator interface {
	// Rank is the index of this worker within its group.
	Rank() int

	// Size is the number of workers in the group.
	Size() int

	// BroadcastInts copies buf on the root worker into buf on
	// every other worker.
	BroadcastInts(buf []int, root int) error

	// BroadcastFloats copies buf on the root worker into buf on
	// every other worker.
	BroadcastFloats(buf []float64, root int) error
}

// Serial is a single-worker Communicator. Broadcasts are no-ops.
type Serial struct{}

// Rank returns 0.
func (Serial) Rank() int { return 0 }

// Size returns 1.
func (Serial) Size() int { return 1 }

// BroadcastInts returns an error if root is not 0.
func (Serial) BroadcastInts(_ []int, root int) error { return checkRoot(root, 1) }

// BroadcastFloats returns an error if root is not 0.
func (Serial) BroadcastFloats(_ []float64, root int) error { return checkRoot(root, 1) }

func checkRoot(root, size int) error {
	if root < 0 || root >= size {
		return fmt.Errorf("%w: root %d out of range for group of size %d", ErrMismatch, root, size)
	}
	return nil
}

type message struct {
	root int
	data interface{}
}

// group holds the state shared by the members of a local group.
type group struct {
	inbox []chan message
	done  chan struct{}
	once  sync.Once
	err   error
}

func (g *group) abort(err error) {
	g.once.Do(func() {
		g.err = err
		close(g.done)
	})
}

// Local is a member of an in-process group of workers created by
// NewLocalGroup. Each member is intended to be used by a single goroutine.
type Local struct {
	rank int
	g    *group
}

// NewLocalGroup returns n Communicators that broadcast to each other
// through channels. The members must call the same sequence of collectives.
func NewLocalGroup(n int) []*Local {
	if n < 1 {
		n = 1
	}
	g := &group{
		inbox: make([]chan message, n),
		done:  make(chan struct{}),
	}
	o := make([]*Local, n)
	for i := range o {
		g.inbox[i] = make(chan message, 1)
		o[i] = &Local{rank: i, g: g}
	}
	return o
}

// Rank implements Communicator.
func (l *Local) Rank() int { return l.rank }

// Size implements Communicator.
func (l *Local) Size() int { return len(l.g.inbox) }

// Abort releases every member blocked in a collective. Subsequent
// collectives return ErrAborted wrapping err.
func (l *Local) Abort(err error) { l.g.abort(err) }

// BroadcastInts implements Communicator.
func (l *Local) BroadcastInts(buf []int, root int) error {
	return l.broadcast(root, func(data interface{}) error {
		src, ok := data.([]int)
		if !ok {
			return fmt.Errorf("%w: rank %d expected []int, root sent %T", ErrMismatch, l.rank, data)
		}
		if len(src) != len(buf) {
			return fmt.Errorf("%w: rank %d buffer has %d elements, root sent %d", ErrMismatch, l.rank, len(buf), len(src))
		}
		copy(buf, src)
		return nil
	}, func() interface{} { return append([]int(nil), buf...) })
}

// BroadcastFloats implements Communicator.
func (l *Local) BroadcastFloats(buf []float64, root int) error {
	return l.broadcast(root, func(data interface{}) error {
		src, ok := data.([]float64)
		if !ok {
			return fmt.Errorf("%w: rank %d expected []float64, root sent %T", ErrMismatch, l.rank, data)
		}
		if len(src) != len(buf) {
			return fmt.Errorf("%w: rank %d buffer has %d elements, root sent %d", ErrMismatch, l.rank, len(buf), len(src))
		}
		copy(buf, src)
		return nil
	}, func() interface{} { return append([]float64(nil), buf...) })
}

func (l *Local) broadcast(root int, receive func(interface{}) error, snapshot func() interface{}) error {
	if err := checkRoot(root, l.Size()); err != nil {
		l.g.abort(err)
		return err
	}
	if l.rank == root {
		for r, in := range l.g.inbox {
			if r == root {
				continue
			}
			select {
			case in <- message{root: root, data: snapshot()}:
			case <-l.g.done:
				return fmt.Errorf("%w: %v", ErrAborted, l.g.err)
			}
		}
		return nil
	}
	select {
	case m := <-l.g.inbox[l.rank]:
		if m.root != root {
			err := fmt.Errorf("%w: rank %d expected root %d, message came from root %d", ErrMismatch, l.rank, root, m.root)
			l.g.abort(err)
			return err
		}
		if err := receive(m.data); err != nil {
			l.g.abort(err)
			return err
		}
		return nil
	case <-l.g.done:
		return fmt.Errorf("%w: %v", ErrAborted, l.g.err)
	}
}
