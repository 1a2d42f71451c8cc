// Package slab validates and resolves hyperslabs: the start, extent and
// optional stride of a rectangular region of an N-dimensional variable.
//
// Everything here is pure arithmetic over a snapshot of dimension lengths.
// Nothing touches storage, so the results can be handed to a backend
// knowing that the access is in bounds.
package slab

// Dimension is one axis of a variable.
type Dimension struct {
	Len       uint64 // current length
	Unlimited bool   // may grow when written past Len
}

// Direction tells the validator whether unlimited dimensions may grow.
type Direction int

const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	if d == Write {
		return "write"
	}
	return "read"
}

// growable is true if writing past the end of dim is allowed.
func growable(dim Dimension, dir Direction) bool {
	return dim.Unlimited && dir == Write
}

// Shape returns the current lengths.
func Shape(dims []Dimension) []uint64 {
	shape := make([]uint64, len(dims))
	for i, d := range dims {
		shape[i] = d.Len
	}
	return shape
}
