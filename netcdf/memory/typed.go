package memory

import (
	"slices"

	"github.com/batchatco/go-ncslab/internal"
	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/slab"
	"github.com/batchatco/go-thrower"
)

// typed is the Backend for one element type.
type typed[T api.Numeric] struct {
	s *Store
}

// region looks up the variable's data and checks that the region lies
// inside it, growing unlimited dimensions first when writing.
func (b typed[T]) region(varID int, start, count []uint64, stride []int64, write bool) (*numArray[T], *internal.Region) {
	v := b.s.variable(varID)
	arr, ok := v.arr.(*numArray[T])
	if !ok {
		thrower.Throw(ErrKindMismatch)
	}
	if write {
		b.s.grow(v, start, count, stride)
	}
	r := internal.NewRegion(v.shape, start, count, stride)
	if !r.Within(v.shape) {
		thrower.Throw(ErrInvalidCoords)
	}
	return arr, r
}

// elements is the number of elements in count, which must not exceed
// MaxElements.
func elements(count []uint64) int {
	if slices.Contains(count, 0) {
		return 0
	}
	n, err := slab.Product(count)
	if err != nil || n > MaxElements {
		thrower.Throw(ErrTooLarge)
	}
	return int(n)
}

func ones(n int) []uint64 {
	c := make([]uint64, n)
	for i := range c {
		c[i] = 1
	}
	return c
}

func (b typed[T]) GetVar1(varID int, start []uint64) (value T, err error) {
	defer thrower.RecoverError(&err)
	arr, r := b.region(varID, start, ones(len(start)), nil, false)
	r.Walk(func(_, offset int) { value = arr.data[offset] })
	return value, nil
}

func (b typed[T]) GetVara(varID int, start, count []uint64, values []T) error {
	return b.GetVars(varID, start, count, nil, values)
}

func (b typed[T]) GetVars(varID int, start, count []uint64, stride []int64, values []T) (err error) {
	defer thrower.RecoverError(&err)
	arr, r := b.region(varID, start, count, stride, false)
	if len(values) < r.Len() {
		thrower.Throw(ErrShortBuffer)
	}
	r.Walk(func(i, offset int) { values[i] = arr.data[offset] })
	return nil
}

func (b typed[T]) PutVar1(varID int, start []uint64, value T) (err error) {
	defer thrower.RecoverError(&err)
	arr, r := b.region(varID, start, ones(len(start)), nil, true)
	r.Walk(func(_, offset int) { arr.data[offset] = value })
	return nil
}

func (b typed[T]) PutVara(varID int, start, count []uint64, values []T) error {
	return b.PutVars(varID, start, count, nil, values)
}

func (b typed[T]) PutVars(varID int, start, count []uint64, stride []int64, values []T) (err error) {
	defer thrower.RecoverError(&err)
	// checked before growing so a bad call leaves the store unchanged
	if len(values) < elements(count) {
		thrower.Throw(ErrShortBuffer)
	}
	arr, r := b.region(varID, start, count, stride, true)
	r.Walk(func(i, offset int) { arr.data[offset] = values[i] })
	return nil
}

// text is the StringBackend.
type text struct {
	s *Store
}

func (t text) array(varID int) (*variable, *textArray) {
	v := t.s.variable(varID)
	arr, ok := v.arr.(*textArray)
	if !ok {
		thrower.Throw(ErrKindMismatch)
	}
	return v, arr
}

func (t text) offset(v *variable, start []uint64, write bool) int {
	if write {
		t.s.grow(v, start, ones(len(start)), nil)
	}
	r := internal.NewRegion(v.shape, start, ones(len(start)), nil)
	if !r.Within(v.shape) {
		thrower.Throw(ErrInvalidCoords)
	}
	off := 0
	r.Walk(func(_, offset int) { off = offset })
	return off
}

func (t text) GetString(varID int, start []uint64) (value string, err error) {
	defer thrower.RecoverError(&err)
	v, arr := t.array(varID)
	return arr.data[t.offset(v, start, false)], nil
}

func (t text) PutString(varID int, start []uint64, value string) (err error) {
	defer thrower.RecoverError(&err)
	v, arr := t.array(varID)
	arr.data[t.offset(v, start, true)] = value
	return nil
}

// GetStrings returns a copy of the whole variable.
func (t text) GetStrings(varID int) (values []string, err error) {
	defer thrower.RecoverError(&err)
	_, arr := t.array(varID)
	return append([]string{}, arr.data...), nil
}

// PutStrings replaces the whole variable. values must have exactly as many
// elements as the variable currently has.
func (t text) PutStrings(varID int, values []string) (err error) {
	defer thrower.RecoverError(&err)
	_, arr := t.array(varID)
	if len(values) != len(arr.data) {
		thrower.Throw(ErrInvalidCoords)
	}
	copy(arr.data, values)
	return nil
}
