package slab

import "fmt"

// DefaultStridedExtents infers extents from strides: a zero stride takes
// one element, a positive stride takes every element it can reach before
// the end of the dimension, and a negative stride takes one element.
//
// The negative case is a conservative fallback rather than an inference:
// nothing says how far towards the origin the caller meant to walk. Give
// explicit extents when using negative strides.
func DefaultStridedExtents(dims []Dimension, start []uint64, strides []int64) []uint64 {
	extents := make([]uint64, len(dims))
	for i, d := range dims {
		switch s := strides[i]; {
		case s == 0:
			extents[i] = 1
		case s > 0:
			if start[i] >= d.Len {
				extents[i] = 0
				continue
			}
			room := d.Len - start[i]
			step := uint64(s)
			extents[i] = room / step
			if room%step != 0 {
				extents[i]++
			}
		default:
			extents[i] = 1
		}
	}
	return extents
}

// checkStridedAxis checks one axis of a strided access. Both the first
// and the last element touched must lie inside the dimension, except
// that a write may run past the end of an unlimited dimension. A read
// must also keep start+extent*stride at or above the origin.
func checkStridedAxis(d Dimension, dir Direction, start, extent uint64, stride int64) error {
	if stride == 0 && extent != 1 {
		return ErrStride
	}
	if extent == 0 {
		return ErrEmptySlice
	}
	first, err := toInt(start)
	if err != nil {
		return err
	}
	steps, err := toInt(extent - 1)
	if err != nil {
		return err
	}
	span, err := checkedMulInt(steps, stride)
	if err != nil {
		return err
	}
	last, err := checkedAddInt(first, span)
	if err != nil {
		return err
	}
	if last < 0 {
		return ErrSliceOutOfRange
	}
	if dir == Read && stride < 0 {
		past, err := checkedAddInt(last, stride)
		if err != nil {
			return err
		}
		if past < 0 {
			return ErrSliceOutOfRange
		}
	}
	if growable(d, dir) {
		return nil
	}
	if uint64(first) >= d.Len || uint64(last) >= d.Len {
		return ErrSliceOutOfRange
	}
	return nil
}

// ResolveStrided builds a strided hyperslab. bufLen is the capacity of the
// caller's buffer, which may be larger than the region; the region's size
// is the Total of the result.
func ResolveStrided(dims []Dimension, dir Direction, bufLen uint64, indices, extents []uint64, strides []int64) (*Hyperslab, error) {
	if len(strides) != len(dims) {
		return nil, ErrStrideLength
	}
	start, err := resolveIndices(dims, indices, dir)
	if err != nil {
		return nil, err
	}
	if extents == nil {
		extents = DefaultStridedExtents(dims, start, strides)
	} else if len(extents) != len(dims) {
		return nil, ErrSliceLength
	}
	for i, d := range dims {
		if err := checkStridedAxis(d, dir, start[i], extents[i], strides[i]); err != nil {
			return nil, dimError(i, err)
		}
	}
	total, err := Product(extents)
	if err != nil {
		return nil, err
	}
	if bufLen < total {
		return nil, fmt.Errorf("%w: need %d elements, have %d",
			ErrInsufficientBuffer, total, bufLen)
	}
	return &Hyperslab{
		Start:  start,
		Extent: extents,
		Stride: strides,
		Total:  total,
	}, nil
}
