package slab

// DefaultIndices is the origin, [0, 0, ..., 0].
//
// A zero index is accepted even on an empty dimension: writes into an
// unlimited dimension begin there, and a read of an empty dimension is
// rejected later when its extent is resolved.
func DefaultIndices(dims []Dimension) []uint64 {
	return make([]uint64, len(dims))
}

// DefaultExtents works out the extents of a request that gave only a
// buffer length and (checked) indices.
//
// Each dimension contributes the room left after its index. When writing,
// an unlimited dimension is left open and its extent is whatever makes
// the product equal total. Only one dimension can be left open, so a
// variable with more than one unlimited dimension is ambiguous.
func DefaultExtents(dims []Dimension, total uint64, indices []uint64, dir Direction) ([]uint64, error) {
	nUnlimited := 0
	for _, d := range dims {
		if d.Unlimited {
			nUnlimited++
		}
	}
	if nUnlimited > 1 {
		return nil, ErrAmbiguous
	}

	extents := make([]uint64, len(dims))
	open := -1
	for i, d := range dims {
		switch {
		case indices[i] >= d.Len:
			if !growable(d, dir) {
				return nil, dimError(i, ErrSliceOutOfRange)
			}
			open = i
			extents[i] = 1
		case growable(d, dir):
			open = i
			extents[i] = 1
		default:
			extents[i] = d.Len - indices[i]
		}
	}

	if open >= 0 {
		rest, err := Product(extents)
		if err != nil {
			return nil, err
		}
		extents[open] = total / rest
		if extents[open] == 0 {
			return nil, dimError(open, ErrEmptySlice)
		}
	}

	n, err := Product(extents)
	if err != nil {
		return nil, err
	}
	if n != total {
		return nil, &BufferLengthError{Expected: total, Actual: n}
	}
	return extents, nil
}

// RemainingLen is the number of elements between indices and the end of
// every dimension. It sizes a read whose extents were left out.
func RemainingLen(dims []Dimension, indices []uint64) (uint64, error) {
	n := uint64(1)
	for i, d := range dims {
		if indices[i] >= d.Len {
			return 0, dimError(i, ErrSliceOutOfRange)
		}
		var err error
		n, err = checkedMul(n, d.Len-indices[i])
		if err != nil {
			return 0, err
		}
	}
	return n, nil
}
