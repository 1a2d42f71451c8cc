package slab

// CheckIndices verifies that there is one index per dimension and that
// each index is at most the dimension's length. An index equal to the
// length is allowed; whether anything can be read there is decided by
// the extents. When writing, unlimited dimensions accept any index.
func CheckIndices(dims []Dimension, indices []uint64, dir Direction) error {
	if len(indices) != len(dims) {
		return ErrIndexLength
	}
	for i, d := range dims {
		if growable(d, dir) {
			continue
		}
		if indices[i] > d.Len {
			return dimError(i, ErrIndexOutOfRange)
		}
	}
	return nil
}

// CheckExtents verifies caller supplied extents against already checked
// indices. total is the number of elements in the caller's buffer and
// must equal the product of the extents.
func CheckExtents(dims []Dimension, total uint64, indices, extents []uint64, dir Direction) error {
	if len(extents) != len(dims) {
		return ErrSliceLength
	}
	for i, d := range dims {
		if extents[i] == 0 {
			return dimError(i, ErrEmptySlice)
		}
		end, err := checkedAdd(indices[i], extents[i])
		if err != nil {
			return dimError(i, err)
		}
		if end > d.Len && !growable(d, dir) {
			return dimError(i, ErrSliceOutOfRange)
		}
	}
	n, err := Product(extents)
	if err != nil {
		return err
	}
	if n != total {
		return &BufferLengthError{Expected: total, Actual: n}
	}
	return nil
}
