package internal

// Region is a (possibly strided) hyperslab of an array stored in
// row-major order, last dimension varying fastest.
type Region struct {
	shape  []uint64
	start  []uint64
	count  []uint64
	stride []int64
}

// NewRegion describes count elements per axis, starting at start and
// stepping by stride. A nil stride means contiguous.
func NewRegion(shape, start, count []uint64, stride []int64) *Region {
	if stride == nil {
		stride = make([]int64, len(shape))
		for i := range stride {
			stride[i] = 1
		}
	}
	return &Region{shape: shape, start: start, count: count, stride: stride}
}

// Len is the number of elements in the region.
func (r *Region) Len() int {
	n := 1
	for _, c := range r.count {
		n *= int(c)
	}
	return n
}

// Within reports whether every element of the region lies inside shape,
// and whether the parameters have one entry per axis.
func (r *Region) Within(shape []uint64) bool {
	n := len(shape)
	if len(r.start) != n || len(r.count) != n || len(r.stride) != n {
		return false
	}
	for d := 0; d < n; d++ {
		if r.count[d] == 0 {
			continue
		}
		if r.start[d] >= shape[d] || r.count[d] > shape[d] {
			return false
		}
		if r.count[d] > 1 && (r.stride[d] > int64(shape[d]) || r.stride[d] < -int64(shape[d])) {
			return false
		}
		first := int64(r.start[d])
		last := first + int64(r.count[d]-1)*r.stride[d]
		if first < 0 || last < 0 || uint64(first) >= shape[d] || uint64(last) >= shape[d] {
			return false
		}
	}
	return true
}

// Walk calls fn with the position of each element in the region (in the
// order the elements are laid out in a caller's buffer) and its offset in
// the array.
func (r *Region) Walk(fn func(i int, offset int)) {
	total := r.Len()
	if total == 0 {
		return
	}
	n := len(r.shape)
	pitch := make([]int, n)
	p := 1
	for d := n - 1; d >= 0; d-- {
		pitch[d] = p
		p *= int(r.shape[d])
	}
	off := 0
	step := make([]int, n)
	for d := 0; d < n; d++ {
		off += int(r.start[d]) * pitch[d]
		step[d] = int(r.stride[d]) * pitch[d]
	}
	k := make([]uint64, n)
	for i := 0; i < total; i++ {
		fn(i, off)
		for d := n - 1; d >= 0; d-- {
			k[d]++
			off += step[d]
			if k[d] < r.count[d] {
				break
			}
			off -= int(r.count[d]) * step[d]
			k[d] = 0
		}
	}
}
