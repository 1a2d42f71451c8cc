package slab

import (
	"fmt"
	"strings"
)

// Hyperslab is a resolved, validated region of a variable, ready to be
// handed to a storage backend.
type Hyperslab struct {
	Start  []uint64 `json:"start" yaml:"start"`
	Extent []uint64 `json:"extent" yaml:"extent"`
	Stride []int64  `json:"stride,omitempty" yaml:"stride,omitempty"` // nil when contiguous
	Total  uint64   `json:"total" yaml:"total"`                       // product of Extent
}

// Strided is true if the hyperslab was resolved with strides.
func (h *Hyperslab) Strided() bool {
	return h.Stride != nil
}

func (h *Hyperslab) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := range h.Start {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d:%d", h.Start[i], h.Extent[i])
		if h.Stride != nil {
			fmt.Fprintf(&sb, ":%d", h.Stride[i])
		}
	}
	fmt.Fprintf(&sb, "] (%d elements)", h.Total)
	return sb.String()
}

// resolveIndices checks indices, or supplies the default ones when nil.
func resolveIndices(dims []Dimension, indices []uint64, dir Direction) ([]uint64, error) {
	if indices == nil {
		return DefaultIndices(dims), nil
	}
	if err := CheckIndices(dims, indices, dir); err != nil {
		return nil, err
	}
	return indices, nil
}

// Resolve builds a contiguous hyperslab covering total elements.
// Nil indices default to the origin. Nil extents are inferred from the
// indices, the dimension lengths and total (see DefaultExtents); given
// extents must multiply out to exactly total.
func Resolve(dims []Dimension, dir Direction, total uint64, indices, extents []uint64) (*Hyperslab, error) {
	start, err := resolveIndices(dims, indices, dir)
	if err != nil {
		return nil, err
	}
	if extents == nil {
		extents, err = DefaultExtents(dims, total, start, dir)
		if err != nil {
			return nil, err
		}
	} else if err := CheckExtents(dims, total, start, extents, dir); err != nil {
		return nil, err
	}
	return &Hyperslab{
		Start:  start,
		Extent: extents,
		Total:  total,
	}, nil
}

// Single builds the one element hyperslab at indices.
// Unlike CheckIndices alone, it rejects an index equal to the length of a
// dimension that cannot grow, because there is no element there.
func Single(dims []Dimension, dir Direction, indices []uint64) (*Hyperslab, error) {
	ones := make([]uint64, len(dims))
	for i := range ones {
		ones[i] = 1
	}
	return Resolve(dims, dir, 1, indices, ones)
}
