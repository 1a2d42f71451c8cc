package slab

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIndices(t *testing.T) {
	assert.Equal(t, []uint64{0, 0, 0}, DefaultIndices(fixed(3, 0, 1)))
	assert.Empty(t, DefaultIndices(nil))
}

func TestDefaultExtentsGrowsTime(t *testing.T) {
	dims := []Dimension{{Len: 2, Unlimited: true}, {Len: 3}, {Len: 4}}
	extents, err := DefaultExtents(dims, 24, []uint64{2, 0, 0}, Write)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4}, extents)
}

func TestDefaultExtents(t *testing.T) {
	timeDims := []Dimension{{Len: 5, Unlimited: true}, {Len: 3}}
	tests := []struct {
		name    string
		dims    []Dimension
		total   uint64
		indices []uint64
		dir     Direction
		want    []uint64
		wantErr error
	}{
		{"rest of the variable", fixed(4, 5, 6), 27, []uint64{1, 2, 3}, Read, []uint64{3, 3, 3}, nil},
		{"whole variable", fixed(4, 5), 20, []uint64{0, 0}, Write, []uint64{4, 5}, nil},
		{"scalar", nil, 1, []uint64{}, Read, []uint64{}, nil},
		{"wrong buffer", fixed(4, 5), 19, []uint64{0, 0}, Read, nil, ErrBufferLength},
		{"no room", fixed(4, 5), 5, []uint64{4, 0}, Read, nil, ErrSliceOutOfRange},
		{"no room write", fixed(4, 5), 5, []uint64{4, 0}, Write, nil, ErrSliceOutOfRange},
		{"empty dimension read", fixed(0), 0, []uint64{0}, Read, nil, ErrSliceOutOfRange},
		{"unlimited read", timeDims, 6, []uint64{3, 0}, Read, []uint64{2, 3}, nil},
		{"unlimited read past end", timeDims, 3, []uint64{5, 0}, Read, nil, ErrSliceOutOfRange},
		{"unlimited write inside", timeDims, 6, []uint64{1, 0}, Write, []uint64{2, 3}, nil},
		{"unlimited write past end", timeDims, 30, []uint64{9, 0}, Write, []uint64{10, 3}, nil},
		{"unlimited write partial row", timeDims, 1, []uint64{0, 1}, Write, nil, ErrEmptySlice},
		{"unlimited write not a multiple", timeDims, 7, []uint64{0, 0}, Write, nil, ErrBufferLength},
		{
			"two unlimited",
			[]Dimension{{Unlimited: true}, {Len: 3}, {Unlimited: true}}, 3,
			[]uint64{0, 0, 0}, Write, nil, ErrAmbiguous,
		},
		{
			"two unlimited read",
			[]Dimension{{Len: 1, Unlimited: true}, {Len: 1, Unlimited: true}}, 1,
			[]uint64{0, 0}, Read, nil, ErrAmbiguous,
		},
		{
			"overflow",
			fixed(math.MaxUint64, math.MaxUint64), 0,
			[]uint64{0, 0}, Read, nil, ErrOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultExtents(tt.dims, tt.total, tt.indices, tt.dir)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultExtentsMismatchReportsBoth(t *testing.T) {
	dims := []Dimension{{Len: 2, Unlimited: true}, {Len: 3}, {Len: 4}}
	_, err := DefaultExtents(dims, 25, []uint64{2, 0, 0}, Write)
	var ble *BufferLengthError
	require.True(t, errors.As(err, &ble))
	assert.Equal(t, uint64(25), ble.Expected)
	assert.Equal(t, uint64(24), ble.Actual)
}

// With at most one unlimited dimension, asking for exactly the cells left
// always succeeds and the extents multiply back to the request.
func TestDefaultExtentsProductLaw(t *testing.T) {
	shapes := [][]Dimension{
		fixed(1),
		fixed(7),
		fixed(3, 4),
		fixed(2, 3, 4),
		{{Len: 3, Unlimited: true}, {Len: 4}},
		{{Len: 2}, {Len: 3, Unlimited: true}, {Len: 2}},
	}
	for _, dims := range shapes {
		indices := make([]uint64, len(dims))
		for {
			total, err := RemainingLen(dims, indices)
			require.NoError(t, err)
			for _, dir := range []Direction{Read, Write} {
				extents, err := DefaultExtents(dims, total, indices, dir)
				require.NoError(t, err, "dims %v indices %v %v", dims, indices, dir)
				n, err := Product(extents)
				require.NoError(t, err)
				assert.Equal(t, total, n)
			}
			if !next(indices, dims) {
				break
			}
		}
	}
}

// next advances indices through every in-range position, last axis fastest.
func next(indices []uint64, dims []Dimension) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < dims[i].Len {
			return true
		}
		indices[i] = 0
	}
	return false
}

func TestRemainingLen(t *testing.T) {
	n, err := RemainingLen(fixed(4, 5, 6), []uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(27), n)

	n, err = RemainingLen(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	_, err = RemainingLen(fixed(4, 5), []uint64{0, 5})
	assert.ErrorIs(t, err, ErrSliceOutOfRange)

	_, err = RemainingLen(fixed(math.MaxUint64, 2), []uint64{0, 0})
	assert.ErrorIs(t, err, ErrOverflow)
}
