package netcdf

import (
	"errors"

	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/slab"
)

// The functions below read and write numeric variables. T must be the Go
// type of the variable's kind (int32 for api.Int and so on), otherwise
// they fail with ErrTypeMismatch.
//
// Nil indices mean the origin. Nil extents are worked out from the
// buffer length: everything from indices to the end of each dimension,
// except that a write may leave one unlimited dimension open, and its
// extent is whatever makes the region fit the buffer exactly.
//
// Every request is checked in full before the store is called, and then
// the store is called exactly once.

func backend[T api.Numeric](v *Variable) (api.Backend[T], error) {
	if err := v.checkKind(api.KindOf[T]()); err != nil {
		return nil, err
	}
	b, err := api.BackendFor[T](v.c.store)
	if err != nil {
		return nil, &BackendError{Op: "Backend", Err: err}
	}
	return b, nil
}

// resolve is the request half of every contiguous access.
func resolve[T api.Numeric](v *Variable, op string, dir slab.Direction, total uint64, indices, extents []uint64) (api.Backend[T], *slab.Hyperslab, error) {
	b, err := backend[T](v)
	if err != nil {
		return nil, nil, err
	}
	dims, err := v.slabDims()
	if err != nil {
		return nil, nil, err
	}
	h, err := slab.Resolve(dims, dir, total, indices, extents)
	if err != nil {
		return nil, nil, v.rejected(op, err)
	}
	return b, h, nil
}

func resolveStrided[T api.Numeric](v *Variable, op string, dir slab.Direction, bufLen int, indices, extents []uint64, strides []int64) (api.Backend[T], *slab.Hyperslab, error) {
	b, err := backend[T](v)
	if err != nil {
		return nil, nil, err
	}
	dims, err := v.slabDims()
	if err != nil {
		return nil, nil, err
	}
	h, err := slab.ResolveStrided(dims, dir, uint64(bufLen), indices, extents, strides)
	if err != nil {
		return nil, nil, v.rejected(op, err)
	}
	return b, h, nil
}

// Value reads the element at indices.
func Value[T api.Numeric](v *Variable, indices []uint64) (T, error) {
	var value T
	b, err := backend[T](v)
	if err != nil {
		return value, err
	}
	h, err := v.single(slab.Read, indices)
	if err != nil {
		return value, v.rejected("Value", err)
	}
	err = v.c.do("GetVar1", func() (err error) {
		value, err = b.GetVar1(v.id, h.Start)
		return err
	})
	return value, err
}

// ValuesTo fills buf with the region at indices. The region must hold
// exactly len(buf) elements.
func ValuesTo[T api.Numeric](v *Variable, buf []T, indices, extents []uint64) error {
	b, h, err := resolve[T](v, "ValuesTo", slab.Read, uint64(len(buf)), indices, extents)
	if err != nil {
		return err
	}
	return v.c.do("GetVara", func() error {
		return b.GetVara(v.id, h.Start, h.Extent, buf)
	})
}

// ValuesStridedTo reads a strided region into the front of buf and
// returns how many elements it read. strides has one entry per
// dimension. With nil extents, each dimension takes as many elements as
// its stride reaches before the end (one for a zero or negative stride).
func ValuesStridedTo[T api.Numeric](v *Variable, buf []T, indices, extents []uint64, strides []int64) (int, error) {
	b, h, err := resolveStrided[T](v, "ValuesStridedTo", slab.Read, len(buf), indices, extents, strides)
	if err != nil {
		return 0, err
	}
	err = v.c.do("GetVars", func() error {
		return b.GetVars(v.id, h.Start, h.Extent, h.Stride, buf[:h.Total])
	})
	if err != nil {
		return 0, err
	}
	return int(h.Total), nil
}

// Values reads a region into a new slice and returns it along with the
// region's extents. With nil extents it reads everything from indices to
// the end of each dimension.
func Values[T api.Numeric](v *Variable, indices, extents []uint64) ([]T, []uint64, error) {
	if _, err := backend[T](v); err != nil {
		return nil, nil, err
	}
	dims, err := v.slabDims()
	if err != nil {
		return nil, nil, err
	}
	start := indices
	if start == nil {
		start = slab.DefaultIndices(dims)
	} else if err := slab.CheckIndices(dims, start, slab.Read); err != nil {
		return nil, nil, v.rejected("Values", err)
	}
	var total uint64
	if extents == nil {
		total, err = slab.RemainingLen(dims, start)
		extents = make([]uint64, len(dims))
		for i, d := range dims {
			if start[i] < d.Len {
				extents[i] = d.Len - start[i]
			}
		}
	} else {
		// only the buffer size can be wrong, and that is what's wanted
		var be *slab.BufferLengthError
		if err = slab.CheckExtents(dims, 0, start, extents, slab.Read); errors.As(err, &be) {
			total, err = be.Actual, nil
		}
	}
	if err != nil {
		return nil, nil, v.rejected("Values", err)
	}
	buf := make([]T, total)
	if err := ValuesTo(v, buf, start, extents); err != nil {
		return nil, nil, err
	}
	return buf, extents, nil
}

// PutValue writes value at indices.
func PutValue[T api.Numeric](v *Variable, value T, indices []uint64) error {
	b, err := backend[T](v)
	if err != nil {
		return err
	}
	h, err := v.single(slab.Write, indices)
	if err != nil {
		return v.rejected("PutValue", err)
	}
	return v.c.do("PutVar1", func() error {
		return b.PutVar1(v.id, h.Start, value)
	})
}

// PutValues writes values to the region at indices. The region must
// hold exactly len(values) elements; writing past the end of an
// unlimited dimension grows it.
func PutValues[T api.Numeric](v *Variable, values []T, indices, extents []uint64) error {
	b, h, err := resolve[T](v, "PutValues", slab.Write, uint64(len(values)), indices, extents)
	if err != nil {
		return err
	}
	return v.c.do("PutVara", func() error {
		return b.PutVara(v.id, h.Start, h.Extent, values)
	})
}

// PutValuesStrided writes the front of values to a strided region and
// returns how many elements it wrote.
func PutValuesStrided[T api.Numeric](v *Variable, values []T, indices, extents []uint64, strides []int64) (int, error) {
	b, h, err := resolveStrided[T](v, "PutValuesStrided", slab.Write, len(values), indices, extents, strides)
	if err != nil {
		return 0, err
	}
	err = v.c.do("PutVars", func() error {
		return b.PutVars(v.id, h.Start, h.Extent, h.Stride, values[:h.Total])
	})
	if err != nil {
		return 0, err
	}
	return int(h.Total), nil
}

// SetFillValue sets the value that elements hold until they are written.
func SetFillValue[T api.Numeric](v *Variable, value T) error {
	if err := v.checkKind(api.KindOf[T]()); err != nil {
		return err
	}
	return v.c.do("SetFill", func() error {
		return v.c.store.SetFill(v.id, value)
	})
}

// FillValue returns the fill value. ok is false when filling is off.
func FillValue[T api.Numeric](v *Variable) (value T, ok bool, err error) {
	if err := v.checkKind(api.KindOf[T]()); err != nil {
		return value, false, err
	}
	var fill any
	err = v.c.do("Fill", func() (err error) {
		fill, err = v.c.store.Fill(v.id)
		return err
	})
	if err != nil || fill == nil {
		return value, false, err
	}
	value, ok = fill.(T)
	if !ok {
		return value, false, &BackendError{Op: "Fill", Err: ErrTypeMismatch}
	}
	return value, true, nil
}
