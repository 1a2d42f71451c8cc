package netcdf

import (
	"fmt"

	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/slab"
)

// Variable is a handle on one variable of a container.
type Variable struct {
	c    *Container
	id   int
	name string
	kind api.Kind
	dims []*Dimension
}

func (v *Variable) Name() string {
	return v.name
}

func (v *Variable) Kind() api.Kind {
	return v.kind
}

// Dimensions returns the variable's dimensions, in index order.
func (v *Variable) Dimensions() []*Dimension {
	return append([]*Dimension{}, v.dims...)
}

// slabDims is the snapshot of dimension lengths a request is checked
// against. Fixed lengths are cached; unlimited ones are asked of the
// store, all under one lock.
func (v *Variable) slabDims() ([]slab.Dimension, error) {
	dims := make([]slab.Dimension, len(v.dims))
	var unlimited []int
	for i, d := range v.dims {
		dims[i] = slab.Dimension{Len: d.length, Unlimited: d.unlimited}
		if d.unlimited {
			unlimited = append(unlimited, i)
		}
	}
	if len(unlimited) == 0 {
		return dims, nil
	}
	err := v.c.do("DimLen", func() (err error) {
		for _, i := range unlimited {
			dims[i].Len, err = v.c.store.DimLen(v.dims[i].id)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dims, nil
}

// Shape returns the current length of each dimension.
func (v *Variable) Shape() ([]uint64, error) {
	dims, err := v.slabDims()
	if err != nil {
		return nil, err
	}
	return slab.Shape(dims), nil
}

// Len is the number of elements the variable currently holds.
func (v *Variable) Len() (uint64, error) {
	shape, err := v.Shape()
	if err != nil {
		return 0, err
	}
	return slab.Product(shape)
}

// rejected logs a request that failed validation and names the variable
// in the error.
func (v *Variable) rejected(op string, err error) error {
	v.c.logger.Info("request rejected", "var", v.name, "op", op, "err", err)
	return fmt.Errorf("variable %q: %w", v.name, err)
}

func (v *Variable) checkKind(kind api.Kind) error {
	if kind != v.kind {
		return fmt.Errorf("%w: %q is %s, not %s", ErrTypeMismatch, v.name, v.kind, kind)
	}
	return nil
}

// SetNoFill turns filling off: elements that are never written hold
// zero (or "") rather than a fill value.
func (v *Variable) SetNoFill() error {
	return v.c.do("SetFill", func() error {
		return v.c.store.SetFill(v.id, nil)
	})
}

// StringValue reads one element of a string variable.
func (v *Variable) StringValue(indices []uint64) (string, error) {
	if err := v.checkKind(api.String); err != nil {
		return "", err
	}
	h, err := v.single(slab.Read, indices)
	if err != nil {
		return "", v.rejected("StringValue", err)
	}
	var value string
	err = v.c.do("GetString", func() (err error) {
		value, err = v.c.store.Strings().GetString(v.id, h.Start)
		return err
	})
	return value, err
}

// PutString writes one element of a string variable.
func (v *Variable) PutString(value string, indices []uint64) error {
	if err := v.checkKind(api.String); err != nil {
		return err
	}
	h, err := v.single(slab.Write, indices)
	if err != nil {
		return v.rejected("PutString", err)
	}
	return v.c.do("PutString", func() error {
		return v.c.store.Strings().PutString(v.id, h.Start, value)
	})
}

// Strings reads the whole of a string variable.
func (v *Variable) Strings() ([]string, error) {
	if err := v.checkKind(api.String); err != nil {
		return nil, err
	}
	var values []string
	err := v.c.do("GetStrings", func() (err error) {
		values, err = v.c.store.Strings().GetStrings(v.id)
		return err
	})
	return values, err
}

// PutStrings replaces the whole of a string variable. There must be one
// value per element.
func (v *Variable) PutStrings(values []string) error {
	if err := v.checkKind(api.String); err != nil {
		return err
	}
	n, err := v.Len()
	if err != nil {
		return err
	}
	if uint64(len(values)) != n {
		return v.rejected("PutStrings", &slab.BufferLengthError{Expected: uint64(len(values)), Actual: n})
	}
	return v.c.do("PutStrings", func() error {
		return v.c.store.Strings().PutStrings(v.id, values)
	})
}

func (v *Variable) single(dir slab.Direction, indices []uint64) (*slab.Hyperslab, error) {
	dims, err := v.slabDims()
	if err != nil {
		return nil, err
	}
	return slab.Single(dims, dir, indices)
}
