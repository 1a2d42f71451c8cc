// Package memory is a Store that keeps every variable in a Go slice.
// It can be saved to and loaded from a compressed snapshot.
//
// A Store is not safe for concurrent use. The netcdf package serializes
// every call into it.
package memory

import (
	"errors"
	"fmt"
	"slices"

	"github.com/batchatco/go-ncslab/internal"
	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-thrower"
)

var (
	ErrNotFound      = errors.New("no such dimension or variable")
	ErrDuplicate     = errors.New("name already defined")
	ErrBadKind       = errors.New("kind cannot be stored")
	ErrKindMismatch  = errors.New("value kind doesn't match variable")
	ErrInvalidCoords = errors.New("index exceeds dimension bound")
	ErrShortBuffer   = errors.New("buffer shorter than region")
	ErrTooLarge      = errors.New("variable too large for memory")
)

// MaxElements is the most elements one variable may hold.
const MaxElements = 1 << 30

var logger = internal.NewLogger("memory")

// SetLogLevel sets the level of the package logger and returns the old one.
func SetLogLevel(level int) int {
	return int(logger.SetLogLevel(internal.LevelFromInt(level)))
}

type dimension struct {
	name      string
	length    uint64
	unlimited bool
}

type variable struct {
	name   string
	kind   api.Kind
	dimIDs []int
	shape  []uint64 // current shape of arr
	arr    array
}

// Store implements api.Store.
type Store struct {
	dims        []dimension
	vars        []*variable
	backends    [api.NumKinds]any
	compression Compression // of snapshots
}

var _ api.Store = (*Store)(nil)

func New() *Store {
	s := &Store{compression: CompressionZstd}
	s.backends[api.Byte] = typed[int8]{s}
	s.backends[api.UByte] = typed[uint8]{s}
	s.backends[api.Short] = typed[int16]{s}
	s.backends[api.UShort] = typed[uint16]{s}
	s.backends[api.Int] = typed[int32]{s}
	s.backends[api.UInt] = typed[uint32]{s}
	s.backends[api.Int64] = typed[int64]{s}
	s.backends[api.UInt64] = typed[uint64]{s}
	s.backends[api.Float] = typed[float32]{s}
	s.backends[api.Double] = typed[float64]{s}
	return s
}

// SetCompression sets how Save compresses snapshots. The default is zstd;
// a store loaded from a snapshot keeps the snapshot's compression.
func (s *Store) SetCompression(c Compression) error {
	if c > CompressionZstd {
		return fmt.Errorf("%w: %v", ErrCompression, c)
	}
	s.compression = c
	return nil
}

// DefineDimension creates a dimension. An unlimited dimension starts at
// length, normally 0.
func (s *Store) DefineDimension(name string, length uint64, unlimited bool) (int, error) {
	for _, d := range s.dims {
		if d.name == name {
			return 0, ErrDuplicate
		}
	}
	s.dims = append(s.dims, dimension{name: name, length: length, unlimited: unlimited})
	return len(s.dims) - 1, nil
}

func (s *Store) DefineVariable(name string, kind api.Kind, dimIDs []int) (varID int, err error) {
	defer thrower.RecoverError(&err)
	for _, v := range s.vars {
		if v.name == name {
			return 0, ErrDuplicate
		}
	}
	for _, id := range dimIDs {
		if id < 0 || id >= len(s.dims) {
			return 0, ErrNotFound
		}
	}
	v := &variable{
		name:   name,
		kind:   kind,
		dimIDs: append([]int{}, dimIDs...),
		shape:  make([]uint64, len(dimIDs)),
		arr:    newArray(kind),
	}
	shape := s.shapeOf(v)
	elements(shape)
	v.arr.resize(v.shape, shape)
	v.shape = shape
	s.vars = append(s.vars, v)
	return len(s.vars) - 1, nil
}

func (s *Store) DimLen(dimID int) (uint64, error) {
	if dimID < 0 || dimID >= len(s.dims) {
		return 0, ErrNotFound
	}
	return s.dims[dimID].length, nil
}

func (s *Store) Backend(kind api.Kind) any {
	if kind < 0 || kind >= api.NumKinds {
		return nil
	}
	return s.backends[kind]
}

func (s *Store) Strings() api.StringBackend {
	return text{s}
}

func (s *Store) SetFill(varID int, value any) (err error) {
	defer thrower.RecoverError(&err)
	v := s.variable(varID)
	v.arr.setFill(value)
	return nil
}

func (s *Store) Fill(varID int) (value any, err error) {
	defer thrower.RecoverError(&err)
	return s.variable(varID).arr.fill(), nil
}

// variable throws if varID is unknown.
func (s *Store) variable(varID int) *variable {
	if varID < 0 || varID >= len(s.vars) {
		thrower.Throw(ErrNotFound)
	}
	return s.vars[varID]
}

// shapeOf is the shape v should have given the current dimension lengths.
func (s *Store) shapeOf(v *variable) []uint64 {
	shape := make([]uint64, len(v.dimIDs))
	for i, id := range v.dimIDs {
		shape[i] = s.dims[id].length
	}
	return shape
}

// grow extends every unlimited dimension of v far enough to hold the
// region, and reshapes every variable that uses a grown dimension. The
// store is left unchanged when any variable would exceed MaxElements.
func (s *Store) grow(v *variable, start, count []uint64, stride []int64) {
	n := len(v.dimIDs)
	if len(start) != n || len(count) != n || (stride != nil && len(stride) != n) {
		thrower.Throw(ErrInvalidCoords)
	}
	lengths := map[int]uint64{}
	for i, id := range v.dimIDs {
		d := s.dims[id]
		if !d.unlimited || count[i] == 0 {
			continue
		}
		step := int64(1)
		if stride != nil {
			step = stride[i]
		}
		// bounds keep the arithmetic below inside int64
		if start[i] >= MaxElements || count[i] > MaxElements ||
			(count[i] > 1 && (step > MaxElements || step < -MaxElements)) {
			thrower.Throw(ErrTooLarge)
		}
		first := int64(start[i])
		hi := max(first, first+int64(count[i]-1)*step)
		if hi < 0 {
			continue // rejected when the region is checked
		}
		if end := uint64(hi) + 1; end > d.length && end > lengths[id] {
			lengths[id] = end
		}
	}
	if len(lengths) == 0 {
		return
	}
	shapes := make([][]uint64, len(s.vars))
	for i, other := range s.vars {
		shape := s.shapeOf(other)
		for j, id := range other.dimIDs {
			if l, ok := lengths[id]; ok {
				shape[j] = l
			}
		}
		if !slices.Equal(shape, other.shape) {
			elements(shape)
			shapes[i] = shape
		}
	}
	for id, l := range lengths {
		logger.Info("growing dimension", "dim", s.dims[id].name, "from", s.dims[id].length, "to", l)
		s.dims[id].length = l
	}
	for i, other := range s.vars {
		if shapes[i] != nil {
			other.arr.resize(other.shape, shapes[i])
			other.shape = shapes[i]
		}
	}
}

var _ api.Cataloger = (*Store)(nil)

// Catalog lists the dimensions and variables in definition order.
func (s *Store) Catalog() ([]api.DimensionInfo, []api.VariableInfo) {
	dims := make([]api.DimensionInfo, len(s.dims))
	for i, d := range s.dims {
		dims[i] = api.DimensionInfo{Name: d.name, Len: d.length, Unlimited: d.unlimited}
	}
	vars := make([]api.VariableInfo, len(s.vars))
	for i, v := range s.vars {
		vars[i] = api.VariableInfo{Name: v.name, Kind: v.kind, DimIDs: append([]int{}, v.dimIDs...)}
	}
	return dims, vars
}
