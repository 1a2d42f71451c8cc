package memory

import (
	"github.com/batchatco/go-ncslab/internal"
	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/util"
	"github.com/batchatco/go-thrower"
)

// array holds the elements of one variable in row-major order.
type array interface {
	// resize reallocates from the old shape to the new one, keeping every
	// element that is still in range and filling the rest.
	resize(oldShape, newShape []uint64)
	setFill(value any)
	fill() any
	encode() []byte
	decode(p []byte, n int)
	encodeFill() []byte
	decodeFill(p []byte)
}

// newArray returns an empty array for kind, with the default fill value.
func newArray(kind api.Kind) array {
	switch kind {
	case api.Byte:
		return newNumArray[int8]()
	case api.UByte:
		return newNumArray[uint8]()
	case api.Short:
		return newNumArray[int16]()
	case api.UShort:
		return newNumArray[uint16]()
	case api.Int:
		return newNumArray[int32]()
	case api.UInt:
		return newNumArray[uint32]()
	case api.Int64:
		return newNumArray[int64]()
	case api.UInt64:
		return newNumArray[uint64]()
	case api.Float:
		return newNumArray[float32]()
	case api.Double:
		return newNumArray[float64]()
	case api.String:
		return &textArray{fillValue: util.FillString, hasFill: true}
	}
	thrower.Throw(ErrBadKind)
	panic("not reached")
}

type numArray[T api.Numeric] struct {
	data      []T
	fillValue T
	hasFill   bool
}

func newNumArray[T api.Numeric]() *numArray[T] {
	return &numArray[T]{
		fillValue: util.DefaultFill(api.KindOf[T]()).(T),
		hasFill:   true,
	}
}

func (a *numArray[T]) resize(oldShape, newShape []uint64) {
	a.data = reshape(a.data, oldShape, newShape, a.blank())
}

// blank is what unwritten elements hold: the fill value, or zero when
// filling is off.
func (a *numArray[T]) blank() T {
	if a.hasFill {
		return a.fillValue
	}
	var zero T
	return zero
}

func (a *numArray[T]) setFill(value any) {
	if value == nil {
		a.hasFill = false
		return
	}
	v, ok := value.(T)
	if !ok {
		thrower.Throw(ErrKindMismatch)
	}
	a.fillValue = v
	a.hasFill = true
}

func (a *numArray[T]) fill() any {
	if !a.hasFill {
		return nil
	}
	return a.fillValue
}

func (a *numArray[T]) encode() []byte {
	return util.EncodeValues(a.data)
}

func (a *numArray[T]) decode(p []byte, n int) {
	a.data = util.DecodeValues[T](p, n)
}

func (a *numArray[T]) encodeFill() []byte {
	return util.EncodeValues([]T{a.fillValue})
}

func (a *numArray[T]) decodeFill(p []byte) {
	a.fillValue = util.DecodeValues[T](p, 1)[0]
	a.hasFill = true
}

type textArray struct {
	data      []string
	fillValue string
	hasFill   bool
}

func (a *textArray) resize(oldShape, newShape []uint64) {
	// strings have no zero value distinct from the default fill
	a.data = reshape(a.data, oldShape, newShape, a.fillValue)
}

func (a *textArray) setFill(value any) {
	if value == nil {
		a.hasFill = false
		a.fillValue = util.FillString
		return
	}
	v, ok := value.(string)
	if !ok {
		thrower.Throw(ErrKindMismatch)
	}
	a.fillValue = v
	a.hasFill = true
}

func (a *textArray) fill() any {
	if !a.hasFill {
		return nil
	}
	return a.fillValue
}

func (a *textArray) encode() []byte {
	thrower.Throw(ErrBadKind)
	return nil
}

func (a *textArray) decode([]byte, int) {
	thrower.Throw(ErrBadKind)
}

func (a *textArray) encodeFill() []byte {
	thrower.Throw(ErrBadKind)
	return nil
}

func (a *textArray) decodeFill([]byte) {
	thrower.Throw(ErrBadKind)
}

// reshape copies old, laid out in oldShape, into a new array laid out in
// newShape. Elements outside oldShape get blank.
func reshape[T any](old []T, oldShape, newShape []uint64, blank T) []T {
	n := 1
	for _, l := range newShape {
		n *= int(l)
	}
	data := make([]T, n)
	for i := range data {
		data[i] = blank
	}
	if len(old) == 0 {
		return data
	}
	// the overlap of both shapes, walked through the new layout
	overlap := make([]uint64, len(newShape))
	for i := range overlap {
		overlap[i] = min(oldShape[i], newShape[i])
	}
	origin := make([]uint64, len(newShape))
	src := internal.NewRegion(oldShape, origin, overlap, nil)
	dst := internal.NewRegion(newShape, origin, overlap, nil)
	from := make([]int, src.Len())
	src.Walk(func(i, offset int) { from[i] = offset })
	dst.Walk(func(i, offset int) { data[offset] = old[from[i]] })
	return data
}
