package slab

import (
	"errors"
	"fmt"
)

var (
	ErrIndexLength        = errors.New("indices length doesn't match dimensions")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrSliceLength        = errors.New("extents length doesn't match dimensions")
	ErrEmptySlice         = errors.New("empty slice")
	ErrSliceOutOfRange    = errors.New("slice out of range")
	ErrBufferLength       = errors.New("buffer length doesn't match slice")
	ErrOverflow           = errors.New("size overflow")
	ErrAmbiguous          = errors.New("more than one unlimited dimension")
	ErrStride             = errors.New("zero stride needs an extent of 1")
	ErrStrideLength       = errors.New("strides length doesn't match dimensions")
	ErrInsufficientBuffer = errors.New("buffer too small")
)

// BufferLengthError reports a buffer whose length is not the number of
// elements in the requested slice. Expected is the buffer length, Actual
// the product of the extents.
type BufferLengthError struct {
	Expected uint64
	Actual   uint64
}

func (e *BufferLengthError) Error() string {
	return fmt.Sprintf("%v: buffer holds %d elements, slice has %d",
		ErrBufferLength, e.Expected, e.Actual)
}

func (e *BufferLengthError) Unwrap() error {
	return ErrBufferLength
}

func dimError(dim int, err error) error {
	return fmt.Errorf("dimension %d: %w", dim, err)
}
