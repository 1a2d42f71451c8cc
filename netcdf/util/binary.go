package util

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-thrower"
)

var ErrTrailingBytes = errors.New("trailing bytes after values")

// MustWrite wraps binary.Write and throws an error if it fails.
func MustWrite(w io.Writer, order binary.ByteOrder, data any) {
	err := binary.Write(w, order, data)
	thrower.ThrowIfError(err)
}

// MustWriteBE wraps binary.Write with BigEndian and throws an error if it fails.
func MustWriteBE(w io.Writer, data any) {
	MustWrite(w, binary.BigEndian, data)
}

// MustWriteByte wraps WriteByte and throws an error if it fails.
func MustWriteByte(w io.ByteWriter, c byte) {
	err := w.WriteByte(c)
	thrower.ThrowIfError(err)
}

// MustWriteRaw wraps Write and throws an error if it fails.
func MustWriteRaw(w io.Writer, p []byte) {
	_, err := w.Write(p)
	thrower.ThrowIfError(err)
}

// MustRead wraps binary.Read and throws an error if it fails.
func MustRead(r io.Reader, order binary.ByteOrder, data any) {
	err := binary.Read(r, order, data)
	thrower.ThrowIfError(err)
}

// MustReadBE wraps binary.Read with BigEndian and throws an error if it fails.
func MustReadBE(r io.Reader, data any) {
	MustRead(r, binary.BigEndian, data)
}

// MustRead8 reads a single byte and throws an error if it fails.
func MustRead8(r io.Reader) byte {
	var b byte
	MustReadBE(r, &b)
	return b
}

// EncodeValues returns the big-endian bytes of values.
func EncodeValues[T api.Numeric](values []T) []byte {
	var buf bytes.Buffer
	buf.Grow(len(values) * api.KindOf[T]().Size())
	MustWriteBE(&buf, values)
	return buf.Bytes()
}

// DecodeValues is the inverse of EncodeValues. It throws if p does not
// hold exactly n values.
func DecodeValues[T api.Numeric](p []byte, n int) []T {
	values := make([]T, n)
	r := bytes.NewReader(p)
	MustReadBE(r, values)
	if r.Len() != 0 {
		thrower.Throw(ErrTrailingBytes)
	}
	return values
}
