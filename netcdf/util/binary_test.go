package util

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"reflect"
	"testing"

	"github.com/batchatco/go-thrower"
)

// errWriter is an io.Writer and io.ByteWriter that always returns an error.
type errWriter struct{ err error }

func (e errWriter) Write(p []byte) (int, error) { return 0, e.err }
func (e errWriter) WriteByte(c byte) error      { return e.err }

// errReader is an io.Reader that always returns an error.
type errReader struct{ err error }

func (e errReader) Read(p []byte) (int, error) { return 0, e.err }

var errIO = errors.New("io error")

func TestMustWriteBE(t *testing.T) {
	var buf bytes.Buffer
	MustWriteBE(&buf, uint32(0xDEADBEEF))
	var got uint32
	if err := binary.Read(&buf, binary.BigEndian, &got); err != nil {
		t.Fatal(err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got 0x%X, want 0xDEADBEEF", got)
	}
}

func TestMustWriteByte(t *testing.T) {
	var buf bytes.Buffer
	MustWriteByte(&buf, 0xAB)
	b := buf.Bytes()
	if len(b) != 1 || b[0] != 0xAB {
		t.Errorf("got %v, want [0xAB]", b)
	}
}

func TestMustWriteRaw(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{1, 2, 3, 4}
	MustWriteRaw(&buf, payload)
	if !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("got %v, want %v", buf.Bytes(), payload)
	}
}

func TestMustReadBE(t *testing.T) {
	var buf bytes.Buffer
	MustWriteBE(&buf, uint32(0xCAFEBABE))
	var got uint32
	MustReadBE(&buf, &got)
	if got != 0xCAFEBABE {
		t.Errorf("got 0x%X, want 0xCAFEBABE", got)
	}
}

func TestMustRead(t *testing.T) {
	var buf bytes.Buffer
	MustWrite(&buf, binary.LittleEndian, int16(-42))
	var got int16
	MustRead(&buf, binary.LittleEndian, &got)
	if got != -42 {
		t.Errorf("got %d, want -42", got)
	}
}

func TestMustRead8(t *testing.T) {
	r := bytes.NewReader([]byte{0x7F})
	got := MustRead8(r)
	if got != 0x7F {
		t.Errorf("got 0x%X, want 0x7F", got)
	}
}

func TestMustWriteError(t *testing.T) {
	err := func() (e error) {
		defer thrower.RecoverError(&e)
		MustWrite(errWriter{errIO}, binary.LittleEndian, uint32(0))
		return nil
	}()
	if err == nil {
		t.Error("expected error, got nil")
	}
}

func TestMustWriteByteError(t *testing.T) {
	err := func() (e error) {
		defer thrower.RecoverError(&e)
		MustWriteByte(errWriter{errIO}, 0)
		return nil
	}()
	if err == nil {
		t.Error("expected error, got nil")
	}
}

func TestMustReadError(t *testing.T) {
	err := func() (e error) {
		defer thrower.RecoverError(&e)
		var got uint32
		MustRead(errReader{errIO}, binary.LittleEndian, &got)
		return nil
	}()
	if err == nil {
		t.Error("expected error, got nil")
	}
}

func TestMustRead8Error(t *testing.T) {
	err := func() (e error) {
		defer thrower.RecoverError(&e)
		MustRead8(bytes.NewReader(nil))
		return nil
	}()
	if !errors.Is(err, io.EOF) {
		t.Errorf("got %v, want io.EOF", err)
	}
}

func TestEncodeValues(t *testing.T) {
	p := EncodeValues([]int16{1, -2})
	if !bytes.Equal(p, []byte{0, 1, 0xff, 0xfe}) {
		t.Errorf("got %v", p)
	}
	doubles := []float64{0, math.Pi, math.Inf(-1)}
	got, err := decode[float64](EncodeValues(doubles), len(doubles))
	if err != nil {
		t.Error(err)
		return
	}
	if !reflect.DeepEqual(got, doubles) {
		t.Error("got", got, "expected", doubles)
	}
}

func decode[T int16 | float64 | uint32](p []byte, n int) (values []T, err error) {
	defer thrower.RecoverError(&err)
	return DecodeValues[T](p, n), nil
}

func TestDecodeValuesLength(t *testing.T) {
	p := EncodeValues([]uint32{1, 2, 3})
	if _, err := decode[uint32](p, 2); err != ErrTrailingBytes {
		t.Error("expected trailing bytes error, got", err)
	}
	if _, err := decode[uint32](p, 4); err == nil {
		t.Error("expected a short read")
	}
}
