// Package api is the contract between the variable access layer and the
// storage backends that hold the bytes (in memory, or anything else that
// can address a hyperslab).
package api

import (
	"errors"
	"fmt"
)

// Kind is the element type of a variable. The numeric kinds are fixed width.
type Kind int

const (
	Invalid Kind = iota // never stored: only a sentinel value
	Byte                // same as go int8
	UByte               // same as go uint8
	Short               // same as go int16
	UShort              // same as go uint16
	Int                 // same as go int32
	UInt                // same as go uint32
	Int64
	UInt64
	Float  // same as go float32
	Double // same as go float64
	String // text, not sliceable

	NumKinds
)

var ErrUnknownKind = errors.New("unknown kind")

var kindNames = [NumKinds]string{
	Invalid: "invalid",
	Byte:    "byte",
	UByte:   "ubyte",
	Short:   "short",
	UShort:  "ushort",
	Int:     "int",
	UInt:    "uint",
	Int64:   "int64",
	UInt64:  "uint64",
	Float:   "float",
	Double:  "double",
	String:  "string",
}

var goTypeNames = [NumKinds]string{
	Invalid: "",
	Byte:    "int8",
	UByte:   "uint8",
	Short:   "int16",
	UShort:  "uint16",
	Int:     "int32",
	UInt:    "uint32",
	Int64:   "int64",
	UInt64:  "uint64",
	Float:   "float32",
	Double:  "float64",
	String:  "string",
}

// String returns the type name in CDL format.
func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// GoType returns the name of the Go type used for elements of this kind.
func (k Kind) GoType() string {
	if k < 0 || k >= NumKinds {
		return ""
	}
	return goTypeNames[k]
}

// IsNumeric is true for every kind that can be sliced.
func (k Kind) IsNumeric() bool {
	return k > Invalid && k < String
}

// Size is the width of one element in bytes, or 0 for non-numeric kinds.
func (k Kind) Size() int {
	switch k {
	case Byte, UByte:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt, Float:
		return 4
	case Int64, UInt64, Double:
		return 8
	}
	return 0
}

// ParseKind accepts either the CDL name or the Go type name.
func ParseKind(name string) (Kind, error) {
	for k := Byte; k < NumKinds; k++ {
		if name == kindNames[k] || name == goTypeNames[k] {
			return k, nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Numeric is the closed set of element types that can be read and written
// through a Backend.
type Numeric interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// KindOf returns the Kind matching the type parameter.
func KindOf[T Numeric]() Kind {
	var v T
	return KindOfValue(v)
}

// KindOfValue returns the Kind of a value's dynamic type, or Invalid.
func KindOfValue(v any) Kind {
	switch v.(type) {
	case int8:
		return Byte
	case uint8:
		return UByte
	case int16:
		return Short
	case uint16:
		return UShort
	case int32:
		return Int
	case uint32:
		return UInt
	case int64:
		return Int64
	case uint64:
		return UInt64
	case float32:
		return Float
	case float64:
		return Double
	case string:
		return String
	}
	return Invalid
}

// Backend moves elements of one numeric type in and out of storage.
// Callers guarantee that start, count and stride have been validated
// against the variable's dimensions, and that values is large enough.
// Calls are serialized by the caller.
type Backend[T Numeric] interface {
	// GetVar1 reads the single element at start.
	GetVar1(varID int, start []uint64) (T, error)
	// GetVara reads the contiguous region start/count into values.
	GetVara(varID int, start, count []uint64, values []T) error
	// GetVars reads the strided region start/count/stride into values.
	GetVars(varID int, start, count []uint64, stride []int64, values []T) error

	PutVar1(varID int, start []uint64, value T) error
	PutVara(varID int, start, count []uint64, values []T) error
	PutVars(varID int, start, count []uint64, stride []int64, values []T) error
}

// StringBackend is the narrow text path: no slicing, only single values
// and whole variables.
type StringBackend interface {
	GetString(varID int, start []uint64) (string, error)
	PutString(varID int, start []uint64, value string) error
	GetStrings(varID int) ([]string, error)
	PutStrings(varID int, values []string) error
}

// Store is a container of dimensions and variables.
type Store interface {
	// DefineDimension creates a dimension. Unlimited dimensions start at
	// length 0 and grow when written past their end.
	DefineDimension(name string, length uint64, unlimited bool) (dimID int, err error)

	// DefineVariable creates a variable over the given dimensions, in order.
	DefineVariable(name string, kind Kind, dimIDs []int) (varID int, err error)

	// DimLen returns the current length of a dimension.
	DimLen(dimID int) (uint64, error)

	// Backend returns the Backend[T] for a numeric kind, where T is the Go
	// type of the kind. Use BackendFor rather than calling this directly.
	Backend(kind Kind) any

	// Strings returns the text path.
	Strings() StringBackend

	// SetFill sets (or, with nil, disables) the fill value of a variable.
	// The value's dynamic type matches the variable's kind.
	SetFill(varID int, value any) error

	// Fill returns the fill value, or nil when filling is disabled.
	Fill(varID int) (any, error)
}

var ErrNoBackend = errors.New("store has no backend for kind")

// BackendFor returns the typed capability of a store.
func BackendFor[T Numeric](s Store) (Backend[T], error) {
	kind := KindOf[T]()
	b, ok := s.Backend(kind).(Backend[T])
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoBackend, kind)
	}
	return b, nil
}

// DimensionInfo and VariableInfo describe what a store already holds.
// IDs are positions in the slices a Cataloger returns.
type DimensionInfo struct {
	Name      string
	Len       uint64
	Unlimited bool
}

type VariableInfo struct {
	Name   string
	Kind   Kind
	DimIDs []int
}

// Cataloger is implemented by stores that can list their contents, so
// that a container can be rebuilt over a store that is not empty.
type Cataloger interface {
	Catalog() ([]DimensionInfo, []VariableInfo)
}
