package util

import (
	"math"

	"github.com/batchatco/go-ncslab/netcdf/api"
)

// Default fill values, the same ones the netCDF library uses when a
// variable has no _FillValue of its own.
const (
	FillByte   int8    = -127
	FillUByte  uint8   = math.MaxUint8
	FillShort  int16   = -32767
	FillUShort uint16  = math.MaxUint16
	FillInt    int32   = -2147483647
	FillUInt   uint32  = math.MaxUint32
	FillInt64  int64   = -9223372036854775806
	FillUInt64 uint64  = math.MaxUint64 - 1
	FillFloat  float32 = 9.9692099683868690e+36
	FillDouble float64 = 9.9692099683868690e+36
	FillString         = ""
)

// DefaultFill returns the default fill value of a kind, as the Go type of
// that kind, or nil for an unknown kind.
func DefaultFill(kind api.Kind) any {
	switch kind {
	case api.Byte:
		return FillByte
	case api.UByte:
		return FillUByte
	case api.Short:
		return FillShort
	case api.UShort:
		return FillUShort
	case api.Int:
		return FillInt
	case api.UInt:
		return FillUInt
	case api.Int64:
		return FillInt64
	case api.UInt64:
		return FillUInt64
	case api.Float:
		return FillFloat
	case api.Double:
		return FillDouble
	case api.String:
		return FillString
	}
	return nil
}
