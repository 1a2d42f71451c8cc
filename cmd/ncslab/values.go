package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/batchatco/go-ncslab/netcdf"
	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/slab"
	"github.com/spf13/cobra"
)

var errStringRegion = errors.New("string variables are read and written one value or whole")

type valuesOutput struct {
	Variable string   `yaml:"variable" json:"variable"`
	Kind     string   `yaml:"kind" json:"kind"`
	Start    []uint64 `yaml:"start,omitempty" json:"start,omitempty"`
	Extent   []uint64 `yaml:"extent,omitempty" json:"extent,omitempty"`
	Stride   []int64  `yaml:"stride,omitempty" json:"stride,omitempty"`
	Values   []any    `yaml:"values" json:"values"`
}

type putOutput struct {
	Variable string `yaml:"variable" json:"variable"`
	Written  int    `yaml:"written" json:"written"`
}

// anys keeps uint8 values from being printed as bytes.
func anys[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}

func (a *app) getCmd() *cobra.Command {
	var sf slabFlags
	cmd := &cobra.Command{
		Use:   "get FILE VAR",
		Short: "Print a region of a variable",
		Example: `  ncslab get obs.ncslab temp --start 0,1 --extent 2,1
  ncslab get obs.ncslab temp --stride 2,1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := openContainer(args[0])
			if err != nil {
				return err
			}
			v, err := c.Variable(args[1])
			if err != nil {
				return err
			}
			start, extent, stride := sf.request(cmd.Flags())
			out, err := getValues(v, start, extent, stride)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), out)
		},
	}
	sf.register(cmd.Flags())
	return cmd
}

func (a *app) putCmd() *cobra.Command {
	var (
		sf     slabFlags
		values []string
	)
	cmd := &cobra.Command{
		Use:   "put FILE VAR",
		Short: "Write values to a region of a variable",
		Example: `  ncslab put obs.ncslab temp --values 1.5,2,3.25
  ncslab put obs.ncslab temp --start 4,0 --values 9,9,9`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, c, err := openContainer(args[0])
			if err != nil {
				return err
			}
			v, err := c.Variable(args[1])
			if err != nil {
				return err
			}
			start, extent, stride := sf.request(cmd.Flags())
			n, err := putValues(v, values, start, extent, stride)
			if err != nil {
				return err
			}
			if err := a.save(store, args[0]); err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), putOutput{Variable: v.Name(), Written: n})
		},
	}
	sf.register(cmd.Flags())
	cmd.Flags().StringSliceVar(&values, "values", nil, "comma separated values to write")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func getValues(v *netcdf.Variable, start, extent []uint64, stride []int64) (*valuesOutput, error) {
	switch v.Kind() {
	case api.Byte:
		return get[int8](v, start, extent, stride)
	case api.UByte:
		return get[uint8](v, start, extent, stride)
	case api.Short:
		return get[int16](v, start, extent, stride)
	case api.UShort:
		return get[uint16](v, start, extent, stride)
	case api.Int:
		return get[int32](v, start, extent, stride)
	case api.UInt:
		return get[uint32](v, start, extent, stride)
	case api.Int64:
		return get[int64](v, start, extent, stride)
	case api.UInt64:
		return get[uint64](v, start, extent, stride)
	case api.Float:
		return get[float32](v, start, extent, stride)
	case api.Double:
		return get[float64](v, start, extent, stride)
	case api.String:
		return getStrings(v, start, extent, stride)
	}
	return nil, fmt.Errorf("%w: %v", api.ErrUnknownKind, v.Kind())
}

func get[T api.Numeric](v *netcdf.Variable, start, extent []uint64, stride []int64) (*valuesOutput, error) {
	out := &valuesOutput{Variable: v.Name(), Kind: v.Kind().String(), Start: start, Stride: stride}
	if stride == nil {
		values, extents, err := netcdf.Values[T](v, start, extent)
		if err != nil {
			return nil, err
		}
		out.Extent, out.Values = extents, anys(values)
		return out, nil
	}
	h, err := stridedRead(v, start, extent, stride)
	if err != nil {
		return nil, err
	}
	buf := make([]T, h.Total)
	got, err := netcdf.ValuesStridedTo(v, buf, h.Start, h.Extent, stride)
	if err != nil {
		return nil, err
	}
	out.Start, out.Extent, out.Values = h.Start, h.Extent, anys(buf[:got])
	return out, nil
}

// stridedRead resolves a strided read against the current lengths of
// v, so that inferred extents can be reported and the buffer sized.
func stridedRead(v *netcdf.Variable, start, extent []uint64, stride []int64) (*slab.Hyperslab, error) {
	var dims []slab.Dimension
	for _, d := range v.Dimensions() {
		n, err := d.Len()
		if err != nil {
			return nil, err
		}
		dims = append(dims, slab.Dimension{Len: n, Unlimited: d.IsUnlimited()})
	}
	return slab.ResolveStrided(dims, slab.Read, math.MaxUint64, start, extent, stride)
}

func getStrings(v *netcdf.Variable, start, extent []uint64, stride []int64) (*valuesOutput, error) {
	if extent != nil || stride != nil {
		return nil, errStringRegion
	}
	out := &valuesOutput{Variable: v.Name(), Kind: v.Kind().String(), Start: start}
	if start != nil {
		s, err := v.StringValue(start)
		if err != nil {
			return nil, err
		}
		out.Values = []any{s}
		return out, nil
	}
	all, err := v.Strings()
	if err != nil {
		return nil, err
	}
	out.Values = anys(all)
	return out, nil
}

func putValues(v *netcdf.Variable, raw []string, start, extent []uint64, stride []int64) (int, error) {
	switch v.Kind() {
	case api.Byte:
		return put[int8](v, raw, start, extent, stride)
	case api.UByte:
		return put[uint8](v, raw, start, extent, stride)
	case api.Short:
		return put[int16](v, raw, start, extent, stride)
	case api.UShort:
		return put[uint16](v, raw, start, extent, stride)
	case api.Int:
		return put[int32](v, raw, start, extent, stride)
	case api.UInt:
		return put[uint32](v, raw, start, extent, stride)
	case api.Int64:
		return put[int64](v, raw, start, extent, stride)
	case api.UInt64:
		return put[uint64](v, raw, start, extent, stride)
	case api.Float:
		return put[float32](v, raw, start, extent, stride)
	case api.Double:
		return put[float64](v, raw, start, extent, stride)
	case api.String:
		return putStrings(v, raw, start, extent, stride)
	}
	return 0, fmt.Errorf("%w: %v", api.ErrUnknownKind, v.Kind())
}

func put[T api.Numeric](v *netcdf.Variable, raw []string, start, extent []uint64, stride []int64) (int, error) {
	values, err := parseValues[T](raw)
	if err != nil {
		return 0, err
	}
	if stride != nil {
		return netcdf.PutValuesStrided(v, values, start, extent, stride)
	}
	if err := netcdf.PutValues(v, values, start, extent); err != nil {
		return 0, err
	}
	return len(values), nil
}

func putStrings(v *netcdf.Variable, raw []string, start, extent []uint64, stride []int64) (int, error) {
	if extent != nil || stride != nil || (start != nil && len(raw) != 1) {
		return 0, errStringRegion
	}
	if start != nil {
		return 1, v.PutString(raw[0], start)
	}
	return len(raw), v.PutStrings(raw)
}

// parseValues parses each string as the Go type of T.
func parseValues[T api.Numeric](raw []string) ([]T, error) {
	kind := api.KindOf[T]()
	bits := kind.Size() * 8
	values := make([]T, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		var err error
		switch kind {
		case api.Float, api.Double:
			var f float64
			f, err = strconv.ParseFloat(s, bits)
			values[i] = T(f)
		case api.UByte, api.UShort, api.UInt, api.UInt64:
			var u uint64
			u, err = strconv.ParseUint(s, 10, bits)
			values[i] = T(u)
		default:
			var n int64
			n, err = strconv.ParseInt(s, 10, bits)
			values[i] = T(n)
		}
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}
	return values, nil
}
