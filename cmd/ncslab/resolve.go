package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/batchatco/go-ncslab/netcdf/slab"
	"github.com/spf13/cobra"
)

var errDims = errors.New("bad dimension list")

// parseDims parses a comma separated list of lengths. A length ending in
// "u" is an unlimited dimension of that current length. The empty string
// is a scalar.
func parseDims(s string) ([]slab.Dimension, error) {
	if strings.TrimSpace(s) == "" {
		return []slab.Dimension{}, nil
	}
	var dims []slab.Dimension
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		d := slab.Dimension{}
		if n, ok := strings.CutSuffix(field, "u"); ok {
			d.Unlimited = true
			field = n
		}
		n, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errDims, field)
		}
		d.Len = n
		dims = append(dims, d)
	}
	return dims, nil
}

func (a *app) resolveCmd() *cobra.Command {
	var (
		dims   string
		write  bool
		length uint64
		sf     slabFlags
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Check a request and print the hyperslab it resolves to",
		Example: `  ncslab resolve --dims 2u,3,4 --write --len 24 --start 2,0,0
  ncslab resolve --dims 10 --len 5 --stride 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := parseDims(dims)
			if err != nil {
				return err
			}
			dir := slab.Read
			if write {
				dir = slab.Write
			}
			start, extent, stride := sf.request(cmd.Flags())
			var h *slab.Hyperslab
			if stride != nil {
				h, err = slab.ResolveStrided(d, dir, length, start, extent, stride)
			} else {
				h, err = slab.Resolve(d, dir, length, start, extent)
			}
			if err != nil {
				return err
			}
			logger.Info("resolved", "dir", dir, "slab", h.String())
			return a.print(cmd.OutOrStdout(), h)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&dims, "dims", "", `dimension lengths, e.g. "2u,3,4" (u: unlimited)`)
	fs.BoolVar(&write, "write", false, "resolve for writing, letting unlimited dimensions grow")
	fs.Uint64Var(&length, "len", 0, "number of elements in the buffer")
	sf.register(fs)
	_ = cmd.MarkFlagRequired("dims")
	_ = cmd.MarkFlagRequired("len")
	return cmd
}
