package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/batchatco/go-ncslab/netcdf"
	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/memory"
	"github.com/spf13/cobra"
)

var errDefinition = errors.New("bad definition")

func openContainer(fname string) (*memory.Store, *netcdf.Container, error) {
	store, err := memory.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	c, err := netcdf.New(store)
	if err != nil {
		return nil, nil, err
	}
	return store, c, nil
}

// defineDimension takes NAME=LENGTH or NAME=unlimited.
func defineDimension(c *netcdf.Container, def string) error {
	name, length, found := strings.Cut(def, "=")
	if !found {
		return fmt.Errorf("%w: dimension %q", errDefinition, def)
	}
	if length == "unlimited" {
		_, err := c.AddUnlimitedDimension(name)
		return err
	}
	n, err := strconv.ParseUint(length, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: dimension %q", errDefinition, def)
	}
	_, err = c.AddDimension(name, n)
	return err
}

// defineVariable takes NAME:KIND or NAME:KIND:DIM,DIM...
func defineVariable(c *netcdf.Container, def string) error {
	parts := strings.SplitN(def, ":", 3)
	if len(parts) < 2 {
		return fmt.Errorf("%w: variable %q", errDefinition, def)
	}
	kind, err := api.ParseKind(parts[1])
	if err != nil {
		return err
	}
	var dimNames []string
	if len(parts) == 3 && parts[2] != "" {
		dimNames = strings.Split(parts[2], ",")
	}
	_, err = c.AddVariable(parts[0], kind, dimNames...)
	return err
}

func (a *app) createCmd() *cobra.Command {
	var dims, vars []string
	cmd := &cobra.Command{
		Use:     "create FILE",
		Short:   "Create a container file",
		Example: `  ncslab create obs.ncslab --dim time=unlimited --dim station=3 --var temp:float:time,station`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := memory.New()
			c, err := netcdf.New(store)
			if err != nil {
				return err
			}
			for _, def := range dims {
				if err := defineDimension(c, def); err != nil {
					return err
				}
			}
			for _, def := range vars {
				if err := defineVariable(c, def); err != nil {
					return err
				}
			}
			if err := a.save(store, args[0]); err != nil {
				return err
			}
			logger.Info("created", "file", args[0], "dims", len(dims), "vars", len(vars))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&dims, "dim", nil, "dimension NAME=LENGTH or NAME=unlimited (repeatable)")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable NAME:KIND[:DIM,DIM...] (repeatable)")
	return cmd
}

type dimInfo struct {
	Name      string `yaml:"name" json:"name"`
	Len       uint64 `yaml:"len" json:"len"`
	Unlimited bool   `yaml:"unlimited,omitempty" json:"unlimited,omitempty"`
}

type varInfo struct {
	Name  string   `yaml:"name" json:"name"`
	Kind  string   `yaml:"kind" json:"kind"`
	Dims  []string `yaml:"dims,omitempty" json:"dims,omitempty"`
	Shape []uint64 `yaml:"shape,omitempty" json:"shape,omitempty"`
}

type containerInfo struct {
	Dimensions []dimInfo `yaml:"dimensions" json:"dimensions"`
	Variables  []varInfo `yaml:"variables" json:"variables"`
}

func describe(c *netcdf.Container) (*containerInfo, error) {
	info := &containerInfo{}
	for _, d := range c.Dimensions() {
		n, err := d.Len()
		if err != nil {
			return nil, err
		}
		info.Dimensions = append(info.Dimensions, dimInfo{Name: d.Name(), Len: n, Unlimited: d.IsUnlimited()})
	}
	for _, v := range c.Variables() {
		shape, err := v.Shape()
		if err != nil {
			return nil, err
		}
		vi := varInfo{Name: v.Name(), Kind: v.Kind().String(), Shape: shape}
		for _, d := range v.Dimensions() {
			vi.Dims = append(vi.Dims, d.Name())
		}
		info.Variables = append(info.Variables, vi)
	}
	return info, nil
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "List the dimensions and variables of a container file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := openContainer(args[0])
			if err != nil {
				return err
			}
			info, err := describe(c)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), info)
		},
	}
}
