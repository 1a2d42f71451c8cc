package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/batchatco/go-ncslab/internal"
	"github.com/batchatco/go-ncslab/netcdf"
	"github.com/batchatco/go-ncslab/netcdf/memory"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var errOutput = errors.New("unknown output format")

type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:           "ncslab",
		Short:         "Resolve, read and write hyperslabs of netCDF-style variables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.configure()
		},
	}
	fs := root.PersistentFlags()
	fs.Int("log-level", int(internal.LogLevelDefault), "0 (fatal only) to 3 (everything)")
	fs.StringP("output", "o", "yaml", "output format: yaml or json")
	fs.String("compression", "", "snapshot compression when saving: none, lz4 or zstd (default: keep)")

	a.v.SetEnvPrefix("NCSLAB")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	for _, name := range []string{"log-level", "output", "compression"} {
		if err := a.v.BindPFlag(name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		a.resolveCmd(),
		a.createCmd(),
		a.infoCmd(),
		a.getCmd(),
		a.putCmd(),
	)
	return root
}

func (a *app) configure() error {
	level := a.v.GetInt("log-level")
	netcdf.SetLogLevel(level)
	memory.SetLogLevel(level)
	logger.SetLogLevel(internal.LevelFromInt(level))
	if name := a.v.GetString("compression"); name != "" {
		if _, err := memory.ParseCompression(name); err != nil {
			return err
		}
	}
	switch out := a.v.GetString("output"); out {
	case "yaml", "json":
		return nil
	default:
		return fmt.Errorf("%w: %q", errOutput, out)
	}
}

// save writes the store back to fname, switching compression first when
// one was asked for.
func (a *app) save(store *memory.Store, fname string) error {
	if name := a.v.GetString("compression"); name != "" {
		c, err := memory.ParseCompression(name)
		if err != nil {
			return err
		}
		if err := store.SetCompression(c); err != nil {
			return err
		}
	}
	return store.WriteFile(fname)
}

func (a *app) print(w io.Writer, v any) error {
	if a.v.GetString("output") == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// slabFlags are the request flags shared by every command that names a
// region. Flags that were not given come back nil.
type slabFlags struct {
	start  []uint
	extent []uint
	stride []int64
}

func (f *slabFlags) register(fs *pflag.FlagSet) {
	fs.UintSliceVar(&f.start, "start", nil, "start index of each dimension (default: the origin)")
	fs.UintSliceVar(&f.extent, "extent", nil, "extent of each dimension (default: inferred)")
	fs.Int64SliceVar(&f.stride, "stride", nil, "stride of each dimension (default: contiguous)")
}

func (f *slabFlags) request(fs *pflag.FlagSet) (start, extent []uint64, stride []int64) {
	if fs.Changed("start") {
		start = toUint64(f.start)
	}
	if fs.Changed("extent") {
		extent = toUint64(f.extent)
	}
	if fs.Changed("stride") {
		stride = f.stride
	}
	return start, extent, stride
}

func toUint64(s []uint) []uint64 {
	u := make([]uint64, len(s))
	for i, v := range s {
		u[i] = uint64(v)
	}
	return u
}
