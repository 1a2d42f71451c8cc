// Package netcdf gives typed, bounds-checked access to the variables of a
// netCDF-style container.
//
// Reads and writes name a hyperslab by start indices, extents and
// (optionally) strides, one per dimension. Anything left out is worked
// out from the dimension lengths and the length of the caller's buffer.
// Requests are fully validated before the store sees them.
//
// A Container may be used from several goroutines. Every call into its
// store is serialized.
package netcdf

import (
	"fmt"
	"sync"

	"github.com/batchatco/go-ncslab/internal"
	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/util"
)

var logger = internal.NewLogger("netcdf")

// SetLogLevel sets the level of the package logger, from 0 (fatal only)
// to 3 (everything), and returns the old level.
func SetLogLevel(level int) int {
	return int(logger.SetLogLevel(internal.LevelFromInt(level)))
}

// Container is a set of dimensions and the variables defined over them.
type Container struct {
	mu     sync.Mutex // guards store
	store  api.Store
	logger *internal.Logger

	// defs guards dims and vars. It is taken before mu, never after.
	defs sync.RWMutex
	dims *util.OrderedMap[*Dimension]
	vars *util.OrderedMap[*Variable]
}

type Option func(*Container)

// WithLogLevel gives the container a logger of its own at the given level.
func WithLogLevel(level int) Option {
	return func(c *Container) {
		c.logger = logger.With()
		c.logger.SetLogLevel(internal.LevelFromInt(level))
	}
}

// New returns a container backed by store. If the store is an
// api.Cataloger, what it already holds is available by name.
func New(store api.Store, opts ...Option) (*Container, error) {
	dims, _ := util.NewOrderedMap[*Dimension](nil, nil)
	vars, _ := util.NewOrderedMap[*Variable](nil, nil)
	c := &Container{store: store, logger: logger, dims: dims, vars: vars}
	for _, opt := range opts {
		opt(c)
	}
	if cat, ok := store.(api.Cataloger); ok {
		if err := c.load(cat); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) load(cat api.Cataloger) error {
	c.mu.Lock()
	dimInfo, varInfo := cat.Catalog()
	c.mu.Unlock()
	byID := make([]*Dimension, len(dimInfo))
	for id, info := range dimInfo {
		if err := c.checkDimName(info.Name); err != nil {
			return err
		}
		byID[id] = &Dimension{c: c, id: id, name: info.Name, length: info.Len, unlimited: info.Unlimited}
		c.dims.Add(info.Name, byID[id])
	}
	for id, info := range varInfo {
		if err := c.checkVarName(info.Name); err != nil {
			return err
		}
		v := &Variable{c: c, id: id, name: info.Name, kind: info.Kind}
		for _, dimID := range info.DimIDs {
			if dimID < 0 || dimID >= len(byID) {
				return fmt.Errorf("variable %q: dimension %d: %w", info.Name, dimID, ErrNotFound)
			}
			v.dims = append(v.dims, byID[dimID])
		}
		c.vars.Add(info.Name, v)
	}
	c.logger.Info("loaded catalog", "dims", len(dimInfo), "vars", len(varInfo))
	return nil
}

func validName(name string) error {
	if !internal.IsValidNetCDFName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Dimensions and variables have separate namespaces: a coordinate
// variable has the same name as its dimension.
func (c *Container) checkDimName(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, has := c.dims.Get(name); has {
		return fmt.Errorf("%w: dimension %q", ErrDuplicate, name)
	}
	return nil
}

func (c *Container) checkVarName(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, has := c.vars.Get(name); has {
		return fmt.Errorf("%w: variable %q", ErrDuplicate, name)
	}
	return nil
}

// do runs one store call under the container lock.
func (c *Container) do(op string, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(); err != nil {
		c.logger.Error("store call failed", "op", op, "err", err)
		return &BackendError{Op: op, Err: err}
	}
	return nil
}

// AddDimension defines a dimension of fixed length.
func (c *Container) AddDimension(name string, length uint64) (*Dimension, error) {
	return c.addDimension(name, length, false)
}

// AddUnlimitedDimension defines a dimension that starts empty and grows
// as variables using it are written past its end.
func (c *Container) AddUnlimitedDimension(name string) (*Dimension, error) {
	return c.addDimension(name, 0, true)
}

func (c *Container) addDimension(name string, length uint64, unlimited bool) (*Dimension, error) {
	c.defs.Lock()
	defer c.defs.Unlock()
	if err := c.checkDimName(name); err != nil {
		return nil, err
	}
	var id int
	err := c.do("DefineDimension", func() (err error) {
		id, err = c.store.DefineDimension(name, length, unlimited)
		return err
	})
	if err != nil {
		return nil, err
	}
	d := &Dimension{c: c, id: id, name: name, length: length, unlimited: unlimited}
	c.dims.Add(name, d)
	return d, nil
}

// AddVariable defines a variable of the given kind over the named
// dimensions, in order. No dimensions makes a scalar.
func (c *Container) AddVariable(name string, kind api.Kind, dimNames ...string) (*Variable, error) {
	c.defs.Lock()
	defer c.defs.Unlock()
	if err := c.checkVarName(name); err != nil {
		return nil, err
	}
	if kind <= api.Invalid || kind >= api.NumKinds {
		return nil, fmt.Errorf("%w: %v", api.ErrUnknownKind, kind)
	}
	v := &Variable{c: c, name: name, kind: kind}
	dimIDs := make([]int, len(dimNames))
	for i, dimName := range dimNames {
		d, has := c.dims.Get(dimName)
		if !has {
			return nil, fmt.Errorf("%w: dimension %q", ErrNotFound, dimName)
		}
		dimIDs[i] = d.id
		v.dims = append(v.dims, d)
	}
	err := c.do("DefineVariable", func() (err error) {
		v.id, err = c.store.DefineVariable(name, kind, dimIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.vars.Add(name, v)
	return v, nil
}

func (c *Container) Variable(name string) (*Variable, error) {
	c.defs.RLock()
	defer c.defs.RUnlock()
	v, has := c.vars.Get(name)
	if !has {
		return nil, fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	return v, nil
}

// Variables returns every variable, in the order they were defined.
func (c *Container) Variables() []*Variable {
	c.defs.RLock()
	defer c.defs.RUnlock()
	vars := make([]*Variable, 0, c.vars.Len())
	for _, name := range c.vars.Keys() {
		v, _ := c.vars.Get(name)
		vars = append(vars, v)
	}
	return vars
}

func (c *Container) Dimension(name string) (*Dimension, error) {
	c.defs.RLock()
	defer c.defs.RUnlock()
	d, has := c.dims.Get(name)
	if !has {
		return nil, fmt.Errorf("%w: dimension %q", ErrNotFound, name)
	}
	return d, nil
}

// Dimensions returns every dimension, in the order they were defined.
func (c *Container) Dimensions() []*Dimension {
	c.defs.RLock()
	defer c.defs.RUnlock()
	dims := make([]*Dimension, 0, c.dims.Len())
	for _, name := range c.dims.Keys() {
		d, _ := c.dims.Get(name)
		dims = append(dims, d)
	}
	return dims
}

// Dimension is a handle on one dimension of a container.
type Dimension struct {
	c         *Container
	id        int
	name      string
	length    uint64 // fixed dimensions only
	unlimited bool
}

func (d *Dimension) Name() string {
	return d.name
}

func (d *Dimension) IsUnlimited() bool {
	return d.unlimited
}

// Len is the current length. The length of an unlimited dimension is
// asked of the store every time.
func (d *Dimension) Len() (uint64, error) {
	if !d.unlimited {
		return d.length, nil
	}
	var n uint64
	err := d.c.do("DimLen", func() (err error) {
		n, err = d.c.store.DimLen(d.id)
		return err
	})
	return n, err
}
