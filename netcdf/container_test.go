package netcdf

import (
	"bytes"
	"sync"
	"testing"

	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *Container {
	t.Helper()
	c, err := New(memory.New())
	require.NoError(t, err)
	return c
}

// mustDimension adds a dimension, unlimited when length is 0.
func mustDimension(t *testing.T, c *Container, name string, length uint64) *Dimension {
	t.Helper()
	add := func() (*Dimension, error) { return c.AddDimension(name, length) }
	if length == 0 {
		add = func() (*Dimension, error) { return c.AddUnlimitedDimension(name) }
	}
	d, err := add()
	require.NoError(t, err)
	return d
}

func TestDefinitions(t *testing.T) {
	c := newContainer(t)
	time, err := c.AddUnlimitedDimension("time")
	require.NoError(t, err)
	lat, err := c.AddDimension("lat", 3)
	require.NoError(t, err)

	_, err = c.AddDimension("lat", 4)
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = c.AddDimension("bad/name", 4)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = c.AddDimension("double", 4)
	assert.ErrorIs(t, err, ErrInvalidName)

	temp, err := c.AddVariable("temp", api.Float, "time", "lat")
	require.NoError(t, err)
	// a coordinate variable shares its dimension's name
	_, err = c.AddVariable("lat", api.Double, "lat")
	require.NoError(t, err)
	_, err = c.AddVariable("temp", api.Float, "lat")
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = c.AddVariable("rh", api.Float, "lon")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.AddVariable("rh", api.Invalid, "lat")
	assert.ErrorIs(t, err, api.ErrUnknownKind)

	assert.Equal(t, "temp", temp.Name())
	assert.Equal(t, api.Float, temp.Kind())
	assert.Equal(t, []*Dimension{time, lat}, temp.Dimensions())
	assert.True(t, time.IsUnlimited())
	assert.False(t, lat.IsUnlimited())

	got, err := c.Variable("temp")
	require.NoError(t, err)
	assert.Same(t, temp, got)
	_, err = c.Variable("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	d, err := c.Dimension("time")
	require.NoError(t, err)
	assert.Same(t, time, d)
	_, err = c.Dimension("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	var names []string
	for _, v := range c.Variables() {
		names = append(names, v.Name())
	}
	assert.Equal(t, []string{"temp", "lat"}, names)
	names = nil
	for _, d := range c.Dimensions() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"time", "lat"}, names)
}

func TestLengths(t *testing.T) {
	c := newContainer(t)
	time := mustDimension(t, c, "time", 0)
	mustDimension(t, c, "x", 4)
	v, err := c.AddVariable("v", api.Short, "time", "x")
	require.NoError(t, err)

	n, err := v.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	require.NoError(t, PutValues(v, make([]int16, 12), nil, nil))
	n, err = time.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	shape, err := v.Shape()
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 4}, shape)
	n, err = v.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), n)
}

func TestReopenFromSnapshot(t *testing.T) {
	store := memory.New()
	c, err := New(store)
	require.NoError(t, err)
	mustDimension(t, c, "time", 0)
	mustDimension(t, c, "station", 2)
	v, err := c.AddVariable("temp", api.Int, "time", "station")
	require.NoError(t, err)
	require.NoError(t, PutValues(v, []int32{1, 2, 3, 4}, nil, nil))

	var buf bytes.Buffer
	require.NoError(t, store.Save(&buf))
	loaded, err := memory.Load(&buf)
	require.NoError(t, err)
	c2, err := New(loaded)
	require.NoError(t, err)

	v2, err := c2.Variable("temp")
	require.NoError(t, err)
	assert.Equal(t, api.Int, v2.Kind())
	values, shape, err := Values[int32](v2, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4}, values)
	assert.Equal(t, []uint64{2, 2}, shape)

	d, err := c2.Dimension("time")
	require.NoError(t, err)
	assert.True(t, d.IsUnlimited())
}

// noBackend is a store that has lost its typed backends.
type noBackend struct {
	api.Store
}

func (noBackend) Backend(api.Kind) any { return nil }

func TestBackendError(t *testing.T) {
	c, err := New(noBackend{memory.New()})
	require.NoError(t, err)
	mustDimension(t, c, "x", 2)
	v, err := c.AddVariable("v", api.Int, "x")
	require.NoError(t, err)

	_, err = Value[int32](v, []uint64{0})
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Backend", be.Op)
	assert.ErrorIs(t, err, api.ErrNoBackend)
}

func TestConcurrentWriters(t *testing.T) {
	c := newContainer(t)
	mustDimension(t, c, "time", 0)
	mustDimension(t, c, "x", 8)
	v, err := c.AddVariable("v", api.Int64, "time", "x")
	require.NoError(t, err)
	require.NoError(t, PutValues(v, make([]int64, 8*8), nil, nil))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for row := uint64(0); row < 8; row++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			values := make([]int64, 8)
			for i := range values {
				values[i] = int64(row*8) + int64(i)
			}
			errs <- PutValues(v, values, []uint64{row, 0}, nil)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	values, _, err := Values[int64](v, nil, nil)
	require.NoError(t, err)
	for i, got := range values {
		assert.Equal(t, int64(i), got)
	}
}

func TestWithLogLevel(t *testing.T) {
	c, err := New(memory.New(), WithLogLevel(3))
	require.NoError(t, err)
	assert.NotSame(t, logger, c.logger)
	old := SetLogLevel(1)
	defer SetLogLevel(old)
	// the container's own level is unchanged
	assert.NotEqual(t, logger.LogLevel(), c.logger.LogLevel())
}
