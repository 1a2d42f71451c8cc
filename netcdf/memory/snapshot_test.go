package memory

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s, temp, rh := newTimeSeries(t)
	ints, _ := api.BackendFor[int32](s)
	require.NoError(t, ints.PutVara(temp, []uint64{0, 0}, []uint64{2, 2}, []int32{1, 2, 3, 4}))
	require.NoError(t, s.SetFill(rh, nil))
	require.NoError(t, s.SetFill(temp, int32(-9)))
	rec, _ := s.DefineDimension("rec", 2, false)
	names, _ := s.DefineVariable("names", api.String, []int{rec})
	require.NoError(t, s.Strings().PutStrings(names, []string{"a", "b"}))

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)

	n, err := loaded.DimLen(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	lints, _ := api.BackendFor[int32](loaded)
	values := make([]int32, 4)
	require.NoError(t, lints.GetVara(temp, []uint64{0, 0}, []uint64{2, 2}, values))
	assert.Equal(t, []int32{1, 2, 3, 4}, values)

	fill, err := loaded.Fill(temp)
	require.NoError(t, err)
	assert.Equal(t, int32(-9), fill)
	fill, err = loaded.Fill(rh)
	require.NoError(t, err)
	assert.Nil(t, fill)

	strs, err := loaded.Strings().GetStrings(names)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, strs)

	// the loaded store keeps growing the same way
	require.NoError(t, lints.PutVar1(temp, []uint64{2, 0}, 7))
	require.NoError(t, lints.GetVara(temp, []uint64{2, 0}, []uint64{1, 2}, values[:2]))
	assert.Equal(t, []int32{7, -9}, values[:2])
}

func TestSnapshotDeterministic(t *testing.T) {
	s, _, _ := newTimeSeries(t)
	var a, b bytes.Buffer
	require.NoError(t, s.Save(&a))
	require.NoError(t, s.Save(&b))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestLoadErrors(t *testing.T) {
	s, _, _ := newTimeSeries(t)
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	good := buf.Bytes()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrNotSnapshot},
		{"magic", append([]byte("NCSLAX"), good[len(snapshotMagic):]...), ErrNotSnapshot},
		{"version", append(append([]byte{}, snapshotMagic...), append([]byte{9}, good[len(snapshotMagic)+1:]...)...), ErrVersion},
		{"payload", append(append([]byte{}, good[:len(snapshotMagic)+1]...), 1, 2, 3), ErrCorruptedSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWriteFileOpen(t *testing.T) {
	s, temp, _ := newTimeSeries(t)
	ints, _ := api.BackendFor[int32](s)
	require.NoError(t, ints.PutVar1(temp, []uint64{0, 1}, 3))

	fname := filepath.Join(t.TempDir(), "series.ncslab")
	require.NoError(t, s.WriteFile(fname))
	loaded, err := Open(fname)
	require.NoError(t, err)
	lints, _ := api.BackendFor[int32](loaded)
	got, err := lints.GetVar1(temp, []uint64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, int32(3), got)

	_, err = Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSnapshotCompressions(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			s := New()
			x, _ := s.DefineDimension("x", 1000, false)
			v, _ := s.DefineVariable("v", api.Double, []int{x})
			require.NoError(t, s.SetCompression(c))
			doubles, _ := api.BackendFor[float64](s)
			require.NoError(t, doubles.PutVar1(v, []uint64{500}, 1.5))

			var buf bytes.Buffer
			require.NoError(t, s.Save(&buf))
			if c != CompressionNone {
				// a thousand identical fill values compress well
				assert.Less(t, buf.Len(), 1000)
			}
			loaded, err := Load(&buf)
			require.NoError(t, err)
			ldoubles, _ := api.BackendFor[float64](loaded)
			got, err := ldoubles.GetVar1(v, []uint64{500})
			require.NoError(t, err)
			assert.Equal(t, 1.5, got)
			if c != CompressionNone {
				assert.Equal(t, c, loaded.compression)
			}
		})
	}
	assert.ErrorIs(t, New().SetCompression(Compression(7)), ErrCompression)
}

func TestParseCompression(t *testing.T) {
	for _, name := range []string{"none", "lz4", "zstd"} {
		c, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.String())
	}
	_, err := ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrCompression)
}

func TestChecksum(t *testing.T) {
	s, _, _ := newTimeSeries(t)
	require.NoError(t, s.SetCompression(CompressionNone))
	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))
	data := buf.Bytes()
	data[len(data)-1] ^= 0xff
	_, err := Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrCorruptedSnapshot)
}
