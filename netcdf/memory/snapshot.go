package memory

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/batchatco/go-ncslab/netcdf/api"
	"github.com/batchatco/go-ncslab/netcdf/util"
	"github.com/batchatco/go-thrower"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// A snapshot file is a header followed by the CBOR encoding of a
// snapshot, compressed. The header is the magic number, a version byte,
// the compression byte, the length of the uncompressed payload (uint64,
// big-endian) and its BLAKE3 sum.
const snapshotVersion = 1

var snapshotMagic = []byte("NCSLAB")

var (
	ErrNotSnapshot       = errors.New("not a snapshot")
	ErrVersion           = errors.New("unsupported snapshot version")
	ErrCorruptedSnapshot = errors.New("snapshot is corrupted")
)

type snapshot struct {
	Dims []dimSnapshot `cbor:"dims"`
	Vars []varSnapshot `cbor:"vars"`
}

type dimSnapshot struct {
	Name      string `cbor:"name"`
	Len       uint64 `cbor:"len"`
	Unlimited bool   `cbor:"unlimited,omitempty"`
}

type varSnapshot struct {
	Name   string   `cbor:"name"`
	Kind   api.Kind `cbor:"kind"`
	DimIDs []int    `cbor:"dims,omitempty"`
	// numeric elements, big-endian
	Data []byte `cbor:"data,omitempty"`
	// text elements
	Strings []string `cbor:"strings,omitempty"`
	NoFill  bool     `cbor:"nofill,omitempty"`
	// fill value: encoded like Data for numeric kinds
	Fill       []byte `cbor:"fill,omitempty"`
	FillString string `cbor:"fill_string,omitempty"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("memory: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("memory: CBOR decoder initialization failed: " + err.Error())
	}
}

// Save writes a snapshot of the store to w, compressed as set by
// SetCompression.
func (s *Store) Save(w io.Writer) (err error) {
	defer thrower.RecoverError(&err)
	snap := snapshot{}
	for _, d := range s.dims {
		snap.Dims = append(snap.Dims, dimSnapshot{Name: d.name, Len: d.length, Unlimited: d.unlimited})
	}
	for _, v := range s.vars {
		snap.Vars = append(snap.Vars, v.snapshot())
	}
	payload, err := encMode.Marshal(&snap)
	thrower.ThrowIfError(err)

	body, used, err := compress(payload, s.compression)
	thrower.ThrowIfError(err)
	sum := blake3.Sum256(payload)

	bw := bufio.NewWriter(w)
	util.MustWriteRaw(bw, snapshotMagic)
	util.MustWriteByte(bw, snapshotVersion)
	util.MustWriteByte(bw, byte(used))
	util.MustWriteBE(bw, uint64(len(payload)))
	util.MustWriteRaw(bw, sum[:])
	util.MustWriteRaw(bw, body)
	thrower.ThrowIfError(bw.Flush())
	logger.Info("saved snapshot", "dims", len(snap.Dims), "vars", len(snap.Vars),
		"compression", used, "size", len(payload), "stored", len(body))
	return nil
}

func (v *variable) snapshot() varSnapshot {
	vs := varSnapshot{Name: v.name, Kind: v.kind, DimIDs: v.dimIDs}
	fill := v.arr.fill()
	vs.NoFill = fill == nil
	switch arr := v.arr.(type) {
	case *textArray:
		vs.Strings = arr.data
		vs.FillString = arr.fillValue
	default:
		vs.Data = arr.encode()
		if fill != nil {
			vs.Fill = arr.encodeFill()
		}
	}
	return vs
}

// Load reads a snapshot written by Save.
func Load(r io.Reader) (s *Store, err error) {
	defer thrower.RecoverError(&err)
	br := bufio.NewReader(r)
	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(br, magic); err != nil || !bytes.Equal(magic, snapshotMagic) {
		thrower.Throw(ErrNotSnapshot)
	}
	if version := util.MustRead8(br); version != snapshotVersion {
		thrower.Throw(ErrVersion)
	}
	var header [1 + 8 + 32]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		thrower.Throw(ErrCorruptedSnapshot)
	}
	hr := bytes.NewReader(header[:])
	used := Compression(util.MustRead8(hr))
	var size uint64
	util.MustReadBE(hr, &size)
	var sum [32]byte
	util.MustReadBE(hr, &sum)
	body, err := io.ReadAll(br)
	thrower.ThrowIfError(err)
	if size > maxPayload {
		thrower.Throw(ErrCorruptedSnapshot)
	}
	payload, err := decompress(body, used, int(size))
	if err != nil {
		logger.Error("snapshot decompression failed", "err", err)
		thrower.Throw(ErrCorruptedSnapshot)
	}
	if blake3.Sum256(payload) != sum {
		logger.Error("snapshot checksum mismatch")
		thrower.Throw(ErrCorruptedSnapshot)
	}
	var snap snapshot
	if err := decMode.Unmarshal(payload, &snap); err != nil {
		logger.Error("snapshot decoding failed", "err", err)
		thrower.Throw(ErrCorruptedSnapshot)
	}

	s = New()
	if used != CompressionNone {
		s.compression = used
	}
	for _, d := range snap.Dims {
		s.dims = append(s.dims, dimension{name: d.Name, length: d.Len, unlimited: d.Unlimited})
	}
	for _, vs := range snap.Vars {
		s.vars = append(s.vars, s.restore(vs))
	}
	logger.Info("loaded snapshot", "dims", len(s.dims), "vars", len(s.vars))
	return s, nil
}

func (s *Store) restore(vs varSnapshot) *variable {
	if vs.Kind <= api.Invalid || vs.Kind >= api.NumKinds {
		thrower.Throw(ErrCorruptedSnapshot)
	}
	for _, id := range vs.DimIDs {
		if id < 0 || id >= len(s.dims) {
			thrower.Throw(ErrCorruptedSnapshot)
		}
	}
	v := &variable{name: vs.Name, kind: vs.Kind, dimIDs: vs.DimIDs, arr: newArray(vs.Kind)}
	v.shape = s.shapeOf(v)
	n := elements(v.shape)
	switch arr := v.arr.(type) {
	case *textArray:
		if len(vs.Strings) != n {
			thrower.Throw(ErrCorruptedSnapshot)
		}
		arr.data = vs.Strings
		arr.fillValue = vs.FillString
		arr.hasFill = !vs.NoFill
	default:
		if len(vs.Data) != n*vs.Kind.Size() {
			thrower.Throw(ErrCorruptedSnapshot)
		}
		arr.decode(vs.Data, n)
		if vs.NoFill {
			arr.setFill(nil)
		} else if vs.Fill != nil {
			arr.decodeFill(vs.Fill)
		}
	}
	return v
}

// Open loads the snapshot in the named file.
func Open(fname string) (*Store, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// WriteFile saves the store to the named file, replacing it.
func (s *Store) WriteFile(fname string) (err error) {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return s.Save(f)
}
