package memory

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the algorithm a snapshot's payload is compressed with.
// The values are stored in snapshot files.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

var ErrCompression = errors.New("unknown compression")

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

func ParseCompression(name string) (Compression, error) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrCompression, name)
}

const (
	// maxPayload bounds the uncompressed size a snapshot may claim.
	maxPayload = 1 << 40
	// An lz4 block expands at most this many times.
	maxLZ4Ratio = 255
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("memory: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayload))
	if err != nil {
		panic("memory: zstd decoder initialization failed: " + err.Error())
	}
}

// compress returns the compressed data and the compression actually
// used, which is none when compressing would not make the data smaller.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(data) {
			return data, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	case CompressionZstd:
		dst := zstdEncoder.EncodeAll(data, nil)
		if len(dst) >= len(data) {
			return data, CompressionNone, nil
		}
		return dst, CompressionZstd, nil
	}
	return nil, 0, fmt.Errorf("%w: %v", ErrCompression, c)
}

// decompress reverses compress. size is the length of the original data.
func decompress(p []byte, c Compression, size int) ([]byte, error) {
	var data []byte
	switch c {
	case CompressionNone:
		data = p
	case CompressionLZ4:
		if size > len(p)*maxLZ4Ratio+16 {
			return nil, fmt.Errorf("lz4 decompress: %d bytes can't hold %d", len(p), size)
		}
		data = make([]byte, size)
		n, err := lz4.UncompressBlock(p, data)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		data = data[:n]
	case CompressionZstd:
		var err error
		data, err = zstdDecoder.DecodeAll(p, make([]byte, 0, min(size, len(p)*maxLZ4Ratio)))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrCompression, c)
	}
	if len(data) != size {
		return nil, fmt.Errorf("%v decompress: got %d bytes, expected %d", c, len(data), size)
	}
	return data, nil
}
