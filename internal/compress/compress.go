package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores blocks uncompressed.
	None Type = 0
	// LZ4 is fast block compression.
	LZ4 Type = 1
	// ZSTD trades speed for a better ratio.
	ZSTD Type = 2
)

// String returns the stable name of the algorithm.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseType maps a stable name back to a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

var (
	// ErrUnknownType is returned for an unsupported algorithm.
	ErrUnknownType = errors.New("unknown compression type")
	// ErrCorrupt is returned when a block header does not match its data.
	ErrCorrupt = errors.New("corrupt block")
)

const headerSize = 9

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Encode frames data with the given algorithm.
func Encode(data []byte, t Type) ([]byte, error) {
	if len(data) > math.MaxUint32 {
		return nil, fmt.Errorf("compress: block of %d bytes too large", len(data))
	}

	var compressed []byte
	var err error
	switch t {
	case None:
	case LZ4:
		if len(data) == 0 {
			break
		}
		compressed, err = encodeLZ4(data)
	case ZSTD:
		if len(data) == 0 {
			break
		}
		compressed = encodeZSTD(data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if err != nil {
		return nil, err
	}

	// Store uncompressed when the ratio is worse than 0.9.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return frame(t, data, 0), nil
	}
	return frame(t, compressed, uint32(len(data))), nil
}

func frame(t Type, body []byte, uncompressed uint32) []byte {
	out := make([]byte, headerSize+len(body))
	out[0] = byte(t)
	if uncompressed == 0 {
		binary.LittleEndian.PutUint32(out[1:], uint32(len(body)))
		binary.LittleEndian.PutUint32(out[5:], 0)
	} else {
		binary.LittleEndian.PutUint32(out[1:], uncompressed)
		binary.LittleEndian.PutUint32(out[5:], uint32(len(body)))
	}
	copy(out[headerSize:], body)
	return out
}

func encodeLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible.
	return compressed[:n], nil
}

func encodeZSTD(data []byte) []byte {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)
	return enc.EncodeAll(data, nil)
}

// Decode reverses Encode.
func Decode(block []byte) ([]byte, error) {
	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(block))
	}
	t := Type(block[0])
	uncompressedSize := binary.LittleEndian.Uint32(block[1:])
	compressedSize := binary.LittleEndian.Uint32(block[5:])
	body := block[headerSize:]

	if compressedSize == 0 {
		if uint64(len(body)) < uint64(uncompressedSize) {
			return nil, fmt.Errorf("%w: stored block truncated", ErrCorrupt)
		}
		return body[:uncompressedSize], nil
	}
	if uint64(len(body)) < uint64(compressedSize) {
		return nil, fmt.Errorf("%w: compressed block truncated", ErrCorrupt)
	}
	body = body[:compressedSize]
	result := make([]byte, uncompressedSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(body, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}
