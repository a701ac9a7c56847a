package archive

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll, so every zstd codec shares one pair.
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
		panic("archive: zstd encoder initialization failed: " + err.Error())
	}

	// Cap DecodeAll at cap(dst) so an oversized frame cannot grow the
	// destination.
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))
	if err != nil {
		panic("archive: zstd decoder initialization failed: " + err.Error())
	}
}

type zstdCodec struct{}

// NewZstdCodec returns a zstd codec.
func NewZstdCodec() Codec { return zstdCodec{} }

func (zstdCodec) Compression() Compression { return CompressionZstd }

func (zstdCodec) Compress(src []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(src, make([]byte, 0, len(src)/2+64)), nil
}

func (zstdCodec) Decompress(src, dst []byte) (int, error) {
	out, err := zstdDecoder.DecodeAll(src, dst[:0:len(dst)])
	if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
		return 0, fmt.Errorf("%w: zstd output exceeds %d bytes", ErrSizeMismatch, len(dst))
	}
	if err != nil {
		return 0, fmt.Errorf("zstd: %w", err)
	}
	if len(out) > len(dst) {
		return 0, fmt.Errorf("%w: zstd output exceeds %d bytes", ErrSizeMismatch, len(dst))
	}
	return copy(dst, out), nil
}
