package archive

import (
	"errors"
	"fmt"

	lzo "github.com/anchore/go-lzo"

	"github.com/gogpu/bitmap/internal/lzo1x"
)

// lzoCodec owns its compression dictionary; no scratch memory is shared
// between instances.
type lzoCodec struct {
	c *lzo1x.Compressor
}

// NewLZOCodec returns an LZO1X codec with its own dictionary.
func NewLZOCodec() Codec {
	return &lzoCodec{c: lzo1x.NewCompressor()}
}

func (*lzoCodec) Compression() Compression { return CompressionLZO }

func (l *lzoCodec) Compress(src []byte) ([]byte, error) {
	out := l.c.Compress(src)
	// Drop the unused worst-case capacity.
	return append([]byte(nil), out...), nil
}

func (*lzoCodec) Decompress(src, dst []byte) (int, error) {
	n, err := lzo.Decompress(src, dst)
	if errors.Is(err, lzo.ErrOutputOverrun) {
		return n, fmt.Errorf("%w: lzo output exceeds %d bytes", ErrSizeMismatch, len(dst))
	}
	if err != nil {
		return n, fmt.Errorf("lzo: %w", err)
	}
	return n, nil
}
