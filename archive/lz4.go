package archive

import (
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4Codec keeps one block compressor, and with it the hash table, per
// instance. lz4.Compressor is not safe for concurrent use.
type lz4Codec struct {
	mu sync.Mutex
	c  lz4.Compressor
}

// NewLZ4Codec returns an LZ4 block codec.
func NewLZ4Codec() Codec { return &lz4Codec{} }

func (*lz4Codec) Compression() Compression { return CompressionLZ4 }

func (l *lz4Codec) Compress(src []byte) ([]byte, error) {
	// With a CompressBlockBound sized destination the block always fits,
	// incompressible input included.
	dst := make([]byte, lz4.CompressBlockBound(len(src)))

	l.mu.Lock()
	n, err := l.c.CompressBlock(src, dst)
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n == 0 && len(src) > 0 {
		return nil, fmt.Errorf("lz4: empty block for %d bytes", len(src))
	}
	return dst[:n:n], nil
}

// Decompress cannot separate a short dst from a corrupt block: lz4 reports
// both as ErrInvalidSourceShortBuffer.
func (*lz4Codec) Decompress(src, dst []byte) (int, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return n, fmt.Errorf("lz4: %w", err)
	}
	return n, nil
}
