package archive

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/gogpu/bitmap/internal/cache"
)

// DefaultZlibLevel is the zlib level used for new archives.
const DefaultZlibLevel = 3

type zlibCodec struct {
	level   int
	writers sync.Pool // *zlib.Writer at level
}

// NewZlibCodec returns a zlib codec compressing at level, which must be a
// valid zlib level (-2 to 9). Invalid levels fail at compression time.
func NewZlibCodec(level int) Codec {
	return &zlibCodec{level: level}
}

// zlibCodecs holds the codecs of non-default levels so their writers are
// reused across calls.
var zlibCodecs = cache.New[int, Codec](16)

func zlibCodecFor(level int) Codec {
	return zlibCodecs.GetOrCreate(level, func() Codec { return NewZlibCodec(level) })
}

func (*zlibCodec) Compression() Compression { return CompressionZlib }

// zlibBound is the scratch size reserved for compressing n bytes.
func zlibBound(n int) int {
	return (n*101+99)/100 + 12
}

func (z *zlibCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(zlibBound(len(src)))

	w, ok := z.writers.Get().(*zlib.Writer)
	if ok {
		w.Reset(&buf)
	} else {
		var err error
		if w, err = zlib.NewWriterLevel(&buf, z.level); err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
	}
	defer z.writers.Put(w)

	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (*zlibCodec) Decompress(src, dst []byte) (int, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()

	n, err := io.ReadFull(r, dst)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		// Stream ended early; the caller sees n < len(dst).
		return n, nil
	default:
		return n, fmt.Errorf("zlib: %w", err)
	}

	// dst is full: the stream must end here. Reading to the end also
	// verifies the Adler-32 trailer.
	var extra [1]byte
	m, err := r.Read(extra[:])
	if m > 0 {
		return n, fmt.Errorf("%w: zlib output exceeds %d bytes", ErrSizeMismatch, len(dst))
	}
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("zlib: %w", err)
	}
	return n, nil
}
