package archive

import (
	"fmt"
	"sync"
)

// Compression identifies the backend that produced a payload. Tags are
// stored in the "compression" field; changing them breaks existing
// archives.
type Compression int32

const (
	// CompressionLZO is LZO1X. Archives without a compression field use it.
	CompressionLZO Compression = 1

	// CompressionZlib is zlib (RFC 1950), the default for new archives.
	CompressionZlib Compression = 2

	// CompressionZstd is a single zstd frame.
	CompressionZstd Compression = 3

	// CompressionLZ4 is one LZ4 block.
	CompressionLZ4 Compression = 4
)

// String returns the name of the compression tag.
func (c Compression) String() string {
	switch c {
	case CompressionLZO:
		return "lzo"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", int32(c))
	}
}

// ParseCompression parses the name returned by Compression.String.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "lzo":
		return CompressionLZO, nil
	case "zlib":
		return CompressionZlib, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCompression, name)
	}
}

// Codec is a compression backend.
//
// Compress returns the compressed form of src. Decompress expands src into
// dst and returns the number of bytes written; it must not write past
// len(dst), and reports output that would not fit with an error wrapping
// ErrSizeMismatch when the backend can tell it apart from corruption.
// Implementations must be safe for concurrent use.
type Codec interface {
	Compression() Compression
	Compress(src []byte) ([]byte, error)
	Decompress(src, dst []byte) (int, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[Compression]Codec{}
)

func init() {
	Register(NewLZOCodec())
	Register(NewZlibCodec(DefaultZlibLevel))
	Register(NewZstdCodec())
	Register(NewLZ4Codec())
}

// Register makes c the codec used for its compression tag, replacing any
// codec registered earlier for the same tag.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Compression()] = c
}

// Lookup returns the codec registered for tag.
func Lookup(tag Compression) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[tag]
	if !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedCompression, int32(tag))
	}
	return c, nil
}
