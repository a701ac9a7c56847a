package archive

import "errors"

// Errors returned by Archive and Extract. Every error returned by this
// package wraps exactly one of them.
var (
	// ErrBadArgument is returned for nil or empty inputs and for
	// malformed geometry.
	ErrBadArgument = errors.New("archive: bad argument")

	// ErrCompression is returned when a backend fails to compress.
	ErrCompression = errors.New("archive: compression failed")

	// ErrDecompression is returned when a backend rejects the payload.
	ErrDecompression = errors.New("archive: corrupt payload")

	// ErrSizeMismatch is returned when the payload expands to a size other
	// than the one implied by the construction bounds.
	ErrSizeMismatch = errors.New("archive: decompressed size mismatch")

	// ErrMissingField is returned when a required field is absent or has
	// the wrong type.
	ErrMissingField = errors.New("archive: missing field")

	// ErrUnsupportedCompression is returned for a compression tag with no
	// registered codec, typically an archive from a newer version.
	ErrUnsupportedCompression = errors.New("archive: unsupported compression")

	// ErrChecksumMismatch is returned when the extracted pixels do not
	// match the stored checksum.
	ErrChecksumMismatch = errors.New("archive: checksum mismatch")
)
