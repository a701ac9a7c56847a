package archive

// Option configures Archive and ArchiveLayers.
//
// Example:
//
//	// Default: zlib at level 3, no checksum
//	err := archive.Archive(buf, msg)
//
//	// LZO, readable by every version of the format
//	err := archive.Archive(buf, msg, archive.WithCompression(archive.CompressionLZO))
//
//	// Best zlib compression plus an integrity checksum
//	err := archive.Archive(buf, msg, archive.WithZlibLevel(9), archive.WithChecksum(true))
type Option func(*options)

type options struct {
	compression Compression
	codec       Codec
	checksum    bool
	zlibLevel   int
	workers     int
}

func defaultOptions() options {
	return options{
		compression: CompressionZlib,
		zlibLevel:   DefaultZlibLevel,
		workers:     1,
	}
}

// WithCompression selects the registered codec for tag.
func WithCompression(tag Compression) Option {
	return func(o *options) {
		o.compression = tag
		o.codec = nil
	}
}

// WithCodec uses c directly instead of a registered codec. The archive is
// tagged with c.Compression().
func WithCodec(c Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithChecksum enables the "checksum" field.
func WithChecksum(enabled bool) Option {
	return func(o *options) {
		o.checksum = enabled
	}
}

// WithZlibLevel sets the zlib compression level. It applies only when the
// zlib backend is selected and no codec was given with WithCodec.
func WithZlibLevel(level int) Option {
	return func(o *options) {
		o.zlibLevel = level
	}
}

// WithWorkers sets how many layers ArchiveLayers compresses at once.
// Zero or negative means GOMAXPROCS. Archive ignores it.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// resolveCodec picks the codec described by o.
func (o *options) resolveCodec() (Codec, error) {
	if o.codec != nil {
		return o.codec, nil
	}
	if o.compression == CompressionZlib && o.zlibLevel != DefaultZlibLevel {
		return zlibCodecFor(o.zlibLevel), nil
	}
	return Lookup(o.compression)
}
