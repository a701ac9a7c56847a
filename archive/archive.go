package archive

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/zeebo/blake3"

	"github.com/gogpu/bitmap"
	"github.com/gogpu/bitmap/message"
)

// Field names of an archived bitmap.
const (
	FieldData        = "bitmap data"
	FieldLegacyData  = "current compressed data"
	FieldCompression = "compression"
	FieldBounds      = "construction bounds"
	FieldChecksum    = "checksum"
)

// MaxPixels bounds the buffer Extract is willing to allocate.
const MaxPixels = 1 << 28

// Archive compresses the pixels of p and stores them in msg.
//
// Any archive fields already present in msg are replaced. If compression
// fails msg is not modified.
func Archive(p bitmap.Pixels, msg *message.Message, opts ...Option) error {
	if p == nil || msg == nil {
		return fmt.Errorf("%w: nil bitmap or message", ErrBadArgument)
	}
	if p.Width() <= 0 || p.Height() <= 0 {
		return fmt.Errorf("%w: empty bitmap", ErrBadArgument)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	codec, err := o.resolveCodec()
	if err != nil {
		return err
	}

	raw := packRows(p)
	payload, err := codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCompression, err)
	}

	var sum []byte
	if o.checksum {
		s := blake3.Sum256(raw)
		sum = s[:]
	}

	bitmap.Logger().Debug("archive: compressed bitmap",
		"compression", codec.Compression(),
		"bounds", p.Bounds(),
		"raw", len(raw),
		"compressed", len(payload))

	for _, name := range []string{FieldData, FieldLegacyData, FieldCompression, FieldBounds, FieldChecksum} {
		msg.Remove(name)
	}
	return writeFields(msg, payload, codec.Compression(), p.Bounds(), sum)
}

// writeFields adds the archive fields to m. The names were removed
// beforehand, so adding cannot meet a type conflict.
func writeFields(m *message.Message, payload []byte, tag Compression, bounds image.Rectangle, sum []byte) error {
	if err := m.AddData(FieldData, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadArgument, err)
	}
	if err := m.AddInt32(FieldCompression, int32(tag)); err != nil {
		return fmt.Errorf("%w: %w", ErrBadArgument, err)
	}
	if err := m.AddRect(FieldBounds, bounds); err != nil {
		return fmt.Errorf("%w: %w", ErrBadArgument, err)
	}
	if sum != nil {
		if err := m.AddData(FieldChecksum, sum); err != nil {
			return fmt.Errorf("%w: %w", ErrBadArgument, err)
		}
	}
	return nil
}

// packRows returns the pixel rows of p without row padding.
func packRows(p bitmap.Pixels) []byte {
	w, h, stride := p.Width()*bitmap.BytesPerPixel, p.Height(), p.Stride()
	pix := p.Pix()
	if stride == w {
		return pix[:w*h]
	}
	raw := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(raw[y*w:(y+1)*w], pix[y*stride:])
	}
	return raw
}

// Extract rebuilds the bitmap stored in msg. The returned buffer has a
// tight stride and covers the archived bounds.
//
// A missing compression field means LZO, and the payload is read from the
// legacy field name when the current one is absent. If anything fails no
// buffer is returned.
func Extract(msg *message.Message) (*bitmap.Buffer, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrBadArgument)
	}
	log := bitmap.Logger()

	tag := CompressionLZO
	if msg.Has(FieldCompression) {
		v, err := msg.FindInt32(FieldCompression, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingField, err)
		}
		tag = Compression(v)
	} else {
		log.Warn("archive: no compression field, assuming lzo")
	}
	codec, err := Lookup(tag)
	if err != nil {
		return nil, err
	}

	payload, err := findPayload(msg)
	if err != nil {
		return nil, err
	}

	bounds, err := msg.FindRect(FieldBounds, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingField, err)
	}
	w, h := bounds.Dx(), bounds.Dy()
	if bounds.Empty() || w > MaxPixels/h {
		return nil, fmt.Errorf("%w: construction bounds %v", ErrBadArgument, bounds)
	}

	buf, err := bitmap.NewBuffer(w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArgument, err)
	}
	n, err := codec.Decompress(payload, buf.Pix())
	if err != nil {
		if errors.Is(err, ErrSizeMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	if n != buf.BitsLength() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, n, buf.BitsLength())
	}

	if msg.Has(FieldChecksum) {
		want, err := msg.FindData(FieldChecksum, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingField, err)
		}
		got := blake3.Sum256(buf.Pix())
		if !bytes.Equal(got[:], want) {
			return nil, ErrChecksumMismatch
		}
	}

	log.Debug("archive: extracted bitmap",
		"compression", tag,
		"bounds", bounds,
		"compressed", len(payload))

	buf.SetOrigin(bounds.Min)
	return buf, nil
}

func findPayload(msg *message.Message) ([]byte, error) {
	payload, err := msg.FindData(FieldData, 0)
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, message.ErrNameNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrMissingField, err)
	}

	payload, err = msg.FindData(FieldLegacyData, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingField, err)
	}
	bitmap.Logger().Warn("archive: payload read from legacy field", "field", FieldLegacyData)
	return payload, nil
}
