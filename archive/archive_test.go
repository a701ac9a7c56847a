package archive

import (
	"bytes"
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/gogpu/bitmap"
	"github.com/gogpu/bitmap/message"
)

var allCompressions = []Compression{CompressionLZO, CompressionZlib, CompressionZstd, CompressionLZ4}

// noisy returns a width x height buffer of smooth gradients with random
// noise in the low bits, compressible but not trivially so.
func noisy(t testing.TB, width, height int, seed int64) *bitmap.Buffer {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	b, err := bitmap.NewBuffer(width, height)
	if err != nil {
		t.Fatalf("NewBuffer(%d, %d) = %v", width, height, err)
	}
	pix := b.Pix()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*b.Stride() + x*4
			pix[i] = byte(x) ^ byte(rng.Intn(4))
			pix[i+1] = byte(y)
			pix[i+2] = byte(x + y)
			pix[i+3] = 255
		}
	}
	return b
}

func samePixels(t *testing.T, got, want bitmap.Pixels) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("Bounds() = %v, want %v", got.Bounds(), want.Bounds())
	}
	w := want.Width() * 4
	for y := 0; y < want.Height(); y++ {
		g := got.Pix()[y*got.Stride():][:w]
		e := want.Pix()[y*want.Stride():][:w]
		if !bytes.Equal(g, e) {
			t.Fatalf("row %d differs", y)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	sizes := []image.Point{{1, 1}, {3, 5}, {64, 48}, {257, 3}}

	for _, tag := range allCompressions {
		for _, size := range sizes {
			t.Run(tag.String()+"/"+size.String(), func(t *testing.T) {
				src := noisy(t, size.X, size.Y, int64(size.X*size.Y))
				msg := message.New(0)

				if err := Archive(src, msg, WithCompression(tag)); err != nil {
					t.Fatalf("Archive() = %v", err)
				}
				if got, _ := msg.FindInt32(FieldCompression, 0); Compression(got) != tag {
					t.Errorf("compression field = %d, want %d", got, tag)
				}

				got, err := Extract(msg)
				if err != nil {
					t.Fatalf("Extract() = %v", err)
				}
				samePixels(t, got, src)
			})
		}
	}
}

func TestRoundTripPaddedView(t *testing.T) {
	const w, h, stride = 5, 4, 5*4 + 12
	backing := make([]byte, stride*h)
	for i := range backing {
		backing[i] = byte(i * 7)
	}
	v, err := bitmap.NewView(backing, w, h, stride)
	if err != nil {
		t.Fatalf("NewView() = %v", err)
	}
	v.SetOrigin(image.Pt(10, 20))

	msg := message.New(0)
	if err := Archive(v, msg); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if got.Stride() != w*4 {
		t.Errorf("Stride() = %d, want %d", got.Stride(), w*4)
	}
	samePixels(t, got, v)
}

func TestOpaqueRedDefaultZlib(t *testing.T) {
	src, _ := bitmap.NewBuffer(4, 4)
	bitmap.ClearArea(src, bitmap.Red, src.Bounds())

	msg := message.New(0)
	if err := Archive(src, msg); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	if tag, _ := msg.FindInt32(FieldCompression, 0); tag != 2 {
		t.Errorf("compression = %d, want 2 (zlib)", tag)
	}
	if r, _ := msg.FindRect(FieldBounds, 0); r != image.Rect(0, 0, 4, 4) {
		t.Errorf("construction bounds = %v", r)
	}
	if msg.Has(FieldChecksum) {
		t.Error("checksum written without WithChecksum")
	}

	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if got.BitsLength() != 64 {
		t.Errorf("BitsLength() = %d, want 64", got.BitsLength())
	}
	for i := 0; i < 64; i += 4 {
		if px := got.Pix()[i : i+4]; !bytes.Equal(px, []byte{255, 0, 0, 255}) {
			t.Fatalf("pixel %d = %v, want opaque red", i/4, px)
		}
	}
}

func TestLegacyDefaultIsLZO(t *testing.T) {
	src := noisy(t, 16, 16, 1)
	explicit := message.New(0)
	if err := Archive(src, explicit, WithCompression(CompressionLZO)); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	legacy := explicit.Clone()
	legacy.Remove(FieldCompression)

	a, err := Extract(explicit)
	if err != nil {
		t.Fatalf("Extract(explicit) = %v", err)
	}
	b, err := Extract(legacy)
	if err != nil {
		t.Fatalf("Extract(legacy) = %v", err)
	}
	samePixels(t, b, a)
}

func TestLegacyFieldName(t *testing.T) {
	src := noisy(t, 9, 7, 2)
	msg := message.New(0)
	if err := Archive(src, msg, WithCompression(CompressionLZO)); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	payload, _ := msg.FindData(FieldData, 0)
	msg.Remove(FieldData)
	msg.Remove(FieldCompression)
	_ = msg.AddData(FieldLegacyData, payload)

	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	samePixels(t, got, src)
}

func TestCorruptionDetected(t *testing.T) {
	tests := []struct {
		tag  Compression
		opts []Option
	}{
		{CompressionZlib, nil},
		{CompressionZstd, nil},
		// LZO and LZ4 blocks carry no checksum of their own.
		{CompressionLZO, []Option{WithChecksum(true)}},
		{CompressionLZ4, []Option{WithChecksum(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			src := noisy(t, 32, 32, 3)
			msg := message.New(0)
			opts := append([]Option{WithCompression(tt.tag)}, tt.opts...)
			if err := Archive(src, msg, opts...); err != nil {
				t.Fatalf("Archive() = %v", err)
			}

			payload, _ := msg.FindData(FieldData, 0)
			corrupt := bytes.Clone(payload)
			corrupt[len(corrupt)/2] ^= 0x5a
			_ = msg.ReplaceData(FieldData, 0, corrupt)

			buf, err := Extract(msg)
			if buf != nil {
				t.Error("Extract returned a buffer for corrupt input")
			}
			if !errors.Is(err, ErrDecompression) && !errors.Is(err, ErrSizeMismatch) && !errors.Is(err, ErrChecksumMismatch) {
				t.Errorf("Extract() error = %v, want a corruption error", err)
			}
		})
	}
}

func TestSizeMismatch(t *testing.T) {
	for _, tag := range []Compression{CompressionLZO, CompressionZlib} {
		for _, bounds := range []image.Rectangle{image.Rect(0, 0, 4, 5), image.Rect(0, 0, 4, 3)} {
			t.Run(tag.String()+"/"+bounds.String(), func(t *testing.T) {
				msg := message.New(0)
				if err := Archive(noisy(t, 4, 4, 4), msg, WithCompression(tag)); err != nil {
					t.Fatalf("Archive() = %v", err)
				}
				_ = msg.ReplaceRect(FieldBounds, 0, bounds)

				buf, err := Extract(msg)
				if buf != nil || !errors.Is(err, ErrSizeMismatch) {
					t.Errorf("Extract() = %v, %v; want ErrSizeMismatch", buf, err)
				}
			})
		}
	}
}

func TestExtractErrors(t *testing.T) {
	valid := func() *message.Message {
		m := message.New(0)
		if err := Archive(noisy(t, 4, 4, 5), m); err != nil {
			t.Fatalf("Archive() = %v", err)
		}
		return m
	}

	tests := []struct {
		name    string
		msg     func() *message.Message
		wantErr error
	}{
		{"nil message", func() *message.Message { return nil }, ErrBadArgument},
		{"unknown tag", func() *message.Message {
			m := valid()
			_ = m.ReplaceInt32(FieldCompression, 0, 99)
			return m
		}, ErrUnsupportedCompression},
		{"compression of wrong type", func() *message.Message {
			m := valid()
			m.Remove(FieldCompression)
			_ = m.AddString(FieldCompression, "zlib")
			return m
		}, ErrMissingField},
		{"no payload", func() *message.Message {
			m := valid()
			m.Remove(FieldData)
			return m
		}, ErrMissingField},
		{"no bounds", func() *message.Message {
			m := valid()
			m.Remove(FieldBounds)
			return m
		}, ErrMissingField},
		{"empty bounds", func() *message.Message {
			m := valid()
			_ = m.ReplaceRect(FieldBounds, 0, image.Rect(3, 3, 3, 9))
			return m
		}, ErrBadArgument},
		{"huge bounds", func() *message.Message {
			m := valid()
			_ = m.ReplaceRect(FieldBounds, 0, image.Rect(0, 0, 1<<20, 1<<20))
			return m
		}, ErrBadArgument},
		{"bounds whose area wraps", func() *message.Message {
			m := valid()
			_ = m.ReplaceRect(FieldBounds, 0, image.Rect(0, 0, 1<<32, 1<<32))
			_ = m.ReplaceData(FieldData, 0, emptyZlib(t))
			return m
		}, ErrBadArgument},
		{"bounds wider than a row can hold", func() *message.Message {
			m := valid()
			_ = m.ReplaceRect(FieldBounds, 0, image.Rect(-1<<62, 0, 1<<62, 1))
			return m
		}, ErrBadArgument},
		{"truncated lzo", func() *message.Message {
			m := valid()
			_ = m.ReplaceInt32(FieldCompression, 0, int32(CompressionLZO))
			_ = m.ReplaceData(FieldData, 0, []byte{0x11})
			return m
		}, ErrDecompression},
		{"bad checksum", func() *message.Message {
			m := valid()
			_ = m.AddData(FieldChecksum, make([]byte, 32))
			return m
		}, ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Extract(tt.msg())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Extract() error = %v, want %v", err, tt.wantErr)
			}
			if buf != nil {
				t.Error("Extract() returned a buffer with an error")
			}
		})
	}
}

// emptyZlib is a valid zlib stream with no content.
func emptyZlib(t *testing.T) []byte {
	t.Helper()
	out, err := NewZlibCodec(DefaultZlibLevel).Compress(nil)
	if err != nil {
		t.Fatalf("Compress(nil) = %v", err)
	}
	return out
}

func TestUnknownTagIsNotCorruption(t *testing.T) {
	m := message.New(0)
	_ = Archive(noisy(t, 2, 2, 6), m)
	_ = m.ReplaceInt32(FieldCompression, 0, 7)

	_, err := Extract(m)
	if errors.Is(err, ErrDecompression) || errors.Is(err, ErrSizeMismatch) {
		t.Errorf("unknown tag reported as corruption: %v", err)
	}
}

type failingCodec struct{}

func (failingCodec) Compression() Compression { return CompressionZlib }
func (failingCodec) Compress([]byte) ([]byte, error) {
	return nil, errors.New("backend exploded")
}
func (failingCodec) Decompress([]byte, []byte) (int, error) { return 0, nil }

func TestArchiveErrorsLeaveMessageUntouched(t *testing.T) {
	src := noisy(t, 4, 4, 7)
	empty := &bitmap.Buffer{}

	tests := []struct {
		name    string
		pixels  bitmap.Pixels
		opts    []Option
		wantErr error
	}{
		{"nil pixels", nil, nil, ErrBadArgument},
		{"empty pixels", empty, nil, ErrBadArgument},
		{"unsupported tag", src, []Option{WithCompression(42)}, ErrUnsupportedCompression},
		{"backend failure", src, []Option{WithCodec(failingCodec{})}, ErrCompression},
		{"invalid zlib level", src, []Option{WithZlibLevel(42)}, ErrCompression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.New(3)
			_ = msg.AddString("title", "keep me")
			before, _ := msg.Flatten()

			err := Archive(tt.pixels, msg, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Archive() error = %v, want %v", err, tt.wantErr)
			}
			after, _ := msg.Flatten()
			if !bytes.Equal(before, after) {
				t.Errorf("message changed: names now %v", msg.Names())
			}
		})
	}

	if err := Archive(src, nil); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Archive(nil message) = %v, want ErrBadArgument", err)
	}
}

func TestArchiveReplacesStaleFields(t *testing.T) {
	msg := message.New(0)
	_ = msg.AddData(FieldLegacyData, []byte{1, 2, 3})
	_ = msg.AddData(FieldChecksum, make([]byte, 32))
	_ = msg.AddString(FieldBounds, "wrong type")

	src := noisy(t, 6, 6, 8)
	if err := Archive(src, msg); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	if msg.Has(FieldLegacyData) || msg.Has(FieldChecksum) {
		t.Errorf("stale fields kept: %v", msg.Names())
	}
	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	samePixels(t, got, src)
}

func TestChecksumRoundTrip(t *testing.T) {
	src := noisy(t, 10, 10, 9)
	msg := message.New(0)
	if err := Archive(src, msg, WithChecksum(true), WithZlibLevel(9)); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	if sum, _ := msg.FindData(FieldChecksum, 0); len(sum) != 32 {
		t.Errorf("checksum length = %d, want 32", len(sum))
	}
	got, err := Extract(msg)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	samePixels(t, got, src)
}

func TestFlattenedArchive(t *testing.T) {
	src := noisy(t, 20, 11, 10)
	src.SetOrigin(image.Pt(-4, 7))

	msg := message.New(0x42495453)
	if err := Archive(src, msg, WithCompression(CompressionZstd), WithChecksum(true)); err != nil {
		t.Fatalf("Archive() = %v", err)
	}
	data, err := msg.Flatten()
	if err != nil {
		t.Fatalf("Flatten() = %v", err)
	}
	restored, err := message.Unflatten(data)
	if err != nil {
		t.Fatalf("Unflatten() = %v", err)
	}
	got, err := Extract(restored)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	samePixels(t, got, src)
}

func BenchmarkArchive(b *testing.B) {
	src := noisy(b, 256, 256, 11)
	for _, tag := range allCompressions {
		b.Run(tag.String(), func(b *testing.B) {
			b.SetBytes(int64(src.BitsLength()))
			for i := 0; i < b.N; i++ {
				if err := Archive(src, message.New(0), WithCompression(tag)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkExtract(b *testing.B) {
	src := noisy(b, 256, 256, 12)
	for _, tag := range allCompressions {
		b.Run(tag.String(), func(b *testing.B) {
			msg := message.New(0)
			if err := Archive(src, msg, WithCompression(tag)); err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(src.BitsLength()))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Extract(msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
