package bitmap

import (
	"errors"
	"image"
	"image/color"
	"math"
)

// BytesPerPixel is the fixed pixel size: one byte each for R, G, B and A.
const BytesPerPixel = 4

// Common errors for buffer construction.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive,
	// or when the pixel memory they describe does not fit in an int.
	ErrInvalidDimensions = errors.New("bitmap: invalid dimensions")

	// ErrInvalidStride is returned when stride is less than width*4.
	ErrInvalidStride = errors.New("bitmap: stride too small for width")

	// ErrDataTooSmall is returned when provided data cannot hold the
	// described rows.
	ErrDataTooSmall = errors.New("bitmap: data buffer too small")
)

// Pixels is a rectangular region of 32-bit RGBA pixel memory.
//
// Pix()[0] is the first byte of the pixel at Bounds().Min. Row y starts at
// (y-Bounds().Min.Y)*Stride(). Implementations must keep
// len(Pix()) >= (Height()-1)*Stride() + Width()*4 for non-empty regions.
type Pixels interface {
	Pix() []byte
	Width() int
	Height() int
	Stride() int
	Bounds() image.Rectangle
}

// region holds the geometry shared by Buffer and View.
type region struct {
	pix    []byte
	width  int
	height int
	stride int
	origin image.Point
}

// Pix returns the raw pixel memory, starting at the top-left pixel.
// Writes through the slice modify the buffer.
func (g *region) Pix() []byte { return g.pix }

// Width returns the width in pixels.
func (g *region) Width() int { return g.width }

// Height returns the height in pixels.
func (g *region) Height() int { return g.height }

// Stride returns the number of bytes between the starts of two rows.
func (g *region) Stride() int { return g.stride }

// Origin returns the top-left corner in the parent coordinate space.
func (g *region) Origin() image.Point { return g.origin }

// SetOrigin moves the region within the parent coordinate space without
// touching pixel memory.
func (g *region) SetOrigin(p image.Point) { g.origin = p }

// Bounds returns the covered rectangle in the parent coordinate space:
// (0,0)-(width,height) offset by the origin.
func (g *region) Bounds() image.Rectangle {
	return image.Rectangle{
		Min: g.origin,
		Max: g.origin.Add(image.Pt(g.width, g.height)),
	}
}

// BitsLength returns Height()*Stride(), the byte size of the pixel rows
// including row padding.
func (g *region) BitsLength() int {
	return g.height * g.stride
}

// IsEmpty reports whether the region has no pixels.
func (g *region) IsEmpty() bool {
	return g.width == 0 || g.height == 0
}

// ColorModel implements the image.Image interface.
func (g *region) ColorModel() color.Model {
	return color.RGBAModel
}

// At implements the image.Image interface. The returned color is
// premultiplied, as stored. Points outside Bounds return transparent black.
func (g *region) At(x, y int) color.Color {
	if !image.Pt(x, y).In(g.Bounds()) {
		return color.RGBA{}
	}
	i := g.offset(x, y)
	return color.RGBA{R: g.pix[i], G: g.pix[i+1], B: g.pix[i+2], A: g.pix[i+3]}
}

// Set implements the draw.Image interface. Points outside Bounds are
// ignored.
func (g *region) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(g.Bounds()) {
		return
	}
	i := g.offset(x, y)
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	g.pix[i], g.pix[i+1], g.pix[i+2], g.pix[i+3] = rgba.R, rgba.G, rgba.B, rgba.A
}

// CopyTo copies the pixels of r from this region into dst. The rectangle is
// clipped against both bounds; source and destination rows are addressed
// with their own origins and strides, so a region cut out of a canvas lands
// back at the place it came from.
func (g *region) CopyTo(dst Pixels, r image.Rectangle) {
	CopyArea(g, dst, r)
}

// offset returns the byte offset of the pixel at (x, y) in parent
// coordinates. The caller guarantees the point is inside Bounds.
func (g *region) offset(x, y int) int {
	return (y-g.origin.Y)*g.stride + (x-g.origin.X)*BytesPerPixel
}

// Buffer is a pixel region that owns its memory.
//
// Buffer is not safe for concurrent mutation; callers serialize writers.
type Buffer struct {
	region
}

// View is a pixel region that borrows memory owned elsewhere.
//
// The owner must keep the memory alive, and must not reallocate or resize
// it, for as long as the view is used. Writes through a view are visible to
// the owner and vice versa.
type View struct {
	region
}

// NewBuffer allocates a zeroed (transparent black) buffer with a tight
// stride of width*4.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt/BytesPerPixel/height {
		return nil, ErrInvalidDimensions
	}
	stride := width * BytesPerPixel
	return &Buffer{region{
		pix:    make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}}, nil
}

// CopyRaw creates a buffer that owns a copy of the given pixel memory.
// The source rows are read with the given stride; the copy uses a tight
// stride of width*4.
func CopyRaw(pix []byte, width, height, stride int) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Attach(pix, width, height, stride); err != nil {
		return nil, err
	}
	return b, nil
}

// NewView wraps caller memory without copying. Stride must be at least
// width*4 and pix must hold (height-1)*stride + width*4 bytes.
func NewView(pix []byte, width, height, stride int) (*View, error) {
	v := &View{}
	if err := v.Attach(pix, width, height, stride); err != nil {
		return nil, err
	}
	return v, nil
}

// NewBufferFromRect copies the part of src covered by r into a new buffer.
//
// r is given in src's coordinate space and is intersected with
// src.Bounds(). The returned buffer's origin is the top-left corner of the
// intersection, so its Bounds() names the same rectangle in the same
// space. An empty intersection yields an empty buffer.
func NewBufferFromRect(src Pixels, r image.Rectangle) *Buffer {
	r = r.Intersect(src.Bounds())
	if r.Empty() {
		return &Buffer{}
	}
	w, h := r.Dx(), r.Dy()
	b := &Buffer{region{
		pix:    make([]byte, w*BytesPerPixel*h),
		width:  w,
		height: h,
		stride: w * BytesPerPixel,
		origin: r.Min,
	}}
	CopyArea(src, b, r)
	return b
}

// NewViewFromRect returns a view of the part of src covered by r without
// copying. The view keeps src's stride and records the intersection's
// top-left corner as its origin. An empty intersection yields an empty
// view.
func NewViewFromRect(src Pixels, r image.Rectangle) *View {
	sb := src.Bounds()
	r = r.Intersect(sb)
	if r.Empty() {
		return &View{}
	}
	w, h := r.Dx(), r.Dy()
	stride := src.Stride()
	start := (r.Min.Y-sb.Min.Y)*stride + (r.Min.X-sb.Min.X)*BytesPerPixel
	end := start + spanLen(w, h, stride)
	return &View{region{
		pix:    src.Pix()[start:end:end],
		width:  w,
		height: h,
		stride: stride,
		origin: r.Min,
	}}
}

// Attach re-initializes the buffer with a copy of the given pixel memory.
// The previously owned storage is released first. The origin is reset to
// (0,0). On error the buffer is left empty.
func (b *Buffer) Attach(pix []byte, width, height, stride int) error {
	b.region = region{}
	if err := checkGeometry(len(pix), width, height, stride); err != nil {
		return err
	}
	tight := width * BytesPerPixel
	out := make([]byte, tight*height)
	for y := 0; y < height; y++ {
		copy(out[y*tight:(y+1)*tight], pix[y*stride:y*stride+tight])
	}
	b.region = region{pix: out, width: width, height: height, stride: tight}
	return nil
}

// Clone returns a deep copy of the buffer, origin included.
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.pix))
	copy(pix, b.pix)
	c := &Buffer{b.region}
	c.pix = pix
	return c
}

// ToImage copies the buffer into a new image.RGBA with the same bounds.
func (b *Buffer) ToImage() *image.RGBA {
	return ToRGBA(b)
}

// Attach re-points the view at new caller memory. The origin is reset to
// (0,0). On error the view is left empty.
func (v *View) Attach(pix []byte, width, height, stride int) error {
	v.region = region{}
	if err := checkGeometry(len(pix), width, height, stride); err != nil {
		return err
	}
	n := spanLen(width, height, stride)
	v.region = region{pix: pix[:n:n], width: width, height: height, stride: stride}
	return nil
}

// Buffer returns an owning copy of the viewed pixels, keeping the view's
// origin.
func (v *View) Buffer() *Buffer {
	return NewBufferFromRect(v, v.Bounds())
}

// checkGeometry validates a width/height/stride triple against a data
// length.
func checkGeometry(n, width, height, stride int) error {
	if width <= 0 || height <= 0 || width > math.MaxInt/BytesPerPixel {
		return ErrInvalidDimensions
	}
	if stride < width*BytesPerPixel {
		return ErrInvalidStride
	}
	if height > 1 && stride > (math.MaxInt-width*BytesPerPixel)/(height-1) {
		return ErrDataTooSmall
	}
	if n < spanLen(width, height, stride) {
		return ErrDataTooSmall
	}
	return nil
}

// spanLen is the number of bytes a region touches: every row but the last
// is a full stride, the last only needs its pixels.
func spanLen(width, height, stride int) int {
	return (height-1)*stride + width*BytesPerPixel
}

// row returns the n pixels of p starting at (x, y) in parent coordinates.
func row(p Pixels, x, y, n int) []byte {
	b := p.Bounds()
	off := (y-b.Min.Y)*p.Stride() + (x-b.Min.X)*BytesPerPixel
	return p.Pix()[off : off+n*BytesPerPixel]
}
