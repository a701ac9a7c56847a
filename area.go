package bitmap

import (
	"image"

	"github.com/gogpu/bitmap/internal/blend"
)

// The area operations below share one contract: r is intersected with the
// bounds of every operand before any pixel is touched, and pixels outside
// that intersection are never read or written. An empty intersection makes
// the call a no-op. None of them return errors.

// clip intersects r with the bounds of each operand.
func clip(r image.Rectangle, ps ...Pixels) image.Rectangle {
	for _, p := range ps {
		r = r.Intersect(p.Bounds())
	}
	return r
}

// ClearArea fills r in dst with c, writing R, G, B and A to bytes 0 to 3 of
// each pixel. The color is stored as given; pass a premultiplied color if
// dst will be blended afterwards.
func ClearArea(dst Pixels, c Color, r image.Rectangle) {
	r = clip(r, dst)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		blend.FillRow(row(dst, r.Min.X, y, w), w, c.R, c.G, c.B, c.A)
	}
}

// CopyArea copies the pixels of r from src to dst. Each row is addressed
// with its own buffer's stride, so source and destination may be padded
// differently.
func CopyArea(src, dst Pixels, r image.Rectangle) {
	r = clip(r, src, dst)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(row(dst, r.Min.X, y, w), row(src, r.Min.X, y, w))
	}
}

// BlendArea composites the pixels of r from src over dst using
// premultiplied source-over:
//
//	color' = color_dst*(255-a_src)/255 + color_src
//	alpha' = 255 - (255-a_src)*(255-a_dst)/255
//
// Divisions by 255 are exact (truncating).
func BlendArea(src, dst Pixels, r image.Rectangle) {
	BlendAreaOpacity(src, dst, r, 255)
}

// BlendAreaOpacity is BlendArea with the source first scaled by opacity
// (0 = invisible, 255 = unchanged).
func BlendAreaOpacity(src, dst Pixels, r image.Rectangle, opacity uint8) {
	r = clip(r, src, dst)
	if r.Empty() || opacity == 0 {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		blend.SourceOverRowOpacity(row(dst, r.Min.X, y, w), row(src, r.Min.X, y, w), w, opacity)
	}
}

// DemultiplyArea converts the premultiplied pixels of r in dst to straight
// alpha: every color channel becomes round(c*255/a), clamped to 255. Pixels
// with zero alpha are left unchanged.
func DemultiplyArea(dst Pixels, r image.Rectangle) {
	r = clip(r, dst)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		blend.DemultiplyRow(row(dst, r.Min.X, y, w), w)
	}
}

// PremultiplyArea converts the straight-alpha pixels of r in dst to
// premultiplied form. It is the inverse of DemultiplyArea up to 8-bit
// rounding.
func PremultiplyArea(dst Pixels, r image.Rectangle) {
	r = clip(r, dst)
	if r.Empty() {
		return
	}
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		px := row(dst, r.Min.X, y, w)
		for i := 0; i < len(px); i += BytesPerPixel {
			px[i], px[i+1], px[i+2], px[i+3] = blend.Premultiply(px[i], px[i+1], px[i+2], px[i+3])
		}
	}
}
