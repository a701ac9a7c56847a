package bitmap

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FromImage copies img into a new buffer. The buffer's origin is
// img.Bounds().Min, so it covers the same rectangle as the image.
//
// *image.RGBA sources are copied row by row (same byte layout); any other
// image is converted to premultiplied RGBA through x/image/draw.
// An empty image yields an empty buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	if bounds.Empty() {
		return &Buffer{}
	}

	if rgba, ok := img.(*image.RGBA); ok {
		src, err := NewView(rgba.Pix, bounds.Dx(), bounds.Dy(), rgba.Stride)
		if err == nil {
			src.SetOrigin(bounds.Min)
			return src.Buffer()
		}
	}

	buf, err := NewBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return &Buffer{}
	}
	buf.SetOrigin(bounds.Min)
	xdraw.Draw(buf, bounds, img, bounds.Min, xdraw.Src)
	return buf
}

// ToRGBA copies p into a new image.RGBA covering p.Bounds().
func ToRGBA(p Pixels) *image.RGBA {
	img := image.NewRGBA(p.Bounds())
	if img.Rect.Empty() {
		return img
	}
	dst, err := NewView(img.Pix, img.Rect.Dx(), img.Rect.Dy(), img.Stride)
	if err != nil {
		return img
	}
	dst.SetOrigin(img.Rect.Min)
	CopyArea(p, dst, img.Rect)
	return img
}
