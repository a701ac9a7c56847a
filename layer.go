package bitmap

import (
	"image"
)

// Layer is one level of a layered image: premultiplied pixels plus the
// attributes that control how they are composited.
type Layer struct {
	Name    string
	Pixels  Pixels
	Visible bool
	// Opacity scales the whole layer: 0 is invisible, 255 unchanged.
	Opacity uint8
}

// NewLayer allocates a visible, fully opaque, transparent layer of the
// given size.
func NewLayer(name string, width, height int) (*Layer, error) {
	buf, err := NewBuffer(width, height)
	if err != nil {
		return nil, err
	}
	return &Layer{Name: name, Pixels: buf, Visible: true, Opacity: 255}, nil
}

// Composite flattens layers into dst over r. The covered part of dst is
// first cleared to transparent black, then every visible layer is blended
// on top, bottom-most first (layers[0] is the bottom).
//
// Each layer is clipped to its own bounds; layers that do not overlap r are
// skipped.
func Composite(dst Pixels, layers []*Layer, r image.Rectangle) {
	r = clip(r, dst)
	if r.Empty() {
		return
	}

	ClearArea(dst, Transparent, r)
	for _, l := range layers {
		if l == nil || !l.Visible || l.Opacity == 0 || l.Pixels == nil {
			continue
		}
		BlendAreaOpacity(l.Pixels, dst, r, l.Opacity)
	}
}
