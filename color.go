package bitmap

import (
	"image/color"

	"github.com/gogpu/bitmap/internal/blend"
	icolor "github.com/gogpu/bitmap/internal/color"
)

// Color is an 8-bit-per-channel RGBA value. Whether the channels are
// premultiplied depends on where the color is used; ClearArea stores it
// verbatim.
type Color struct {
	R, G, B, A uint8
}

// RGBA implements the color.Color interface, treating c as premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Premultiply returns c with its color channels scaled by alpha.
func (c Color) Premultiply() Color {
	r, g, b, a := blend.Premultiply(c.R, c.G, c.B, c.A)
	return Color{R: r, G: g, B: b, A: a}
}

// Demultiply returns c with its color channels divided by alpha.
// A fully transparent color is returned unchanged.
func (c Color) Demultiply() Color {
	r, g, b, a := blend.Demultiply(c.R, c.G, c.B, c.A)
	return Color{R: r, G: g, B: b, A: a}
}

// HSL returns the hue, saturation and lightness of c's color channels.
// Alpha is ignored.
func (c Color) HSL() HSL {
	return RGBToHSL(icolor.FromU8(c.R), icolor.FromU8(c.G), icolor.FromU8(c.B))
}

// ColorFromHSL builds a color from h with the given alpha.
func ColorFromHSL(h HSL, alpha uint8) Color {
	r, g, b := HSLToRGB(h)
	return Color{R: r, G: g, B: b, A: alpha}
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
	Red         = Color{R: 255, A: 255}
	Green       = Color{G: 255, A: 255}
	Blue        = Color{B: 255, A: 255}
)
