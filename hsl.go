package bitmap

import icolor "github.com/gogpu/bitmap/internal/color"

// HSL is a color in the hue/saturation/lightness model.
// H is in degrees [0, 360); S and L are in [0, 1].
type HSL struct {
	H, S, L float64
}

// RGBToHSL converts normalized RGB components in [0, 1] to HSL.
// Inputs outside [0, 1] are clamped. Achromatic colors report H=0, S=0.
func RGBToHSL(r, g, b float64) HSL {
	h, s, l := icolor.RGBToHSL(r, g, b)
	return HSL{H: h, S: s, L: l}
}

// HSLToRGB converts c to 8-bit RGB. The hue wraps around 360 degrees;
// saturation and lightness are clamped to [0, 1]. With zero saturation all
// channels equal round(L*255).
func HSLToRGB(c HSL) (r, g, b uint8) {
	rf, gf, bf := icolor.HSLToRGB(c.H, c.S, c.L)
	return icolor.ToU8(rf), icolor.ToU8(gf), icolor.ToU8(bf)
}
