package color

import "math"

// RGBToHSL converts normalized RGB to hue in degrees [0,360) and
// saturation and lightness in [0,1].
//
// Achromatic colors (max == min) have hue 0 and saturation 0.
func RGBToHSL(r, g, b float64) (h, s, l float64) {
	r, g, b = Clamp01(r), Clamp01(g), Clamp01(b)

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC
	l = (maxC + minC) / 2

	if delta == 0 {
		return 0, 0, l
	}

	if l <= 0.5 {
		s = delta / (maxC + minC)
	} else {
		s = delta / (2 - maxC - minC)
	}

	switch maxC {
	case r:
		h = (g - b) / delta
	case g:
		h = 2 + (b-r)/delta
	default:
		h = 4 + (r-g)/delta
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}
	return h, s, l
}

// HSLToRGB converts hue in degrees and saturation/lightness in [0,1] back to
// normalized RGB. The hue wraps; saturation and lightness are clamped.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	s, l = Clamp01(s), Clamp01(l)
	if s == 0 {
		return l, l, l
	}

	h = WrapHue(h) / 360

	var q float64
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToRGB(p, q, h+1.0/3)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3)
	return r, g, b
}

// WrapHue maps any finite angle into [0,360). Non-finite input maps to 0.
func WrapHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
