// Package color provides the numeric color-space conversions used by the
// bitmap package. All functions are pure and never panic; out-of-range
// inputs are clamped.
package color

import "math"

// Clamp01 restricts v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ToU8 maps a [0,1] component to [0,255] with rounding.
func ToU8(v float64) uint8 {
	v = Clamp01(v)
	return uint8(math.Floor(v*255 + 0.5))
}

// FromU8 maps a [0,255] component to [0,1].
func FromU8(v uint8) float64 {
	return float64(v) / 255
}
