// Package blend provides the per-pixel arithmetic behind the area operations.
//
// Every function works on packed 8-bit RGBA pixels (byte order R, G, B, A)
// with premultiplied color channels. Division by 255 is exact: the results
// are identical to integer division, so callers can reason about them with
// plain arithmetic.
//
// References:
//   - Alvy Ray Smith's technical memos: http://alvyray.com/Memos/
//   - Porter-Duff: "Compositing Digital Images" (1984)
package blend

// div255 divides x by 255 exactly without using division.
//
// Formula: ((x + 1) + ((x + 1) >> 8)) >> 8
//
// This is Alvy Ray Smith's formula. It matches x/255 for every input in
// [0, 255*255], the full range produced by multiplying two bytes.
func div255(x uint32) uint32 {
	t := x + 1
	return (t + (t >> 8)) >> 8
}

// mulDiv255 multiplies two bytes and divides by 255, truncating.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint32(a) * uint32(b)))
}

// inv255 computes 255 - x (inverse alpha).
func inv255(x byte) byte {
	return 255 - x
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// MulDiv255 returns a*b/255 truncated. Exported for callers that scale
// premultiplied pixels by an opacity.
func MulDiv255(a, b byte) byte {
	return mulDiv255(a, b)
}
