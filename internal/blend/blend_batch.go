package blend

// Row helpers process n consecutive pixels. The slices must hold at least
// n*4 bytes; callers clip before calling.

// SourceOverRow blends n premultiplied src pixels over dst in place.
func SourceOverRow(dst, src []byte, n int) {
	if n <= 0 {
		return
	}
	dst = dst[:n*4]
	src = src[:n*4]
	for i := 0; i < len(dst); i += 4 {
		sa := src[i+3]
		switch sa {
		case 0:
			if src[i] == 0 && src[i+1] == 0 && src[i+2] == 0 {
				continue
			}
		case 255:
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = SourceOver(
			src[i], src[i+1], src[i+2], sa,
			dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}

// SourceOverRowOpacity is SourceOverRow with every source pixel first
// scaled by opacity (0-255). All four channels are scaled so the source
// stays a valid premultiplied pixel.
func SourceOverRowOpacity(dst, src []byte, n int, opacity byte) {
	switch opacity {
	case 255:
		SourceOverRow(dst, src, n)
		return
	case 0:
		return
	}
	if n <= 0 {
		return
	}
	dst = dst[:n*4]
	src = src[:n*4]
	for i := 0; i < len(dst); i += 4 {
		sa := mulDiv255(src[i+3], opacity)
		dst[i], dst[i+1], dst[i+2], dst[i+3] = SourceOver(
			mulDiv255(src[i], opacity),
			mulDiv255(src[i+1], opacity),
			mulDiv255(src[i+2], opacity),
			sa,
			dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}

// DemultiplyRow converts n premultiplied pixels to straight alpha in place.
func DemultiplyRow(px []byte, n int) {
	if n <= 0 {
		return
	}
	px = px[:n*4]
	for i := 0; i < len(px); i += 4 {
		px[i], px[i+1], px[i+2], px[i+3] = Demultiply(px[i], px[i+1], px[i+2], px[i+3])
	}
}

// FillRow writes the pixel (r, g, b, a) into n consecutive pixels.
func FillRow(px []byte, n int, r, g, b, a byte) {
	if n <= 0 {
		return
	}
	px = px[:n*4]
	px[0], px[1], px[2], px[3] = r, g, b, a
	// Doubling copy: each pass copies everything written so far.
	for filled := 4; filled < len(px); filled *= 2 {
		copy(px[filled:], px[:filled])
	}
}
