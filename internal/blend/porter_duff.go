package blend

// SourceOver composites one premultiplied source pixel over a destination
// pixel.
//
// Color: D' = D*(255-Sa)/255 + S, clamped to 255 so that a source whose
// channels exceed its alpha cannot wrap around.
// Alpha: Da' = 255 - (255-Sa)*(255-Da)/255.
func SourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	invSa := inv255(sa)
	r = addClamp(mulDiv255(dr, invSa), sr)
	g = addClamp(mulDiv255(dg, invSa), sg)
	b = addClamp(mulDiv255(db, invSa), sb)
	a = 255 - mulDiv255(invSa, inv255(da))
	return r, g, b, a
}

// Demultiply converts one premultiplied pixel back to straight alpha.
// Pixels with zero alpha are returned unchanged.
//
// Each channel becomes round(c*255/a), clamped to 255.
func Demultiply(r, g, b, a byte) (byte, byte, byte, byte) {
	if a == 0 || a == 255 {
		return r, g, b, a
	}
	return demul(r, a), demul(g, a), demul(b, a), a
}

func demul(c, a byte) byte {
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		return 255
	}
	return byte(v)
}

// Premultiply scales the color channels of a straight-alpha pixel by its
// alpha, rounding to nearest.
func Premultiply(r, g, b, a byte) (byte, byte, byte, byte) {
	if a == 255 {
		return r, g, b, a
	}
	return premul(r, a), premul(g, a), premul(b, a), a
}

func premul(c, a byte) byte {
	return byte(div255(uint32(c)*uint32(a) + 127))
}
