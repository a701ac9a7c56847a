// Package archive stores bitmaps as compressed fields of a message.
//
// An archived bitmap occupies these fields of a [message.Message]:
//
//	"bitmap data"          data   compressed pixel rows
//	"compression"          int32  backend tag, see [Compression]
//	"construction bounds"  rect   bounds of the archived bitmap
//	"checksum"             data   optional BLAKE3-256 of the pixel rows
//
// Pixel rows are packed tightly (width*4 bytes per row, R, G, B, A) before
// compression, so the decompressed payload is exactly the byte size of the
// extracted buffer.
//
// Archives written by older versions may lack the "compression" field, in
// which case LZO is assumed, and may store the payload under
// "current compressed data". [Extract] reads both forms.
//
// Backends are pluggable through the [Codec] interface and selected per
// call with [WithCompression] or [WithCodec]. New archives use zlib at
// level 3 unless told otherwise.
//
// Basic usage:
//
//	msg := message.New(0)
//	if err := archive.Archive(buf, msg); err != nil {
//	    return err
//	}
//	restored, err := archive.Extract(msg)
package archive
