// Package bitmap provides the raster core of a layered bitmap editor:
// pixel buffers, rectangular area operations, layer compositing and
// RGB/HSL color conversion.
//
// # Pixel Layout
//
// Every buffer holds 32-bit pixels, 4 bytes each, in the byte order
// R, G, B, A. This is the layout of Go's [image.RGBA], so buffers convert to
// and from the standard library without reordering. Color channels are
// expected to be premultiplied by alpha when blending; [DemultiplyArea]
// converts a region back to straight alpha.
//
// # Ownership
//
// A [Buffer] owns its pixel storage. A [View] borrows memory owned by
// someone else (another buffer, a toolkit bitmap, a mapped file); the owner
// must keep that memory alive and must not reallocate it while the view is
// in use. Both satisfy [Pixels], which is what the area operations accept.
//
//	canvas, _ := bitmap.NewBuffer(800, 600)
//	crop := bitmap.NewBufferFromRect(canvas, image.Rect(100, 100, 200, 150))
//	// ... edit crop ...
//	crop.CopyTo(canvas, crop.Bounds()) // lands back at (100,100)
//
// # Clipping
//
// Rectangles are [image.Rectangle] values in the buffers' shared
// coordinate space. Every operation intersects the rectangle with the
// bounds of each operand before touching memory. An empty intersection is
// a no-op, never an error: compositing code routinely passes rectangles
// that are partly or entirely off-canvas.
//
// # Persistence
//
// The archive sub-package serializes buffers into compressed fields of a
// message.Message; see package archive.
package bitmap

// Version is the current version of the library.
const Version = "0.3.0"
