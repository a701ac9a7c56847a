// Command bitmaparchive packs images into compressed bitmap archives and
// unpacks them again.
//
// Usage:
//
//	bitmaparchive pack photo.png -o photo.bmsg
//	bitmaparchive pack background.png sprite.png -o scene.bmsg
//	bitmaparchive info scene.bmsg
//	bitmaparchive unpack scene.bmsg -o scene.png
//
// Several inputs are packed as a layered archive, bottom layer first;
// unpacking a layered archive composites the visible layers.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		// Uncoded errors come from cobra's own flag parsing.
		os.Exit(exitCodeInvalidArguments)
	}
}
