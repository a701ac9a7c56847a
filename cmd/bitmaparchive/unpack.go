package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/bitmap"
	"github.com/gogpu/bitmap/archive"
	"github.com/gogpu/bitmap/message"
)

func newUnpackCmd(_ *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unpack [archive]",
		Short: "Unpack an archive to PNG",
		Long:  "Unpack a bitmap archive to a PNG file. Layered archives are composited first.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return newExitCodeError(err, exitCodeInvalidArguments)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := readArchive(args[0])
			if err != nil {
				return err
			}

			img, err := flattenArchive(msg)
			if err != nil {
				return newExitCodeError(err, exitCodeArchiveError)
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}
			file, err := os.Create(output)
			if err != nil {
				return newExitCodeError(fmt.Errorf("could not create output file %s: %w", output, err), exitCodeInvalidOutput)
			}
			defer file.Close()

			if err := png.Encode(file, img); err != nil {
				return newExitCodeError(fmt.Errorf("could not encode %s: %w", output, err), exitCodeInvalidOutput)
			}
			if err := file.Close(); err != nil {
				return newExitCodeError(err, exitCodeInvalidOutput)
			}

			cmd.Printf("Unpacked %s to %s (%dx%d)\n", args[0], output, img.Rect.Dx(), img.Rect.Dy())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default: archive name with .png extension)")
	return cmd
}

func readArchive(path string) (*message.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newExitCodeError(fmt.Errorf("could not open input file %s: %w", path, err), exitCodeInvalidInput)
	}
	msg, err := message.Unflatten(data)
	if err != nil {
		return nil, newExitCodeError(fmt.Errorf("could not read archive %s: %w", path, err), exitCodeInvalidInput)
	}
	return msg, nil
}

// flattenArchive extracts the single bitmap of msg, or composites its
// layers over the union of their bounds.
func flattenArchive(msg *message.Message) (*image.RGBA, error) {
	if !msg.Has(archive.FieldLayer) {
		buf, err := archive.Extract(msg)
		if err != nil {
			return nil, err
		}
		return bitmap.ToRGBA(buf), nil
	}

	layers, err := archive.ExtractLayers(msg)
	if err != nil {
		return nil, err
	}
	var bounds image.Rectangle
	for _, l := range layers {
		bounds = bounds.Union(l.Pixels.Bounds())
	}
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || w > archive.MaxPixels/h {
		return nil, fmt.Errorf("compositing %d layers: canvas %v is too large", len(layers), bounds)
	}
	dst, err := bitmap.NewBuffer(w, h)
	if err != nil {
		return nil, fmt.Errorf("compositing %d layers: %w", len(layers), err)
	}
	dst.SetOrigin(bounds.Min)
	bitmap.Composite(dst, layers, bounds)
	return bitmap.ToRGBA(dst), nil
}
