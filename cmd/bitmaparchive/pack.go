package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/bitmap"
	"github.com/gogpu/bitmap/archive"
	"github.com/gogpu/bitmap/message"
)

// archiveWhat is the What code of messages written by this command.
const archiveWhat uint32 = 0x424d4150 // "BMAP"

type packFlags struct {
	output      string
	compression string
	zlibLevel   int
	checksum    bool
	workers     int
}

func newPackCmd(g *globalFlags) *cobra.Command {
	f := &packFlags{}

	cmd := &cobra.Command{
		Use:   "pack [input...]",
		Short: "Pack images into an archive",
		Long: "Pack one image into a bitmap archive, or several images into a layered archive.\n" +
			"Supported inputs: PNG, JPEG, GIF, BMP, TIFF and WebP.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return newExitCodeError(err, exitCodeInvalidArguments)
			}
			for _, arg := range args {
				if _, err := os.Stat(arg); err != nil {
					return newExitCodeError(fmt.Errorf("could not open input file %s: %w", arg, err), exitCodeInvalidInput)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if cmd.Flags().Changed("compression") {
				cfg.Compression = f.compression
			}
			if cmd.Flags().Changed("zlib-level") {
				cfg.ZlibLevel = f.zlibLevel
			}
			if cmd.Flags().Changed("checksum") {
				cfg.Checksum = f.checksum
			}
			opts, err := cfg.options()
			if err != nil {
				return newExitCodeError(err, exitCodeInvalidArguments)
			}

			output := f.output
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".bmsg"
			}

			msg := message.New(archiveWhat)
			if len(args) == 1 {
				buf, err := readImage(args[0])
				if err != nil {
					return newExitCodeError(err, exitCodeInvalidInput)
				}
				if err := archive.Archive(buf, msg, opts...); err != nil {
					return newExitCodeError(err, exitCodeArchiveError)
				}
			} else {
				layers := make([]*bitmap.Layer, 0, len(args))
				for _, arg := range args {
					buf, err := readImage(arg)
					if err != nil {
						return newExitCodeError(err, exitCodeInvalidInput)
					}
					layers = append(layers, &bitmap.Layer{
						Name:    strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)),
						Pixels:  buf,
						Visible: true,
						Opacity: 255,
					})
				}
				opts = append(opts, archive.WithWorkers(f.workers))
				if err := archive.ArchiveLayers(layers, msg, opts...); err != nil {
					return newExitCodeError(err, exitCodeArchiveError)
				}
			}

			data, err := msg.Flatten()
			if err != nil {
				return newExitCodeError(err, exitCodeArchiveError)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return newExitCodeError(fmt.Errorf("could not write output file %s: %w", output, err), exitCodeInvalidOutput)
			}

			cmd.Printf("Packed %d image(s) into %s (%s)\n", len(args), output, cfg.Compression)
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output archive (default: first input with .bmsg extension)")
	cmd.Flags().StringVarP(&f.compression, "compression", "c", "zlib", "compression backend: lzo, zlib, zstd or lz4")
	cmd.Flags().IntVar(&f.zlibLevel, "zlib-level", archive.DefaultZlibLevel, "zlib compression level (-2 to 9)")
	cmd.Flags().BoolVar(&f.checksum, "checksum", false, "store a BLAKE3 checksum of the pixels")
	cmd.Flags().IntVarP(&f.workers, "workers", "j", 0, "layers compressed at once (default GOMAXPROCS)")
	return cmd
}

// readImage decodes the image at path into a premultiplied buffer placed
// at the origin.
func readImage(path string) (*bitmap.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input file %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", path, err)
	}
	buf := bitmap.FromImage(img)
	if buf.IsEmpty() {
		return nil, fmt.Errorf("image %s is empty", path)
	}
	buf.SetOrigin(image.Point{})

	bitmap.Logger().Debug("decoded image", "path", path, "format", format, "bounds", buf.Bounds())
	return buf, nil
}
