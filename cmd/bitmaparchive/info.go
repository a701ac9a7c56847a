package main

import (
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	xmessage "golang.org/x/text/message"

	"github.com/gogpu/bitmap/archive"
	"github.com/gogpu/bitmap/message"
)

func newInfoCmd(_ *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info [archive]",
		Short: "Describe an archive",
		Long:  "Print the compression, bounds and sizes of a bitmap archive and of each of its layers.",
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

			p := xmessage.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			p.Fprintf(out, "Archive: %s\n", args[0])

			if !msg.Has(archive.FieldLayer) {
				return describe(p, out, msg, "")
			}
			n := msg.CountValues(archive.FieldLayer)
			p.Fprintf(out, "Layers: %d\n", n)
			for i := 0; i < n; i++ {
				sub, err := msg.FindMessage(archive.FieldLayer, i)
				if err != nil {
					return newExitCodeError(err, exitCodeArchiveError)
				}
				name, _ := sub.FindString(archive.FieldLayerName, 0)
				p.Fprintf(out, " - Layer %d: %q\n", i, name)
				if err := describe(p, out, sub, "   "); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// describe prints the archive fields of msg. The pixels are extracted to
// verify the payload.
func describe(p *xmessage.Printer, out io.Writer, msg *message.Message, indent string) error {
	tag := archive.CompressionLZO
	if v, err := msg.FindInt32(archive.FieldCompression, 0); err == nil {
		tag = archive.Compression(v)
	}
	payload, err := msg.FindData(archive.FieldData, 0)
	if err != nil {
		payload, _ = msg.FindData(archive.FieldLegacyData, 0)
	}
	bounds, _ := msg.FindRect(archive.FieldBounds, 0)

	p.Fprintf(out, "%sCompression: %s\n", indent, tag)
	p.Fprintf(out, "%sBounds: %v (%dx%d)\n", indent, bounds, bounds.Dx(), bounds.Dy())
	p.Fprintf(out, "%sChecksum: %t\n", indent, msg.Has(archive.FieldChecksum))

	buf, err := archive.Extract(msg)
	if err != nil {
		return newExitCodeError(err, exitCodeArchiveError)
	}
	raw := buf.BitsLength()
	p.Fprintf(out, "%sPixel data: %d bytes\n", indent, raw)
	p.Fprintf(out, "%sCompressed: %d bytes (%.1f%%)\n", indent, len(payload), 100*float64(len(payload))/float64(raw))
	return nil
}
