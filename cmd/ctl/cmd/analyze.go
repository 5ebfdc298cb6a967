package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jpfielding/netpbm.go/pkg/netpbm"
	"github.com/jpfielding/netpbm.go/pkg/present"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze netpbm file structure",
		Long:  "Parses and displays the header, pixel data offset and per-channel statistics of a netpbm file, optionally dumping the RGBA8 frame.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeInput(ctx, cmd, args)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			out, _ := cmd.Flags().GetString("out")
			return runAnalyze(ctx, cmd.OutOrStdout(), d, out)
		},
	}
	addInputFlags(cmd)
	cmd.PersistentFlags().String("out", "", "Output path for the raw RGBA8 frame")
	return cmd
}

// runAnalyze prints what the decoder saw
func runAnalyze(ctx context.Context, w io.Writer, d *decoded, outPath string) error {
	img := d.img

	fmt.Fprintln(w, "=== Header ===")
	fmt.Fprintf(w, "InputMD5: %s\n", d.digest)
	fmt.Fprintf(w, "Format: %s (%s, %s)\n", img.Format, img.Format.Name(), encoding(img.Format))
	fmt.Fprintf(w, "Width: %d\n", img.Width)
	fmt.Fprintf(w, "Height: %d\n", img.Height)
	fmt.Fprintf(w, "MaxValue: %d\n", img.MaxValue)
	fmt.Fprintf(w, "SamplesPerPixel: %d\n", img.Format.SamplesPerPixel())
	fmt.Fprintf(w, "PixelDataOffset: %d\n", d.header.PixelDataOffset)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Pixel Data ===")
	fmt.Fprintf(w, "Pixels: %d\n", len(img.Pixels))
	fmt.Fprintf(w, "Fingerprint: %s\n", present.Fingerprint(img))

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Channel", "Min", "Max", "Mean"})
	for _, ch := range channelStats(img) {
		t.AppendRow(table.Row{ch.name, ch.min, ch.max, fmt.Sprintf("%.2f", ch.mean)})
	}
	fmt.Fprintln(w, t.Render())

	if outPath == "" {
		return nil
	}
	fb := present.NewFramebuffer(present.WindowTitle(d.name, img))
	if err := fb.Present(ctx, img); err != nil {
		return err
	}
	fmt.Fprintf(w, "Dumping %q frame (%d bytes) to %s\n", fb.Title, len(fb.Pix()), outPath)
	return os.WriteFile(outPath, fb.Pix(), 0644)
}

func encoding(f netpbm.PixelFormat) string {
	if f.Binary() {
		return "binary"
	}
	return "ascii"
}

type channelStat struct {
	name     string
	min, max uint8
	mean     float64
}

func channelStats(img *netpbm.Image) []channelStat {
	stats := []channelStat{{name: "R", min: 0xFF}, {name: "G", min: 0xFF}, {name: "B", min: 0xFF}}
	if len(img.Pixels) == 0 {
		return stats
	}
	var sums [3]float64
	for _, p := range img.Pixels {
		for i, v := range []uint8{p.R, p.G, p.B} {
			stats[i].min = min(stats[i].min, v)
			stats[i].max = max(stats[i].max, v)
			sums[i] += float64(v)
		}
	}
	for i := range stats {
		stats[i].mean = sums[i] / float64(len(img.Pixels))
	}
	return stats
}
