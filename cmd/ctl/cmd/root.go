package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/netpbm.go/pkg/logging"
	"github.com/jpfielding/netpbm.go/pkg/netpbm"
	"github.com/jpfielding/netpbm.go/pkg/present"
	"github.com/jpfielding/netpbm.go/pkg/util"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pnmctl",
		Short:        "a CLI to decode and inspect netpbm (P1-P6) images",
		Long:         "pnmctl decodes PBM, PGM and PPM images in ASCII and binary form, reports their headers and exports them to common image formats.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			logFile, _ := cmd.Flags().GetString("log-file")
			logMaxSize, _ := cmd.Flags().GetInt("log-max-size")

			// Parse log level
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = cmd.ErrOrStderr()
			if logFile != "" {
				w = logging.FileWriter(logFile, logMaxSize)
			}
			slog.SetDefault(logging.Logger(w, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewDecodeCmd(ctx),
		NewAnalyzeCmd(ctx),
		NewConvertCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "Log as json instead of text")
	pf.String("log-file", "", "Log to a rotated file instead of stderr")
	pf.Int("log-max-size", 10, "Megabytes before the log file is rotated")
	pf.Int("max-pixels", netpbm.DefaultMaxPixels, "Reject images with more pixels than this")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// decodeReport is the json form of a decoded image
type decodeReport struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Format          string `json:"format"`
	Family          string `json:"family"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	MaxValue        int    `json:"max_value"`
	PixelDataOffset int64  `json:"pixel_data_offset"`
	Pixels          int    `json:"pixels"`
	Fingerprint     string `json:"fingerprint"`
	InputMD5        string `json:"input_md5"`
}

// decoded is an image plus the header facts only the tokenizer knows
type decoded struct {
	name   string
	digest string // md5 of the raw input
	header *netpbm.HeaderParseResult
	img    *netpbm.Image
}

// decodeInput reads the whole input once for the digest and the header
// tokenizer. Local files are then decoded straight from disk, everything
// else from the bytes already read.
func decodeInput(ctx context.Context, cmd *cobra.Command, args []string) (*decoded, error) {
	file, _ := cmd.Flags().GetString("file")
	insecure, _ := cmd.Flags().GetBool("insecure")
	verbose, _ := cmd.Flags().GetBool("verbose")
	maxPixels, _ := cmd.Flags().GetInt("max-pixels")

	in, name, err := openInput(ctx, inputArg(file, args), insecure, verbose)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	hdr, err := netpbm.DecodeHeader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	opts := &netpbm.Options{MaxPixels: maxPixels}
	var img *netpbm.Image
	if f, ok := in.(*os.File); ok {
		img, err = netpbm.DecodeFileWithOptions(f.Name(), opts)
	} else {
		img, err = netpbm.DecodeWithOptions(bytes.NewReader(raw), opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	slog.DebugContext(ctx, "decoded", "name", name, "format", img.Format.String(),
		"width", img.Width, "height", img.Height, "bytes", len(raw))
	return &decoded{name: name, digest: util.Md5ThenHex(raw), header: hdr, img: img}, nil
}

func addInputFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "netpbm file path, http(s) URL or - for stdin")
	pf.Bool("insecure", false, "Skip TLS verification for https inputs")
	pf.BoolP("verbose", "v", false, "Dump http request and response headers")
}

func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "decode an image and print its header",
		Long:  "decode an image fully and print its header, pixel data offset and content fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := decodeInput(ctx, cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				if err := (&present.SummaryPresenter{W: out, Name: d.name}).Present(ctx, d.img); err != nil {
					return err
				}
				fmt.Fprintf(out, "Pixel data offset: %d\n", d.header.PixelDataOffset)
			case "json":
				rep := decodeReport{
					Name:            d.name,
					Format:          d.img.Format.String(),
					Family:          d.img.Format.Name(),
					Width:           d.img.Width,
					Height:          d.img.Height,
					MaxValue:        d.img.MaxValue,
					PixelDataOffset: d.header.PixelDataOffset,
					Pixels:          len(d.img.Pixels),
					Fingerprint:     present.Fingerprint(d.img),
					InputMD5:        d.digest,
				}
				rep.ID = util.HashUUID(rep)
				return json.NewEncoder(out).Encode(rep)
			default:
				return fmt.Errorf("unknown format %q (text|json)", format)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.PersistentFlags().String("format", "json", "output format (text|json)")
	return cmd
}

func NewConvertCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "export an image to png, jpg, gif, tif or bmp",
		Long:  "decode a netpbm image and write it in the format named by the --out extension",
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")
			scale, _ := cmd.Flags().GetInt("scale")
			if outPath == "" {
				return fmt.Errorf("output path is required. Use --out flag")
			}
			d, err := decodeInput(ctx, cmd, args)
			if err != nil {
				return err
			}
			if err := (&present.FilePresenter{Path: outPath, Scale: scale}).Present(ctx, d.img); err != nil {
				return err
			}
			slog.InfoContext(ctx, "converted", "from", d.name, "to", outPath)
			return nil
		},
	}
	addInputFlags(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "", "Output image path")
	pf.Int("scale", 1, "Integer enlargement factor")
	return cmd
}
