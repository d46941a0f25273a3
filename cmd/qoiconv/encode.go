package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kropptrevor/qoicodec/internal/imageio"
	"github.com/kropptrevor/qoicodec/qoi"
)

type encodeOptions struct {
	output   string
	channels string
	linear   bool
	zstd     bool
}

func newEncodeCmd(global *globalOptions) *cobra.Command {
	var o encodeOptions
	cmd := &cobra.Command{
		Use:   "encode [flags] <input>",
		Short: "Encode an image file as QOI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, global, &o, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", `output path (default: <input>.qoi, "-" for stdout)`)
	f.StringVarP(&o.channels, "channels", "c", "auto", "channels to store: auto, 3 or 4")
	f.BoolVar(&o.linear, "linear", false, "mark the image as linear instead of sRGB")
	f.BoolVar(&o.zstd, "zstd", false, "wrap the QOI stream in a zstd frame")
	return cmd
}

// parseChannels returns 0 for auto.
func parseChannels(name string) (qoi.Channels, error) {
	switch strings.ToLower(name) {
	case "3", "rgb":
		return qoi.ChannelsRGB, nil
	case "4", "rgba":
		return qoi.ChannelsRGBA, nil
	case "auto", "":
		return 0, nil
	}
	return 0, fmt.Errorf("encode: bad channels %q, want auto, 3 or 4", name)
}

func runEncode(cmd *cobra.Command, global *globalOptions, o *encodeOptions, input string) error {
	ch, err := parseChannels(o.channels)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	m, format, err := imageio.Decode(data)
	if err != nil {
		return fmt.Errorf("encode: %s: %w", input, err)
	}
	if ch == 0 {
		ch = imageio.AutoChannels(m)
	}

	r := qoi.RasterFromImage(m, ch)
	if o.linear {
		r.ColorSpace = qoi.ColorSpaceLinear
	}
	out, err := qoi.EncodeRaster(r)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	ext := ".qoi"
	if o.zstd {
		ext += ".zst"
	}
	path := outputPath(o.output, input, ext)
	compressed := o.zstd
	if path != "-" {
		f, zst, err := imageio.FormatFromPath(path)
		if err == nil && f != imageio.FormatQOI {
			err = fmt.Errorf("%w: %s output for QOI data", imageio.ErrUnknownFormat, f)
		}
		if err != nil {
			return fmt.Errorf("encode: %s: %w", path, err)
		}
		compressed = compressed || zst
	}

	if err := writeOutput(cmd, path, func(w io.Writer) error {
		return imageio.WriteAll(w, out, compressed)
	}); err != nil {
		return err
	}

	if global.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s, %dx%d, %d channels) -> %s: %d bytes, %.1f%% of raw\n",
			input, format, r.Width, r.Height, r.Channels, path, len(out), percent(len(out), len(r.Pix)))
	}
	return nil
}
