package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kropptrevor/qoicodec/internal/imageio"
	"github.com/kropptrevor/qoicodec/qoi"
)

type decodeOptions struct {
	output string
	format string
}

func newDecodeCmd(global *globalOptions) *cobra.Command {
	var o decodeOptions
	cmd := &cobra.Command{
		Use:   "decode [flags] <input.qoi>",
		Short: "Decode a QOI file to PNG, JPEG, GIF, BMP or TIFF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, global, &o, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", `output path (default: <input>.png, "-" for stdout)`)
	f.StringVarP(&o.format, "format", "f", "", "output format (default: from the output extension, png for stdout)")
	return cmd
}

func runDecode(cmd *cobra.Command, global *globalOptions, o *decodeOptions, input string) error {
	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	r, err := qoi.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %s: %w", input, err)
	}

	path := outputPath(o.output, input, ".png")
	format, err := decodeFormat(o.format, path)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, path, func(w io.Writer) error {
		return imageio.Encode(w, r, format)
	}); err != nil {
		return err
	}

	if global.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s (%dx%d, %d channels, %v) -> %s (%s)\n",
			input, r.Width, r.Height, r.Channels, r.ColorSpace, path, format)
	}
	return nil
}

func decodeFormat(name, path string) (imageio.Format, error) {
	if name != "" {
		return imageio.ParseFormat(name)
	}
	if path == "-" {
		return imageio.FormatPNG, nil
	}
	f, _, err := imageio.FormatFromPath(path)
	return f, err
}
