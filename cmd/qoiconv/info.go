package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kropptrevor/qoicodec/qoi"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.qoi>",
		Short: "Display QOI header fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			h, err := qoi.DecodeHeader(data)
			if err != nil {
				return fmt.Errorf("info: %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:        %s\n", args[0])
			fmt.Fprintf(out, "Dimensions:  %d x %d\n", h.Width, h.Height)
			fmt.Fprintf(out, "Channels:    %d\n", h.Channels)
			fmt.Fprintf(out, "Color space: %v\n", h.ColorSpace)
			fmt.Fprintf(out, "Size:        %d bytes\n", len(data))
			return nil
		},
	}
}
