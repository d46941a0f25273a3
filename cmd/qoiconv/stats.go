package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kropptrevor/qoicodec/internal/report"
	"github.com/kropptrevor/qoicodec/qoi"
)

type statsOptions struct {
	chart  string
	metric string
}

func newStatsCmd() *cobra.Command {
	var o statsOptions
	cmd := &cobra.Command{
		Use:   "stats [flags] <input.qoi>",
		Short: "Count the chunks of a QOI file by kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, &o, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.chart, "chart", "", "also render a bar chart to this .svg or .png file")
	f.StringVar(&o.metric, "metric", "chunks", "chart metric: chunks, pixels or bytes")
	return cmd
}

func runStats(cmd *cobra.Command, o *statsOptions, input string) error {
	metric, err := report.ParseMetric(o.metric)
	if err != nil {
		return err
	}
	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}
	s, err := qoi.Analyze(data)
	if err != nil {
		return fmt.Errorf("stats: %s: %w", input, err)
	}
	if err := report.Table(cmd.OutOrStdout(), s); err != nil {
		return err
	}
	if o.chart == "" {
		return nil
	}
	return writeOutput(cmd, o.chart, func(w io.Writer) error {
		return report.Chart(w, s, metric, report.IsPNGPath(o.chart))
	})
}
