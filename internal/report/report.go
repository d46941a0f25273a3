// Package report prints and charts how QOI streams use each chunk kind.
package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/kropptrevor/qoicodec/qoi"
)

// Metric selects which per-kind count a chart plots.
type Metric int

const (
	MetricChunks Metric = iota
	MetricPixels
	MetricBytes
)

var ErrUnknownMetric = errors.New("unknown metric")

// ParseMetric accepts "chunks", "pixels" or "bytes".
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "chunks":
		return MetricChunks, nil
	case "pixels":
		return MetricPixels, nil
	case "bytes":
		return MetricBytes, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

func (m Metric) String() string {
	switch m {
	case MetricPixels:
		return "pixels"
	case MetricBytes:
		return "bytes"
	default:
		return "chunks"
	}
}

func (m Metric) value(s qoi.Stats, k qoi.ChunkKind) int {
	switch m {
	case MetricPixels:
		return s.Pixels[k]
	case MetricBytes:
		return s.Bytes[k]
	default:
		return s.Chunks[k]
	}
}

// Table writes one row per chunk kind followed by a summary.
func Table(w io.Writer, s qoi.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "kind\tchunks\tpixels\tbytes\t")
	for _, k := range qoi.ChunkKinds {
		fmt.Fprintf(tw, "%v\t%d\t%d\t%d\t\n", k, s.Chunks[k], s.Pixels[k], s.Bytes[k])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%dx%d, %d channels, %v: %d chunks, %d of %d bytes (%.1f%%)\n",
		s.Header.Width, s.Header.Height, s.Header.Channels, s.Header.ColorSpace,
		s.TotalChunks(), s.StreamBytes, s.RawBytes, 100*s.Ratio())
	return err
}

// Chart renders m per chunk kind as a bar chart. asPNG selects PNG output
// instead of SVG.
func Chart(w io.Writer, s qoi.Stats, m Metric, asPNG bool) error {
	bars := make([]chart.Value, 0, len(qoi.ChunkKinds))
	top := 1.0
	for _, k := range qoi.ChunkKinds {
		v := float64(m.value(s, k))
		if v > top {
			top = v
		}
		bars = append(bars, chart.Value{Label: k.String(), Value: v})
	}

	graph := chart.BarChart{
		Title: fmt.Sprintf("%s per chunk kind, %dx%d", m, s.Header.Width, s.Header.Height),
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Bars: bars,
	}

	provider := chart.SVG
	if asPNG {
		provider = chart.PNG
	}
	return graph.Render(provider, w)
}

// IsPNGPath reports whether path names a PNG file.
func IsPNGPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}
