// Command qoiconv converts images to and from the QOI format.
//
// Usage:
//
//	qoiconv encode [options] <input>      PNG/JPEG/GIF/BMP/TIFF/WebP → QOI
//	qoiconv decode [options] <input.qoi>  QOI → PNG/JPEG/GIF/BMP/TIFF
//	qoiconv info <input.qoi>              Display the QOI header
//	qoiconv stats [options] <input.qoi>   Count chunks per kind
//
// Use "-" as input to read from stdin and "-o -" to write to stdout. QOI
// files ending in .zst are zstd compressed; compressed input is detected
// automatically.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kropptrevor/qoicodec/internal/imageio"
)

type globalOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	var opts globalOptions
	root := &cobra.Command{
		Use:           "qoiconv",
		Short:         "Convert images to and from the QOI format",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print a summary of each conversion to stderr")
	root.AddCommand(
		newEncodeCmd(&opts),
		newDecodeCmd(&opts),
		newInfoCmd(),
		newStatsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "qoiconv: %v\n", err)
		os.Exit(1)
	}
}

// readInput returns the contents of path, or stdin for "-", with any zstd
// framing removed.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return imageio.ReadAll(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imageio.ReadAll(f)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// createOutput opens path for writing. "-" is stdout; the caller must not
// rely on Close for it.
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

// writeOutput runs write against path and closes it, keeping the first error.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	w, err := createOutput(cmd, path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// outputPath picks the output path: the -o flag, stdout for stdin input, or
// the input path with ext.
func outputPath(flag, input, ext string) string {
	switch {
	case flag != "":
		return flag
	case input == "-":
		return "-"
	default:
		return imageio.ReplaceExt(input, ext)
	}
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
