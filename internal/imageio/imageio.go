// Package imageio reads and writes the raster file formats the qoiconv
// command converts between, and handles optional zstd framing of QOI files.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kropptrevor/qoicodec/qoi"
)

// Format names a raster file format.
type Format string

const (
	FormatQOI  Format = "qoi"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

const zstdExt = ".zst"

var ErrUnknownFormat = errors.New("unknown image format")

var extensions = map[string]Format{
	".qoi":  FormatQOI,
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".gif":  FormatGIF,
	".bmp":  FormatBMP,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
}

// ParseFormat maps a format name such as "png" or "jpg" to a Format.
func ParseFormat(name string) (Format, error) {
	f, ok := extensions["."+strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// FormatFromPath infers the format from the file extension. A trailing
// ".zst" is reported separately, so "a.qoi.zst" is FormatQOI, compressed.
func FormatFromPath(path string) (f Format, compressed bool, err error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, zstdExt) {
		compressed = true
		lower = strings.TrimSuffix(lower, zstdExt)
	}
	f, ok := extensions[filepath.Ext(lower)]
	if !ok {
		return "", compressed, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
	return f, compressed, nil
}

// ReplaceExt swaps the extension of path (including a ".zst" suffix) for ext.
func ReplaceExt(path, ext string) string {
	if strings.HasSuffix(strings.ToLower(path), zstdExt) {
		path = path[:len(path)-len(zstdExt)]
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// MaxDecodedSize bounds the output of a zstd frame: the largest QOI stream
// qoi.Decode accepts, every pixel an RGBA chunk plus header and end marker.
const MaxDecodedSize = qoi.MaxPixels*5 + 14 + 8

// ReadAll reads r to the end and strips zstd framing when present.
func ReadAll(r io.Reader) ([]byte, error) {
	return ReadAllLimit(r, MaxDecodedSize)
}

// ReadAllLimit is ReadAll with a custom bound on decompressed size.
func ReadAllLimit(r io.Reader, limit uint64) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(data) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(limit))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// WriteAll writes data to w, wrapped in a zstd frame if compress is set.
func WriteAll(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("zstd encode: %w", err)
	}
	return enc.Close()
}

// Decode decodes data in any registered format, QOI included.
func Decode(data []byte) (image.Image, Format, error) {
	m, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnknownFormat, err)
		}
		return nil, "", err
	}
	return m, Format(name), nil
}

// Encode writes m to w in format f. QOI output uses AutoChannels.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case FormatQOI:
		return qoi.EncodeImage(w, m, AutoChannels(m))
	case FormatPNG:
		return png.Encode(w, m)
	case FormatJPEG:
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
	case FormatGIF:
		return gif.Encode(w, m, nil)
	case FormatBMP:
		return bmp.Encode(w, m)
	case FormatTIFF:
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: cannot write %s", ErrUnknownFormat, f)
	}
}

// AutoChannels returns ChannelsRGB for fully opaque images and
// ChannelsRGBA otherwise.
func AutoChannels(m image.Image) qoi.Channels {
	if o, ok := m.(interface{ Opaque() bool }); ok {
		if o.Opaque() {
			return qoi.ChannelsRGB
		}
		return qoi.ChannelsRGBA
	}
	if qoi.RasterFromImage(m, qoi.ChannelsRGBA).Opaque() {
		return qoi.ChannelsRGB
	}
	return qoi.ChannelsRGBA
}
