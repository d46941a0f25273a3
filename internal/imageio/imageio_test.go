package imageio_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kropptrevor/qoicodec/internal/imageio"
	"github.com/kropptrevor/qoicodec/qoi"
)

func testImage(alpha uint8) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(40 * x), uint8(60 * y), 90, alpha})
		}
	}
	return m
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path       string
		format     imageio.Format
		compressed bool
	}{
		{"a.png", imageio.FormatPNG, false},
		{"dir/b.JPG", imageio.FormatJPEG, false},
		{"c.qoi", imageio.FormatQOI, false},
		{"c.qoi.zst", imageio.FormatQOI, true},
		{"d.tif", imageio.FormatTIFF, false},
		{"e.bmp", imageio.FormatBMP, false},
		{"f.webp", imageio.FormatWebP, false},
	}
	for _, c := range cases {
		f, compressed, err := imageio.FormatFromPath(c.path)
		if err != nil {
			t.Fatalf("expected nil error for %q, but got %v", c.path, err)
		}
		if f != c.format || compressed != c.compressed {
			t.Fatalf("expected %s/%v for %q, but got %s/%v", c.format, c.compressed, c.path, f, compressed)
		}
	}

	t.Run("Should fail on unknown extension", func(t *testing.T) {
		t.Parallel()

		_, _, err := imageio.FormatFromPath("notes.txt")

		if !errors.Is(err, imageio.ErrUnknownFormat) {
			t.Fatalf("expected %q but got %q", imageio.ErrUnknownFormat, err)
		}
	})
}

func TestReplaceExt(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"a.png":         "a.qoi",
		"dir/b.qoi.zst": "dir/b.qoi",
		"noext":         "noext.qoi",
	}
	for in, want := range cases {
		if got := imageio.ReplaceExt(in, ".qoi"); got != want {
			t.Fatalf("expected %q for %q, but got %q", want, in, got)
		}
	}
}

func TestCompression(t *testing.T) {
	t.Parallel()

	t.Run("Should round trip through zstd", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("qoif"), 100)
		var buf bytes.Buffer

		err := imageio.WriteAll(&buf, data, true)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if !imageio.IsCompressed(buf.Bytes()) {
			t.Fatal("expected zstd frame")
		}
		actual, err := imageio.ReadAll(&buf)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}

		if !bytes.Equal(data, actual) {
			t.Fatal("expected data to survive compression")
		}
	})

	t.Run("Should refuse frames that expand past the limit", func(t *testing.T) {
		t.Parallel()
		data := make([]byte, 64<<10)
		var buf bytes.Buffer
		if err := imageio.WriteAll(&buf, data, true); err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		if buf.Len() >= 1<<10 {
			t.Fatalf("expected zeros to compress below 1 KiB, got %d bytes", buf.Len())
		}

		actual, err := imageio.ReadAllLimit(&buf, 1<<10)

		if err == nil {
			t.Fatalf("expected non-nil error, but got %d bytes", len(actual))
		}
	})

	t.Run("Should pass plain data through", func(t *testing.T) {
		t.Parallel()
		data := []byte("qoif plain")
		var buf bytes.Buffer

		if err := imageio.WriteAll(&buf, data, false); err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}
		actual, err := imageio.ReadAll(&buf)
		if err != nil {
			t.Fatalf("expected nil error, but got %v", err)
		}

		if !bytes.Equal(data, actual) {
			t.Fatalf("expected %q, but got %q", data, actual)
		}
	})
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	for _, f := range []imageio.Format{imageio.FormatQOI, imageio.FormatPNG, imageio.FormatBMP, imageio.FormatTIFF} {
		f := f
		t.Run("Should round trip "+string(f), func(t *testing.T) {
			t.Parallel()
			src := testImage(255)
			var buf bytes.Buffer

			if err := imageio.Encode(&buf, src, f); err != nil {
				t.Fatalf("expected nil error, but got %v", err)
			}
			m, format, err := imageio.Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("expected nil error, but got %v", err)
			}

			if format != f {
				t.Fatalf("expected format %s, but got %s", f, format)
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 6; x++ {
					want := src.NRGBAAt(x, y)
					got := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
					if want != got {
						t.Fatalf("expected %v but got %v at (%d, %d)", want, got, x, y)
					}
				}
			}
		})
	}

	t.Run("Should refuse to write webp", func(t *testing.T) {
		t.Parallel()

		err := imageio.Encode(&bytes.Buffer{}, testImage(255), imageio.FormatWebP)

		if !errors.Is(err, imageio.ErrUnknownFormat) {
			t.Fatalf("expected %q but got %q", imageio.ErrUnknownFormat, err)
		}
	})

	t.Run("Should fail on unknown data", func(t *testing.T) {
		t.Parallel()

		_, _, err := imageio.Decode([]byte("definitely not an image"))

		if !errors.Is(err, imageio.ErrUnknownFormat) {
			t.Fatalf("expected %q but got %q", imageio.ErrUnknownFormat, err)
		}
	})
}

func TestAutoChannels(t *testing.T) {
	t.Parallel()

	if ch := imageio.AutoChannels(testImage(255)); ch != qoi.ChannelsRGB {
		t.Fatalf("expected RGB for opaque image, but got %d", ch)
	}
	if ch := imageio.AutoChannels(testImage(100)); ch != qoi.ChannelsRGBA {
		t.Fatalf("expected RGBA for translucent image, but got %d", ch)
	}
	if ch := imageio.AutoChannels(qoi.NewRaster(1, 1, qoi.ChannelsRGBA)); ch != qoi.ChannelsRGBA {
		t.Fatalf("expected RGBA for transparent raster, but got %d", ch)
	}
}
