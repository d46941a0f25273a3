package qoi_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/kropptrevor/qoicodec/qoi"
)

func TestRaster(t *testing.T) {
	t.Parallel()

	t.Run("Should locate pixels with PixOffset", func(t *testing.T) {
		t.Parallel()
		rgb := qoi.NewRaster(5, 3, qoi.ChannelsRGB)
		rgba := qoi.NewRaster(5, 3, qoi.ChannelsRGBA)

		if got := rgb.PixOffset(2, 1); got != (1*5+2)*3 {
			t.Fatalf("expected %d, but got %d", (1*5+2)*3, got)
		}
		if got := rgba.PixOffset(4, 2); got != (2*5+4)*4 {
			t.Fatalf("expected %d, but got %d", (2*5+4)*4, got)
		}
	})

	t.Run("Should read pixel at offset", func(t *testing.T) {
		t.Parallel()
		r := qoi.NewRaster(3, 2, qoi.ChannelsRGBA)
		i := r.PixOffset(1, 1)
		copy(r.Pix[i:], []byte{10, 20, 30, 40})

		got := r.NRGBAAt(1, 1)

		expected := color.NRGBA{10, 20, 30, 40}
		if got != expected {
			t.Fatalf("expected %v, but got %v", expected, got)
		}
	})

	t.Run("Should read RGB pixels as opaque", func(t *testing.T) {
		t.Parallel()
		r := qoi.NewRaster(2, 2, qoi.ChannelsRGB)
		i := r.PixOffset(0, 1)
		copy(r.Pix[i:], []byte{7, 8, 9})

		got := r.At(0, 1)

		expected := color.NRGBA{7, 8, 9, 255}
		if got != expected {
			t.Fatalf("expected %v, but got %v", expected, got)
		}
		if !r.Opaque() {
			t.Fatal("expected RGB raster to be opaque")
		}
	})

	t.Run("Should return zero color outside bounds", func(t *testing.T) {
		t.Parallel()
		r := qoi.NewRaster(2, 2, qoi.ChannelsRGBA)

		got := r.NRGBAAt(2, 0)

		if got != (color.NRGBA{}) {
			t.Fatalf("expected zero color, but got %v", got)
		}
	})

	t.Run("Should copy image into raster", func(t *testing.T) {
		t.Parallel()
		src := image.NewNRGBA(image.Rect(2, 3, 5, 5))
		src.SetNRGBA(3, 4, color.NRGBA{1, 2, 3, 4})

		r := qoi.RasterFromImage(src, qoi.ChannelsRGBA)

		if r.Bounds() != image.Rect(0, 0, 3, 2) {
			t.Fatalf("unexpected bounds %v", r.Bounds())
		}
		if got := r.NRGBAAt(1, 1); got != (color.NRGBA{1, 2, 3, 4}) {
			t.Fatalf("expected %v, but got %v", color.NRGBA{1, 2, 3, 4}, got)
		}
	})

	t.Run("Should reject mismatched pixel buffer", func(t *testing.T) {
		t.Parallel()
		r := &qoi.Raster{Pix: make([]byte, 5), Width: 2, Height: 1, Channels: qoi.ChannelsRGB}

		_, err := qoi.EncodeRaster(r)

		if !errors.Is(err, qoi.ErrInvalidRaster) {
			t.Fatalf("expected %q but got %q", qoi.ErrInvalidRaster, err)
		}
	})
}
