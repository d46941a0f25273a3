package qoi

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Raster is a dense, row-major pixel buffer with 3 or 4 interleaved 8-bit
// channels per pixel. It implements image.Image.
type Raster struct {
	Pix        []byte
	Width      int
	Height     int
	Channels   Channels
	ColorSpace ColorSpace
}

// NewRaster returns a zeroed raster of the given size.
func NewRaster(width, height int, ch Channels) *Raster {
	return &Raster{
		Pix:      make([]byte, width*height*int(ch)),
		Width:    width,
		Height:   height,
		Channels: ch,
	}
}

// RasterFromImage copies m into a new raster with ch channels. Colors are
// converted to non-premultiplied RGBA first; alpha is dropped for
// ChannelsRGB.
func RasterFromImage(m image.Image, ch Channels) *Raster {
	b := m.Bounds()
	r := NewRaster(b.Dx(), b.Dy(), ch)
	if src, ok := m.(*Raster); ok && src.Channels == ch {
		copy(r.Pix, src.Pix)
		r.ColorSpace = src.ColorSpace
		return r
	}
	c := int(ch)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			r.Pix[i+0] = px.R
			r.Pix[i+1] = px.G
			r.Pix[i+2] = px.B
			if ch == ChannelsRGBA {
				r.Pix[i+3] = px.A
			}
			i += c
		}
	}
	return r
}

func (r *Raster) validate() error {
	if !r.Channels.valid() {
		return fmt.Errorf("%w: channels must be 3 or 4, got %d", ErrInvalidRaster, r.Channels)
	}
	if r.ColorSpace > ColorSpaceLinear {
		return fmt.Errorf("%w: bad color space %d", ErrInvalidRaster, r.ColorSpace)
	}
	if r.Width < 0 || r.Height < 0 || uint64(r.Width) > math.MaxUint32 || uint64(r.Height) > math.MaxUint32 {
		return fmt.Errorf("%w: dimensions %dx%d out of range", ErrInvalidRaster, r.Width, r.Height)
	}
	want := uint64(r.Width) * uint64(r.Height) * uint64(r.Channels)
	if uint64(len(r.Pix)) != want {
		return fmt.Errorf("%w: %dx%dx%d needs %d bytes, got %d", ErrInvalidRaster, r.Width, r.Height, r.Channels, want, len(r.Pix))
	}
	return nil
}

// Header returns the header Encode would write for r.
func (r *Raster) Header() Header {
	return Header{
		Width:      uint32(r.Width),
		Height:     uint32(r.Height),
		Channels:   r.Channels,
		ColorSpace: r.ColorSpace,
	}
}

func (r *Raster) pixelAt(i int) pixel {
	if r.Channels == ChannelsRGBA {
		s := r.Pix[i*4 : i*4+4 : i*4+4]
		return pixel{R: s[0], G: s[1], B: s[2], A: s[3]}
	}
	s := r.Pix[i*3 : i*3+3 : i*3+3]
	return pixel{R: s[0], G: s[1], B: s[2]}
}

func (r *Raster) setPixel(i int, px pixel) {
	if r.Channels == ChannelsRGBA {
		s := r.Pix[i*4 : i*4+4 : i*4+4]
		s[0], s[1], s[2], s[3] = px.R, px.G, px.B, px.A
		return
	}
	s := r.Pix[i*3 : i*3+3 : i*3+3]
	s[0], s[1], s[2] = px.R, px.G, px.B
}

// PixOffset returns the index of the first element of Pix that corresponds
// to the pixel at (x, y).
func (r *Raster) PixOffset(x, y int) int {
	return (y*r.Width + x) * int(r.Channels)
}

func (r *Raster) ColorModel() color.Model {
	return color.NRGBAModel
}

func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

func (r *Raster) At(x, y int) color.Color {
	return r.NRGBAAt(x, y)
}

// NRGBAAt returns the pixel at (x, y). Pixels of 3-channel rasters are
// opaque.
func (r *Raster) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}.In(r.Bounds())) {
		return color.NRGBA{}
	}
	i := r.PixOffset(x, y)
	if r.Channels == ChannelsRGB {
		s := r.Pix[i : i+3 : i+3]
		return color.NRGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
	}
	s := r.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// Opaque reports whether every pixel of r is fully opaque.
func (r *Raster) Opaque() bool {
	if r.Channels == ChannelsRGB {
		return true
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
