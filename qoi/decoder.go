package qoi

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("qoi", Magic, DecodeImage, DecodeConfig)
}

// Decode reconstructs the raster held in a complete QOI stream. Bytes after
// the end marker are ignored.
func Decode(data []byte) (*Raster, error) {
	return decode(data, nil)
}

// DecodeImage reads a whole QOI stream from r and decodes it.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeConfig reads only the header from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return image.Config{}, err
	}
	h, err := DecodeHeader(buf[:n])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

type decoder struct {
	state
	data     []byte
	offset   int
	channels Channels

	observe func(c chunk)
}

func decode(data []byte, observe func(chunk)) (*Raster, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	total := h.Pixels()
	if total > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrParseHeader, h.Width, h.Height, MaxPixels)
	}
	// A RUN chunk is the densest encoding, so a stream shorter than this
	// cannot hold every pixel.
	if minChunks := (total + maxRun - 1) / maxRun; uint64(len(data)-headerSize) < minChunks {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d pixels", ErrParseChunk, len(data)-headerSize, total)
	}

	d := decoder{
		state:    newState(h.Channels),
		data:     data,
		offset:   headerSize,
		channels: h.Channels,
		observe:  observe,
	}
	r := NewRaster(int(h.Width), int(h.Height), h.Channels)
	r.ColorSpace = h.ColorSpace

	if err := d.readPixels(r); err != nil {
		return nil, err
	}
	if err := d.readEndMarker(); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *decoder) readPixels(r *Raster) error {
	total := r.Width * r.Height
	for i := 0; i < total; {
		c, size, err := parseChunk(d.data[d.offset:])
		if err != nil {
			return fmt.Errorf("at byte %d, pixel %d: %w", d.offset, i, err)
		}
		if i+c.pixels() > total {
			return fmt.Errorf("%w: run of %d at pixel %d overshoots %d pixels", ErrParseChunk, c.n, i, total)
		}
		if d.observe != nil {
			d.observe(c)
		}
		d.offset += size

		px := d.apply(c, d.channels)
		for end := i + c.pixels(); i < end; i++ {
			r.setPixel(i, px)
			d.remember(px)
		}
	}
	return nil
}

func (d *decoder) readEndMarker() error {
	rest := d.data[d.offset:]
	if len(rest) < len(endMarker) {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrParseEndMarker, len(endMarker), len(rest))
	}
	if !bytes.Equal(rest[:len(endMarker)], endMarker[:]) {
		return fmt.Errorf("%w: got % x", ErrParseEndMarker, rest[:len(endMarker)])
	}
	return nil
}
