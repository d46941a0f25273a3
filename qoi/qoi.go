// Package qoi implements an encoder and decoder for the QOI ("Quite OK
// Image") lossless image format.
//
// The core API works on raw rasters:
//
//	data, err := qoi.Encode(pix, width, height, qoi.ChannelsRGBA)
//	raster, err := qoi.Decode(data)
//
// A *Raster also satisfies image.Image, and the package registers itself
// with the image package under the name "qoi".
//
// Every pixel that is not part of a run is stored in a 64-slot cache keyed
// by a hash of its channels. Distinct pixels that share a hash evict each
// other; this is an inherent property of the format, not an error, and the
// encoder only emits a cache reference after checking the slot holds an
// exact match.
package qoi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the four byte tag every QOI stream starts with.
const Magic = "qoif"

// Chunk tags. TagRGB and TagRGBA occupy a whole byte; the others are the
// top two bits of the first chunk byte.
const (
	TagIndex byte = 0b00000000
	TagDiff  byte = 0b01000000
	TagLuma  byte = 0b10000000
	TagRun   byte = 0b11000000
	TagRGB   byte = 0b11111110
	TagRGBA  byte = 0b11111111

	tagMask byte = 0b11000000
)

const (
	headerSize = 14
	cacheSize  = 64
	maxRun     = 62

	// MaxPixels bounds width*height of streams accepted by Decode.
	MaxPixels = 400_000_000
)

var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

var (
	ErrInvalidRaster  = errors.New("invalid raster")
	ErrParseHeader    = errors.New("failed to parse QOI header")
	ErrParseChunk     = errors.New("failed to parse QOI chunk")
	ErrParseEndMarker = errors.New("failed to parse QOI end marker")
)

// Channels is the number of channels per pixel, 3 (RGB) or 4 (RGBA).
type Channels uint8

const (
	ChannelsRGB  Channels = 3
	ChannelsRGBA Channels = 4
)

func (c Channels) valid() bool {
	return c == ChannelsRGB || c == ChannelsRGBA
}

// ColorSpace is carried in the header but never applied to pixel values.
type ColorSpace uint8

const (
	ColorSpaceSRGB   ColorSpace = 0
	ColorSpaceLinear ColorSpace = 1
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGB:
		return "sRGB"
	case ColorSpaceLinear:
		return "linear"
	default:
		return fmt.Sprintf("ColorSpace(%d)", uint8(c))
	}
}

// Header is the fixed 14 byte preamble of a QOI stream.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   Channels
	ColorSpace ColorSpace
}

// Pixels returns Width*Height.
func (h Header) Pixels() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

func (h Header) appendTo(b []byte) []byte {
	b = append(b, Magic...)
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	return append(b, byte(h.Channels), byte(h.ColorSpace))
}

// DecodeHeader parses and validates the header at the start of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, got %d", ErrParseHeader, headerSize, len(data))
	}
	if string(data[:4]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrParseHeader, data[:4])
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(data[4:8]),
		Height:     binary.BigEndian.Uint32(data[8:12]),
		Channels:   Channels(data[12]),
		ColorSpace: ColorSpace(data[13]),
	}
	if !h.Channels.valid() {
		return Header{}, fmt.Errorf("%w: bad channels %d", ErrParseHeader, h.Channels)
	}
	if h.ColorSpace > ColorSpaceLinear {
		return Header{}, fmt.Errorf("%w: bad color space %d", ErrParseHeader, h.ColorSpace)
	}
	return h, nil
}

// A is 0 for 3-channel images.
type pixel struct {
	R, G, B, A uint8
}

func startPixel(ch Channels) pixel {
	if ch == ChannelsRGBA {
		return pixel{A: 255}
	}
	return pixel{}
}

func (p pixel) hash() uint8 {
	return uint8((int(p.R)*3 + int(p.G)*5 + int(p.B)*7 + int(p.A)*11) % cacheSize)
}

func wrapDiff(next, prev uint8) int {
	d := (int(next) - int(prev)) & 0xff
	if d >= 128 {
		d -= 256
	}
	return d
}

func wrapAdd(v uint8, d int) uint8 {
	return uint8((int(v) + d) & 0xff)
}

type state struct {
	cache [cacheSize]pixel
	prev  pixel
}

func newState(ch Channels) state {
	return state{prev: startPixel(ch)}
}
