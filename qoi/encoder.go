package qoi

import (
	"image"
	"io"
)

// Encode compresses a row-major raster of width*height pixels with the
// given channel count. The color space byte is written as sRGB.
func Encode(pix []byte, width, height int, ch Channels) ([]byte, error) {
	return EncodeRaster(&Raster{Pix: pix, Width: width, Height: height, Channels: ch})
}

// EncodeRaster compresses r, writing r.ColorSpace into the header.
func EncodeRaster(r *Raster) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	n := r.Width * r.Height
	e := encoder{
		state:    newState(r.Channels),
		channels: r.Channels,
		buf:      make([]byte, 0, headerSize+n*(int(r.Channels)+1)+len(endMarker)),
	}

	e.writeHeader(r.Header())
	for i := 0; i < n; i++ {
		e.writePixel(r.pixelAt(i), i == n-1)
	}
	e.writeEndMarker()

	return e.buf, nil
}

// EncodeImage writes m to w as a QOI stream with ch channels.
func EncodeImage(w io.Writer, m image.Image, ch Channels) error {
	data, err := EncodeRaster(RasterFromImage(m, ch))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type encoder struct {
	state
	channels  Channels
	runLength int
	buf       []byte
}

func (e *encoder) writeHeader(h Header) {
	e.buf = h.appendTo(e.buf)
}

func (e *encoder) writePixel(px pixel, last bool) {
	if px == e.prev {
		e.runLength++
		if e.runLength == maxRun || last {
			e.writeRunChunk()
		}
		return
	}

	if e.runLength > 0 {
		e.writeRunChunk()
	}
	e.writeChunk(e.selectChunk(px))
	e.prev = px
}

func (e *encoder) writeChunk(c chunk) {
	e.buf = c.appendTo(e.buf)
}

func (e *encoder) writeRunChunk() {
	e.writeChunk(chunk{kind: KindRun, n: uint8(e.runLength)})
	e.runLength = 0
}

func (e *encoder) writeEndMarker() {
	e.buf = append(e.buf, endMarker[:]...)
}
