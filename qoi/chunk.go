package qoi

import "fmt"

// ChunkKind identifies one of the six QOI chunk encodings.
type ChunkKind uint8

const (
	KindIndex ChunkKind = iota
	KindDiff
	KindLuma
	KindRun
	KindRGB
	KindRGBA

	numChunkKinds
)

// ChunkKinds lists every chunk kind in tag order.
var ChunkKinds = [numChunkKinds]ChunkKind{KindIndex, KindDiff, KindLuma, KindRun, KindRGB, KindRGBA}

func (k ChunkKind) String() string {
	switch k {
	case KindIndex:
		return "INDEX"
	case KindDiff:
		return "DIFF"
	case KindLuma:
		return "LUMA"
	case KindRun:
		return "RUN"
	case KindRGB:
		return "RGB"
	case KindRGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("ChunkKind(%d)", uint8(k))
	}
}

// kind selects which of n, d and px are set.
type chunk struct {
	kind ChunkKind
	n    uint8
	d    [3]int
	px   pixel
}

func (c chunk) size() int {
	switch c.kind {
	case KindLuma:
		return 2
	case KindRGB:
		return 4
	case KindRGBA:
		return 5
	default:
		return 1
	}
}

func (c chunk) pixels() int {
	if c.kind == KindRun {
		return int(c.n)
	}
	return 1
}

func (c chunk) appendTo(b []byte) []byte {
	switch c.kind {
	case KindIndex:
		return append(b, TagIndex|c.n)
	case KindRun:
		return append(b, TagRun|(c.n-1))
	case KindDiff:
		return append(b, TagDiff|byte(c.d[0]+2)<<4|byte(c.d[1]+2)<<2|byte(c.d[2]+2))
	case KindLuma:
		return append(b, TagLuma|byte(c.d[0]+32), byte(c.d[1]+8)<<4|byte(c.d[2]+8))
	case KindRGB:
		return append(b, TagRGB, c.px.R, c.px.G, c.px.B)
	case KindRGBA:
		return append(b, TagRGBA, c.px.R, c.px.G, c.px.B, c.px.A)
	}
	panic(fmt.Sprintf("qoi: unknown chunk kind %v", c.kind))
}

func (s *state) selectChunk(px pixel) chunk {
	index := px.hash()
	if s.cache[index] == px {
		return chunk{kind: KindIndex, n: index}
	}
	s.cache[index] = px

	if px.A != s.prev.A {
		return chunk{kind: KindRGBA, px: px}
	}

	dr := wrapDiff(px.R, s.prev.R)
	dg := wrapDiff(px.G, s.prev.G)
	db := wrapDiff(px.B, s.prev.B)
	if isSmallDiff(dr) && isSmallDiff(dg) && isSmallDiff(db) {
		return chunk{kind: KindDiff, d: [3]int{dr, dg, db}}
	}

	drdg := dr - dg
	dbdg := db - dg
	if dg >= -32 && dg <= 31 && isSmallLumaDiff(drdg) && isSmallLumaDiff(dbdg) {
		return chunk{kind: KindLuma, d: [3]int{dg, drdg, dbdg}}
	}

	return chunk{kind: KindRGB, px: px}
}

func isSmallDiff(d int) bool {
	return d >= -2 && d <= 1
}

func isSmallLumaDiff(d int) bool {
	return d >= -8 && d <= 7
}

func parseChunk(data []byte) (chunk, int, error) {
	if len(data) == 0 {
		return chunk{}, 0, fmt.Errorf("%w: unexpected end of stream", ErrParseChunk)
	}

	var c chunk
	b := data[0]
	switch {
	case b == TagRGB:
		c.kind = KindRGB
	case b == TagRGBA:
		c.kind = KindRGBA
	case b&tagMask == TagIndex:
		c.kind = KindIndex
	case b&tagMask == TagDiff:
		c.kind = KindDiff
	case b&tagMask == TagLuma:
		c.kind = KindLuma
	default:
		c.kind = KindRun
	}

	size := c.size()
	if len(data) < size {
		return chunk{}, 0, fmt.Errorf("%w: truncated %v chunk, need %d bytes, got %d", ErrParseChunk, c.kind, size, len(data))
	}

	switch c.kind {
	case KindIndex:
		c.n = b &^ tagMask
	case KindRun:
		c.n = b&^tagMask + 1
	case KindDiff:
		c.d = [3]int{int(b>>4&0b11) - 2, int(b>>2&0b11) - 2, int(b&0b11) - 2}
	case KindLuma:
		c.d = [3]int{int(b&^tagMask) - 32, int(data[1]>>4) - 8, int(data[1]&0x0f) - 8}
	case KindRGB:
		c.px = pixel{R: data[1], G: data[2], B: data[3]}
	case KindRGBA:
		c.px = pixel{R: data[1], G: data[2], B: data[3], A: data[4]}
	}
	return c, size, nil
}

func (s *state) apply(c chunk, ch Channels) pixel {
	prev := s.prev
	switch c.kind {
	case KindIndex:
		return s.cache[c.n]
	case KindDiff:
		return pixel{
			R: wrapAdd(prev.R, c.d[0]),
			G: wrapAdd(prev.G, c.d[1]),
			B: wrapAdd(prev.B, c.d[2]),
			A: prev.A,
		}
	case KindLuma:
		dg := c.d[0]
		return pixel{
			R: wrapAdd(prev.R, dg+c.d[1]),
			G: wrapAdd(prev.G, dg),
			B: wrapAdd(prev.B, dg+c.d[2]),
			A: prev.A,
		}
	case KindRGB:
		px := c.px
		px.A = prev.A
		return px
	case KindRGBA:
		px := c.px
		if ch == ChannelsRGB {
			px.A = 0
		}
		return px
	default:
		return prev
	}
}

func (s *state) remember(px pixel) {
	s.cache[px.hash()] = px
	s.prev = px
}
