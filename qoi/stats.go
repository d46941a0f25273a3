package qoi

// Stats summarizes how a stream was encoded.
type Stats struct {
	Header Header

	// Chunks and Pixels are indexed by ChunkKind.
	Chunks [numChunkKinds]int
	Pixels [numChunkKinds]int
	Bytes  [numChunkKinds]int

	// StreamBytes is the full stream size; RawBytes the size of the
	// uncompressed raster.
	StreamBytes int
	RawBytes    int
}

// Ratio returns StreamBytes/RawBytes, or 0 for an empty image.
func (s Stats) Ratio() float64 {
	if s.RawBytes == 0 {
		return 0
	}
	return float64(s.StreamBytes) / float64(s.RawBytes)
}

// TotalChunks returns the number of chunks in the stream.
func (s Stats) TotalChunks() int {
	n := 0
	for _, c := range s.Chunks {
		n += c
	}
	return n
}

// Analyze decodes data and counts its chunks by kind. It fails exactly when
// Decode fails.
func Analyze(data []byte) (Stats, error) {
	var s Stats
	r, err := decode(data, func(c chunk) {
		s.Chunks[c.kind]++
		s.Pixels[c.kind] += c.pixels()
		s.Bytes[c.kind] += c.size()
	})
	if err != nil {
		return Stats{}, err
	}
	s.Header = r.Header()
	s.StreamBytes = len(data)
	s.RawBytes = len(r.Pix)
	return s, nil
}
