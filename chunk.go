package chipscreen

import "encoding/binary"

// Chunk frames are always chunkFrameLen bytes; a reserved prefix carries
// the header and the remainder carries a slice of the payload.
const (
	pixelChunkReserved = 8  // compact header + big-endian color
	graphChunkReserved = 12 // extended header
)

// lineStartFlag marks the first chunk of a line-graph series in the
// header's left field.
const lineStartFlag = 0x8000

// chunkSpan is one frame's slice of a chunked payload. n is the element
// count accounted to the chunk; copyLen is the number of elements
// actually copied, which exceeds n by one when chunks share a boundary
// element.
type chunkSpan struct {
	start   int
	n       int
	copyLen int
}

// chunkSpans splits n payload elements into spans of at most capacity
// elements each. With overlap set, every span but the last copies one
// extra trailing element so consecutive chunks share a boundary
// element; copyLen never reaches past the payload end.
func chunkSpans(n, capacity int, overlap bool) []chunkSpan {
	if n <= 0 {
		return nil
	}
	spans := make([]chunkSpan, 0, (n+capacity-1)/capacity)
	for start := 0; start < n; {
		c := capacity
		if start+c > n {
			c = n - start
		}
		cl := c
		if overlap && start+c < n {
			cl = c + 1
		}
		spans = append(spans, chunkSpan{start: start, n: c, copyLen: cl})
		start += c
	}
	return spans
}

// sendPixelChunks streams encoded coordinate byte pairs as pixel
// dispatch frames. Each frame's compact header carries the point offset
// and the chunk's byte count; the color rides in the two bytes after
// the header. Callers must hold d.mu.
func (d *Dev) sendPixelChunks(offsetX, offsetY int, c uint16, coords []byte) error {
	for _, s := range chunkSpans(len(coords), chunkFrameLen-pixelChunkReserved, false) {
		frame := make([]byte, chunkFrameLen)
		packCompact(frame, cmdPixelChunk, offsetX, offsetY, s.n, 0)
		binary.BigEndian.PutUint16(frame[compactHeaderLen:], c)
		copy(frame[pixelChunkReserved:], coords[s.start:s.start+s.copyLen])
		if err := d.writeFrame(frame); err != nil {
			return err
		}
	}
	return nil
}

// sendBarChunks streams graph samples as bar-graph frames. The header's
// left field tracks the bar position of each chunk's first sample.
// Callers must hold d.mu.
func (d *Dev) sendBarChunks(x, y int, fg, bg uint16, samples []byte) error {
	hint := dualColorHint(fg, bg)
	for _, s := range chunkSpans(len(samples), chunkFrameLen-graphChunkReserved, false) {
		frame := make([]byte, chunkFrameLen)
		packExtended(frame, cmdBarChunk, x+s.start, y, s.n, int(bg), fg, hint)
		copy(frame[graphChunkReserved:], samples[s.start:s.start+s.copyLen])
		if err := d.writeFrame(frame); err != nil {
			return err
		}
	}
	d.pace(d.graphDelay)
	return nil
}

// sendLineChunks streams graph samples as line-graph frames. One payload
// slot per frame is held back so the boundary sample can repeat into
// the next chunk, keeping segments connected across frames; the first
// frame marks the start of the series in its left field.
// Callers must hold d.mu.
func (d *Dev) sendLineChunks(x, y int, fg, bg uint16, samples []byte) error {
	hint := dualColorHint(fg, bg)
	for _, s := range chunkSpans(len(samples), chunkFrameLen-graphChunkReserved-1, true) {
		left := x + s.start + 1
		if s.start == 0 {
			left |= lineStartFlag
		}
		frame := make([]byte, chunkFrameLen)
		packExtended(frame, cmdLineChunk, left, y, s.n, int(bg), fg, hint)
		copy(frame[graphChunkReserved:], samples[s.start:s.start+s.copyLen])
		if err := d.writeFrame(frame); err != nil {
			return err
		}
	}
	d.pace(d.graphDelay)
	return nil
}
