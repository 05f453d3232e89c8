package chipscreen

import "encoding/binary"

// Command codes understood by the panel. Simple commands use the 6-byte
// compact header; drawing commands use the 12-byte extended header.
const (
	cmdRestart      byte = 101
	cmdShutdown     byte = 108
	cmdStartup      byte = 109
	cmdBrightness   byte = 110
	cmdOrientation  byte = 121
	cmdMirror       byte = 122
	cmdFillRect     byte = 136
	cmdBarChunk     byte = 137
	cmdLineChunk    byte = 144
	cmdPixelChunk   byte = 195
	cmdSelectRegion byte = 197
)

// Frame sizes.
const (
	compactHeaderLen = 6  // packed bounding box + command code
	extHeaderLen     = 12 // big-endian fields + color + hint + command code
	optionFrameLen   = 16 // compact header followed by an option payload
	chunkFrameLen    = 64 // fixed transfer size for chunked payloads
)

// Compact header bit layout. The four coordinate fields are 10 bits wide
// and share byte boundaries: left spans bytes 0-1, top bytes 1-2, right
// bytes 2-3 and bottom bytes 3-4. Values wider than 10 bits are
// truncated by the packing.
const (
	leftHiShift   = 2    // left bits 9..2 -> byte 0
	leftLoMask    = 0x03 // left bits 1..0
	leftLoShift   = 6    // -> byte 1 bits 7..6
	topHiShift    = 4    // top bits 9..4 -> byte 1 bits 5..0
	topLoMask     = 0x0F // top bits 3..0
	topLoShift    = 4    // -> byte 2 bits 7..4
	rightHiShift  = 6    // right bits 9..6 -> byte 2 bits 3..0
	rightLoMask   = 0x3F // right bits 5..0
	rightLoShift  = 2    // -> byte 3 bits 7..2
	bottomHiShift = 8    // bottom bits 9..8 -> byte 3 bits 1..0
	bottomLoMask  = 0xFF // bottom bits 7..0 -> byte 4

	// Masks isolating the low-order field of each shared byte when
	// unpacking.
	byte1TopMask    = 0x3F
	byte2RightMask  = 0x0F
	byte3BottomMask = 0x03
)

// packCompact writes a compact command header into dst[0:6].
// dst must be at least compactHeaderLen bytes.
func packCompact(dst []byte, code byte, left, top, right, bottom int) {
	_ = dst[compactHeaderLen-1]
	dst[0] = byte(left >> leftHiShift)
	dst[1] = byte(left&leftLoMask)<<leftLoShift | byte(top>>topHiShift)
	dst[2] = byte(top&topLoMask)<<topLoShift | byte(right>>rightHiShift)
	dst[3] = byte(right&rightLoMask)<<rightLoShift | byte(bottom>>bottomHiShift)
	dst[4] = byte(bottom & bottomLoMask)
	dst[5] = code
}

// unpackCompact recovers the fields packed by packCompact. The protocol
// is write-only; the inverse exists for tests and debugging tools.
func unpackCompact(src []byte) (code byte, left, top, right, bottom int) {
	_ = src[compactHeaderLen-1]
	left = int(src[0])<<leftHiShift | int(src[1]>>leftLoShift)
	top = int(src[1]&byte1TopMask)<<topHiShift | int(src[2]>>topLoShift)
	right = int(src[2]&byte2RightMask)<<rightHiShift | int(src[3]>>rightLoShift)
	bottom = int(src[3]&byte3BottomMask)<<bottomHiShift | int(src[4])
	code = src[5]
	return
}

// packExtended writes an extended command header into dst[0:12]: four
// big-endian coordinate fields, a big-endian color, the color hint and
// the command code. dst must be at least extHeaderLen bytes.
func packExtended(dst []byte, code byte, left, top, right, bottom int, color uint16, hint byte) {
	_ = dst[extHeaderLen-1]
	binary.BigEndian.PutUint16(dst[0:], uint16(left))
	binary.BigEndian.PutUint16(dst[2:], uint16(top))
	binary.BigEndian.PutUint16(dst[4:], uint16(right))
	binary.BigEndian.PutUint16(dst[6:], uint16(bottom))
	binary.BigEndian.PutUint16(dst[8:], color)
	dst[10] = hint
	dst[11] = code
}

// unpackExtended is the test/debug inverse of packExtended.
func unpackExtended(src []byte) (code byte, left, top, right, bottom int, color uint16, hint byte) {
	_ = src[extHeaderLen-1]
	left = int(binary.BigEndian.Uint16(src[0:]))
	top = int(binary.BigEndian.Uint16(src[2:]))
	right = int(binary.BigEndian.Uint16(src[4:]))
	bottom = int(binary.BigEndian.Uint16(src[6:]))
	color = binary.BigEndian.Uint16(src[8:])
	hint = src[10]
	code = src[11]
	return
}

// colorHint derives the panel's color metadata byte for a single-color
// extended command. It is opaque panel metadata, not a checksum, and
// must be reproduced exactly for colors to render correctly.
func colorHint(c uint16, bottom int) byte {
	return byte(((int(c)>>2)+2)&0x0F | ((bottom>>3)+3)&0xF0)
}

// dualColorHint derives the metadata byte for commands carrying both a
// foreground and a background color.
func dualColorHint(fg, bg uint16) byte {
	return byte(((int(fg)>>2)+2)&0x0F | ((int(bg)>>3)+3)&0xF0)
}

// Option frame payload offsets (bytes after the compact header).
const (
	optModeOffset   = 6
	optWidthOffset  = 7
	optHeightOffset = 9

	orientationBase = 100 // added to the orientation mode on the wire
)

// orientationFrame builds the 16-byte set-orientation frame carrying the
// mapping mode and the panel dimensions.
func orientationFrame(o Orientation, width, height int) []byte {
	frame := make([]byte, optionFrameLen)
	packCompact(frame, cmdOrientation, 0, 0, 0, 0)
	frame[optModeOffset] = byte(o) + orientationBase
	binary.BigEndian.PutUint16(frame[optWidthOffset:], uint16(width))
	binary.BigEndian.PutUint16(frame[optHeightOffset:], uint16(height))
	return frame
}

// mirrorFrame builds the 16-byte set-mirror frame.
func mirrorFrame(mirror bool) []byte {
	frame := make([]byte, optionFrameLen)
	packCompact(frame, cmdMirror, 0, 0, 0, 0)
	if mirror {
		frame[optModeOffset] = 1
	}
	return frame
}
