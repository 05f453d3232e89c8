package chipscreen

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/flavioheleno/chipscreen/image16bit"
)

func TestDrawBoundsChecking(t *testing.T) {
	tests := []struct {
		name    string
		r       image.Rectangle
		wantErr bool
	}{
		{"full screen", image.Rect(0, 0, 800, 480), false},
		{"interior", image.Rect(10, 10, 42, 42), false},
		{"flush against right edge", image.Rect(798, 0, 800, 1), false},
		{"flush against bottom edge", image.Rect(0, 479, 2, 480), false},
		{"one past right edge", image.Rect(799, 0, 801, 1), true},
		{"one past bottom edge", image.Rect(0, 480, 2, 481), true},
		{"negative origin", image.Rect(-1, 0, 1, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sink := testDev(t, 800, 480)
			src := image.NewRGBA(image.Rect(0, 0, 800, 480))

			err := d.Draw(tt.r, src, image.Point{})
			if tt.wantErr {
				if !errors.Is(err, ErrImageTooLarge) {
					t.Errorf("Draw() = %v, want ErrImageTooLarge", err)
				}
				if len(sink.writes) != 0 {
					t.Errorf("failed Draw wrote %d frames, want 0", len(sink.writes))
				}
				return
			}
			if err != nil {
				t.Errorf("Draw() failed: %v", err)
			}
		})
	}
}

func TestDrawWireFormat(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	// A 2x1 pure red image must leave as F8 00 F8 00: 5-6-5 packed,
	// high byte first.
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 0, color.RGBA{R: 255, A: 255})

	if err := d.Draw(image.Rect(0, 0, 2, 1), src, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if len(sink.writes) != 2 {
		t.Fatalf("wrote %d frames, want 2 (region select + raster)", len(sink.writes))
	}

	code, left, top, right, bottom := unpackCompact(sink.writes[0])
	if code != cmdSelectRegion {
		t.Errorf("code = %d, want %d", code, cmdSelectRegion)
	}
	// Region edges are inclusive.
	if left != 0 || top != 0 || right != 1 || bottom != 0 {
		t.Errorf("region = (%d, %d, %d, %d), want (0, 0, 1, 0)", left, top, right, bottom)
	}

	want := []byte{0xF8, 0x00, 0xF8, 0x00}
	if !bytes.Equal(sink.writes[1], want) {
		t.Errorf("raster = % X, want % X", sink.writes[1], want)
	}
}

func TestDrawNativeImagePassthrough(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	img := image16bit.NewBigEndian(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGB565(x, y, image16bit.New(byte(x*60), byte(y*100), 0))
		}
	}

	if err := d.Draw(image.Rect(100, 50, 104, 52), img, image.Point{}); err != nil {
		t.Fatalf("Draw() failed: %v", err)
	}

	if len(sink.writes) != 2 {
		t.Fatalf("wrote %d frames, want 2", len(sink.writes))
	}
	_, left, top, right, bottom := unpackCompact(sink.writes[0])
	if left != 100 || top != 50 || right != 103 || bottom != 51 {
		t.Errorf("region = (%d, %d, %d, %d), want (100, 50, 103, 51)", left, top, right, bottom)
	}
	if !bytes.Equal(sink.writes[1], img.Pix) {
		t.Errorf("raster = % X, want % X", sink.writes[1], img.Pix)
	}
}

func TestDrawEmptyRegion(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := d.Draw(image.Rect(5, 5, 5, 5), src, image.Point{}); err != nil {
		t.Fatalf("Draw() of empty region failed: %v", err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("empty Draw wrote %d frames, want 0", len(sink.writes))
	}
}

func TestWrite(t *testing.T) {
	d, sink := testDev(t, 4, 2)

	pixels := []byte{
		0xF8, 0x00, 0x07, 0xE0, 0x00, 0x1F, 0xFF, 0xFF,
		0x00, 0x00, 0x84, 0x10, 0xF8, 0x00, 0x07, 0xE0,
	}
	n, err := d.Write(pixels)
	if err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if n != len(pixels) {
		t.Errorf("Write() = %d, want %d", n, len(pixels))
	}

	if len(sink.writes) != 2 {
		t.Fatalf("wrote %d frames, want 2", len(sink.writes))
	}
	_, left, top, right, bottom := unpackCompact(sink.writes[0])
	if left != 0 || top != 0 || right != 3 || bottom != 1 {
		t.Errorf("region = (%d, %d, %d, %d), want (0, 0, 3, 1)", left, top, right, bottom)
	}
	if !bytes.Equal(sink.writes[1], pixels) {
		t.Errorf("raster differs from input")
	}
}

func TestWriteInvalidBufferSize(t *testing.T) {
	d, _ := testDev(t, 800, 480)

	_, err := d.Write(make([]byte, 100))
	if err == nil {
		t.Error("Write should fail with wrong buffer size")
	}
	if err.Error() != "chipscreen: invalid buffer size" {
		t.Errorf("Write error = %v, want 'chipscreen: invalid buffer size'", err)
	}
}

func TestDrawRectangle(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	red := color.RGBA{R: 255, A: 255}
	if err := d.DrawRectangle(image.Rect(0, 0, 32, 32), red); err != nil {
		t.Fatalf("DrawRectangle() failed: %v", err)
	}

	if len(sink.writes) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(sink.writes))
	}
	frame := sink.writes[0]
	if len(frame) != extHeaderLen {
		t.Fatalf("frame length = %d, want %d", len(frame), extHeaderLen)
	}
	code, left, top, right, bottom, col, hint := unpackExtended(frame)
	if code != cmdFillRect {
		t.Errorf("code = %d, want %d", code, cmdFillRect)
	}
	if left != 0 || top != 0 || right != 32 || bottom != 32 {
		t.Errorf("rect = (%d, %d, %d, %d), want (0, 0, 32, 32)", left, top, right, bottom)
	}
	if col != 0xF800 {
		t.Errorf("color = %#04x, want 0xF800", col)
	}
	if want := colorHint(0xF800, 32); hint != want {
		t.Errorf("hint = %#02x, want %#02x", hint, want)
	}
}

func TestDrawRectangleCanonicalizes(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	if err := d.DrawRectangle(image.Rect(32, 32, 0, 0), color.White); err != nil {
		t.Fatalf("DrawRectangle() failed: %v", err)
	}
	_, left, top, right, bottom, _, _ := unpackExtended(sink.writes[0])
	if left != 0 || top != 0 || right != 32 || bottom != 32 {
		t.Errorf("rect = (%d, %d, %d, %d), want (0, 0, 32, 32)", left, top, right, bottom)
	}
}

// decodePixelFrames re-assembles the points transmitted by pixel
// dispatch frames.
func decodePixelFrames(t *testing.T, writes [][]byte) []image.Point {
	t.Helper()
	var pts []image.Point
	for _, frame := range writes {
		if len(frame) != chunkFrameLen {
			t.Fatalf("frame length = %d, want %d", len(frame), chunkFrameLen)
		}
		code, offX, offY, count, _ := unpackCompact(frame)
		if code != cmdPixelChunk {
			t.Fatalf("code = %d, want %d", code, cmdPixelChunk)
		}
		if count%2 != 0 || pixelChunkReserved+count > chunkFrameLen {
			t.Fatalf("invalid chunk byte count %d", count)
		}
		for i := 0; i < count; i += 2 {
			pts = append(pts, image.Pt(offX+int(frame[pixelChunkReserved+i]), offY+int(frame[pixelChunkReserved+i+1])))
		}
	}
	return pts
}

func TestDrawPixelsNear(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	// 30 points encode to 60 coordinate bytes: 56 fit the first frame,
	// the remaining 4 spill into a second.
	pts := make([]image.Point, 30)
	for i := range pts {
		pts[i] = image.Pt(i, 2*i)
	}

	if err := d.DrawPixels(color.RGBA{B: 255, A: 255}, pts); err != nil {
		t.Fatalf("DrawPixels() failed: %v", err)
	}

	if len(sink.writes) != 2 {
		t.Fatalf("wrote %d frames, want 2", len(sink.writes))
	}
	_, offX, offY, count, _ := unpackCompact(sink.writes[0])
	if offX != 0 || offY != 0 {
		t.Errorf("offset = (%d, %d), want (0, 0)", offX, offY)
	}
	if count != 56 {
		t.Errorf("first chunk byte count = %d, want 56", count)
	}
	_, _, _, count, _ = unpackCompact(sink.writes[1])
	if count != 4 {
		t.Errorf("second chunk byte count = %d, want 4", count)
	}
	// Blue in 5-6-5, high byte first.
	if sink.writes[0][6] != 0x00 || sink.writes[0][7] != 0x1F {
		t.Errorf("color bytes = % X, want 00 1F", sink.writes[0][6:8])
	}

	got := decodePixelFrames(t, sink.writes)
	if len(got) != len(pts) {
		t.Fatalf("decoded %d points, want %d", len(got), len(pts))
	}
	for i := range pts {
		if got[i] != pts[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], pts[i])
		}
	}
}

func TestDrawPixelsFar(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	pts := []image.Point{{X: 300, Y: 200}, {X: 301, Y: 210}, {X: 555, Y: 455}}
	if err := d.DrawPixels(color.White, pts); err != nil {
		t.Fatalf("DrawPixels() failed: %v", err)
	}

	if len(sink.writes) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(sink.writes))
	}
	_, offX, offY, _, _ := unpackCompact(sink.writes[0])
	if offX != 300 || offY != 200 {
		t.Errorf("offset = (%d, %d), want (300, 200)", offX, offY)
	}

	got := decodePixelFrames(t, sink.writes)
	for i := range pts {
		if got[i] != pts[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], pts[i])
		}
	}
}

func TestDrawPixelsMixedNearFar(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	pts := []image.Point{{X: 10, Y: 20}, {X: 400, Y: 100}, {X: 30, Y: 40}, {X: 500, Y: 300}}
	if err := d.DrawPixels(color.White, pts); err != nil {
		t.Fatalf("DrawPixels() failed: %v", err)
	}

	// One frame for the two direct points, one for the two offset ones.
	if len(sink.writes) != 2 {
		t.Fatalf("wrote %d frames, want 2", len(sink.writes))
	}
	_, offX, offY, _, _ := unpackCompact(sink.writes[0])
	if offX != 0 || offY != 0 {
		t.Errorf("first frame offset = (%d, %d), want (0, 0)", offX, offY)
	}
	_, offX, offY, _, _ = unpackCompact(sink.writes[1])
	if offX != 400 || offY != 100 {
		t.Errorf("second frame offset = (%d, %d), want (400, 100)", offX, offY)
	}

	got := decodePixelFrames(t, sink.writes)
	want := []image.Point{{X: 10, Y: 20}, {X: 30, Y: 40}, {X: 400, Y: 100}, {X: 500, Y: 300}}
	if len(got) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDrawPixelsSpreadLimit(t *testing.T) {
	d, sink := testDev(t, 1024, 600)

	// A spread of exactly 255 still fits the offset window.
	ok := []image.Point{{X: 300, Y: 0}, {X: 555, Y: 255}}
	if err := d.DrawPixels(color.White, ok); err != nil {
		t.Fatalf("DrawPixels() with 255 spread failed: %v", err)
	}
	if len(sink.writes) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(sink.writes))
	}

	// One more and the offset encoding fails.
	sink.writes = nil
	bad := []image.Point{{X: 300, Y: 0}, {X: 556, Y: 0}}
	if err := d.DrawPixels(color.White, bad); !errors.Is(err, ErrBoundsTooLarge) {
		t.Errorf("DrawPixels() = %v, want ErrBoundsTooLarge", err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("failed DrawPixels wrote %d frames, want 0", len(sink.writes))
	}
}

func TestDrawPixelsNearSentBeforeFarFails(t *testing.T) {
	d, sink := testDev(t, 1024, 600)

	pts := []image.Point{{X: 10, Y: 10}, {X: 300, Y: 0}, {X: 600, Y: 0}}
	err := d.DrawPixels(color.White, pts)
	if !errors.Is(err, ErrBoundsTooLarge) {
		t.Fatalf("DrawPixels() = %v, want ErrBoundsTooLarge", err)
	}
	// The direct point went out before the offset subset was rejected.
	if len(sink.writes) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(sink.writes))
	}
	got := decodePixelFrames(t, sink.writes)
	if len(got) != 1 || got[0] != image.Pt(10, 10) {
		t.Errorf("transmitted points = %v, want [(10,10)]", got)
	}
}

func TestDrawPixelsEmpty(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	if err := d.DrawPixels(color.White, nil); err != nil {
		t.Fatalf("DrawPixels(nil) failed: %v", err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("wrote %d frames, want 0", len(sink.writes))
	}
}

func TestDrawBarGraph(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	samples := make([]byte, 300)
	for i := range samples {
		samples[i] = byte(i % 101)
	}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	if err := d.DrawBarGraph(image.Pt(0, 300), green, blue, samples); err != nil {
		t.Fatalf("DrawBarGraph() failed: %v", err)
	}

	// 52 samples per frame: 300 need 6 frames.
	if len(sink.writes) != 6 {
		t.Fatalf("wrote %d frames, want 6", len(sink.writes))
	}

	pos := 0
	var rebuilt []byte
	for i, frame := range sink.writes {
		if len(frame) != chunkFrameLen {
			t.Fatalf("frame %d length = %d, want %d", i, len(frame), chunkFrameLen)
		}
		code, left, top, count, bg, fg, hint := unpackExtended(frame)
		if code != cmdBarChunk {
			t.Fatalf("frame %d code = %d, want %d", i, code, cmdBarChunk)
		}
		if left != pos {
			t.Errorf("frame %d left = %d, want %d", i, left, pos)
		}
		if top != 300 {
			t.Errorf("frame %d top = %d, want 300", i, top)
		}
		if fg != 0x07E0 || bg != 0x001F {
			t.Errorf("frame %d colors = %#04x over %#04x, want 0x07E0 over 0x001F", i, fg, bg)
		}
		if want := dualColorHint(0x07E0, 0x001F); hint != want {
			t.Errorf("frame %d hint = %#02x, want %#02x", i, hint, want)
		}
		rebuilt = append(rebuilt, frame[graphChunkReserved:graphChunkReserved+count]...)
		pos += count
	}
	if !bytes.Equal(rebuilt, samples) {
		t.Error("concatenated chunk payloads differ from the sample series")
	}
}

func TestDrawLineGraph(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	samples := make([]byte, 300)
	for i := range samples {
		samples[i] = byte(255 - i%256)
	}
	if err := d.DrawLineGraph(image.Pt(320, 300), color.White, color.Black, samples); err != nil {
		t.Fatalf("DrawLineGraph() failed: %v", err)
	}

	// 51 samples per frame: 300 need 6 frames.
	if len(sink.writes) != 6 {
		t.Fatalf("wrote %d frames, want 6", len(sink.writes))
	}

	pos := 0
	for i, frame := range sink.writes {
		code, left, top, count, _, _, _ := unpackExtended(frame)
		if code != cmdLineChunk {
			t.Fatalf("frame %d code = %d, want %d", i, code, cmdLineChunk)
		}
		wantLeft := 320 + pos + 1
		if i == 0 {
			wantLeft |= lineStartFlag
		}
		if left != wantLeft {
			t.Errorf("frame %d left = %#04x, want %#04x", i, left, wantLeft)
		}
		if top != 300 {
			t.Errorf("frame %d top = %d, want 300", i, top)
		}

		// Every frame but the last repeats the boundary sample.
		copyLen := count
		if pos+count < len(samples) {
			copyLen++
		}
		if !bytes.Equal(frame[graphChunkReserved:graphChunkReserved+copyLen], samples[pos:pos+copyLen]) {
			t.Errorf("frame %d payload differs", i)
		}
		for j := graphChunkReserved + copyLen; j < chunkFrameLen; j++ {
			if frame[j] != 0 {
				t.Fatalf("frame %d byte %d = %d, want 0", i, j, frame[j])
			}
		}
		pos += count
	}
	if pos != len(samples) {
		t.Errorf("frames account for %d samples, want %d", pos, len(samples))
	}
}

func TestGraphsEmptySamples(t *testing.T) {
	d, sink := testDev(t, 800, 480)

	if err := d.DrawBarGraph(image.Pt(0, 100), color.White, color.Black, nil); err != nil {
		t.Fatalf("DrawBarGraph(nil) failed: %v", err)
	}
	if err := d.DrawLineGraph(image.Pt(0, 100), color.White, color.Black, nil); err != nil {
		t.Fatalf("DrawLineGraph(nil) failed: %v", err)
	}
	if len(sink.writes) != 0 {
		t.Errorf("wrote %d frames, want 0", len(sink.writes))
	}
}

func TestSplitPoints(t *testing.T) {
	pts := []image.Point{
		{X: 0, Y: 0},
		{X: 255, Y: 255},
		{X: 256, Y: 0},
		{X: 0, Y: 256},
		{X: 700, Y: 400},
	}
	near, far := splitPoints(pts)

	wantNear := []byte{0, 0, 255, 255}
	if !bytes.Equal(near, wantNear) {
		t.Errorf("near = %v, want %v", near, wantNear)
	}
	wantFar := []image.Point{{X: 256, Y: 0}, {X: 0, Y: 256}, {X: 700, Y: 400}}
	if len(far) != len(wantFar) {
		t.Fatalf("far = %v, want %v", far, wantFar)
	}
	for i := range wantFar {
		if far[i] != wantFar[i] {
			t.Errorf("far[%d] = %v, want %v", i, far[i], wantFar[i])
		}
	}
}

func TestOffsetPoints(t *testing.T) {
	t.Run("offset is the minimum corner", func(t *testing.T) {
		pts := []image.Point{{X: 310, Y: 205}, {X: 300, Y: 210}, {X: 305, Y: 200}}
		coords, offset, err := offsetPoints(pts)
		if err != nil {
			t.Fatalf("offsetPoints() failed: %v", err)
		}
		if offset != image.Pt(300, 200) {
			t.Errorf("offset = %v, want (300,200)", offset)
		}
		want := []byte{10, 5, 0, 10, 5, 0}
		if !bytes.Equal(coords, want) {
			t.Errorf("coords = %v, want %v", coords, want)
		}
	})

	t.Run("x spread beyond 255 fails", func(t *testing.T) {
		_, _, err := offsetPoints([]image.Point{{X: 0, Y: 300}, {X: 256, Y: 300}})
		if !errors.Is(err, ErrBoundsTooLarge) {
			t.Errorf("offsetPoints() = %v, want ErrBoundsTooLarge", err)
		}
	})

	t.Run("y spread beyond 255 fails", func(t *testing.T) {
		_, _, err := offsetPoints([]image.Point{{X: 300, Y: 0}, {X: 300, Y: 256}})
		if !errors.Is(err, ErrBoundsTooLarge) {
			t.Errorf("offsetPoints() = %v, want ErrBoundsTooLarge", err)
		}
	})
}
