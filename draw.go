package chipscreen

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/chipscreen/image16bit"
)

// Draw blits src onto the screen region r, reading src starting at sp.
// It implements display.Drawer.
//
// There is no clipping: a region that does not fit entirely on the
// screen fails with ErrImageTooLarge before anything is transmitted. A
// placement flush against the screen edge is valid.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	r = r.Canon()
	if !r.In(d.rect) {
		return ErrImageTooLarge
	}
	if r.Empty() {
		return nil
	}
	return d.writeRegion(r, rasterize(r, src, sp))
}

// Write sends a raw full-screen raster in the panel's wire format, two
// bytes per pixel with the high byte first. The buffer must hold
// exactly Bounds().Dx() * Bounds().Dy() * 2 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(pixels) != d.rect.Dx()*d.rect.Dy()*2 {
		return 0, errors.New("chipscreen: invalid buffer size")
	}
	if err := d.writeRegion(d.rect, pixels); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// DrawRectangle fills the rectangle r with c.
func (d *Dev) DrawRectangle(r image.Rectangle, c color.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	r = r.Canon()
	col := toSerial(c)
	var frame [extHeaderLen]byte
	packExtended(frame[:], cmdFillRect, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, col, colorHint(col, r.Max.Y))
	return d.writeFrame(frame[:])
}

// DrawPixels sets every point in pts to c. Points with both coordinates
// under 256 are sent as-is; the rest are encoded relative to their
// minimum corner and must fit a 256x256 window, otherwise
// ErrBoundsTooLarge is returned. The direct subset is transmitted
// before the relative subset is validated, so a failed call may have
// set some pixels.
func (d *Dev) DrawPixels(c color.Color, pts []image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(pts) == 0 {
		return nil
	}
	d.log.Debug().Int("points", len(pts)).Msg("draw pixels")

	near, far := splitPoints(pts)
	col := toSerial(c)
	if err := d.sendPixelChunks(0, 0, col, near); err != nil {
		return err
	}
	if len(far) == 0 {
		return nil
	}
	coords, offset, err := offsetPoints(far)
	if err != nil {
		return err
	}
	return d.sendPixelChunks(offset.X, offset.Y, col, coords)
}

// DrawBarGraph draws len(samples) vertical bars in fg over a bg field,
// one bar per sample, starting at p. Sample values are on the panel's
// own byte scale; the caller chooses the vertical range.
func (d *Dev) DrawBarGraph(p image.Point, fg, bg color.Color, samples []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(samples) == 0 {
		return nil
	}
	d.log.Debug().Int("samples", len(samples)).Msg("draw bar graph")
	return d.sendBarChunks(p.X, p.Y, toSerial(fg), toSerial(bg), samples)
}

// DrawLineGraph draws a connected line through len(samples) values in
// fg over a bg field, starting at p.
func (d *Dev) DrawLineGraph(p image.Point, fg, bg color.Color, samples []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(samples) == 0 {
		return nil
	}
	d.log.Debug().Int("samples", len(samples)).Msg("draw line graph")
	return d.sendLineChunks(p.X, p.Y, toSerial(fg), toSerial(bg), samples)
}

// writeRegion selects the destination rectangle on the panel and sends
// the raster as a single transport write. Callers must hold d.mu.
func (d *Dev) writeRegion(r image.Rectangle, pix []byte) error {
	// The region-select command addresses inclusive edges.
	if err := d.sendCommand(cmdSelectRegion, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}
	if err := d.write(pix); err != nil {
		return err
	}
	d.pace(d.imageDelay)
	d.log.Debug().Stringer("region", r).Int("bytes", len(pix)).Msg("image written")
	return nil
}

// rasterize lowers the source region to the panel's wire raster: one
// big-endian 5-6-5 word per pixel, row-major. An aligned BigEndian
// source is reused without copying.
func rasterize(r image.Rectangle, src image.Image, sp image.Point) []byte {
	w, h := r.Dx(), r.Dy()
	if img, ok := src.(*image16bit.BigEndian); ok {
		if img.Rect.Min == sp && img.Rect.Dx() == w && img.Rect.Dy() == h && img.Stride == w*2 {
			return img.Pix
		}
	}
	buf := image16bit.NewBigEndian(image.Rect(0, 0, w, h))
	draw.Draw(buf, buf.Rect, src, sp, draw.Src)
	return buf.Pix
}

// toSerial converts any color to its packed wire value.
func toSerial(c color.Color) uint16 {
	return uint16(image16bit.RGB565Model.Convert(c).(image16bit.RGB565))
}

// splitPoints separates points encodable without an offset (both
// coordinates under 256) from those that need one. Near points are
// returned already encoded as (x, y) byte pairs.
func splitPoints(pts []image.Point) (near []byte, far []image.Point) {
	for _, p := range pts {
		if p.X < 256 && p.Y < 256 {
			near = append(near, byte(p.X), byte(p.Y))
		} else {
			far = append(far, p)
		}
	}
	return near, far
}

// offsetPoints encodes points relative to their minimum corner so each
// coordinate fits a single byte. Points spreading beyond a 256x256
// window cannot be encoded. pts must not be empty.
func offsetPoints(pts []image.Point) ([]byte, image.Point, error) {
	offset := pts[0]
	for _, p := range pts[1:] {
		if p.X < offset.X {
			offset.X = p.X
		}
		if p.Y < offset.Y {
			offset.Y = p.Y
		}
	}
	coords := make([]byte, 0, len(pts)*2)
	for _, p := range pts {
		if p.X-offset.X > 255 || p.Y-offset.Y > 255 {
			return nil, image.Point{}, ErrBoundsTooLarge
		}
		coords = append(coords, byte(p.X-offset.X), byte(p.Y-offset.Y))
	}
	return coords, offset, nil
}
