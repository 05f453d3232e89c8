package image16bit

import (
	"image"
	"image/color"
)

// RGB565 is a packed 16-bit color: 5 bits red, 6 bits green, 5 bits blue.
// The value is exactly the word the panel expects on the wire.
type RGB565 uint16

// New packs an 8-bit RGB triple into RGB565. The low bits of each channel
// are discarded, so the mapping is lossy but deterministic.
func New(r, g, b uint8) RGB565 {
	return RGB565(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// RGBA converts the RGB565 color to standard RGBA.
// Each channel's high bits are replicated into the vacated low bits so
// full-scale 5/6-bit values map to full-scale 16-bit channels.
func (c RGB565) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c >> 11 & 0x1F)
	g6 := uint32(c >> 5 & 0x3F)
	b5 := uint32(c & 0x1F)
	r = (r5<<3 | r5>>2) * 0x101
	g = (g6<<2 | g6>>4) * 0x101
	b = (b5<<3 | b5>>2) * 0x101
	return r, g, b, 0xFFFF
}

// toRGB565 converts any color.Color to RGB565.
func toRGB565(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return New(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGB565Model converts colors to RGB565.
var RGB565Model = color.ModelFunc(toRGB565)

// BigEndian is an RGB565 image storing one 16-bit word per pixel, high
// byte first. Pix is byte-for-byte the raster the panel consumes, so it
// can be handed to the transport without conversion.
type BigEndian struct {
	Pix    []byte          // Pixel data (2 bytes per pixel, high byte first)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewBigEndian creates a new BigEndian image with the specified bounds.
func NewBigEndian(r image.Rectangle) *BigEndian {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &BigEndian{Rect: r}
	}
	stride := w * 2
	return &BigEndian{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *BigEndian) ColorModel() color.Model {
	return RGB565Model
}

// Bounds returns the image bounds.
func (p *BigEndian) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *BigEndian) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the RGB565 color of the pixel at (x, y).
func (p *BigEndian) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGB565(uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1]))
}

// Set sets the color of the pixel at (x, y).
func (p *BigEndian) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, RGB565Model.Convert(c).(RGB565))
}

// SetRGB565 sets the RGB565 color of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *BigEndian) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = byte(c >> 8)
	p.Pix[i+1] = byte(c)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *BigEndian) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
