// Package image16bit provides the 16-bit RGB565 pixel format used by the
// chipscreen panel family.
//
// The panel stores one pixel per 16-bit word in 5-6-5 layout (5 bits red,
// 6 bits green, 5 bits blue) and expects the high byte of each word first.
//
// Memory layout example for a 2-pixel row of pure red (255, 0, 0):
//
//	Pixels: 0           1
//	Words:  0xF800      0xF800
//	Bytes:  0xF8 0x00   0xF8 0x00
//
// This package provides:
//
// - RGB565: a packed 16-bit color type
// - RGB565Model: a color model converting standard Go colors to RGB565
// - BigEndian: a draw.Image whose Pix buffer is the panel's wire raster
//
// Example usage:
//
//	// Create an 800x480 image
//	img := image16bit.NewBigEndian(image.Rect(0, 0, 800, 480))
//
//	// Set a pixel to pure red
//	img.SetRGB565(10, 20, image16bit.New(255, 0, 0))
//
//	// Get a pixel back
//	c := img.RGB565At(10, 20)
//
//	// Use with standard Go image operations
//	draw.Draw(img, img.Bounds(), image.NewUniform(image16bit.New(0, 0, 255)), image.Point{}, draw.Src)
package image16bit
