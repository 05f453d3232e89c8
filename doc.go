// Package chipscreen controls a Turing / USB35INCHIPSV2 family smart
// screen over USB serial.
//
// These panels are 16-bit color TFT screens driven by a one-way framing
// protocol: the host streams fixed-layout command frames and raw pixel
// rasters, and never reads anything back. This driver implements the
// display.Drawer interface from periph.io on top of that protocol.
//
// # Screen Characteristics
//
// - 16-bit color, 5-6-5 RGB, sent high byte first
// - Common resolutions: 480×320, 800×480 and 1024×600
// - Portrait, landscape and the reversed variants, plus horizontal mirroring
// - Adjustable backlight (0-255)
// - Hardware-accelerated rectangle fill, bar graphs, line graphs and scattered pixel writes
// - Write-only: no acknowledgements, no readback
//
// # Hardware Connection
//
// The screen enumerates as a USB CDC serial port (115200 baud, 8N1, DTR
// asserted). FindPort locates it by the USB serial number the family
// reports, so no port name is needed:
//
//	dev, err := chipscreen.NewSerial("", nil)
//
// A specific port can be named instead, for example "/dev/ttyACM0" or
// "COM3".
//
// # Basic Usage
//
// Example of creating and using the screen:
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/chipscreen"
//		"github.com/flavioheleno/chipscreen/image16bit"
//	)
//
//	func main() {
//		// Locate and open the screen
//		dev, _ := chipscreen.NewSerial("", &chipscreen.Opts{
//			W: 800,
//			H: 480,
//			Orientation: chipscreen.ReverseLandscape,
//		})
//		defer dev.Close()
//
//		// Create an image in the screen's native color format
//		img := image16bit.NewBigEndian(dev.Bounds())
//
//		// Draw a horizontal red-to-black gradient
//		for y := 0; y < 480; y++ {
//			for x := 0; x < 800; x++ {
//				img.SetRGB565(x, y, image16bit.New(byte(255-x*255/800), 0, 0))
//			}
//		}
//
//		// Display the image
//		dev.Draw(dev.Bounds(), img, image.Point{})
//	}
//
// # Drawing
//
// Draw blits any image.Image onto a screen region, converting to the
// native color format on the fly; images already in image16bit.BigEndian
// form are sent without conversion. Write sends a prebuilt full-screen
// raster. The region must fit the screen entirely, there is no
// clipping.
//
// The remaining primitives run on the panel itself and avoid shipping a
// raster at all:
//
//	dev.DrawRectangle(image.Rect(0, 0, 32, 32), red)    // filled rectangle
//	dev.DrawPixels(blue, points)                        // scattered pixels
//	dev.DrawBarGraph(image.Pt(0, 300), fg, bg, samples) // one bar per sample
//	dev.DrawLineGraph(image.Pt(0, 300), fg, bg, samples)
//	dev.DrawText(nil, "hello", image.Pt(10, 10), white) // nil face = builtin 7x13
//
// Graph samples are bytes on the panel's own scale, drawn upward from
// the baseline y. Text accepts any golang.org/x/image/font.Face.
//
// # Colors
//
// The native color type is image16bit.RGB565. Standard Go colors are
// converted automatically; the packed form can be built directly:
//
//	red := image16bit.New(255, 0, 0)   // 0xF800
//	white := image16bit.New(255, 255, 255)
//
// # Pacing
//
// The protocol has no flow control, so the driver spaces frames out
// open-loop. The delays are configurable through Opts for panels or
// links that need more headroom:
//
//	dev, _ := chipscreen.NewSerial("", &chipscreen.Opts{
//		W: 800, H: 480,
//		FrameDelay: 10 * time.Millisecond,
//	})
//
// Shortening the defaults risks dropped frames on real hardware.
//
// # Session Lifecycle
//
// New (and NewSerial) start the session: the panel is asserted ready
// and the configured mirror and orientation are applied. Halt turns the
// panel off and Restart reboots its firmware; both end the session, and
// drawing returns ErrNotConnected until Startup is called again. After
// Restart the USB port may re-enumerate, so reopening with NewSerial is
// usually simpler than reusing the handle.
//
// # Logging
//
// The driver is silent by default. Pass a zerolog.Logger through Opts
// to see session events and per-operation debug output; frame-level
// writes are logged at trace level:
//
//	logger := zerolog.New(os.Stderr)
//	dev, _ := chipscreen.NewSerial("", &chipscreen.Opts{
//		W: 800, H: 480,
//		Logger: &logger,
//	})
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// It can be used with any periph.io tool or library expecting a
// display.Drawer.
package chipscreen
