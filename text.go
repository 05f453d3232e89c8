package chipscreen

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawText renders s in face with its top-left corner at p and sets
// every covered pixel to c through the pixel dispatch path. A nil face
// selects the builtin 7x13 face.
//
// Coverage is thresholded at nonzero rather than blended: the panel
// cannot be read back, so anti-aliased edges are set or skipped, never
// mixed with what is already on screen.
func (d *Dev) DrawText(face font.Face, s string, p image.Point, c color.Color) error {
	if face == nil {
		face = basicfont.Face7x13
	}

	m := face.Metrics()
	fd := font.Drawer{
		Src:  image.White,
		Face: face,
	}
	w := fd.MeasureString(s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	if w <= 0 || h <= 0 {
		return nil
	}

	coverage := image.NewGray(image.Rect(0, 0, w, h))
	fd.Dst = coverage
	fd.Dot = fixed.P(0, m.Ascent.Ceil())
	fd.DrawString(s)

	var pts []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if coverage.GrayAt(x, y).Y != 0 {
				pts = append(pts, image.Pt(p.X+x, p.Y+y))
			}
		}
	}
	return d.DrawPixels(c, pts)
}
