// Package text is the stock text-layout collaborator: it renders a string
// to an RGBA buffer with a built-in bitmap face. Hosts with real typography
// plug their own render.TextLayouter instead.
package text

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// faceHeight is the pixel height of the built-in face.
const faceHeight = 13

// BasicLayouter lays text out with the fixed 7x13 basicfont face, scaled to
// the requested size. The font name is accepted for interface compatibility
// and ignored; white glyphs on a transparent background.
type BasicLayouter struct{}

// LayoutText renders content into a tight RGBA buffer.
func (BasicLayouter) LayoutText(content, _ string, size float64) (*image.RGBA, error) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, content).Ceil()
	if width <= 0 {
		width = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, faceHeight))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(content)

	if size <= 0 || size == faceHeight {
		return img, nil
	}

	// Scale the bitmap to the requested pixel height.
	scale := size / faceHeight
	outW := int(float64(width)*scale + 0.5)
	outH := int(size + 0.5)
	if outW <= 0 || outH <= 0 {
		return img, nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return scaled, nil
}
