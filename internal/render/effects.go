package render

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ivlev/motioncore/internal/animation"
	"github.com/ivlev/motioncore/internal/scene"
)

// applyEffects runs the layer's enabled effects in order, each with its
// parameters evaluated at the frame time. Unknown effect types are skipped:
// a bad effect degrades, it never fails the frame.
func (r *Renderer) applyEffects(buf *image.RGBA, effects []*scene.Effect, time float64) {
	for _, e := range effects {
		if e == nil || !e.Enabled {
			continue
		}
		switch e.Type {
		case "brightness":
			amount := e.Param("amount", time, animation.Number(0)).AsNumber(0)
			applyBrightness(buf, amount)
		case "tint":
			c := e.Param("color", time, animation.ColorValue(255, 255, 255, 255)).AsColor(animation.Color{R: 255, G: 255, B: 255, A: 255})
			amount := e.Param("amount", time, animation.Number(1)).AsNumber(1)
			applyTint(buf, c, amount)
		case "hue-rotate":
			degrees := e.Param("degrees", time, animation.Number(0)).AsNumber(0)
			applyHueRotate(buf, degrees)
		case "blur":
			radius := e.Param("radius", time, animation.Number(0)).AsNumber(0)
			applyBoxBlur(buf, int(radius))
		case "fill":
			c := e.Param("color", time, animation.ColorValue(255, 255, 255, 255)).AsColor(animation.Color{R: 255, G: 255, B: 255, A: 255})
			applyFill(buf, c)
		default:
			r.warnf("[!] Unknown effect type %q skipped", e.Type)
		}
	}
}

// applyBrightness shifts every color channel by amount in [-1,1].
func applyBrightness(buf *image.RGBA, amount float64) {
	delta := amount * 255
	for i := 0; i < len(buf.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			buf.Pix[i+c] = clamp8(float64(buf.Pix[i+c]) + delta)
		}
	}
}

// applyTint blends every opaque pixel toward the tint color by amount.
func applyTint(buf *image.RGBA, tint animation.Color, amount float64) {
	if amount <= 0 {
		return
	}
	if amount > 1 {
		amount = 1
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		if buf.Pix[i+3] == 0 {
			continue
		}
		buf.Pix[i+0] = clamp8((1-amount)*float64(buf.Pix[i+0]) + amount*float64(tint.R))
		buf.Pix[i+1] = clamp8((1-amount)*float64(buf.Pix[i+1]) + amount*float64(tint.G))
		buf.Pix[i+2] = clamp8((1-amount)*float64(buf.Pix[i+2]) + amount*float64(tint.B))
	}
}

// applyHueRotate rotates pixel hues in HCL space, which keeps perceived
// lightness stable across the rotation.
func applyHueRotate(buf *image.RGBA, degrees float64) {
	if degrees == 0 {
		return
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		if buf.Pix[i+3] == 0 {
			continue
		}
		col := colorful.Color{
			R: float64(buf.Pix[i+0]) / 255,
			G: float64(buf.Pix[i+1]) / 255,
			B: float64(buf.Pix[i+2]) / 255,
		}
		h, c, l := col.Hcl()
		rotated := colorful.Hcl(math.Mod(h+degrees, 360), c, l).Clamped()
		r8, g8, b8 := rotated.RGB255()
		buf.Pix[i+0], buf.Pix[i+1], buf.Pix[i+2] = r8, g8, b8
	}
}

// applyBoxBlur runs a separable box blur with the given pixel radius.
func applyBoxBlur(buf *image.RGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := make([]byte, len(buf.Pix))
	copy(tmp, buf.Pix)

	// Horizontal pass into tmp, vertical pass back into buf.
	boxPass(buf.Pix, tmp, w, h, buf.Stride, radius, true)
	boxPass(tmp, buf.Pix, w, h, buf.Stride, radius, false)
}

func boxPass(src, dst []byte, w, h, stride, radius int, horizontal bool) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			count := 0
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx += k
				} else {
					sy += k
				}
				if sx < 0 || sx >= w || sy < 0 || sy >= h {
					continue
				}
				off := sy*stride + sx*4
				for c := 0; c < 4; c++ {
					sum[c] += int(src[off+c])
				}
				count++
			}
			off := y*stride + x*4
			for c := 0; c < 4; c++ {
				dst[off+c] = uint8(sum[c] / count)
			}
		}
	}
}

// applyFill replaces the color of every covered pixel, keeping alpha.
func applyFill(buf *image.RGBA, c animation.Color) {
	for i := 0; i < len(buf.Pix); i += 4 {
		if buf.Pix[i+3] == 0 {
			continue
		}
		buf.Pix[i+0], buf.Pix[i+1], buf.Pix[i+2] = c.R, c.G, c.B
	}
}
