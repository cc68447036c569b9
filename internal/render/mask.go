package render

import (
	"image"
	"math"

	"github.com/ivlev/motioncore/internal/animation"
	"github.com/ivlev/motioncore/internal/scene"
)

// applyMasks combines the layer's mask stack into a running coverage and
// multiplies it into buf's alpha channel. Coverage starts empty; a leading
// subtract, intersect or difference mask operates on a fully opaque base.
func applyMasks(buf *image.RGBA, masks []*scene.Mask, time float64) {
	// Nil entries are malformed data and contribute nothing; a list of only
	// nils must not zero the layer out.
	var active []*scene.Mask
	for _, m := range masks {
		if m != nil {
			active = append(active, m)
		}
	}
	if len(active) == 0 {
		return
	}

	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	running := make([]float64, w*h)

	for i, m := range active {
		cov := maskCoverage(m, w, h, time)
		for j := range running {
			c := cov[j]
			switch m.Mode {
			case scene.MaskSubtract:
				if i == 0 {
					running[j] = 1 - c
				} else {
					running[j] = math.Max(0, running[j]-c)
				}
			case scene.MaskIntersect:
				if i == 0 {
					running[j] = c
				} else {
					running[j] *= c
				}
			case scene.MaskDiff:
				if i == 0 {
					running[j] = c
				} else {
					running[j] = math.Abs(running[j] - c)
				}
			default: // add
				running[j] = math.Min(1, running[j]+c)
			}
		}
	}

	for y := 0; y < h; y++ {
		off := buf.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			a := float64(buf.Pix[off+3]) * running[y*w+x]
			buf.Pix[off+3] = clamp8(a)
			off += 4
		}
	}
}

// maskCoverage rasterizes one mask's animated outline to per-pixel coverage
// in [0,1]. Feather is a linear falloff, in pixels, measured from the
// expanded outline inward and outward; Expansion grows (negative: shrinks)
// the outline; Opacity scales the whole mask.
func maskCoverage(m *scene.Mask, w, h int, time float64) []float64 {
	cx, cy := 0.0, 0.0
	if m.Center != nil {
		cx, cy = m.Center.EvaluateAt(time).AsVector2(0, 0)
	}
	sw, sh := 0.0, 0.0
	if m.Size != nil {
		sw, sh = m.Size.EvaluateAt(time).AsVector2(0, 0)
	}
	feather := evalNumber(m.Feather, time, 0)
	opacity := evalNumber(m.Opacity, time, 1)
	expansion := evalNumber(m.Expansion, time, 0)

	halfW := sw/2 + expansion
	halfH := sh/2 + expansion

	cov := make([]float64, w*h)
	if halfW <= 0 || halfH <= 0 || opacity <= 0 {
		return cov
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5

			// Signed distance to the outline, negative inside.
			var dist float64
			switch m.Shape {
			case scene.MaskEllipse:
				nx := (px - cx) / halfW
				ny := (py - cy) / halfH
				r := math.Sqrt(nx*nx + ny*ny)
				// Approximate pixel distance along the shorter axis.
				dist = (r - 1) * math.Min(halfW, halfH)
			default: // rect
				dx := math.Abs(px-cx) - halfW
				dy := math.Abs(py-cy) - halfH
				dist = math.Max(dx, dy)
			}

			var c float64
			switch {
			case feather <= 0:
				if dist <= 0 {
					c = 1
				}
			case dist <= -feather:
				c = 1
			case dist >= feather:
				c = 0
			default:
				c = 0.5 - dist/(2*feather)
			}
			cov[y*w+x] = c * opacity
		}
	}
	return cov
}

// applyTrackMatte multiplies the referenced layer's alpha or luma channel
// into buf's alpha. matte is the matte layer's already-rendered buffer.
func applyTrackMatte(buf, matte *image.RGBA, matteType scene.MatteType) {
	b := buf.Bounds().Intersect(matte.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		bi := buf.PixOffset(b.Min.X, y)
		mi := matte.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, bi, mi = x+1, bi+4, mi+4 {
			var v float64
			switch matteType {
			case scene.MatteLuma, scene.MatteLumaInverted:
				// Rec.601 luma weights.
				v = (0.299*float64(matte.Pix[mi]) +
					0.587*float64(matte.Pix[mi+1]) +
					0.114*float64(matte.Pix[mi+2])) / 255
			default:
				v = float64(matte.Pix[mi+3]) / 255
			}
			if matteType == scene.MatteAlphaInverted || matteType == scene.MatteLumaInverted {
				v = 1 - v
			}
			buf.Pix[bi+3] = clamp8(float64(buf.Pix[bi+3]) * v)
		}
	}
}

func evalNumber(p *animation.Property, time, def float64) float64 {
	if p == nil {
		return def
	}
	return p.EvaluateAt(time).AsNumber(def)
}
