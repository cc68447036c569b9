package render

import (
	"image"
	"math"

	"github.com/ivlev/motioncore/internal/animation"
	"github.com/ivlev/motioncore/internal/scene"
)

// drawShapes rasterizes a shape layer's vector elements into dst. Fill and
// stroke styles are animatable; elements draw in list order.
func drawShapes(dst *image.RGBA, elements []*scene.ShapeElement, time float64) {
	for _, el := range elements {
		if el == nil {
			continue
		}
		if el.Fill != nil {
			fillColor := evalColor(el.Fill.Color, time, animation.Color{R: 255, G: 255, B: 255, A: 255})
			fillColor.A = scaleAlpha(fillColor.A, evalNumber(el.Fill.Opacity, time, 1))
			fillShape(dst, el, fillColor)
		}
		if el.Stroke != nil {
			strokeColor := evalColor(el.Stroke.Color, time, animation.Color{A: 255})
			width := evalNumber(el.Stroke.Width, time, 1)
			strokeShape(dst, el, strokeColor, width)
		}
	}
}

// shapeDistance reports the signed distance from point (px,py) to the
// element's outline, negative inside. Polygon and star distances are
// approximated from the radial profile, which is exact enough for fills and
// thin strokes.
func shapeDistance(el *scene.ShapeElement, px, py float64) float64 {
	dx := px - el.Position[0]
	dy := py - el.Position[1]

	switch el.Kind {
	case scene.ShapeEllipse:
		halfW, halfH := el.Width/2, el.Height/2
		if halfW <= 0 || halfH <= 0 {
			return 1
		}
		nx, ny := dx/halfW, dy/halfH
		return (math.Sqrt(nx*nx+ny*ny) - 1) * math.Min(halfW, halfH)

	case scene.ShapePolygon:
		n := el.Points
		if n < 3 {
			n = 3
		}
		return radialDistance(dx, dy, polygonRadius(n, el.Radius, math.Atan2(dy, dx)))

	case scene.ShapeStar:
		n := el.Points
		if n < 2 {
			n = 2
		}
		return radialDistance(dx, dy, starRadius(n, el.InnerRadius, el.OuterRadius, math.Atan2(dy, dx)))

	default: // rect, optionally rounded
		halfW, halfH := el.Width/2, el.Height/2
		r := el.Rounded
		if r > 0 {
			if r > halfW {
				r = halfW
			}
			if r > halfH {
				r = halfH
			}
			qx := math.Abs(dx) - (halfW - r)
			qy := math.Abs(dy) - (halfH - r)
			outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
			inside := math.Min(math.Max(qx, qy), 0)
			return outside + inside - r
		}
		return math.Max(math.Abs(dx)-halfW, math.Abs(dy)-halfH)
	}
}

func radialDistance(dx, dy, edgeRadius float64) float64 {
	return math.Hypot(dx, dy) - edgeRadius
}

// polygonRadius is the distance from center to the regular polygon's edge
// along the given angle.
func polygonRadius(points int, radius, angle float64) float64 {
	if radius <= 0 {
		return 0
	}
	seg := 2 * math.Pi / float64(points)
	a := math.Mod(angle, seg)
	if a < 0 {
		a += seg
	}
	a -= seg / 2
	return radius * math.Cos(seg/2) / math.Cos(a)
}

// starRadius alternates between the outer and inner radii across the star's
// points, blending linearly in between.
func starRadius(points int, inner, outer, angle float64) float64 {
	seg := math.Pi / float64(points)
	a := math.Mod(angle, 2*seg)
	if a < 0 {
		a += 2 * seg
	}
	t := math.Abs(a-seg) / seg // 1 at the outer spike, 0 at the inner notch
	return inner + (outer-inner)*t
}

func fillShape(dst *image.RGBA, el *scene.ShapeElement, c animation.Color) {
	if c.A == 0 {
		return
	}
	forEachShapePixel(dst, el, 0, func(off int, dist float64) {
		if dist <= 0 {
			blendPixel(dst.Pix[off:off+4], c)
		}
	})
}

func strokeShape(dst *image.RGBA, el *scene.ShapeElement, c animation.Color, width float64) {
	if c.A == 0 || width <= 0 {
		return
	}
	half := width / 2
	forEachShapePixel(dst, el, half, func(off int, dist float64) {
		if math.Abs(dist) <= half {
			blendPixel(dst.Pix[off:off+4], c)
		}
	})
}

// forEachShapePixel visits each pixel of the element's padded bounding box
// with its signed distance to the outline.
func forEachShapePixel(dst *image.RGBA, el *scene.ShapeElement, pad float64, fn func(off int, dist float64)) {
	b := dst.Bounds()
	extent := math.Max(math.Max(el.Width, el.Height)/2, math.Max(el.Radius, el.OuterRadius)) + pad + 1

	minX := clampInt(int(el.Position[0]-extent), b.Min.X, b.Max.X)
	maxX := clampInt(int(el.Position[0]+extent)+1, b.Min.X, b.Max.X)
	minY := clampInt(int(el.Position[1]-extent), b.Min.Y, b.Max.Y)
	maxY := clampInt(int(el.Position[1]+extent)+1, b.Min.Y, b.Max.Y)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			dist := shapeDistance(el, float64(x)+0.5, float64(y)+0.5)
			fn(dst.PixOffset(x, y), dist)
		}
	}
}

// blendPixel does a straight-alpha over of c onto the 4-byte pixel px.
func blendPixel(px []byte, c animation.Color) {
	if c.A == 255 {
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
		return
	}
	a := float64(c.A) / 255
	px[0] = clamp8((1-a)*float64(px[0]) + a*float64(c.R))
	px[1] = clamp8((1-a)*float64(px[1]) + a*float64(c.G))
	px[2] = clamp8((1-a)*float64(px[2]) + a*float64(c.B))
	outA := clamp8(((1-a)*float64(px[3])/255 + a) * 255)
	if outA > px[3] {
		px[3] = outA
	}
}

func evalColor(p *animation.Property, time float64, def animation.Color) animation.Color {
	if p == nil {
		return def
	}
	return p.EvaluateAt(time).AsColor(def)
}

func scaleAlpha(a uint8, f float64) uint8 {
	return clamp8(float64(a) * f)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
