package render

import (
	"image"
	"math"

	"github.com/ivlev/motioncore/internal/scene"
)

// blendChannel applies the per-channel blend formula for mode on normalized
// source and backdrop values in [0,1].
func blendChannel(mode scene.BlendMode, src, dst float64) float64 {
	switch mode {
	case scene.BlendMultiply:
		return src * dst
	case scene.BlendScreen:
		return 1 - (1-src)*(1-dst)
	case scene.BlendOverlay:
		if dst < 0.5 {
			return 2 * src * dst
		}
		return 1 - 2*(1-src)*(1-dst)
	case scene.BlendAdd:
		v := src + dst
		if v > 1 {
			return 1
		}
		return v
	case scene.BlendDifference:
		return math.Abs(src - dst)
	default:
		return src
	}
}

// composite accumulates src onto dst using the layer's blend mode, with
// straight-alpha over semantics. The destination's alpha never decreases:
// a low-alpha layer cannot erase content already present.
func composite(dst, src *image.RGBA, mode scene.BlendMode) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		di := dst.PixOffset(b.Min.X, y)
		si := src.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, di, si = x+1, di+4, si+4 {
			sa := src.Pix[si+3]
			if sa == 0 {
				continue
			}

			if mode == scene.BlendNormal && sa == 255 {
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
				continue
			}

			a := float64(sa) / 255
			for c := 0; c < 3; c++ {
				sc := float64(src.Pix[si+c]) / 255
				dc := float64(dst.Pix[di+c]) / 255
				blended := blendChannel(mode, sc, dc)
				out := (1-a)*dc + a*blended
				dst.Pix[di+c] = clamp8(out * 255)
			}

			da := float64(dst.Pix[di+3]) / 255
			outA := clamp8(((1-a)*da + a) * 255)
			if outA > dst.Pix[di+3] {
				dst.Pix[di+3] = outA
			}
		}
	}
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
