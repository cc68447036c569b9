package easing

import (
	"github.com/fogleman/ease"
)

// Kind identifies an easing curve applied to normalized keyframe progress.
type Kind string

const (
	Linear           Kind = "linear"
	EaseIn           Kind = "ease-in"
	EaseOut          Kind = "ease-out"
	EaseInOut        Kind = "ease-in-out"
	EaseInBack       Kind = "ease-in-back"
	EaseOutBack      Kind = "ease-out-back"
	EaseInOutBack    Kind = "ease-in-out-back"
	EaseInElastic    Kind = "ease-in-elastic"
	EaseOutElastic   Kind = "ease-out-elastic"
	EaseInOutElastic Kind = "ease-in-out-elastic"
	EaseInBounce     Kind = "ease-in-bounce"
	EaseOutBounce    Kind = "ease-out-bounce"
	EaseInOutBounce  Kind = "ease-in-out-bounce"
	Custom           Kind = "custom"
)

// Point is a control point of a custom cubic Bezier curve.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Ease remaps linear progress t in [0,1] to eased progress. Callers clamp t
// before calling; the endpoints are pinned so every kind maps 0 to 0 and
// 1 to 1. Unknown kinds fall back to Linear. The Custom kind is evaluated
// through EaseCustom with no control points, i.e. Linear.
func Ease(kind Kind, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	switch kind {
	case Linear:
		return ease.Linear(t)
	case EaseIn:
		return ease.InQuad(t)
	case EaseOut:
		return ease.OutQuad(t)
	case EaseInOut:
		return ease.InOutQuad(t)
	case EaseInBack:
		return ease.InBack(t)
	case EaseOutBack:
		return ease.OutBack(t)
	case EaseInOutBack:
		return ease.InOutBack(t)
	case EaseInElastic:
		return ease.InElastic(t)
	case EaseOutElastic:
		return ease.OutElastic(t)
	case EaseInOutElastic:
		return ease.InOutElastic(t)
	case EaseInBounce:
		return 1 - outBounce(1-t)
	case EaseOutBounce:
		return outBounce(t)
	case EaseInOutBounce:
		if t < 0.5 {
			return (1 - outBounce(1-2*t)) / 2
		}
		return (1 + outBounce(2*t-1)) / 2
	case Custom:
		return EaseCustom(nil, t)
	default:
		return ease.Linear(t)
	}
}

// outBounce is the four-segment bounce polynomial with n1=7.5625, d1=2.75.
// The in and in-out variants derive from it by time reversal.
func outBounce(t float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// EaseCustom evaluates a custom cubic Bezier curve at parameter t. The curve
// runs from (0,0) to (1,1) through the two inner control points; the result
// is the curve's y at parameter t directly, without re-solving against x.
// Fewer than two control points degrades to Linear.
func EaseCustom(points []Point, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if len(points) < 2 {
		return t
	}

	u := 1 - t
	// Cubic Bernstein basis with fixed endpoints y0=0 and y3=1.
	return 3*u*u*t*points[0].Y + 3*u*t*t*points[1].Y + t*t*t
}
