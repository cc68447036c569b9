package animation

import (
	"sort"

	"github.com/ivlev/motioncore/internal/easing"
)

// Interpolation selects how a keyframe blends toward its successor.
type Interpolation string

const (
	InterpLinear Interpolation = "linear"
	InterpBezier Interpolation = "bezier"
	InterpHold   Interpolation = "hold"
)

// removeEpsilon is the time tolerance used when removing keyframes.
const removeEpsilon = 1e-3

// Keyframe anchors a property's value at a point in time.
type Keyframe struct {
	Time          float64        `yaml:"time"`
	Value         Value          `yaml:"value"`
	Easing        easing.Kind    `yaml:"easing,omitempty"`
	EasingPoints  []easing.Point `yaml:"easing_points,omitempty"`
	Interpolation Interpolation  `yaml:"interpolation,omitempty"`
	InTangent     *[2]float64    `yaml:"in_tangent,omitempty,flow"`
	OutTangent    *[2]float64    `yaml:"out_tangent,omitempty,flow"`
}

// Property is a single animatable attribute: an ordered keyframe track plus
// an optional procedural expression. Keyframe times are unique and ascending
// at all times; inserting at an existing time replaces that keyframe.
//
// A present expression takes precedence over the track: it is evaluated
// first and the keyframes only apply when the expression yields no result.
type Property struct {
	Name       string     `yaml:"name,omitempty"`
	Default    Value      `yaml:"default,omitempty"`
	Keyframes  []Keyframe `yaml:"keyframes,omitempty"`
	Expression string     `yaml:"expression,omitempty"`
}

// NewProperty creates a property with no keyframes that evaluates to def.
func NewProperty(name string, def Value) *Property {
	return &Property{Name: name, Default: def}
}

// exprEvaluator resolves procedural expressions. The expression package
// installs the default implementation; hosts may swap in their own.
var exprEvaluator func(expr string, time float64) (Value, bool)

// RegisterExpressionEvaluator sets the evaluator consulted for properties
// that carry an expression.
func RegisterExpressionEvaluator(fn func(expr string, time float64) (Value, bool)) {
	exprEvaluator = fn
}

// EvaluateAt resolves the property's value at the given time.
func (p *Property) EvaluateAt(time float64) Value {
	if p.Expression != "" && exprEvaluator != nil {
		if v, ok := exprEvaluator(p.Expression, time); ok {
			return v
		}
	}

	kfs := p.Keyframes
	switch len(kfs) {
	case 0:
		return p.Default
	case 1:
		return kfs[0].Value
	}

	// No extrapolation outside the track.
	if time <= kfs[0].Time {
		return kfs[0].Value
	}
	if time >= kfs[len(kfs)-1].Time {
		return kfs[len(kfs)-1].Value
	}

	// Tightest bracketing pair: prev.Time <= time < next.Time.
	i := sort.Search(len(kfs), func(i int) bool { return kfs[i].Time > time })
	prev, next := kfs[i-1], kfs[i]

	t := (time - prev.Time) / (next.Time - prev.Time)
	var eased float64
	if prev.Easing == easing.Custom {
		eased = easing.EaseCustom(prev.EasingPoints, t)
	} else {
		eased = easing.Ease(prev.Easing, t)
	}

	if prev.Interpolation == InterpHold {
		return prev.Value
	}
	return prev.Value.Lerp(next.Value, eased)
}

// AddKeyframe inserts a keyframe preserving ascending time order. A keyframe
// already present at exactly the same time is replaced.
func (p *Property) AddKeyframe(kf Keyframe) {
	if kf.Easing == "" {
		kf.Easing = easing.EaseInOut
	}
	if kf.Interpolation == "" {
		kf.Interpolation = InterpBezier
	}

	i := sort.Search(len(p.Keyframes), func(i int) bool { return p.Keyframes[i].Time >= kf.Time })
	if i < len(p.Keyframes) && p.Keyframes[i].Time == kf.Time {
		p.Keyframes[i] = kf
		return
	}
	p.Keyframes = append(p.Keyframes, Keyframe{})
	copy(p.Keyframes[i+1:], p.Keyframes[i:])
	p.Keyframes[i] = kf
}

// SetKeyframe is a convenience wrapper adding a keyframe with default easing
// and interpolation.
func (p *Property) SetKeyframe(time float64, v Value) {
	p.AddKeyframe(Keyframe{Time: time, Value: v})
}

// RemoveKeyframe removes any keyframe within a small epsilon of time.
func (p *Property) RemoveKeyframe(time float64) {
	kept := p.Keyframes[:0]
	for _, kf := range p.Keyframes {
		if diff := kf.Time - time; diff > removeEpsilon || diff < -removeEpsilon {
			kept = append(kept, kf)
		}
	}
	p.Keyframes = kept
}
