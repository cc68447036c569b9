// Package expression resolves procedural property expressions.
//
// Expressions are not a scripting language. They are a fixed menu of named
// generators with numeric arguments, e.g. "wiggle(5, 20)" or "time(360)".
// Anything outside the menu yields no result, so the owning property falls
// back to its keyframe track.
package expression

import (
	"strconv"
	"strings"

	"github.com/ivlev/motioncore/internal/animation"
)

func init() {
	animation.RegisterExpressionEvaluator(Evaluate)
}

// Evaluate resolves expr at the given time. The boolean reports whether the
// expression produced a value; false means the caller should fall back to
// keyframe interpolation.
func Evaluate(expr string, time float64) (animation.Value, bool) {
	name, args, ok := parseCall(expr)
	if !ok {
		return animation.Value{}, false
	}

	switch name {
	case "time":
		// time(scale): the timeline clock scaled by a factor.
		scale := argOr(args, 0, 1)
		return animation.Number(time * scale), true

	case "wiggle":
		// wiggle(freq, amp): smooth value-noise oscillation.
		freq := argOr(args, 0, 1)
		amp := argOr(args, 1, 1)
		return animation.Number(valueNoise(time*freq) * amp), true

	case "loop":
		// loop(period): normalized sawtooth over the period.
		period := argOr(args, 0, 1)
		if period <= 0 {
			return animation.Value{}, false
		}
		cycles := time / period
		return animation.Number(cycles - float64(int64(cycles))), true

	default:
		return animation.Value{}, false
	}
}

// parseCall splits "name(a, b)" into its name and numeric arguments.
func parseCall(expr string) (string, []float64, bool) {
	expr = strings.TrimSpace(expr)
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", nil, false
	}

	name := strings.TrimSpace(expr[:open])
	body := expr[open+1 : len(expr)-1]

	var args []float64
	if strings.TrimSpace(body) != "" {
		for _, part := range strings.Split(body, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return "", nil, false
			}
			args = append(args, v)
		}
	}
	return name, args, true
}

func argOr(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}

// valueNoise is a deterministic 1D noise in [-1,1]: hashed lattice values
// blended with a smoothstep. Deterministic so repeated evaluation of the
// same expression at the same time gives the same frame.
func valueNoise(x float64) float64 {
	xf := float64(int64(x))
	if x < xf {
		xf-- // floor for negative inputs
	}
	i := int64(xf)
	f := x - xf
	u := f * f * (3 - 2*f)

	a := noiseHash(i)
	b := noiseHash(i + 1)
	return a*(1-u) + b*u
}

func noiseHash(x int64) float64 {
	x = (x << 13) ^ x
	t := (x*(x*x*15731+789221) + 1376312589) & 0x7fffffff
	return 1 - float64(t)/1073741824.0
}
