package animation

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ValueKind tags the variant held by a Value.
type ValueKind string

const (
	KindNumber  ValueKind = "number"
	KindVector2 ValueKind = "vector2"
	KindVector3 ValueKind = "vector3"
	KindColor   ValueKind = "color"
	KindBoolean ValueKind = "boolean"
	KindText    ValueKind = "text"
)

// Color is an 8-bit RGBA color. It round-trips through YAML as a #rrggbbaa
// hex string.
type Color struct {
	R, G, B, A uint8
}

// Hex renders the color as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return c.parseHex(s)
}

func (c *Color) parseHex(s string) error {
	if len(s) == 9 && s[0] == '#' {
		var r, g, b, a uint8
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return fmt.Errorf("invalid color %q: %w", s, err)
		}
		*c = Color{R: r, G: g, B: b, A: a}
		return nil
	}

	// Plain #rrggbb, parsed through go-colorful, implies full alpha.
	col, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	*c = Color{R: r, G: g, B: b, A: 255}
	return nil
}

// ParseColor parses a #rrggbb or #rrggbbaa hex string.
func ParseColor(s string) (Color, error) {
	var c Color
	err := c.parseHex(s)
	return c, err
}

// Value is the closed variant a property evaluates to. Exactly the fields
// implied by Kind are meaningful; the rest stay at their zero value.
type Value struct {
	Kind  ValueKind  `yaml:"kind"`
	Num   float64    `yaml:"num,omitempty"`
	Vec   [3]float64 `yaml:"vec,omitempty,flow"`
	Color Color      `yaml:"color,omitempty"`
	Bool  bool       `yaml:"bool,omitempty"`
	Text  string     `yaml:"text,omitempty"`
}

func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

func Vector2(x, y float64) Value {
	return Value{Kind: KindVector2, Vec: [3]float64{x, y, 0}}
}

func Vector3(x, y, z float64) Value {
	return Value{Kind: KindVector3, Vec: [3]float64{x, y, z}}
}

func ColorValue(r, g, b, a uint8) Value {
	return Value{Kind: KindColor, Color: Color{R: r, G: g, B: b, A: a}}
}

func Boolean(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Lerp interpolates per-component from v toward other at eased progress t.
// Interpolation is defined only between values of the same kind; a kind
// mismatch holds v unchanged. Boolean and Text also hold, they have no
// meaningful blend. Color channels are interpolated independently and
// rounded to the nearest channel value.
func (v Value) Lerp(other Value, t float64) Value {
	if v.Kind != other.Kind {
		return v
	}

	switch v.Kind {
	case KindNumber:
		return Number(lerp(v.Num, other.Num, t))
	case KindVector2:
		return Vector2(lerp(v.Vec[0], other.Vec[0], t), lerp(v.Vec[1], other.Vec[1], t))
	case KindVector3:
		return Vector3(
			lerp(v.Vec[0], other.Vec[0], t),
			lerp(v.Vec[1], other.Vec[1], t),
			lerp(v.Vec[2], other.Vec[2], t),
		)
	case KindColor:
		return Value{Kind: KindColor, Color: Color{
			R: lerpChannel(v.Color.R, other.Color.R, t),
			G: lerpChannel(v.Color.G, other.Color.G, t),
			B: lerpChannel(v.Color.B, other.Color.B, t),
			A: lerpChannel(v.Color.A, other.Color.A, t),
		}}
	default:
		return v
	}
}

// AsNumber reports the numeric payload, falling back to def for other kinds.
func (v Value) AsNumber(def float64) float64 {
	if v.Kind == KindNumber {
		return v.Num
	}
	return def
}

// AsVector2 reports the first two vector components, falling back to the
// given defaults for non-vector kinds.
func (v Value) AsVector2(defX, defY float64) (float64, float64) {
	if v.Kind == KindVector2 || v.Kind == KindVector3 {
		return v.Vec[0], v.Vec[1]
	}
	return defX, defY
}

// AsColor reports the color payload, falling back to def for other kinds.
func (v Value) AsColor(def Color) Color {
	if v.Kind == KindColor {
		return v.Color
	}
	return def
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpChannel(a, b uint8, t float64) uint8 {
	f := math.Round(float64(a) + (float64(b)-float64(a))*t)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}
