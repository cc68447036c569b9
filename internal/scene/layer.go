package scene

import (
	"github.com/ivlev/motioncore/internal/animation"
)

// LayerType classifies what a layer draws.
type LayerType string

const (
	LayerShape    LayerType = "shape"
	LayerText     LayerType = "text"
	LayerImage    LayerType = "image"
	LayerVideo    LayerType = "video"
	LayerAudio    LayerType = "audio"
	LayerSolid    LayerType = "solid"
	LayerNull     LayerType = "null"
	LayerCamera3D LayerType = "camera3d"
	LayerLight3D  LayerType = "light3d"
	LayerPrecomp  LayerType = "precomp"
	LayerParticle LayerType = "particles"
)

// BlendMode selects the per-channel combination formula used when
// compositing a layer onto the accumulated frame.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendAdd        BlendMode = "add" // linear dodge
	BlendDifference BlendMode = "difference"
)

// MatteType selects which channel of the matte layer drives the alpha.
type MatteType string

const (
	MatteAlpha         MatteType = "alpha"
	MatteAlphaInverted MatteType = "alpha-inverted"
	MatteLuma          MatteType = "luma"
	MatteLumaInverted  MatteType = "luma-inverted"
)

// TrackMatte borrows another layer's alpha or luma channel as this layer's
// alpha mask. The reference is by layer id, resolved at render time; a
// dangling reference degrades to no matte.
type TrackMatte struct {
	LayerID string    `yaml:"layer_id"`
	Type    MatteType `yaml:"type"`
}

// MaskMode combines a mask's coverage into the layer's running alpha.
type MaskMode string

const (
	MaskAdd       MaskMode = "add"
	MaskSubtract  MaskMode = "subtract"
	MaskIntersect MaskMode = "intersect"
	MaskDiff      MaskMode = "difference"
)

// MaskShape is the parametric outline a mask rasterizes.
type MaskShape string

const (
	MaskRect    MaskShape = "rect"
	MaskEllipse MaskShape = "ellipse"
)

// Mask is an animated region combined into the layer's alpha channel.
// Center and Size are vector2 properties in composition pixels; Feather is
// an edge falloff in pixels, Expansion grows (or shrinks, when negative)
// the outline, Opacity scales the mask's coverage.
type Mask struct {
	ID        string              `yaml:"id,omitempty"`
	Mode      MaskMode            `yaml:"mode"`
	Shape     MaskShape           `yaml:"shape"`
	Center    *animation.Property `yaml:"center,omitempty"`
	Size      *animation.Property `yaml:"size,omitempty"`
	Feather   *animation.Property `yaml:"feather,omitempty"`
	Opacity   *animation.Property `yaml:"opacity,omitempty"`
	Expansion *animation.Property `yaml:"expansion,omitempty"`
}

// Effect is a pixel-space adjustment applied after content generation.
// Parameters live in an open map because effect types are genuinely
// dynamic; everything else on a layer uses the fixed transform schema.
type Effect struct {
	ID      string                         `yaml:"id,omitempty"`
	Type    string                         `yaml:"type"`
	Enabled bool                           `yaml:"enabled"`
	Params  map[string]*animation.Property `yaml:"params,omitempty"`
}

// Param returns the named parameter evaluated at time, or def when the
// parameter is absent.
func (e *Effect) Param(name string, time float64, def animation.Value) animation.Value {
	p, ok := e.Params[name]
	if !ok || p == nil {
		return def
	}
	return p.EvaluateAt(time)
}

// Transform is the fixed animatable transform schema every layer carries.
type Transform struct {
	Position *animation.Property `yaml:"position,omitempty"` // vector2, comp pixels
	Anchor   *animation.Property `yaml:"anchor,omitempty"`   // vector2, content pixels
	Scale    *animation.Property `yaml:"scale,omitempty"`    // vector2, multiplier
	Rotation *animation.Property `yaml:"rotation,omitempty"` // number, degrees
	Opacity  *animation.Property `yaml:"opacity,omitempty"`  // number, 0..1
}

// FillStyle paints a shape interior.
type FillStyle struct {
	Color   *animation.Property `yaml:"color,omitempty"`
	Opacity *animation.Property `yaml:"opacity,omitempty"`
}

// StrokeStyle paints a shape outline.
type StrokeStyle struct {
	Color *animation.Property `yaml:"color,omitempty"`
	Width *animation.Property `yaml:"width,omitempty"`
}

// ShapeKind selects the vector outline of a shape element.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
	ShapePolygon ShapeKind = "polygon"
	ShapeStar    ShapeKind = "star"
)

// ShapeElement is one vector primitive of a shape layer, drawn in content
// coordinates centered on the element's position.
type ShapeElement struct {
	Kind        ShapeKind    `yaml:"kind"`
	Width       float64      `yaml:"width,omitempty"`
	Height      float64      `yaml:"height,omitempty"`
	Rounded     float64      `yaml:"rounded,omitempty"`
	Points      int          `yaml:"points,omitempty"`
	Radius      float64      `yaml:"radius,omitempty"`
	InnerRadius float64      `yaml:"inner_radius,omitempty"`
	OuterRadius float64      `yaml:"outer_radius,omitempty"`
	Position    [2]float64   `yaml:"position,omitempty,flow"`
	Fill        *FillStyle   `yaml:"fill,omitempty"`
	Stroke      *StrokeStyle `yaml:"stroke,omitempty"`
}

// Content carries the per-type payload of a layer. Exactly one field is set
// for the types that draw; Null, Audio, Camera3D and Light3D have none.
type Content struct {
	Solid     *SolidContent    `yaml:"solid,omitempty"`
	Shape     *ShapeContent    `yaml:"shape,omitempty"`
	Text      *TextContent     `yaml:"text,omitempty"`
	Image     *SourceContent   `yaml:"image,omitempty"`
	Video     *SourceContent   `yaml:"video,omitempty"`
	Precomp   *PrecompContent  `yaml:"precomp,omitempty"`
	Particles *ParticleContent `yaml:"particles,omitempty"`
}

// SolidContent fills the whole composition with an animatable color.
type SolidContent struct {
	Color *animation.Property `yaml:"color"`
}

// ShapeContent draws a list of vector elements.
type ShapeContent struct {
	Elements []*ShapeElement `yaml:"elements"`
}

// TextContent is laid out by the host's text collaborator.
type TextContent struct {
	Content string  `yaml:"content"`
	Font    string  `yaml:"font,omitempty"`
	Size    float64 `yaml:"size,omitempty"`
}

// SourceContent references media decoded by the host's content source.
type SourceContent struct {
	Source string `yaml:"source"`
}

// PrecompContent embeds another composition by id. This is the one
// legitimate recursive relationship in the scene graph; the renderer bounds
// its depth.
type PrecompContent struct {
	CompositionID string `yaml:"composition_id"`
}

// ParticleContent samples a registered particle system as layer content.
type ParticleContent struct {
	SystemID string `yaml:"system_id"`
}

// Layer is one paint-ordered element of a composition. ParentID is a weak,
// non-owning back-reference resolved by lookup at render time; the renderer
// breaks parent cycles instead of recursing.
type Layer struct {
	ID         string                         `yaml:"id"`
	Name       string                         `yaml:"name,omitempty"`
	Type       LayerType                      `yaml:"type"`
	ParentID   string                         `yaml:"parent_id,omitempty"`
	Hidden     bool                           `yaml:"hidden,omitempty"`
	Transform  Transform                      `yaml:"transform,omitempty"`
	Props      map[string]*animation.Property `yaml:"props,omitempty"`
	Effects    []*Effect                      `yaml:"effects,omitempty"`
	Masks      []*Mask                        `yaml:"masks,omitempty"`
	BlendMode  BlendMode                      `yaml:"blend_mode,omitempty"`
	TrackMatte *TrackMatte                    `yaml:"track_matte,omitempty"`
	Is3D       bool                           `yaml:"is_3d,omitempty"`
	Content    Content                        `yaml:"content,omitempty"`
}

// NewLayer creates a visible layer of the given type with an identity
// transform and normal blending.
func NewLayer(id string, typ LayerType) *Layer {
	l := &Layer{ID: id, Name: id, Type: typ, BlendMode: BlendNormal}
	l.normalize()
	return l
}

// normalize fills in the transform defaults a freshly decoded or
// constructed layer may be missing.
func (l *Layer) normalize() {
	if l.BlendMode == "" {
		l.BlendMode = BlendNormal
	}
	if l.Transform.Position == nil {
		l.Transform.Position = animation.NewProperty("position", animation.Vector2(0, 0))
	}
	if l.Transform.Anchor == nil {
		l.Transform.Anchor = animation.NewProperty("anchor", animation.Vector2(0, 0))
	}
	if l.Transform.Scale == nil {
		l.Transform.Scale = animation.NewProperty("scale", animation.Vector2(1, 1))
	}
	if l.Transform.Rotation == nil {
		l.Transform.Rotation = animation.NewProperty("rotation", animation.Number(0))
	}
	if l.Transform.Opacity == nil {
		l.Transform.Opacity = animation.NewProperty("opacity", animation.Number(1))
	}
}
