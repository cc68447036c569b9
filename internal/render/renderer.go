// Package render composes a layered scene into pixel buffers. RenderFrame
// walks a composition bottom-to-top at a single point in time, evaluates
// every animatable property, rasterizes layer content, applies masks,
// mattes and effects, and accumulates the result with per-layer blending.
//
// Rendering is read-only against the scene graph and holds no cross-frame
// state; independent frames may be rendered concurrently by an external
// scheduler. Nothing here aborts a frame: malformed references degrade to
// "absent" and are surfaced through the warning hook.
package render

import (
	"image"
	"log"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/ivlev/motioncore/internal/animation"
	"github.com/ivlev/motioncore/internal/particles"
	"github.com/ivlev/motioncore/internal/scene"
	"github.com/ivlev/motioncore/internal/system"
)

// DefaultMaxNestingDepth bounds pre-composition recursion.
const DefaultMaxNestingDepth = 8

// Renderer samples compositions into RGBA frames.
type Renderer struct {
	// Compositions is the host-owned id → composition table used to
	// resolve pre-composition content.
	Compositions map[string]*scene.Composition
	// Particles maps system ids referenced by particle layers. Systems are
	// advanced by their own clock elsewhere; the renderer only samples.
	Particles map[string]*particles.System
	// Content decodes image and video layer sources. Optional.
	Content ContentSource
	// Text lays out text layer content. Optional.
	Text TextLayouter
	// MaxNestingDepth bounds pre-composition recursion; zero means the
	// default.
	MaxNestingDepth int
	// Warnf receives diagnosable degradations (broken cycles, dangling
	// references). Defaults to log.Printf.
	Warnf func(format string, args ...interface{})
}

// New creates a renderer over the given composition table.
func New(comps map[string]*scene.Composition) *Renderer {
	return &Renderer{
		Compositions:    comps,
		MaxNestingDepth: DefaultMaxNestingDepth,
	}
}

func (r *Renderer) warnf(format string, args ...interface{}) {
	if r.Warnf != nil {
		r.Warnf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (r *Renderer) maxDepth() int {
	if r.MaxNestingDepth > 0 {
		return r.MaxNestingDepth
	}
	return DefaultMaxNestingDepth
}

// RenderFrame renders the composition at the given time into a fresh
// width×height RGBA buffer. It never fails: the worst case is a visibly
// wrong but renderable frame.
func (r *Renderer) RenderFrame(comp *scene.Composition, time float64) *image.RGBA {
	return r.renderComposition(comp, time, 0)
}

// RenderFrameByID renders the identified composition, or a nil buffer when
// the id is unknown.
func (r *Renderer) RenderFrameByID(compID string, time float64) *image.RGBA {
	comp, ok := r.Compositions[compID]
	if !ok {
		r.warnf("[!] Unknown composition %q", compID)
		return nil
	}
	return r.RenderFrame(comp, time)
}

func (r *Renderer) renderComposition(comp *scene.Composition, time float64, depth int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, comp.Width, comp.Height))
	fillBackground(out, comp.Background)

	// Layer buffers rendered this frame, kept for track-matte reuse.
	rendered := make(map[string]*image.RGBA)

	for _, layer := range comp.Layers {
		if layer == nil || layer.Hidden {
			continue
		}
		buf := r.layerBuffer(comp, layer, time, depth, rendered)
		if buf == nil {
			continue
		}
		composite(out, buf, layer.BlendMode)
	}

	for _, buf := range rendered {
		system.PutFrame(buf)
	}
	return out
}

// layerBuffer returns the fully prepared comp-sized buffer for a layer,
// rendering it on demand and caching it for matte lookups.
func (r *Renderer) layerBuffer(comp *scene.Composition, layer *scene.Layer, time float64, depth int, rendered map[string]*image.RGBA) *image.RGBA {
	if buf, ok := rendered[layer.ID]; ok {
		return buf
	}
	// Mark before rendering so matte chains that loop back resolve to
	// absent instead of recursing.
	rendered[layer.ID] = nil
	buf := r.renderLayer(comp, layer, time, depth, rendered)
	rendered[layer.ID] = buf
	return buf
}

// renderLayer runs the full per-layer pipeline: content, transform,
// effects, masks, track matte, opacity.
func (r *Renderer) renderLayer(comp *scene.Composition, layer *scene.Layer, time float64, depth int, rendered map[string]*image.RGBA) *image.RGBA {
	content := r.layerContent(comp, layer, time, depth)
	if content == nil {
		return nil
	}

	buf := r.transformLayer(comp, layer, time, content)

	r.applyEffects(buf, layer.Effects, time)
	applyMasks(buf, layer.Masks, time)

	if tm := layer.TrackMatte; tm != nil {
		if matteLayer := comp.LayerByID(tm.LayerID); matteLayer == nil {
			r.warnf("[!] Layer %q: track matte source %q missing, matte ignored", layer.ID, tm.LayerID)
		} else if matte := r.layerBuffer(comp, matteLayer, time, depth, rendered); matte != nil {
			applyTrackMatte(buf, matte, tm.Type)
		}
	}

	opacity := evalNumber(layer.Transform.Opacity, time, 1)
	applyOpacity(buf, opacity)

	return buf
}

// layerContent produces the raw content buffer for a layer. Shape, Solid,
// Null and particle content are generated internally; Image, Video and Text
// are delegated to the host collaborators. A missing collaborator or a
// decode failure degrades to absent.
func (r *Renderer) layerContent(comp *scene.Composition, layer *scene.Layer, time float64, depth int) *image.RGBA {
	compRect := image.Rect(0, 0, comp.Width, comp.Height)

	switch layer.Type {
	case scene.LayerSolid:
		buf := system.GetFrame(compRect)
		c := animation.Color{A: 255}
		if layer.Content.Solid != nil {
			c = evalColor(layer.Content.Solid.Color, time, c)
		}
		fillBackground(buf, c)
		return buf

	case scene.LayerShape:
		if layer.Content.Shape == nil {
			return nil
		}
		buf := system.GetFrame(compRect)
		drawShapes(buf, layer.Content.Shape.Elements, time)
		return buf

	case scene.LayerText:
		tc := layer.Content.Text
		if tc == nil || r.Text == nil {
			return nil
		}
		buf, err := r.Text.LayoutText(tc.Content, tc.Font, tc.Size)
		if err != nil {
			r.warnf("[!] Layer %q: text layout failed: %v", layer.ID, err)
			return nil
		}
		return buf

	case scene.LayerImage, scene.LayerVideo:
		var ref string
		timestamp := 0.0
		if layer.Type == scene.LayerImage && layer.Content.Image != nil {
			ref = layer.Content.Image.Source
		}
		if layer.Type == scene.LayerVideo && layer.Content.Video != nil {
			ref = layer.Content.Video.Source
			timestamp = time
		}
		if ref == "" || r.Content == nil {
			return nil
		}
		buf, err := r.Content.DecodeFrame(ref, timestamp)
		if err != nil {
			r.warnf("[!] Layer %q: decode of %q failed: %v", layer.ID, ref, err)
			return nil
		}
		return buf

	case scene.LayerPrecomp:
		pc := layer.Content.Precomp
		if pc == nil {
			return nil
		}
		if depth+1 > r.maxDepth() {
			r.warnf("[!] Layer %q: pre-composition depth limit %d reached, rendered as absent", layer.ID, r.maxDepth())
			return nil
		}
		nested, ok := r.Compositions[pc.CompositionID]
		if !ok {
			r.warnf("[!] Layer %q: pre-composition %q missing", layer.ID, pc.CompositionID)
			return nil
		}
		return r.renderComposition(nested, time, depth+1)

	case scene.LayerParticle:
		pcontent := layer.Content.Particles
		if pcontent == nil {
			return nil
		}
		sys, ok := r.Particles[pcontent.SystemID]
		if !ok {
			r.warnf("[!] Layer %q: particle system %q missing", layer.ID, pcontent.SystemID)
			return nil
		}
		buf := system.GetFrame(compRect)
		sys.Render(buf)
		return buf

	default:
		// Null, Audio, Camera3D and Light3D draw nothing.
		return nil
	}
}

// transformLayer resamples content through the layer's effective transform
// (accumulated parent transforms composed with its own) into a comp-sized
// buffer. The identity fast path keeps untransformed full-frame content
// bit-exact.
func (r *Renderer) transformLayer(comp *scene.Composition, layer *scene.Layer, time float64, content *image.RGBA) *image.RGBA {
	m := r.effectiveTransform(comp, layer, time)

	compRect := image.Rect(0, 0, comp.Width, comp.Height)
	if isIdentity(m) && content.Bounds() == compRect {
		return content
	}

	dst := system.GetFrame(compRect)
	draw.BiLinear.Transform(dst, m, content, content.Bounds(), draw.Over, nil)
	system.PutFrame(content)
	return dst
}

// effectiveTransform resolves the layer's parent chain and composes the
// accumulated parent transforms with the layer's own. The walk is bounded
// by a visited set: a parent cycle is broken by treating the layer as
// unparented, with a warning for the host.
func (r *Renderer) effectiveTransform(comp *scene.Composition, layer *scene.Layer, time float64) f64.Aff3 {
	own := layerAffine(layer, time)
	if layer.ParentID == "" {
		return own
	}

	visited := map[string]bool{layer.ID: true}
	var chain []*scene.Layer
	id := layer.ParentID
	for id != "" {
		if visited[id] {
			r.warnf("[!] Layer %q: parent cycle through %q, treated as unparented", layer.ID, id)
			return own
		}
		visited[id] = true
		parent := comp.LayerByID(id)
		if parent == nil {
			r.warnf("[!] Layer %q: parent %q missing, treated as unparented", layer.ID, id)
			return own
		}
		chain = append(chain, parent)
		id = parent.ParentID
	}

	// Outermost ancestor first.
	m := identity()
	for i := len(chain) - 1; i >= 0; i-- {
		m = mul(m, layerAffine(chain[i], time))
	}
	return mul(m, own)
}

// layerAffine builds the layer's own transform: translate to position,
// rotate, scale, offset by the anchor point.
func layerAffine(layer *scene.Layer, time float64) f64.Aff3 {
	tx, ty := 0.0, 0.0
	if layer.Transform.Position != nil {
		tx, ty = layer.Transform.Position.EvaluateAt(time).AsVector2(0, 0)
	}
	ax, ay := 0.0, 0.0
	if layer.Transform.Anchor != nil {
		ax, ay = layer.Transform.Anchor.EvaluateAt(time).AsVector2(0, 0)
	}
	sx, sy := 1.0, 1.0
	if layer.Transform.Scale != nil {
		sx, sy = layer.Transform.Scale.EvaluateAt(time).AsVector2(1, 1)
	}
	rot := evalNumber(layer.Transform.Rotation, time, 0) * math.Pi / 180

	sin, cos := math.Sin(rot), math.Cos(rot)
	// T(position) · R(rotation) · S(scale) · T(-anchor)
	return f64.Aff3{
		cos * sx, -sin * sy, tx - (cos*sx*ax - sin*sy*ay),
		sin * sx, cos * sy, ty - (sin*sx*ax + cos*sy*ay),
	}
}

func identity() f64.Aff3 {
	return f64.Aff3{1, 0, 0, 0, 1, 0}
}

func isIdentity(m f64.Aff3) bool {
	return m == f64.Aff3{1, 0, 0, 0, 1, 0}
}

func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func fillBackground(buf *image.RGBA, c animation.Color) {
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i+0] = c.R
		buf.Pix[i+1] = c.G
		buf.Pix[i+2] = c.B
		buf.Pix[i+3] = c.A
	}
}

// applyOpacity scales the buffer's alpha channel by opacity in [0,1].
// Opacity 1 leaves the buffer untouched so full-opacity layers stay
// bit-exact.
func applyOpacity(buf *image.RGBA, opacity float64) {
	if opacity >= 1 {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = clamp8(float64(buf.Pix[i]) * opacity)
	}
}
