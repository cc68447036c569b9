// Package particles is an independently clocked simulation of kinetic
// effects (rain, snow, dust, sparks). A System is advanced with Update on
// its own clock and sampled by the renderer as ordinary layer content.
//
// Update mutates the system and must be called by a single writer; renders
// only read.
package particles

import (
	"image"
	"math"
	"math/rand"

	"github.com/ivlev/motioncore/internal/animation"
)

// State is the lifecycle phase of a particle system.
type State string

const (
	StateIdle     State = "idle"     // no live particles, not emitting
	StateEmitting State = "emitting" // steady-state emission
	StateDraining State = "draining" // emission stopped, particles aging out
)

// EmitterKind is the geometric source particles spawn from.
type EmitterKind string

const (
	EmitPoint  EmitterKind = "point"
	EmitLine   EmitterKind = "line"
	EmitCircle EmitterKind = "circle"
	EmitBox    EmitterKind = "box"
)

// Emitter is the geometric and statistical source of new particles.
type Emitter struct {
	Kind           EmitterKind `yaml:"kind"`
	Position       [3]float64  `yaml:"position,omitempty,flow"`
	Rate           float64     `yaml:"rate"` // particles per second
	Spread         float64     `yaml:"spread,omitempty"` // degrees
	Velocity       [3]float64  `yaml:"velocity,omitempty,flow"`
	VelocityRandom float64     `yaml:"velocity_random,omitempty"`

	// Line geometry.
	LineStart [3]float64 `yaml:"line_start,omitempty,flow"`
	LineEnd   [3]float64 `yaml:"line_end,omitempty,flow"`
	// Circle geometry.
	Radius float64 `yaml:"radius,omitempty"`
	// Box geometry.
	BoxWidth  float64 `yaml:"box_width,omitempty"`
	BoxHeight float64 `yaml:"box_height,omitempty"`
	BoxDepth  float64 `yaml:"box_depth,omitempty"`
}

// ColorStop is one entry of the color-over-life list, keyed by normalized
// age in [0,1]. Plain tuples, not full keyframes.
type ColorStop struct {
	T float64 `yaml:"t"`
	R uint8   `yaml:"r"`
	G uint8   `yaml:"g"`
	B uint8   `yaml:"b"`
	A uint8   `yaml:"a"`
}

// OpacityStop scales a particle's alpha by normalized age.
type OpacityStop struct {
	T       float64 `yaml:"t"`
	Opacity float64 `yaml:"opacity"`
}

// Properties configures per-particle appearance and forces.
type Properties struct {
	Size            *animation.Property `yaml:"size,omitempty"` // sampled at local time 0
	SizeRandom      float64             `yaml:"size_random,omitempty"`
	ColorOverLife   []ColorStop         `yaml:"color_over_life,omitempty"`
	OpacityOverLife []OpacityStop       `yaml:"opacity_over_life,omitempty"`
	RotationSpeed   float64             `yaml:"rotation_speed,omitempty"` // degrees per second
	Gravity         [3]float64          `yaml:"gravity,omitempty,flow"`
	Wind            [3]float64          `yaml:"wind,omitempty,flow"`
	Turbulence      float64             `yaml:"turbulence,omitempty"`
	BlendMode       string              `yaml:"blend_mode,omitempty"`
}

// Particle is pool-owned, ephemeral state. It never escapes its System.
type Particle struct {
	Position [3]float64
	Velocity [3]float64
	Age      float64
	Lifetime float64
	Size     float64
	Rotation float64
	Color    animation.Color
}

// System owns an emitter and a particle pool.
type System struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name,omitempty"`
	Emitter      Emitter    `yaml:"emitter"`
	MaxParticles int        `yaml:"max_particles"`
	Lifetime     float64    `yaml:"lifetime"` // seconds per particle
	Props        Properties `yaml:"props,omitempty"`
	Seed         int64      `yaml:"seed,omitempty"`

	particles []Particle
	emitCarry float64
	started   bool
	stopped   bool
	rng       *rand.Rand
}

// NewSystem creates an emitting system with the given pool cap and particle
// lifetime. Seed 0 picks a fixed default so repeated runs are reproducible.
func NewSystem(id string, emitter Emitter, maxParticles int, lifetime float64, props Properties) *System {
	return &System{
		ID:           id,
		Name:         id,
		Emitter:      emitter,
		MaxParticles: maxParticles,
		Lifetime:     lifetime,
		Props:        props,
	}
}

// State reports the current lifecycle phase. A fresh system is Idle until
// its first Update starts emission.
func (s *System) State() State {
	switch {
	case !s.stopped && s.started:
		return StateEmitting
	case len(s.particles) > 0:
		return StateDraining
	default:
		return StateIdle
	}
}

// Stop halts emission; live particles keep aging out (Draining → Idle).
func (s *System) Stop() { s.stopped = true }

// Start resumes emission.
func (s *System) Start() { s.stopped = false }

// Live reports the number of live particles.
func (s *System) Live() int { return len(s.particles) }

// Particles exposes the live pool for read-only sampling.
func (s *System) Particles() []Particle { return s.particles }

// Update advances the simulation by dt seconds. Single writer only.
func (s *System) Update(dt float64) {
	if s.rng == nil {
		seed := s.Seed
		if seed == 0 {
			seed = 1
		}
		s.rng = rand.New(rand.NewSource(seed))
	}

	if !s.stopped {
		s.started = true
		// Fractional emission remainder carries over so low rates do not
		// under-emit through truncation.
		s.emitCarry += s.Emitter.Rate * dt
		n := int(s.emitCarry)
		s.emitCarry -= float64(n)
		for i := 0; i < n; i++ {
			if len(s.particles) >= s.MaxParticles {
				break // full pool caps emission; live particles are never evicted
			}
			s.particles = append(s.particles, s.spawn())
		}
	}

	kept := s.particles[:0]
	for i := range s.particles {
		p := &s.particles[i]
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}

		for axis := 0; axis < 3; axis++ {
			p.Velocity[axis] += (s.Props.Gravity[axis] + s.Props.Wind[axis]) * dt
		}
		if s.Props.Turbulence > 0 {
			p.Velocity[0] += s.turb() * dt
			p.Velocity[1] += s.turb() * dt
		}
		for axis := 0; axis < 3; axis++ {
			p.Position[axis] += p.Velocity[axis] * dt
		}
		p.Rotation += s.Props.RotationSpeed * dt

		p.Color = s.colorAt(p.Age / p.Lifetime)
		kept = append(kept, *p)
	}
	s.particles = kept
}

func (s *System) turb() float64 {
	return (s.rng.Float64()*2 - 1) * s.Props.Turbulence
}

func (s *System) spawn() Particle {
	e := &s.Emitter

	var pos [3]float64
	switch e.Kind {
	case EmitLine:
		t := s.rng.Float64()
		for axis := 0; axis < 3; axis++ {
			pos[axis] = e.LineStart[axis] + (e.LineEnd[axis]-e.LineStart[axis])*t
		}
	case EmitCircle:
		angle := s.rng.Float64() * 2 * math.Pi
		r := s.rng.Float64() * e.Radius
		pos = [3]float64{
			e.Position[0] + r*math.Cos(angle),
			e.Position[1] + r*math.Sin(angle),
			e.Position[2],
		}
	case EmitBox:
		pos = [3]float64{
			e.Position[0] + (s.rng.Float64()-0.5)*e.BoxWidth,
			e.Position[1] + (s.rng.Float64()-0.5)*e.BoxHeight,
			e.Position[2] + (s.rng.Float64()-0.5)*e.BoxDepth,
		}
	default: // point
		pos = e.Position
	}

	vel := e.Velocity
	if e.VelocityRandom > 0 {
		for axis := 0; axis < 3; axis++ {
			vel[axis] += (s.rng.Float64()*2 - 1) * e.VelocityRandom
		}
	}
	if e.Spread > 0 {
		// Rotate the velocity in the XY plane by a random angle within the
		// spread cone.
		half := e.Spread * math.Pi / 360
		a := (s.rng.Float64()*2 - 1) * half
		sin, cos := math.Sin(a), math.Cos(a)
		vx, vy := vel[0], vel[1]
		vel[0] = vx*cos - vy*sin
		vel[1] = vx*sin + vy*cos
	}

	size := 10.0
	if s.Props.Size != nil {
		size = s.Props.Size.EvaluateAt(0).AsNumber(size)
	}
	if s.Props.SizeRandom > 0 {
		lo, hi := 1-s.Props.SizeRandom, 1+s.Props.SizeRandom
		size *= lo + s.rng.Float64()*(hi-lo)
	}

	return Particle{
		Position: pos,
		Velocity: vel,
		Lifetime: s.Lifetime,
		Size:     size,
		Rotation: s.rng.Float64() * 360,
		Color:    s.colorAt(0),
	}
}

// colorAt samples the color-over-life stop list at normalized age,
// bracketing and interpolating the way keyframe tracks do: clamped at the
// ends, per-channel lerp with rounding in between.
func (s *System) colorAt(progress float64) animation.Color {
	stops := s.Props.ColorOverLife
	c := animation.Color{R: 255, G: 255, B: 255, A: 255}
	if len(stops) > 0 {
		c = sampleStops(stops, progress)
	}

	if len(s.Props.OpacityOverLife) > 0 {
		o := sampleOpacity(s.Props.OpacityOverLife, progress)
		c.A = scaleChannel(c.A, o)
	}
	return c
}

func sampleStops(stops []ColorStop, progress float64) animation.Color {
	first := stops[0]
	if progress <= first.T {
		return animation.Color{R: first.R, G: first.G, B: first.B, A: first.A}
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if progress >= a.T && progress <= b.T {
			span := b.T - a.T
			if span <= 0 {
				return animation.Color{R: b.R, G: b.G, B: b.B, A: b.A}
			}
			t := (progress - a.T) / span
			va := animation.ColorValue(a.R, a.G, a.B, a.A)
			vb := animation.ColorValue(b.R, b.G, b.B, b.A)
			return va.Lerp(vb, t).Color
		}
	}
	last := stops[len(stops)-1]
	return animation.Color{R: last.R, G: last.G, B: last.B, A: last.A}
}

func sampleOpacity(stops []OpacityStop, progress float64) float64 {
	if progress <= stops[0].T {
		return stops[0].Opacity
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if progress >= a.T && progress <= b.T {
			span := b.T - a.T
			if span <= 0 {
				return b.Opacity
			}
			t := (progress - a.T) / span
			return a.Opacity + (b.Opacity-a.Opacity)*t
		}
	}
	return stops[len(stops)-1].Opacity
}

func scaleChannel(c uint8, f float64) uint8 {
	v := math.Round(float64(c) * f)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Render draws every live particle into dst as a filled square sprite
// centered on its position. dst is then treated as ordinary layer content
// by the compositor.
func (s *System) Render(dst *image.RGBA) {
	b := dst.Bounds()
	for i := range s.particles {
		p := &s.particles[i]
		half := int(p.Size / 2)
		if half < 0 {
			half = 0
		}
		cx, cy := int(p.Position[0]), int(p.Position[1])

		for y := cy - half; y <= cy+half; y++ {
			if y < b.Min.Y || y >= b.Max.Y {
				continue
			}
			for x := cx - half; x <= cx+half; x++ {
				if x < b.Min.X || x >= b.Max.X {
					continue
				}
				off := dst.PixOffset(x, y)
				dst.Pix[off+0] = p.Color.R
				dst.Pix[off+1] = p.Color.G
				dst.Pix[off+2] = p.Color.B
				dst.Pix[off+3] = p.Color.A
			}
		}
	}
}
