package scene

import (
	"github.com/ivlev/motioncore/internal/animation"
)

// Composition owns an ordered list of layers (paint order: first is the
// bottom), a fixed output size, duration and frame rate, and a background
// color. A composition may itself appear as precomp content inside another.
type Composition struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name,omitempty"`
	Width      int             `yaml:"width"`
	Height     int             `yaml:"height"`
	Duration   float64         `yaml:"duration"`
	FPS        int             `yaml:"fps"`
	Background animation.Color `yaml:"background"`
	Layers     []*Layer        `yaml:"layers,omitempty"`
}

// NewComposition creates an empty composition with a transparent black
// background.
func NewComposition(id string, width, height int, duration float64, fps int) *Composition {
	return &Composition{
		ID:       id,
		Name:     id,
		Width:    width,
		Height:   height,
		Duration: duration,
		FPS:      fps,
	}
}

// LayerByID looks up a layer by id. Returns nil when absent; callers treat
// a missing layer as "reference degrades to absent", never as an error.
func (c *Composition) LayerByID(id string) *Layer {
	for _, l := range c.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// AddLayer appends a layer on top of the current stack.
func (c *Composition) AddLayer(l *Layer) {
	c.Layers = append(c.Layers, l)
}

// FrameCount is the number of discrete output frames the composition spans.
func (c *Composition) FrameCount() int {
	if c.FPS <= 0 || c.Duration <= 0 {
		return 0
	}
	return int(c.Duration * float64(c.FPS))
}

func (c *Composition) normalize() {
	for _, l := range c.Layers {
		if l != nil {
			l.normalize()
		}
	}
}
