package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/motioncore/internal/particles"
)

// Project is the persistence root handed to and from the host editor: a set
// of compositions plus the particle systems their layers reference. The
// scene graph round-trips through YAML without loss.
type Project struct {
	Version      string              `yaml:"version"`
	Compositions []*Composition      `yaml:"compositions"`
	Particles    []*particles.System `yaml:"particles,omitempty"`
}

// CompositionByID looks a composition up by id; nil when absent.
func (p *Project) CompositionByID(id string) *Composition {
	for _, c := range p.Compositions {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// CompositionTable builds the id → composition lookup used by the renderer
// for pre-composition resolution.
func (p *Project) CompositionTable() map[string]*Composition {
	table := make(map[string]*Composition, len(p.Compositions))
	for _, c := range p.Compositions {
		table[c.ID] = c
	}
	return table
}

// ParticleTable builds the id → system lookup used by the renderer.
func (p *Project) ParticleTable() map[string]*particles.System {
	table := make(map[string]*particles.System, len(p.Particles))
	for _, s := range p.Particles {
		table[s.ID] = s
	}
	return table
}

// WriteProject writes a project to a YAML file.
func WriteProject(project *Project, path string) error {
	data, err := yaml.Marshal(project)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadProject reads a project from a YAML file and fills in the per-layer
// defaults the file may omit.
func ReadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var project Project
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("unmarshal project: %w", err)
	}

	for _, c := range project.Compositions {
		c.normalize()
	}
	return &project, nil
}
