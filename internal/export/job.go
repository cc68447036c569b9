// Package export renders a composition's frames in sequence and hands them
// to a FrameWriter. It is the batch/background job layer around the
// single-frame renderer: it owns cancellation (via context) and worker
// scheduling, which the core deliberately does not.
package export

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/motioncore/internal/particles"
	"github.com/ivlev/motioncore/internal/render"
	"github.com/ivlev/motioncore/internal/scene"
	"github.com/ivlev/motioncore/internal/system"
)

// Job renders every frame of one composition.
type Job struct {
	Renderer *render.Renderer
	Comp     *scene.Composition
	Writer   FrameWriter
	// Workers bounds parallel frame rendering; zero means NumCPU.
	Workers int
	// ShowStats prints a performance report when the job finishes.
	ShowStats bool
}

// Run renders frames 0..FrameCount-1 and writes them in order. Frames are
// rendered in parallel when the scene has no particle systems; a particle
// simulation is a single-writer clock that must advance exactly once per
// tick, so those scenes render sequentially.
func (j *Job) Run(ctx context.Context) error {
	frameCount := j.Comp.FrameCount()
	if frameCount == 0 {
		return fmt.Errorf("composition %q has no frames (duration %.2fs at %d fps)", j.Comp.ID, j.Comp.Duration, j.Comp.FPS)
	}

	start := time.Now()
	var err error
	if len(j.Renderer.Particles) > 0 {
		err = j.runSequential(ctx, frameCount)
	} else {
		err = j.runParallel(ctx, frameCount)
	}
	if err != nil {
		return err
	}
	if err := j.Writer.Close(); err != nil {
		return err
	}

	if j.ShowStats {
		elapsed := time.Since(start)
		fmt.Printf("--- [RENDER REPORT] ---\n")
		fmt.Printf("Frames: %d | Total: %.2fs | FPS: %.2f\n", frameCount, elapsed.Seconds(), float64(frameCount)/elapsed.Seconds())
		fmt.Printf("Host: %s\n", system.Snapshot())
		fmt.Printf("-----------------------\n")
	}
	return nil
}

func (j *Job) runSequential(ctx context.Context, frameCount int) error {
	dt := 1 / float64(j.Comp.FPS)
	for i := 0; i < frameCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepSystems(j.Renderer.Particles, dt)
		frame := j.Renderer.RenderFrame(j.Comp, float64(i)*dt)
		if err := j.Writer.WriteFrame(i, frame); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	return nil
}

func (j *Job) runParallel(ctx context.Context, frameCount int) error {
	workers := j.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > frameCount {
		workers = frameCount
	}

	frames := make([]*image.RGBA, frameCount)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	dt := 1 / float64(j.Comp.FPS)
	for i := 0; i < frameCount; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frames[i] = j.Renderer.RenderFrame(j.Comp, float64(i)*dt)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, frame := range frames {
		if err := j.Writer.WriteFrame(i, frame); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}
	return nil
}

func stepSystems(systems map[string]*particles.System, dt float64) {
	for _, s := range systems {
		s.Update(dt)
	}
}
