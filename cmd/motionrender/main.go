package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"runtime"

	"github.com/ivlev/motioncore/internal/export"
	_ "github.com/ivlev/motioncore/internal/expression" // installs the expression evaluator
	"github.com/ivlev/motioncore/internal/render"
	"github.com/ivlev/motioncore/internal/scene"
	"github.com/ivlev/motioncore/internal/source"
	"github.com/ivlev/motioncore/internal/text"
)

func main() {
	scenePtr := flag.String("scene", "", "Path to the scene YAML file")
	compPtr := flag.String("comp", "", "Composition id to render (default: first in the file)")
	outputPtr := flag.String("output", "output.mp4", "Output video path")
	framesDirPtr := flag.String("frames-dir", "", "Write a PNG sequence to this directory instead of encoding")
	stillPtr := flag.Float64("still", -1, "Render a single frame at this time (seconds) to -output as PNG")
	encoderPtr := flag.String("encoder", "libx264", "Video encoder passed to ffmpeg")
	qualityPtr := flag.Int("quality", 0, "CRF quality (0 = encoder default)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Parallel frame renderers")
	depthPtr := flag.Int("max-depth", render.DefaultMaxNestingDepth, "Pre-composition nesting limit")
	dpiPtr := flag.Float64("doc-dpi", 150, "Rasterization DPI for doc: sources")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	if *scenePtr == "" {
		log.Fatal("[-] -scene is required")
	}

	project, err := scene.ReadProject(*scenePtr)
	if err != nil {
		log.Fatalf("[-] Failed to load scene: %v", err)
	}
	if len(project.Compositions) == 0 {
		log.Fatal("[-] Scene has no compositions")
	}

	comp := project.Compositions[0]
	if *compPtr != "" {
		if comp = project.CompositionByID(*compPtr); comp == nil {
			log.Fatalf("[-] Composition %q not found", *compPtr)
		}
	}

	router := source.NewRouter()
	router.Register("doc", &source.DocumentSource{DPI: *dpiPtr})

	renderer := render.New(project.CompositionTable())
	renderer.Particles = project.ParticleTable()
	renderer.Content = router
	renderer.Text = text.BasicLayouter{}
	renderer.MaxNestingDepth = *depthPtr

	fmt.Printf("[*] Scene: %s | Composition: %s (%dx%d @ %d FPS, %.2fs)\n",
		*scenePtr, comp.ID, comp.Width, comp.Height, comp.FPS, comp.Duration)

	if *stillPtr >= 0 {
		if err := writeStill(renderer, comp, *stillPtr, *outputPtr); err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Printf("[+] Frame at %.3fs written to %s\n", *stillPtr, *outputPtr)
		return
	}

	var writer export.FrameWriter
	if *framesDirPtr != "" {
		if err := os.MkdirAll(*framesDirPtr, 0755); err != nil {
			log.Fatalf("[-] %v", err)
		}
		writer = &export.PNGSequenceWriter{Dir: *framesDirPtr}
	} else {
		writer, err = export.NewFFmpegWriter(*outputPtr, comp.Width, comp.Height, comp.FPS, *encoderPtr, *qualityPtr)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
	}

	job := &export.Job{
		Renderer:  renderer,
		Comp:      comp,
		Writer:    writer,
		Workers:   *workersPtr,
		ShowStats: *statsPtr,
	}
	if err := job.Run(context.Background()); err != nil {
		log.Fatalf("[-] Render failed: %v", err)
	}
	fmt.Printf("[+] Done: %d frames\n", comp.FrameCount())
}

func writeStill(renderer *render.Renderer, comp *scene.Composition, at float64, path string) error {
	frame := renderer.RenderFrame(comp, at)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, frame)
}
