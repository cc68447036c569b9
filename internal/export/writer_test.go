package export

import (
	"image"
	"testing"
)

func TestFFmpegWriterRejectsWrongGeometry(t *testing.T) {
	w := &FFmpegWriter{width: 64, height: 64}

	if err := w.WriteFrame(0, image.NewRGBA(image.Rect(0, 0, 32, 32))); err == nil {
		t.Error("want an error for a mismatched frame size")
	}

	// Subimages carry the parent's stride; the raw pipe cannot skip bytes.
	parent := image.NewRGBA(image.Rect(0, 0, 128, 64))
	sub := parent.SubImage(image.Rect(0, 0, 64, 64)).(*image.RGBA)
	if err := w.WriteFrame(0, sub); err == nil {
		t.Error("want an error for a non-standard stride")
	}
}
