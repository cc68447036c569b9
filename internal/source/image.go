package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// FileSource decodes still image files (PNG, JPEG) from disk. The timestamp
// is ignored: a still is the same at every frame.
type FileSource struct{}

// Resolve opens and decodes the referenced file.
func (FileSource) Resolve(ref string, _ float64) (*image.RGBA, error) {
	f, err := os.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}
