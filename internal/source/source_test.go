package source

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// fakeHandler records the reference it was asked to resolve.
type fakeHandler struct {
	gotRef  string
	gotTime float64
}

func (h *fakeHandler) Resolve(ref string, timestamp float64) (*image.RGBA, error) {
	h.gotRef = ref
	h.gotTime = timestamp
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func TestRouterDispatchesByScheme(t *testing.T) {
	r := NewRouter()
	h := &fakeHandler{}
	r.Register("clip", h)

	if _, err := r.DecodeFrame("clip:intro.mov", 1.5); err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if h.gotRef != "intro.mov" {
		t.Errorf("handler ref = %q, want scheme stripped", h.gotRef)
	}
	if h.gotTime != 1.5 {
		t.Errorf("handler timestamp = %v, want 1.5", h.gotTime)
	}
}

func TestRouterDefaultsToFileScheme(t *testing.T) {
	r := &Router{handlers: make(map[string]Handler)}
	h := &fakeHandler{}
	r.Register("file", h)

	if _, err := r.DecodeFrame("stills/logo.png", 0); err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if h.gotRef != "stills/logo.png" {
		t.Errorf("handler ref = %q, want the raw reference", h.gotRef)
	}
}

func TestRouterUnknownScheme(t *testing.T) {
	r := NewRouter()
	if _, err := r.DecodeFrame("ftp:somewhere", 0); err == nil {
		t.Fatal("want an error for an unregistered scheme")
	}
}

func TestFileSourceDecodesPNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	off := src.PixOffset(1, 1)
	src.Pix[off], src.Pix[off+3] = 255, 255

	path := filepath.Join(t.TempDir(), "still.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := FileSource{}.Resolve(path, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	off = got.PixOffset(1, 1)
	if got.Pix[off] != 255 || got.Pix[off+3] != 255 {
		t.Errorf("pixel (1,1) = (%d,_,_,%d), want opaque red", got.Pix[off], got.Pix[off+3])
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := (FileSource{}).Resolve(filepath.Join(t.TempDir(), "nope.png"), 0); err == nil {
		t.Fatal("want an error for a missing file")
	}
}

func TestDocumentSourceInvalidPageFragment(t *testing.T) {
	d := &DocumentSource{}
	if _, err := d.Resolve("slides.pdf#three", 0); err == nil {
		t.Fatal("want an error for a non-numeric page fragment")
	}
}

func TestDocumentSourceMissingFile(t *testing.T) {
	d := &DocumentSource{}
	if _, err := d.Resolve(filepath.Join(t.TempDir(), "nope.pdf"), 0); err == nil {
		t.Fatal("want an error for a missing document")
	}
}

func TestQRSourceGenerates(t *testing.T) {
	img, err := QRSource{}.Resolve("https://example.com", 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if img.Bounds().Dx() != qrSize || img.Bounds().Dy() != qrSize {
		t.Errorf("bounds = %v, want %dx%d", img.Bounds(), qrSize, qrSize)
	}

	// A QR code has both dark and light modules.
	dark, light := false, false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] < 128 {
			dark = true
		} else {
			light = true
		}
	}
	if !dark || !light {
		t.Error("generated image is uniform, not a QR code")
	}
}

func TestToRGBAConvertsAndRebases(t *testing.T) {
	gray := image.NewGray(image.Rect(10, 10, 14, 12))
	gray.Pix[0] = 200 // pixel (10,10) in the source

	got := toRGBA(gray)
	if got.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v, want rebased to the origin", got.Bounds())
	}
	off := got.PixOffset(0, 0)
	if got.Pix[off] != 200 || got.Pix[off+3] != 255 {
		t.Errorf("pixel (0,0) = (%d,_,_,%d), want gray 200 opaque", got.Pix[off], got.Pix[off+3])
	}
}

func TestToRGBAPassesThroughZeroOriginRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got := toRGBA(src); got != src {
		t.Error("zero-origin RGBA should be returned unchanged")
	}
}
