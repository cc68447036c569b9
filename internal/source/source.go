// Package source has the stock content-source collaborators behind the
// renderer's ContentSource port. Source references use a scheme prefix:
//
//	file:path/to/still.png      image files on disk
//	doc:path/to/slides.pdf#3    a page of a PDF or similar document
//	qr:some text                a generated QR code
//
// The core never decodes media itself; these implementations sit outside it
// and can be replaced wholesale by the host.
package source

import (
	"fmt"
	"image"
	"image/draw"
	"strings"
)

// Router dispatches source references to the registered scheme handlers.
type Router struct {
	handlers map[string]Handler
}

// Handler resolves the reference remainder (after the scheme prefix) to a
// buffer.
type Handler interface {
	Resolve(ref string, timestamp float64) (*image.RGBA, error)
}

// NewRouter creates a router with the default handlers registered.
func NewRouter() *Router {
	r := &Router{handlers: make(map[string]Handler)}
	r.Register("file", FileSource{})
	r.Register("doc", &DocumentSource{})
	r.Register("qr", QRSource{})
	return r
}

// Register installs a handler for a scheme, replacing any existing one.
func (r *Router) Register(scheme string, h Handler) {
	r.handlers[scheme] = h
}

// DecodeFrame implements render.ContentSource. References without a scheme
// default to file.
func (r *Router) DecodeFrame(sourceRef string, timestamp float64) (*image.RGBA, error) {
	scheme, rest := "file", sourceRef
	if i := strings.Index(sourceRef, ":"); i > 0 {
		scheme, rest = sourceRef[:i], sourceRef[i+1:]
	}

	h, ok := r.handlers[scheme]
	if !ok {
		return nil, fmt.Errorf("no content source for scheme %q", scheme)
	}
	return h.Resolve(rest, timestamp)
}

// toRGBA converts any decoded image to a zero-origin *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
