package render

import "image"

// ContentSource supplies decoded pixel buffers for image and video layer
// content. Implementations live outside the core (media decoding is a host
// concern); internal/source has the stock ones.
type ContentSource interface {
	// DecodeFrame resolves sourceRef to an RGBA buffer at the given
	// timestamp. Still sources ignore the timestamp.
	DecodeFrame(sourceRef string, timestamp float64) (*image.RGBA, error)
}

// TextLayouter renders styled text to a pixel buffer. Like ContentSource it
// is a host collaborator; internal/text has a minimal implementation.
type TextLayouter interface {
	LayoutText(content, font string, size float64) (*image.RGBA, error)
}
