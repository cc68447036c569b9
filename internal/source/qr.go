package source

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the rendered side length in pixels.
const qrSize = 256

// QRSource generates QR code content on the fly: the reference remainder is
// the encoded text. Useful for call-to-action overlays in exported videos.
type QRSource struct{}

// Resolve encodes ref as a QR code image.
func (QRSource) Resolve(ref string, _ float64) (*image.RGBA, error) {
	q, err := qrcode.New(ref, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return toRGBA(q.Image(qrSize)), nil
}
