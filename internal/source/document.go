package source

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// defaultDocDPI matches common display density for rasterized pages.
const defaultDocDPI = 150

// DocumentSource rasterizes pages of PDF-like documents via go-fitz.
// References take the form "path.pdf#page" with a zero-based page index;
// a missing fragment means page 0. Open documents are cached per path.
type DocumentSource struct {
	DPI float64

	mu   sync.Mutex
	docs map[string]*fitz.Document
}

// Resolve rasterizes the referenced page.
func (d *DocumentSource) Resolve(ref string, _ float64) (*image.RGBA, error) {
	path, page := ref, 0
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		n, err := strconv.Atoi(ref[i+1:])
		if err != nil {
			return nil, fmt.Errorf("invalid page index in %q: %w", ref, err)
		}
		path, page = ref[:i], n
	}

	doc, err := d.open(path)
	if err != nil {
		return nil, err
	}
	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range for %q (%d pages)", page, path, doc.NumPage())
	}

	dpi := d.DPI
	if dpi <= 0 {
		dpi = defaultDocDPI
	}
	img, err := doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("rasterize %q page %d: %w", path, page, err)
	}
	return toRGBA(img), nil
}

func (d *DocumentSource) open(path string) (*fitz.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if doc, ok := d.docs[path]; ok {
		return doc, nil
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open document %q: %w", path, err)
	}
	if d.docs == nil {
		d.docs = make(map[string]*fitz.Document)
	}
	d.docs[path] = doc
	return doc, nil
}

// Close releases all cached documents.
func (d *DocumentSource) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var first error
	for _, doc := range d.docs {
		if err := doc.Close(); err != nil && first == nil {
			first = err
		}
	}
	d.docs = nil
	return first
}
