package system

import (
	"image"
	"sync"
)

// FramePool reuses *image.RGBA frame buffers between renders to keep the
// per-frame allocation pressure off the garbage collector. Buffers are
// pooled per size.
type FramePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &FramePool{
	pools: make(map[string]*sync.Pool),
}

// GetFrame returns a zeroed *image.RGBA covering rect from the shared pool.
func GetFrame(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutFrame returns a frame to the shared pool for reuse.
func PutFrame(img *image.RGBA) {
	globalPool.Put(img)
}

// Get returns a zeroed *image.RGBA covering rect, creating one when the
// pool has no buffer of that size.
func (p *FramePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	return img
}

// Put returns img to the pool keyed by its bounds.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
