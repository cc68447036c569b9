package render

import (
	"image"
	"testing"

	"github.com/ivlev/motioncore/internal/animation"
	"github.com/ivlev/motioncore/internal/scene"
)

func uniformFrame(c animation.Color) *image.RGBA {
	buf := image.NewRGBA(image.Rect(0, 0, 8, 8))
	fillBackground(buf, c)
	return buf
}

func TestCompositeBlendModes(t *testing.T) {
	tests := []struct {
		name string
		mode scene.BlendMode
		src  animation.Color
		dst  animation.Color
		want animation.Color
	}{
		{
			name: "multiply of mid grays",
			mode: scene.BlendMultiply,
			src:  animation.Color{R: 128, G: 128, B: 128, A: 255},
			dst:  animation.Color{R: 128, G: 128, B: 128, A: 255},
			want: animation.Color{R: 64, G: 64, B: 64, A: 255},
		},
		{
			name: "multiply by white is identity",
			mode: scene.BlendMultiply,
			src:  animation.Color{R: 255, G: 255, B: 255, A: 255},
			dst:  animation.Color{R: 40, G: 90, B: 200, A: 255},
			want: animation.Color{R: 40, G: 90, B: 200, A: 255},
		},
		{
			name: "screen of mid grays",
			mode: scene.BlendScreen,
			src:  animation.Color{R: 128, G: 128, B: 128, A: 255},
			dst:  animation.Color{R: 128, G: 128, B: 128, A: 255},
			want: animation.Color{R: 192, G: 192, B: 192, A: 255},
		},
		{
			name: "screen by black is identity",
			mode: scene.BlendScreen,
			src:  animation.Color{A: 255},
			dst:  animation.Color{R: 40, G: 90, B: 200, A: 255},
			want: animation.Color{R: 40, G: 90, B: 200, A: 255},
		},
		{
			name: "add sums channels",
			mode: scene.BlendAdd,
			src:  animation.Color{R: 100, G: 100, B: 100, A: 255},
			dst:  animation.Color{R: 100, G: 50, B: 0, A: 255},
			want: animation.Color{R: 200, G: 150, B: 100, A: 255},
		},
		{
			name: "add clamps at white",
			mode: scene.BlendAdd,
			src:  animation.Color{R: 200, G: 200, B: 200, A: 255},
			dst:  animation.Color{R: 100, G: 100, B: 100, A: 255},
			want: animation.Color{R: 255, G: 255, B: 255, A: 255},
		},
		{
			name: "difference is absolute",
			mode: scene.BlendDifference,
			src:  animation.Color{R: 100, G: 30, B: 0, A: 255},
			dst:  animation.Color{R: 30, G: 100, B: 0, A: 255},
			want: animation.Color{R: 70, G: 70, B: 0, A: 255},
		},
		{
			name: "overlay darkens dark backdrops",
			mode: scene.BlendOverlay,
			src:  animation.Color{R: 128, G: 128, B: 128, A: 255},
			dst:  animation.Color{R: 51, G: 51, B: 51, A: 255},
			want: animation.Color{R: 51, G: 51, B: 51, A: 255},
		},
		{
			name: "overlay lightens light backdrops",
			mode: scene.BlendOverlay,
			src:  animation.Color{R: 128, G: 128, B: 128, A: 255},
			dst:  animation.Color{R: 204, G: 204, B: 204, A: 255},
			want: animation.Color{R: 204, G: 204, B: 204, A: 255},
		},
		{
			name: "normal replaces when opaque",
			mode: scene.BlendNormal,
			src:  animation.Color{R: 1, G: 2, B: 3, A: 255},
			dst:  animation.Color{R: 200, G: 200, B: 200, A: 255},
			want: animation.Color{R: 1, G: 2, B: 3, A: 255},
		},
		{
			name: "normal half alpha mixes",
			mode: scene.BlendNormal,
			src:  animation.Color{R: 255, A: 128},
			dst:  animation.Color{A: 255},
			want: animation.Color{R: 128, A: 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := uniformFrame(tt.dst)
			src := uniformFrame(tt.src)
			composite(dst, src, tt.mode)
			off := dst.PixOffset(3, 3)
			got := animation.Color{R: dst.Pix[off], G: dst.Pix[off+1], B: dst.Pix[off+2], A: dst.Pix[off+3]}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompositeSkipsTransparentSource(t *testing.T) {
	dst := uniformFrame(animation.Color{R: 10, G: 20, B: 30, A: 255})
	before := make([]byte, len(dst.Pix))
	copy(before, dst.Pix)

	composite(dst, uniformFrame(animation.Color{R: 255, G: 255, B: 255, A: 0}), scene.BlendNormal)

	for i := range dst.Pix {
		if dst.Pix[i] != before[i] {
			t.Fatalf("byte %d changed compositing a fully transparent layer", i)
		}
	}
}

func TestCompositeAlphaNeverDecreases(t *testing.T) {
	dst := uniformFrame(animation.Color{R: 50, G: 50, B: 50, A: 255})
	composite(dst, uniformFrame(animation.Color{R: 255, A: 10}), scene.BlendNormal)

	off := dst.PixOffset(0, 0)
	if a := dst.Pix[off+3]; a != 255 {
		t.Errorf("backdrop alpha fell to %d under a low-alpha layer", a)
	}
}

func TestBlendChannelUnknownModeActsAsNormal(t *testing.T) {
	if got := blendChannel(scene.BlendMode("bogus"), 0.25, 0.75); got != 0.25 {
		t.Errorf("unknown mode = %v, want source passthrough", got)
	}
}
