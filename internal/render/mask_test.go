package render

import (
	"image"
	"testing"

	"github.com/ivlev/motioncore/internal/animation"
	"github.com/ivlev/motioncore/internal/scene"
)

func vec2Param(x, y float64) *animation.Property {
	return animation.NewProperty("p", animation.Vector2(x, y))
}

func centeredRectMask(mode scene.MaskMode, w, h float64) *scene.Mask {
	return &scene.Mask{
		Mode:   mode,
		Shape:  scene.MaskRect,
		Center: vec2Param(4, 4),
		Size:   vec2Param(w, h),
	}
}

func alphaAt(buf *image.RGBA, x, y int) byte {
	return buf.Pix[buf.PixOffset(x, y)+3]
}

func TestIntersectMaskStack(t *testing.T) {
	// Two overlapping rects intersected: only the overlap survives.
	buf := uniformFrame(animation.Color{R: 255, A: 255})
	masks := []*scene.Mask{
		{Mode: scene.MaskAdd, Shape: scene.MaskRect, Center: vec2Param(3, 4), Size: vec2Param(4, 8)},
		{Mode: scene.MaskIntersect, Shape: scene.MaskRect, Center: vec2Param(5, 4), Size: vec2Param(4, 8)},
	}
	applyMasks(buf, masks, 0)

	if a := alphaAt(buf, 4, 4); a != 255 {
		t.Errorf("overlap alpha = %d, want 255", a)
	}
	if a := alphaAt(buf, 1, 4); a != 0 {
		t.Errorf("first-rect-only alpha = %d, want 0", a)
	}
	if a := alphaAt(buf, 7, 4); a != 0 {
		t.Errorf("second-rect-only alpha = %d, want 0", a)
	}
}

func TestDifferenceMaskKeepsExclusiveRegions(t *testing.T) {
	buf := uniformFrame(animation.Color{R: 255, A: 255})
	masks := []*scene.Mask{
		{Mode: scene.MaskAdd, Shape: scene.MaskRect, Center: vec2Param(3, 4), Size: vec2Param(4, 8)},
		{Mode: scene.MaskDiff, Shape: scene.MaskRect, Center: vec2Param(5, 4), Size: vec2Param(4, 8)},
	}
	applyMasks(buf, masks, 0)

	if a := alphaAt(buf, 4, 4); a != 0 {
		t.Errorf("overlap alpha = %d, want 0", a)
	}
	if a := alphaAt(buf, 1, 4); a != 255 {
		t.Errorf("first-rect-only alpha = %d, want 255", a)
	}
	if a := alphaAt(buf, 6, 4); a != 255 {
		t.Errorf("second-rect-only alpha = %d, want 255", a)
	}
}

func TestMaskFeatherFallsOffLinearly(t *testing.T) {
	buf := uniformFrame(animation.Color{R: 255, A: 255})
	mask := centeredRectMask(scene.MaskAdd, 4, 4)
	mask.Feather = animation.NewProperty("feather", animation.Number(1))
	applyMasks(buf, []*scene.Mask{mask}, 0)

	deep := alphaAt(buf, 4, 4) // more than a feather width inside
	edge := alphaAt(buf, 6, 4) // half a pixel past the outline
	far := alphaAt(buf, 0, 4)  // more than a feather width outside

	if deep != 255 {
		t.Errorf("deep-inside alpha = %d, want 255", deep)
	}
	if edge == 0 || edge == 255 {
		t.Errorf("outline alpha = %d, want a feathered intermediate", edge)
	}
	if far != 0 {
		t.Errorf("far-outside alpha = %d, want 0", far)
	}
}

func TestMaskOpacityScalesCoverage(t *testing.T) {
	buf := uniformFrame(animation.Color{R: 255, A: 255})
	mask := centeredRectMask(scene.MaskAdd, 6, 6)
	mask.Opacity = animation.NewProperty("opacity", animation.Number(0.5))
	applyMasks(buf, []*scene.Mask{mask}, 0)

	if a := alphaAt(buf, 4, 4); a != 128 {
		t.Errorf("alpha under a half-opacity mask = %d, want 128", a)
	}
}

func TestNilMaskEntriesIgnored(t *testing.T) {
	buf := uniformFrame(animation.Color{R: 255, A: 255})
	applyMasks(buf, []*scene.Mask{nil, nil}, 0)
	if a := alphaAt(buf, 4, 4); a != 255 {
		t.Errorf("alpha = %d after a mask list of only nils, want untouched 255", a)
	}

	// A nil ahead of a real mask must not demote it from the leading slot.
	buf = uniformFrame(animation.Color{R: 255, A: 255})
	applyMasks(buf, []*scene.Mask{nil, centeredRectMask(scene.MaskIntersect, 4, 4)}, 0)
	if a := alphaAt(buf, 4, 4); a != 255 {
		t.Errorf("alpha inside a leading intersect mask = %d, want 255", a)
	}
	if a := alphaAt(buf, 0, 0); a != 0 {
		t.Errorf("alpha outside a leading intersect mask = %d, want 0", a)
	}
}

func TestMaskExpansionGrowsOutline(t *testing.T) {
	tight := uniformFrame(animation.Color{R: 255, A: 255})
	applyMasks(tight, []*scene.Mask{centeredRectMask(scene.MaskAdd, 2, 2)}, 0)

	grown := uniformFrame(animation.Color{R: 255, A: 255})
	mask := centeredRectMask(scene.MaskAdd, 2, 2)
	mask.Expansion = animation.NewProperty("expansion", animation.Number(2))
	applyMasks(grown, []*scene.Mask{mask}, 0)

	// (6,4) is outside the 2x2 rect but inside the expanded one.
	if a := alphaAt(tight, 6, 4); a != 0 {
		t.Errorf("unexpanded mask covers (6,4): alpha %d", a)
	}
	if a := alphaAt(grown, 6, 4); a != 255 {
		t.Errorf("expanded mask misses (6,4): alpha %d", a)
	}
}
