package text

import "testing"

func TestLayoutTextPaintsGlyphs(t *testing.T) {
	img, err := BasicLayouter{}.LayoutText("Hi", "ignored", 0)
	if err != nil {
		t.Fatalf("LayoutText: %v", err)
	}
	if img.Bounds().Dy() != faceHeight {
		t.Errorf("unscaled height = %d, want %d", img.Bounds().Dy(), faceHeight)
	}
	if img.Bounds().Dx() != 14 { // two 7px-advance glyphs
		t.Errorf("width = %d, want 14", img.Bounds().Dx())
	}

	painted := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Error("no glyph pixels painted")
	}
}

func TestLayoutTextScalesToSize(t *testing.T) {
	img, err := BasicLayouter{}.LayoutText("A", "", 26)
	if err != nil {
		t.Fatalf("LayoutText: %v", err)
	}
	if got := img.Bounds().Dy(); got != 26 {
		t.Errorf("scaled height = %d, want 26", got)
	}
	if got := img.Bounds().Dx(); got != 14 { // 7px advance doubled
		t.Errorf("scaled width = %d, want 14", got)
	}
}

func TestLayoutTextEmptyString(t *testing.T) {
	img, err := BasicLayouter{}.LayoutText("", "", 0)
	if err != nil {
		t.Fatalf("LayoutText: %v", err)
	}
	if img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
		t.Errorf("empty string should still yield a 1px-wide buffer, got %v", img.Bounds())
	}
}
