package engine

import (
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

func TestBrighten(t *testing.T) {
	src := filledBuffer(1, 1, 10, 128, 250)
	tests := []struct {
		delta int
		want  [3]uint8
	}{
		{0, [3]uint8{10, 128, 250}},
		{20, [3]uint8{30, 148, 255}},
		{-20, [3]uint8{0, 108, 230}},
		{300, [3]uint8{255, 255, 255}},
	}
	for _, tt := range tests {
		assertPixel(t, Brighten(src, tt.delta), 0, 0, tt.want)
	}
}

func TestFlip(t *testing.T) {
	src := newTestBuffer(t, [][][]int{
		{{1, 1, 1}, {2, 2, 2}},
		{{3, 3, 3}, {4, 4, 4}},
	})

	v := Flip(src, true)
	assertPixel(t, v, 0, 0, [3]uint8{3, 3, 3})
	assertPixel(t, v, 1, 1, [3]uint8{2, 2, 2})

	h := Flip(src, false)
	assertPixel(t, h, 0, 0, [3]uint8{2, 2, 2})
	assertPixel(t, h, 1, 0, [3]uint8{4, 4, 4})

	if !Flip(v, true).Equal(src) {
		t.Error("flipping twice should restore the input")
	}
}

func TestSplitCombineRGB(t *testing.T) {
	src := randomBuffer(4, 5, 21)
	r, g, b := SplitRGB(src)

	assertPixel(t, r, 2, 3, [3]uint8{src.Pixel(2, 3)[0], src.Pixel(2, 3)[0], src.Pixel(2, 3)[0]})

	out, err := CombineRGB(r, g, b)
	if err != nil {
		t.Fatalf("CombineRGB failed: %v", err)
	}
	if !out.Equal(src) {
		t.Error("split then combine should restore the input")
	}
}

func TestCombineRGB_ShapeMismatch(t *testing.T) {
	a := raster.New("a", 2, 2)
	b := raster.New("b", 2, 3)
	if _, err := CombineRGB(a, a, b); !raster.IsValidation(err) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestSplitRGB_MatchesComponents(t *testing.T) {
	src := randomBuffer(5, 7, 11)
	before := src.Clone("before")
	r, g, b := SplitRGB(src)

	for i, tt := range []struct {
		got  *raster.Buffer
		kind Component
	}{{r, ComponentRed}, {g, ComponentGreen}, {b, ComponentBlue}} {
		want, err := ExtractComponent(src, tt.kind)
		if err != nil {
			t.Fatalf("ExtractComponent(%s) failed: %v", tt.kind, err)
		}
		if !tt.got.Equal(want) {
			t.Errorf("channel %d: SplitRGB differs from ExtractComponent(%s)", i, tt.kind)
		}
	}
	if !src.Equal(before) {
		t.Error("SplitRGB modified its input")
	}
}
