package engine

import (
	"math"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

func TestCurveCoefficients(t *testing.T) {
	a, b, c, err := CurveCoefficients(0, 100, 255)
	if err != nil {
		t.Fatalf("CurveCoefficients failed: %v", err)
	}
	// A = 255*100^2 - 100*255^2 = -3952500
	// a = (128*255 - 255*100) / A = 7140 / -3952500
	// b = (255*100^2 - 128*255^2) / A = -5773200 / -3952500
	wantA := 7140.0 / -3952500.0
	wantB := 5773200.0 / 3952500.0
	if math.Abs(a-wantA) > 1e-12 {
		t.Errorf("a: got %v, want %v", a, wantA)
	}
	if math.Abs(b-wantB) > 1e-12 {
		t.Errorf("b: got %v, want %v", b, wantB)
	}
	if math.Abs(c) > 1e-12 {
		t.Errorf("c: got %v, want 0", c)
	}

	// the curve passes through its three control points
	for _, p := range [][2]float64{{0, 0}, {100, 128}, {255, 255}} {
		y := a*p[0]*p[0] + b*p[0] + c
		if math.Abs(y-p[1]) > 1e-9 {
			t.Errorf("curve(%v): got %v, want %v", p[0], y, p[1])
		}
	}
}

func TestCurveCoefficients_Identity(t *testing.T) {
	a, b, c, err := CurveCoefficients(0, 128, 255)
	if err != nil {
		t.Fatalf("CurveCoefficients failed: %v", err)
	}
	if math.Abs(a) > 1e-12 || math.Abs(b-1) > 1e-12 || math.Abs(c) > 1e-12 {
		t.Errorf("coefficients: got (%v, %v, %v), want (0, 1, 0)", a, b, c)
	}
}

func TestCurveCoefficients_Invalid(t *testing.T) {
	tests := []struct {
		name              string
		black, mid, white int
	}{
		{"black negative", -1, 100, 200},
		{"white above 255", 0, 100, 256},
		{"black equals mid", 100, 100, 200},
		{"mid equals white", 0, 200, 200},
		{"descending", 200, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := CurveCoefficients(tt.black, tt.mid, tt.white)
			if !raster.IsValidation(err) {
				t.Errorf("got %v, want ValidationError", err)
			}
		})
	}
}

func TestApplyLevels_FourByThree(t *testing.T) {
	src := newTestBuffer(t, [][][]int{
		{{0, 10, 30}, {50, 150, 200}, {240, 0, 10}},
		{{30, 50, 150}, {200, 240, 0}, {10, 30, 50}},
		{{150, 200, 240}, {0, 30, 150}, {50, 200, 10}},
		{{240, 150, 30}, {10, 0, 200}, {200, 50, 240}},
	})
	// trunc(a*v^2 + b*v) for black=0, mid=100, white=255
	want := map[int]int{0: 0, 10: 14, 30: 42, 50: 68, 150: 178, 200: 219, 240: 246}

	out, err := ApplyLevels(src, 0, 100, 255)
	if err != nil {
		t.Fatalf("ApplyLevels failed: %v", err)
	}
	for i := 0; i < src.Height; i++ {
		for j := 0; j < src.Width; j++ {
			for k := 0; k < 3; k++ {
				in := src.At(i, j, k)
				if got := out.At(i, j, k); got != want[in] {
					t.Errorf("(%d,%d,%d) value %d: got %d, want %d", i, j, k, in, got, want[in])
				}
			}
		}
	}
}

func TestApplyLevels_ClampsBelowBlack(t *testing.T) {
	src := filledBuffer(1, 1, 5, 60, 250)
	out, err := ApplyLevels(src, 50, 128, 200)
	if err != nil {
		t.Fatalf("ApplyLevels failed: %v", err)
	}
	got := out.Pixel(0, 0)
	if got[0] != 0 {
		t.Errorf("below black point: got %d, want 0", got[0])
	}
	if got[2] != 255 {
		t.Errorf("above white point: got %d, want 255", got[2])
	}
}

func TestApplyLevels_InvalidParams(t *testing.T) {
	_, err := ApplyLevels(filledBuffer(1, 1, 0, 0, 0), 10, 5, 200)
	if !raster.IsValidation(err) {
		t.Errorf("got %v, want ValidationError", err)
	}
}
