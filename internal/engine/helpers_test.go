package engine

import (
	"math/rand"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// newTestBuffer builds a buffer from nested rows, failing the test on error
func newTestBuffer(t *testing.T, rows [][][]int) *raster.Buffer {
	t.Helper()
	b, err := raster.FromRows("test", rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	return b
}

// filledBuffer creates a buffer where every pixel has the same colour
func filledBuffer(height, width int, r, g, b uint8) *raster.Buffer {
	buf := raster.New("filled", height, width)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			buf.SetPixel(i, j, [3]uint8{r, g, b})
		}
	}
	return buf
}

// randomBuffer creates a buffer of deterministic pseudo-random pixels
func randomBuffer(height, width int, seed int64) *raster.Buffer {
	rng := rand.New(rand.NewSource(seed))
	buf := raster.New("random", height, width)
	for i := range buf.Pix {
		buf.Pix[i] = uint8(rng.Intn(256))
	}
	return buf
}

func assertPixel(t *testing.T, b *raster.Buffer, i, j int, want [3]uint8) {
	t.Helper()
	if got := b.Pixel(i, j); got != want {
		t.Errorf("pixel (%d,%d): got %v, want %v", i, j, got, want)
	}
}
