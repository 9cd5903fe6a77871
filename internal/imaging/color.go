package imaging

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// LabColor represents a color in CIE L*a*b* space (D65 white point).
type LabColor struct {
	L float64 `json:"l"` // Lightness: 0-100
	A float64 `json:"a"` // Green (-) to red (+)
	B float64 `json:"b"` // Blue (-) to yellow (+)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
	Lab LabColor `json:"lab"` // CIE L*a*b* representation
}

// SampleColor returns the color of the pixel at row, col of b.
//
// Parameters:
//   - b: The buffer to sample from.
//   - row: Row index (0 = top).
//   - col: Column index (0 = left).
//
// Returns:
//   - *ColorResult: The color at (row, col) in multiple formats.
//   - error: Non-nil if the coordinates are outside the buffer.
//
// HSL values are truncated to whole degrees and percentages. Lab values are
// rounded to two decimals.
func SampleColor(b *raster.Buffer, row, col int) (*ColorResult, error) {
	if row < 0 || row >= b.Height || col < 0 || col >= b.Width {
		return nil, fmt.Errorf("coordinates (row %d, col %d) outside image bounds %dx%d", row, col, b.Height, b.Width)
	}
	px := b.Pixel(row, col)
	return describeColor(px[0], px[1], px[2]), nil
}

func describeColor(r, g, b uint8) *ColorResult {
	c, _ := colorful.MakeColor(color.NRGBA{R: r, G: g, B: b, A: 255})
	h, s, l := c.Hsl()
	labL, labA, labB := c.Lab()

	return &ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		Lab: LabColor{L: round2(labL * 100), A: round2(labA * 100), B: round2(labB * 100)},
	}
}

func round2(v float64) float64 {
	if v < 0 {
		return -float64(int(-v*100+0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"` // Colors sorted by frequency (descending)
}

// DominantColors returns the count most common colors of b.
//
// # Color Quantization
//
// Each component is quantized to a multiple of 16 before counting, so colors
// within 16 units of each other (per component) fall into the same bucket:
//
//	quantized = (original / 16) * 16
//
// Ties are ordered by hex value so results are deterministic.
func DominantColors(b *raster.Buffer, count int) (*DominantColorsResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	counts := make(map[RGBColor]int)
	for o := 0; o < len(b.Pix); o += raster.Channels {
		key := RGBColor{R: b.Pix[o] / 16 * 16, G: b.Pix[o+1] / 16 * 16, B: b.Pix[o+2] / 16 * 16}
		counts[key]++
	}

	total := b.Height * b.Width
	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        rgb,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return &DominantColorsResult{Colors: colors}, nil
}
