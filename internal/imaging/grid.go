package imaging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// DefaultGridColor is used when GridOverlay is given an empty color.
const DefaultGridColor = "#FF0000"

// gridColor is a parsed overlay color with straight (non-premultiplied) alpha.
type gridColor struct {
	R, G, B, A uint8
}

// GridOverlay returns a copy of b with grid lines drawn every spacing pixels
// in both directions. The color is "#RRGGBB" or "#RRGGBBAA"; a partially
// transparent color is blended over the underlying pixels. When
// showCoordinates is set, every grid intersection is labelled "row,col" so
// a reader can pick coordinates for image_sample_color and friends.
func GridOverlay(b *raster.Buffer, spacing int, showCoordinates bool, colorHex string) (*raster.Buffer, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}
	if colorHex == "" {
		colorHex = DefaultGridColor
	}
	c, err := parseHexColor(colorHex)
	if err != nil {
		return nil, fmt.Errorf("invalid grid color %q: %w", colorHex, err)
	}

	out := b.Clone(b.Name)

	for j := spacing; j < out.Width; j += spacing {
		for i := 0; i < out.Height; i++ {
			blendPixel(out, i, j, c)
		}
	}
	for i := spacing; i < out.Height; i += spacing {
		for j := 0; j < out.Width; j++ {
			if j%spacing == 0 && j > 0 {
				continue // intersection already drawn
			}
			blendPixel(out, i, j, c)
		}
	}

	if showCoordinates {
		fg := gridColor{255, 255, 255, 255}
		bg := gridColor{0, 0, 0, 180}
		for i := spacing; i < out.Height; i += spacing {
			for j := spacing; j < out.Width; j += spacing {
				drawLabel(out, i+2, j+2, fmt.Sprintf("%d,%d", i, j), fg, bg)
			}
		}
	}
	return out, nil
}

func blendPixel(b *raster.Buffer, i, j int, c gridColor) {
	if c.A == 255 {
		b.SetPixel(i, j, [raster.Channels]uint8{c.R, c.G, c.B})
		return
	}
	a := float64(c.A) / 255
	px := b.Pixel(i, j)
	b.SetPixel(i, j, [raster.Channels]uint8{
		raster.ClampFloat(a*float64(c.R) + (1-a)*float64(px[0])),
		raster.ClampFloat(a*float64(c.G) + (1-a)*float64(px[1])),
		raster.ClampFloat(a*float64(c.B) + (1-a)*float64(px[2])),
	})
}

// parseHexColor parses "#FF0000" or "#FF000080"; the leading '#' is optional.
func parseHexColor(hex string) (gridColor, error) {
	if hex == "" {
		return gridColor{}, fmt.Errorf("empty color string")
	}
	hex = strings.TrimPrefix(hex, "#")

	var alpha uint8 = 255
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return gridColor{}, err
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return gridColor{}, fmt.Errorf("invalid hex color length")
	}

	col, err := colorful.Hex("#" + hex)
	if err != nil {
		return gridColor{}, err
	}
	r, g, b := col.RGB255()
	return gridColor{R: r, G: g, B: b, A: alpha}, nil
}

// drawLabel draws text with its top-left corner at row i, column j using a
// 3x5 pixel font. Characters outside the font are skipped.
func drawLabel(b *raster.Buffer, i, j int, text string, fg, bg gridColor) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	inside := func(y, x int) bool {
		return y >= 0 && y < b.Height && x >= 0 && x < b.Width
	}

	const charWidth = 4
	const labelHeight = 7
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if inside(i+dy, j+dx) {
				blendPixel(b, i+dy, j+dx, bg)
			}
		}
	}

	cx := j
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' && inside(i+row, cx+col) {
					blendPixel(b, i+row, cx+col, fg)
				}
			}
		}
		cx += charWidth
	}
}
