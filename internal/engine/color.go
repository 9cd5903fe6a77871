package engine

import (
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// ColorMatrix maps an (R,G,B) column vector to a new (R,G,B) vector.
type ColorMatrix [3][3]float64

// SepiaMatrix tints an image brown.
var SepiaMatrix = ColorMatrix{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// LumaMatrix replaces every channel with the Rec. 709 luma.
var LumaMatrix = ColorMatrix{
	{0.2126, 0.7152, 0.0722},
	{0.2126, 0.7152, 0.0722},
	{0.2126, 0.7152, 0.0722},
}

// ApplyMatrix multiplies every pixel by m. Each resulting channel is
// truncated toward zero and then clamped into [0,255].
func ApplyMatrix(m ColorMatrix, src *raster.Buffer) *raster.Buffer {
	out := raster.New(src.Name, src.Height, src.Width)
	for o := 0; o < len(src.Pix); o += raster.Channels {
		r := float64(src.Pix[o])
		g := float64(src.Pix[o+1])
		b := float64(src.Pix[o+2])
		for k := 0; k < raster.Channels; k++ {
			v := m[k][0]*r + m[k][1]*g + m[k][2]*b
			out.Pix[o+k] = raster.ClampInt(int(v))
		}
	}
	return out
}

// Sepia applies SepiaMatrix.
func Sepia(src *raster.Buffer) *raster.Buffer {
	return ApplyMatrix(SepiaMatrix, src)
}

// Component selects the scalar that ExtractComponent replicates into all
// three channels.
type Component int

const (
	ComponentRed Component = iota + 1
	ComponentGreen
	ComponentBlue
	ComponentValue
	ComponentIntensity
	ComponentLuma
)

var componentNames = map[Component]string{
	ComponentRed:       "red",
	ComponentGreen:     "green",
	ComponentBlue:      "blue",
	ComponentValue:     "value",
	ComponentIntensity: "intensity",
	ComponentLuma:      "luma",
}

func (c Component) String() string {
	if s, ok := componentNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseComponent maps "red", "green", "blue", "value", "intensity" or
// "luma" (case-insensitive) to a Component.
func ParseComponent(name string) (Component, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, s := range componentNames {
		if s == name {
			return c, nil
		}
	}
	return 0, raster.Invalidf("component", "unknown component %q", name)
}

// ExtractComponent builds a greyscale image from one scalar per pixel.
//
// Red, Green and Blue copy that channel. Value is max(R,G,B). Intensity is
// (R+G+B)/3 with integer division. Luma delegates to ApplyMatrix with
// LumaMatrix.
func ExtractComponent(src *raster.Buffer, kind Component) (*raster.Buffer, error) {
	var pick func(r, g, b uint8) uint8
	switch kind {
	case ComponentRed:
		return replicateChannel(src, 0), nil
	case ComponentGreen:
		return replicateChannel(src, 1), nil
	case ComponentBlue:
		return replicateChannel(src, 2), nil
	case ComponentValue:
		pick = func(r, g, b uint8) uint8 { return max(r, g, b) }
	case ComponentIntensity:
		pick = func(r, g, b uint8) uint8 { return uint8((int(r) + int(g) + int(b)) / 3) }
	case ComponentLuma:
		return ApplyMatrix(LumaMatrix, src), nil
	default:
		return nil, raster.Invalidf("component", "unknown component %d", int(kind))
	}

	out := raster.New(src.Name, src.Height, src.Width)
	for o := 0; o < len(src.Pix); o += raster.Channels {
		v := pick(src.Pix[o], src.Pix[o+1], src.Pix[o+2])
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = v, v, v
	}
	return out, nil
}

// replicateChannel copies channel k of every pixel into all three channels.
func replicateChannel(src *raster.Buffer, k int) *raster.Buffer {
	out := raster.New(src.Name, src.Height, src.Width)
	for o := 0; o < len(src.Pix); o += raster.Channels {
		v := src.Pix[o+k]
		out.Pix[o], out.Pix[o+1], out.Pix[o+2] = v, v, v
	}
	return out
}
