package engine

import "github.com/ironsheep/image-edit-mcp/internal/raster"

// Brighten adds delta to every channel of every pixel, clamping the result.
// A negative delta darkens.
func Brighten(src *raster.Buffer, delta int) *raster.Buffer {
	out := raster.New(src.Name, src.Height, src.Width)
	for o, v := range src.Pix {
		out.Pix[o] = raster.ClampInt(int(v) + delta)
	}
	return out
}

// Flip mirrors src. A vertical flip reverses the row order; a horizontal
// flip reverses the columns of each row.
func Flip(src *raster.Buffer, vertical bool) *raster.Buffer {
	out := raster.New(src.Name, src.Height, src.Width)
	for i := 0; i < src.Height; i++ {
		for j := 0; j < src.Width; j++ {
			if vertical {
				out.SetPixel(src.Height-1-i, j, src.Pixel(i, j))
			} else {
				out.SetPixel(i, src.Width-1-j, src.Pixel(i, j))
			}
		}
	}
	return out
}

// SplitRGB returns the red, green and blue component images of src.
func SplitRGB(src *raster.Buffer) (r, g, b *raster.Buffer) {
	return replicateChannel(src, 0), replicateChannel(src, 1), replicateChannel(src, 2)
}

// CombineRGB builds a colour image whose red, green and blue channels are
// channel 0 of r, g and b respectively. All three inputs must share one
// shape. The output carries the name of r.
func CombineRGB(r, g, b *raster.Buffer) (*raster.Buffer, error) {
	if !r.SameShape(g) || !r.SameShape(b) {
		return nil, raster.Invalidf("combine",
			"component shapes differ: %dx%d, %dx%d, %dx%d",
			r.Height, r.Width, g.Height, g.Width, b.Height, b.Width)
	}
	out := raster.New(r.Name, r.Height, r.Width)
	for o := 0; o < len(out.Pix); o += raster.Channels {
		out.Pix[o] = r.Pix[o]
		out.Pix[o+1] = g.Pix[o]
		out.Pix[o+2] = b.Pix[o]
	}
	return out, nil
}
