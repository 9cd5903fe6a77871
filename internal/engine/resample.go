package engine

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Downscale shrinks src to targetHeight x targetWidth with bilinear
// interpolation. Upscaling is not supported: each target dimension must be
// positive and no larger than the source.
//
// Output pixel (i,j) samples the source at (i*h/th, j*w/tw). The four
// neighbours are the floor and ceil of each coordinate, clamped to the last
// row or column, and the fractional weights are taken from the floor.
func Downscale(src *raster.Buffer, targetHeight, targetWidth int) (*raster.Buffer, error) {
	if targetHeight <= 0 || targetHeight > src.Height {
		return nil, raster.Invalidf("downscale", "target height %d must be in 1..%d", targetHeight, src.Height)
	}
	if targetWidth <= 0 || targetWidth > src.Width {
		return nil, raster.Invalidf("downscale", "target width %d must be in 1..%d", targetWidth, src.Width)
	}

	ratioY := float64(src.Height) / float64(targetHeight)
	ratioX := float64(src.Width) / float64(targetWidth)
	out := raster.New(src.Name, targetHeight, targetWidth)

	for i := 0; i < targetHeight; i++ {
		y := float64(i) * ratioY
		y0 := min(int(math.Floor(y)), src.Height-1)
		y1 := min(int(math.Ceil(y)), src.Height-1)
		fy := y - float64(y0)

		for j := 0; j < targetWidth; j++ {
			x := float64(j) * ratioX
			x0 := min(int(math.Floor(x)), src.Width-1)
			x1 := min(int(math.Ceil(x)), src.Width-1)
			fx := x - float64(x0)

			for k := 0; k < raster.Channels; k++ {
				top := float64(src.At(y0, x0, k))*(1-fy) + float64(src.At(y1, x0, k))*fy
				bottom := float64(src.At(y0, x1, k))*(1-fy) + float64(src.At(y1, x1, k))*fy
				v := top*(1-fx) + bottom*fx
				out.Pix[(i*targetWidth+j)*raster.Channels+k] = raster.ClampFloat(v)
			}
		}
	}
	return out, nil
}
