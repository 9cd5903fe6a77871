package engine

import "github.com/ironsheep/image-edit-mcp/internal/raster"

// Kernel is a square, odd-sized matrix of convolution weights centred on
// the pixel being computed.
type Kernel [][]float64

// Radius returns the number of cells between the centre and the edge.
func (k Kernel) Radius() int {
	return len(k) / 2
}

// BlurKernel is a 3x3 Gaussian approximation whose weights sum to 1.
var BlurKernel = Kernel{
	{1.0 / 16, 1.0 / 8, 1.0 / 16},
	{1.0 / 8, 1.0 / 4, 1.0 / 8},
	{1.0 / 16, 1.0 / 8, 1.0 / 16},
}

// SharpenKernel is a 5x5 kernel: centre 1, inner ring 1/4, outer ring -1/8.
var SharpenKernel = Kernel{
	{-1.0 / 8, -1.0 / 8, -1.0 / 8, -1.0 / 8, -1.0 / 8},
	{-1.0 / 8, 1.0 / 4, 1.0 / 4, 1.0 / 4, -1.0 / 8},
	{-1.0 / 8, 1.0 / 4, 1.0, 1.0 / 4, -1.0 / 8},
	{-1.0 / 8, 1.0 / 4, 1.0 / 4, 1.0 / 4, -1.0 / 8},
	{-1.0 / 8, -1.0 / 8, -1.0 / 8, -1.0 / 8, -1.0 / 8},
}

// ApplyKernel convolves every channel of src with k.
//
// Kernel cells that fall outside the image contribute nothing; the image is
// neither padded nor wrapped, so border pixels see a partial kernel. Sums
// are rounded to the nearest integer and clamped into [0,255]. The output
// has the dimensions of src.
func ApplyKernel(k Kernel, src *raster.Buffer) *raster.Buffer {
	out := raster.New(src.Name, src.Height, src.Width)
	r := k.Radius()
	var sum [raster.Channels]float64

	for i := 0; i < src.Height; i++ {
		for j := 0; j < src.Width; j++ {
			sum = [raster.Channels]float64{}
			for a := -r; a <= r; a++ {
				y := i + a
				if y < 0 || y >= src.Height {
					continue
				}
				for b := -r; b <= r; b++ {
					x := j + b
					if x < 0 || x >= src.Width {
						continue
					}
					w := k[a+r][b+r]
					o := (y*src.Width + x) * raster.Channels
					sum[0] += w * float64(src.Pix[o])
					sum[1] += w * float64(src.Pix[o+1])
					sum[2] += w * float64(src.Pix[o+2])
				}
			}
			o := (i*src.Width + j) * raster.Channels
			out.Pix[o] = raster.ClampFloat(sum[0])
			out.Pix[o+1] = raster.ClampFloat(sum[1])
			out.Pix[o+2] = raster.ClampFloat(sum[2])
		}
	}
	return out
}

// Blur applies BlurKernel.
func Blur(src *raster.Buffer) *raster.Buffer {
	return ApplyKernel(BlurKernel, src)
}

// Sharpen applies SharpenKernel.
func Sharpen(src *raster.Buffer) *raster.Buffer {
	return ApplyKernel(SharpenKernel, src)
}
