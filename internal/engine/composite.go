package engine

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Mask applies op to src and keeps the result only where mask is pure
// black (0,0,0). Every other pixel comes from src unchanged.
//
// src and mask must have the same shape. params are forwarded to Apply.
func Mask(op Operation, src, mask *raster.Buffer, params Params) (*raster.Buffer, error) {
	if !src.SameShape(mask) {
		return nil, raster.Invalidf("mask", "mask is %dx%d, image is %dx%d",
			mask.Height, mask.Width, src.Height, src.Width)
	}
	transformed, err := Apply(op, src, params)
	if err != nil {
		return nil, err
	}

	out := src.Clone(src.Name)
	for o := 0; o < len(out.Pix); o += raster.Channels {
		if mask.Pix[o] == 0 && mask.Pix[o+1] == 0 && mask.Pix[o+2] == 0 {
			copy(out.Pix[o:o+raster.Channels], transformed.Pix[o:o+raster.Channels])
		}
	}
	return out, nil
}

// SplitPreview applies op to the leftmost floor(width*percentage/100)
// columns of src and leaves the remaining columns untouched, giving a
// before/after view in one image.
//
// The operation sees only the left part, so context-dependent operations
// (convolution edges, colour-correct peaks) are computed from that part
// alone. A split width of zero returns an unchanged copy.
func SplitPreview(op Operation, src *raster.Buffer, percentage float64, params Params) (*raster.Buffer, error) {
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return nil, raster.Invalidf("split", "percentage %v out of range [0,100]", percentage)
	}
	if err := op.Validate(params); err != nil {
		return nil, err
	}

	splitWidth := int(float64(src.Width) * percentage / 100)
	if splitWidth == 0 {
		return src.Clone(src.Name), nil
	}

	left, err := Apply(op, src.SubColumns(splitWidth), params)
	if err != nil {
		return nil, err
	}

	out := src.Clone(src.Name)
	rowLen := splitWidth * raster.Channels
	for i := 0; i < src.Height; i++ {
		copy(out.Pix[i*src.Width*raster.Channels:], left.Pix[i*rowLen:(i+1)*rowLen])
	}
	return out, nil
}
