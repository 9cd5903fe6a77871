package engine

import "github.com/ironsheep/image-edit-mcp/internal/raster"

// CurveCoefficients fits y = a*x^2 + b*x + c through (black,0), (mid,128)
// and (white,255). The points must satisfy 0 <= black < mid < white <= 255.
func CurveCoefficients(black, mid, white int) (a, b, c float64, err error) {
	if black < 0 || white > 255 || black >= mid || mid >= white {
		return 0, 0, 0, raster.Invalidf("levels",
			"need 0 <= black < mid < white <= 255, got %d, %d, %d", black, mid, white)
	}
	bl, m, w := float64(black), float64(mid), float64(white)

	det := bl*bl*(m-w) - bl*(m*m-w*w) + w*m*m - m*w*w
	da := -bl*(128-255) + 128*w - 255*m
	db := bl*bl*(128-255) + 255*m*m - 128*w*w
	dc := bl*bl*(255*m-128*w) - bl*(255*m*m-128*w*w)

	return da / det, db / det, dc / det, nil
}

// ApplyLevels maps every value v to trunc(a*v^2 + b*v + c) using the curve
// from CurveCoefficients, clamped into [0,255].
func ApplyLevels(src *raster.Buffer, black, mid, white int) (*raster.Buffer, error) {
	a, b, c, err := CurveCoefficients(black, mid, white)
	if err != nil {
		return nil, err
	}

	var lut [256]uint8
	for v := range lut {
		x := float64(v)
		lut[v] = raster.ClampInt(int(a*x*x + b*x + c))
	}

	out := raster.New(src.Name, src.Height, src.Width)
	for o, v := range src.Pix {
		out.Pix[o] = lut[v]
	}
	return out, nil
}
