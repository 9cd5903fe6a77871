package engine

import (
	"math"
	"sort"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Compress performs lossy compression by discarding the smallest Haar
// wavelet coefficients of each channel.
//
// # Algorithm
//
// Each channel is copied into an SxS zero-padded matrix, S being the
// smallest power of two not less than max(height, width). The matrix is
// transformed with HaarTransform, thresholded with Threshold, restored with
// InverseHaarTransform and cropped back to the original size. Restored
// values are rounded to the nearest integer and clamped.
//
// # Parameters
//
//   - src: image to compress (not modified)
//   - percentage: share of distinct coefficient magnitudes to discard, in
//     [0,100]. Values below 1 return an unchanged copy; 100 yields an
//     all-black image.
//
// # Errors
//
// Returns a *raster.ValidationError when percentage is outside [0,100].
func Compress(src *raster.Buffer, percentage float64) (*raster.Buffer, error) {
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return nil, raster.Invalidf("compress", "percentage %v out of range [0,100]", percentage)
	}
	if percentage < 1 {
		return src.Clone(src.Name), nil
	}

	size := paddedSize(max(src.Height, src.Width))
	out := raster.New(src.Name, src.Height, src.Width)
	m := newMatrix(size)

	for k := 0; k < raster.Channels; k++ {
		for i := range m {
			clear(m[i])
		}
		for i := 0; i < src.Height; i++ {
			for j := 0; j < src.Width; j++ {
				m[i][j] = float64(src.Pix[(i*src.Width+j)*raster.Channels+k])
			}
		}

		HaarTransform(m)
		Threshold(m, percentage)
		InverseHaarTransform(m)

		for i := 0; i < src.Height; i++ {
			for j := 0; j < src.Width; j++ {
				out.Pix[(i*src.Width+j)*raster.Channels+k] = raster.ClampFloat(m[i][j])
			}
		}
	}
	return out, nil
}

func paddedSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func newMatrix(size int) [][]float64 {
	m := make([][]float64, size)
	for i := range m {
		m[i] = make([]float64, size)
	}
	return m
}

// HaarTransform applies the 2D Haar transform to a square matrix whose
// side is a power of two, in place.
//
// Each level transforms every row, then every column, over the leading
// size entries, writing the averages (x+y)/sqrt2 followed by the
// differences (x-y)/sqrt2. The size then halves until it reaches 1.
func HaarTransform(m [][]float64) {
	n := len(m)
	tmp := make([]float64, n)
	col := make([]float64, n)
	for size := n; size > 1; size /= 2 {
		for i := 0; i < n; i++ {
			haarStep(m[i], tmp, size)
		}
		for j := 0; j < n; j++ {
			for i := 0; i < size; i++ {
				col[i] = m[i][j]
			}
			haarStep(col, tmp, size)
			for i := 0; i < size; i++ {
				m[i][j] = col[i]
			}
		}
	}
}

// InverseHaarTransform undoes HaarTransform in place.
func InverseHaarTransform(m [][]float64) {
	n := len(m)
	tmp := make([]float64, n)
	col := make([]float64, n)
	for size := 2; size <= n; size *= 2 {
		for i := 0; i < n; i++ {
			inverseHaarStep(m[i], tmp, size)
		}
		for j := 0; j < n; j++ {
			for i := 0; i < size; i++ {
				col[i] = m[i][j]
			}
			inverseHaarStep(col, tmp, size)
			for i := 0; i < size; i++ {
				m[i][j] = col[i]
			}
		}
	}
}

func haarStep(v, tmp []float64, size int) {
	half := size / 2
	for i := 0; i < half; i++ {
		x, y := v[2*i], v[2*i+1]
		tmp[i] = (x + y) / math.Sqrt2
		tmp[half+i] = (x - y) / math.Sqrt2
	}
	copy(v[:size], tmp[:size])
}

func inverseHaarStep(v, tmp []float64, size int) {
	half := size / 2
	for i := 0; i < half; i++ {
		avg, diff := v[i], v[half+i]
		tmp[2*i] = (avg + diff) / math.Sqrt2
		tmp[2*i+1] = (avg - diff) / math.Sqrt2
	}
	copy(v[:size], tmp[:size])
}

// Threshold zeroes the coefficients of m whose magnitude falls below the
// percentile given by percentage.
//
// The candidate thresholds are the distinct magnitudes of m rounded to
// three decimals, sorted ascending. The threshold is the one at index
// round(count*(percentage/100)), capped at the last index. At 100 every
// coefficient is zeroed; below 1 nothing is. It returns the threshold used.
func Threshold(m [][]float64, percentage float64) float64 {
	if percentage < 1 {
		return 0
	}
	threshold := math.Inf(1)
	if percentage < 100 {
		seen := make(map[float64]struct{})
		for _, row := range m {
			for _, v := range row {
				seen[math.Abs(round3(v))] = struct{}{}
			}
		}
		values := make([]float64, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Float64s(values)

		idx := int(math.Floor(float64(len(values))*(percentage/100) + 0.5))
		if idx >= len(values) {
			idx = len(values) - 1
		}
		threshold = values[idx]
	}

	for _, row := range m {
		for j, v := range row {
			if math.Abs(v) < threshold {
				row[j] = 0
			}
		}
	}
	return threshold
}

func round3(v float64) float64 {
	return math.Floor(v*1000+0.5) / 1000
}
