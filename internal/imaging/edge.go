package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Default hysteresis thresholds for EdgeDetect.
const (
	DefaultEdgeLow  = 50
	DefaultEdgeHigh = 150
)

// EdgeDetect performs Canny-style edge detection on b.
//
// The result has the same shape as b. Edge pixels are white (255 in every
// channel) and everything else is black, so the output can be fed straight
// back into the store and used as a mask.
//
// # Algorithm
//
//  1. Grayscale conversion using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B), scaled to [0,1]
//
//  2. Gaussian blur: 5x5 kernel to reduce noise
//
//  3. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  4. Non-maximum suppression: edges are thinned to 1-pixel width by keeping
//     only local maxima along the gradient direction
//
//  5. Hysteresis thresholding:
//     - Pixels at or above thresholdHigh are strong edges (always kept)
//     - Pixels between the thresholds are kept only next to a strong edge
//     - Pixels below thresholdLow are discarded
//
// Thresholds are on the 0-255 scale and must satisfy
// 0 <= thresholdLow <= thresholdHigh <= 255.
func EdgeDetect(b *raster.Buffer, thresholdLow, thresholdHigh int) (*raster.Buffer, error) {
	if thresholdLow < 0 || thresholdHigh > 255 || thresholdLow > thresholdHigh {
		return nil, fmt.Errorf("thresholds must satisfy 0 <= low <= high <= 255, got %d and %d", thresholdLow, thresholdHigh)
	}
	width, height := b.Width, b.Height

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			px := b.Pixel(y, x)
			gray[y][x] = (0.299*float64(px[0]) + 0.587*float64(px[1]) + 0.114*float64(px[2])) / 255.0
		}
	}

	blurred := gaussianBlur(gray, width, height)

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := blurred[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := suppressNonMaxima(magnitude, direction, width, height)

	out := raster.New(b.Name, height, width)
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0
	white := [raster.Channels]uint8{255, 255, 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val <= 0 {
				continue
			}
			if val >= highThresh {
				out.SetPixel(y, x, white)
			} else if val >= lowThresh && hasStrongNeighbor(suppressed, x, y, width, height, highThresh) {
				out.SetPixel(y, x, white)
			}
		}
	}
	return out, nil
}

// suppressNonMaxima keeps a magnitude only where it is a local maximum along
// the gradient direction. Border pixels are always suppressed.
func suppressNonMaxima(magnitude, direction [][]float64, width, height int) [][]float64 {
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}
	return suppressed
}

func hasStrongNeighbor(suppressed [][]float64, x, y, width, height int, highThresh float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if suppressed[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] >= highThresh {
				return true
			}
		}
	}
	return false
}

// gaussianBlur applies a 5x5 Gaussian blur (sigma ≈ 1.4):
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img [][]float64, width, height int) [][]float64 {
	kernel := [][]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += img[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] * kernel[ky+2][kx+2]
				}
			}
			result[y][x] = sum / kernelSum
		}
	}
	return result
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
