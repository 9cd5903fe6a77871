package engine

import (
	"math"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Peak search bounds for ColorCorrect. Values near pure black or white are
// ignored so clipped regions do not dominate the balance.
const (
	PeakLow  = 10
	PeakHigh = 245
)

// HistogramSize is the edge length of the image NormalizedHistogram draws.
const HistogramSize = 256

const gridSpacing = 15

var (
	gridColor       = [raster.Channels]uint8{170, 170, 170}
	backgroundColor = [raster.Channels]uint8{255, 255, 255}
	curveColors     = [raster.Channels][raster.Channels]uint8{
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
	}
)

// FrequencyTable counts how many pixels hold each intensity in one channel.
type FrequencyTable [256]int

// Max returns the largest count in the table.
func (f *FrequencyTable) Max() int {
	m := 0
	for _, v := range f {
		if v > m {
			m = v
		}
	}
	return m
}

// Peak returns the intensity in [lo,hi] with the highest count. Ties keep
// the lowest intensity. A table that is empty over the range yields 0.
func (f *FrequencyTable) Peak(lo, hi int) int {
	peak, best := 0, 0
	for v := lo; v <= hi; v++ {
		if f[v] > best {
			best = f[v]
			peak = v
		}
	}
	return peak
}

// ComputeFrequency counts the values of one channel (0=R, 1=G, 2=B).
func ComputeFrequency(src *raster.Buffer, channel int) (FrequencyTable, error) {
	var table FrequencyTable
	if channel < 0 || channel >= raster.Channels {
		return table, raster.Invalidf("frequency", "channel %d out of range 0..%d", channel, raster.Channels-1)
	}
	for o := channel; o < len(src.Pix); o += raster.Channels {
		table[src.Pix[o]]++
	}
	return table, nil
}

func frequencies(src *raster.Buffer) [raster.Channels]FrequencyTable {
	var tables [raster.Channels]FrequencyTable
	for o := 0; o < len(src.Pix); o += raster.Channels {
		tables[0][src.Pix[o]]++
		tables[1][src.Pix[o+1]]++
		tables[2][src.Pix[o+2]]++
	}
	return tables
}

// ColorCorrect aligns the histogram peaks of the three channels.
//
// The peak of each channel is searched over [PeakLow,PeakHigh]. Every value
// in a channel is shifted by (average peak - channel peak), where the
// average uses integer division, and clamped.
func ColorCorrect(src *raster.Buffer) *raster.Buffer {
	tables := frequencies(src)
	var peaks [raster.Channels]int
	for k := range tables {
		peaks[k] = tables[k].Peak(PeakLow, PeakHigh)
	}
	avg := (peaks[0] + peaks[1] + peaks[2]) / 3

	var shift [raster.Channels]int
	for k := range shift {
		shift[k] = avg - peaks[k]
	}

	out := raster.New(src.Name, src.Height, src.Width)
	for o := 0; o < len(src.Pix); o += raster.Channels {
		for k := 0; k < raster.Channels; k++ {
			out.Pix[o+k] = raster.ClampInt(int(src.Pix[o+k]) + shift[k])
		}
	}
	return out
}

// NormalizedHistogram draws the R, G and B frequency curves of src onto a
// fresh 256x256 image.
//
// All three curves share one vertical scale: counts are divided by the
// largest count of any channel, so their heights are comparable. The
// background is white with a grey grid line every 15 rows and columns.
// Column x connects the heights at x-1 and x with a vertical segment drawn
// in red, then green, then blue; later channels overwrite earlier ones.
func NormalizedHistogram(src *raster.Buffer) *raster.Buffer {
	tables := frequencies(src)
	peak := 0
	for k := range tables {
		peak = max(peak, tables[k].Max())
	}

	var norm [raster.Channels][256]int
	if peak > 0 {
		for k := range tables {
			for v, f := range tables[k] {
				norm[k][v] = int(math.Floor(float64(f)*255/float64(peak) + 0.5))
			}
		}
	}

	out := raster.New(src.Name, HistogramSize, HistogramSize)
	for i := 0; i < HistogramSize; i++ {
		for j := 0; j < HistogramSize; j++ {
			if i%gridSpacing == 0 || j%gridSpacing == 0 {
				out.SetPixel(i, j, gridColor)
			} else {
				out.SetPixel(i, j, backgroundColor)
			}
		}
	}

	for x := 1; x < HistogramSize; x++ {
		for k := 0; k < raster.Channels; k++ {
			y0 := HistogramSize - 1 - norm[k][x-1]
			y1 := HistogramSize - 1 - norm[k][x]
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			for y := y0; y <= y1; y++ {
				out.SetPixel(y, x, curveColors[k])
			}
		}
	}
	return out
}
