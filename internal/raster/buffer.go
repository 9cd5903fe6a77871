package raster

import (
	"image"
	"image/color"
)

// Channels is the fixed number of colour channels per pixel (R, G, B).
const Channels = 3

// Buffer is a named grid of RGB pixels.
//
// Pixels are stored row-major in Pix: the value of channel k at row i,
// column j lives at Pix[(i*Width+j)*Channels+k]. Every value is an 8-bit
// intensity, so the [0,255] range invariant holds by construction; writers
// go through Set, which clamps.
//
// A Buffer returned by an engine call is never modified afterwards by the
// engine. Callers that need to edit pixels should work on a Clone.
type Buffer struct {
	Name     string
	Height   int
	Width    int
	Channels int
	Pix      []uint8
}

// New allocates a zeroed (black) buffer of the given dimensions.
func New(name string, height, width int) *Buffer {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Buffer{
		Name:     name,
		Height:   height,
		Width:    width,
		Channels: Channels,
		Pix:      make([]uint8, height*width*Channels),
	}
}

// FromRows builds a buffer from a [height][width][3] slice of intensities.
// Values are clamped into [0,255]. Ragged input is rejected.
func FromRows(name string, rows [][][]int) (*Buffer, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, Invalid("raster", "pixel rows must be non-empty")
	}
	width := len(rows[0])
	b := New(name, len(rows), width)
	for i, row := range rows {
		if len(row) != width {
			return nil, Invalidf("raster", "row %d has %d columns, want %d", i, len(row), width)
		}
		for j, px := range row {
			if len(px) != Channels {
				return nil, Invalidf("raster", "pixel (%d,%d) has %d channels, want %d", i, j, len(px), Channels)
			}
			for k, v := range px {
				b.Set(i, j, k, v)
			}
		}
	}
	return b, nil
}

// FromImage converts any image.Image into a buffer, dropping alpha.
func FromImage(name string, img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(name, bounds.Dy(), bounds.Dx())
	if n, ok := img.(*image.NRGBA); ok {
		for i := 0; i < b.Height; i++ {
			for j := 0; j < b.Width; j++ {
				src := n.PixOffset(j+bounds.Min.X, i+bounds.Min.Y)
				dst := b.offset(i, j)
				copy(b.Pix[dst:dst+Channels], n.Pix[src:src+Channels])
			}
		}
		return b
	}
	for i := 0; i < b.Height; i++ {
		for j := 0; j < b.Width; j++ {
			c := color.NRGBAModel.Convert(img.At(j+bounds.Min.X, i+bounds.Min.Y)).(color.NRGBA)
			dst := b.offset(i, j)
			b.Pix[dst+0] = c.R
			b.Pix[dst+1] = c.G
			b.Pix[dst+2] = c.B
		}
	}
	return b
}

// Image returns an opaque *image.NRGBA copy of the buffer.
func (b *Buffer) Image() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i := 0; i < b.Height; i++ {
		for j := 0; j < b.Width; j++ {
			src := b.offset(i, j)
			dst := out.PixOffset(j, i)
			out.Pix[dst+0] = b.Pix[src+0]
			out.Pix[dst+1] = b.Pix[src+1]
			out.Pix[dst+2] = b.Pix[src+2]
			out.Pix[dst+3] = 255
		}
	}
	return out
}

func (b *Buffer) offset(i, j int) int {
	return (i*b.Width + j) * Channels
}

// At returns channel k of the pixel at row i, column j.
func (b *Buffer) At(i, j, k int) int {
	return int(b.Pix[b.offset(i, j)+k])
}

// Set stores v into channel k of the pixel at row i, column j, clamping
// it into [0,255].
func (b *Buffer) Set(i, j, k, v int) {
	b.Pix[b.offset(i, j)+k] = ClampInt(v)
}

// Pixel returns the three channels of the pixel at row i, column j.
func (b *Buffer) Pixel(i, j int) [Channels]uint8 {
	o := b.offset(i, j)
	return [Channels]uint8{b.Pix[o], b.Pix[o+1], b.Pix[o+2]}
}

// SetPixel stores all three channels of the pixel at row i, column j.
func (b *Buffer) SetPixel(i, j int, px [Channels]uint8) {
	o := b.offset(i, j)
	b.Pix[o], b.Pix[o+1], b.Pix[o+2] = px[0], px[1], px[2]
}

// Clone returns a deep copy carrying the given name.
func (b *Buffer) Clone(name string) *Buffer {
	out := &Buffer{
		Name:     name,
		Height:   b.Height,
		Width:    b.Width,
		Channels: b.Channels,
		Pix:      make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// Rename returns a shallow copy sharing pixel storage under a new name.
// Safe because buffers are treated as immutable once produced.
func (b *Buffer) Rename(name string) *Buffer {
	out := *b
	out.Name = name
	return &out
}

// SameShape reports whether b and other have identical height, width and
// channel count.
func (b *Buffer) SameShape(other *Buffer) bool {
	return b.Height == other.Height && b.Width == other.Width && b.Channels == other.Channels
}

// Equal reports whether both buffers have the same shape and pixels.
// Names are ignored.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || !b.SameShape(other) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// SubColumns returns a copy of the first n columns of every row.
func (b *Buffer) SubColumns(n int) *Buffer {
	if n > b.Width {
		n = b.Width
	}
	out := New(b.Name, b.Height, n)
	rowLen := n * Channels
	for i := 0; i < b.Height; i++ {
		src := b.offset(i, 0)
		copy(out.Pix[i*rowLen:(i+1)*rowLen], b.Pix[src:src+rowLen])
	}
	return out
}

// Rows exports the pixels as a [height][width][3] slice, the shape used by
// callers that think in nested arrays.
func (b *Buffer) Rows() [][][]int {
	rows := make([][][]int, b.Height)
	for i := range rows {
		rows[i] = make([][]int, b.Width)
		for j := range rows[i] {
			o := b.offset(i, j)
			rows[i][j] = []int{int(b.Pix[o]), int(b.Pix[o+1]), int(b.Pix[o+2])}
		}
	}
	return rows
}

// ClampInt clamps v into [0,255].
func ClampInt(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ClampFloat rounds v to the nearest integer and clamps it into [0,255].
func ClampFloat(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
