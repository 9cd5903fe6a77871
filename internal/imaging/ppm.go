package imaging

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// ReadPPM decodes a plain-text (P3) PPM image.
//
// Lines starting with '#' are comments. The header is the magic "P3"
// followed by width, height and maximum value; the rest is R G B triplets
// in row-major order. Samples are clamped into [0,255] as read; the maximum
// value is checked for sanity but does not rescale the data.
func ReadPPM(r io.Reader, name string) (*raster.Buffer, error) {
	tokens, err := ppmTokens(r)
	if err != nil {
		return nil, err
	}
	if len(tokens) < 4 {
		return nil, fmt.Errorf("ppm: truncated header")
	}
	if tokens[0] != "P3" {
		return nil, fmt.Errorf("ppm: unsupported magic %q, want P3", tokens[0])
	}

	header := make([]int, 3)
	for i, field := range []string{"width", "height", "max value"} {
		v, err := strconv.Atoi(tokens[i+1])
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("ppm: invalid %s %q", field, tokens[i+1])
		}
		header[i] = v
	}
	width, height := header[0], header[1]
	if width > math.MaxInt/height/raster.Channels {
		return nil, fmt.Errorf("ppm: dimensions %dx%d too large", width, height)
	}

	samples := tokens[4:]
	want := width * height * raster.Channels
	if len(samples) < want {
		return nil, fmt.Errorf("ppm: expected %d samples, found %d", want, len(samples))
	}

	b := raster.New(name, height, width)
	for n := 0; n < want; n++ {
		v, err := strconv.Atoi(samples[n])
		if err != nil {
			return nil, fmt.Errorf("ppm: invalid sample %q", samples[n])
		}
		b.Pix[n] = raster.ClampInt(v)
	}
	return b, nil
}

func ppmTokens(r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ppm: %w", err)
	}
	return tokens, nil
}

// WritePPM encodes b as a P3 PPM with a maximum value of 255, one pixel
// per line.
func WritePPM(w io.Writer, b *raster.Buffer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Width, b.Height)
	for o := 0; o < len(b.Pix); o += raster.Channels {
		fmt.Fprintf(bw, "%d %d %d\n", b.Pix[o], b.Pix[o+1], b.Pix[o+2])
	}
	return bw.Flush()
}
