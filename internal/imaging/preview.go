package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// DefaultPreviewSize is the longest edge of a preview when none is given.
const DefaultPreviewSize = 256

// PreviewResult contains a PNG thumbnail of a stored image.
type PreviewResult struct {
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders b as a base64 PNG whose longest edge is at most maxEdge
// pixels. Smaller images are encoded at their own size; larger ones are
// shrunk with a Lanczos filter, keeping the aspect ratio. A maxEdge of zero
// or less selects DefaultPreviewSize.
func Preview(b *raster.Buffer, maxEdge int) (*PreviewResult, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultPreviewSize
	}

	var img image.Image = b.Image()
	if b.Width > maxEdge || b.Height > maxEdge {
		img = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Name:        b.Name,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
