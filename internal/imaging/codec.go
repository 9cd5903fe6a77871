package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Format identifies an on-disk image encoding.
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// DefaultJPEGQuality is used when SaveOptions leaves the quality unset.
const DefaultJPEGQuality = 95

// FormatFromPath picks the format from the file extension (case-insensitive).
//
// Recognised extensions: .ppm, .png, .jpg, .jpeg, .bmp, .tif and .tiff.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case "":
		return "", fmt.Errorf("cannot determine image format of %q: no file extension", path)
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
}

// LoadFile reads the image at path into a buffer called name.
//
// PPM files go through ReadPPM. Every other format is decoded with EXIF
// auto-orientation applied, and any alpha channel is dropped.
//
// # Errors
//
//   - Returns error if the extension is missing or unsupported
//   - Returns error if the file cannot be opened or decoded
func LoadFile(path, name string) (*raster.Buffer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if format == FormatPPM {
		b, err := ReadPPM(f, name)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return b, nil
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return raster.FromImage(name, img), nil
}

// SaveOptions tunes the encoders used by SaveFile.
type SaveOptions struct {
	// JPEGQuality is 1-100. Zero means DefaultJPEGQuality.
	JPEGQuality int
}

// SaveFile writes b to path in the format named by the extension.
func SaveFile(path string, b *raster.Buffer, opts SaveOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatPPM:
		return writeFile(path, func(f *os.File) error { return WritePPM(f, b) })
	case FormatTIFF:
		return writeFile(path, func(f *os.File) error {
			return tiff.Encode(f, b.Image(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		})
	}

	if err := imgio.Save(path, b.Image(), encoderFor(format, opts)); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func encoderFor(format Format, opts SaveOptions) imgio.Encoder {
	switch format {
	case FormatJPEG:
		q := opts.JPEGQuality
		if q <= 0 || q > 100 {
			q = DefaultJPEGQuality
		}
		return imgio.JPEGEncoder(q)
	case FormatBMP:
		return imgio.BMPEncoder()
	default:
		return imgio.PNGEncoder()
	}
}

func writeFile(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to save image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
