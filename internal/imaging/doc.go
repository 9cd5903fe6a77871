// Package imaging connects the pixel engine to the outside world.
//
// It owns the named-image Store of an editing session, reads and writes
// image files, and produces the colour samples and thumbnails that the MCP
// tools return. The editing transforms live in package engine. The two
// visual aids here, EdgeDetect and GridOverlay, return new buffers and
// leave their input untouched.
//
// # Coordinate System
//
// Coordinates follow raster.Buffer: (row, col) with row 0 at the top and
// col 0 at the left. Both are 0-based.
//
// # Thread Safety
//
// Store is safe for concurrent use. The codec, sampling and preview
// functions are stateless and may be called concurrently.
//
// # File Formats
//
// The format is chosen from the file extension:
//   - .ppm: plain-text P3, read and written by this package
//   - .png, .jpg/.jpeg, .bmp: decoded by disintegration/imaging (with EXIF
//     auto-orientation), encoded by bild/imgio
//   - .tif/.tiff: decoded by disintegration/imaging, encoded by
//     golang.org/x/image/tiff
//
// Alpha is discarded on load; saved images are fully opaque.
//
// # Color Representation
//
// SampleColor reports a pixel as:
//   - Hex: 6-character format "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - Lab: CIE L*a*b* (L 0-100)
//
// # Error Handling
//
// Store lookups of unknown names return an error wrapping ErrNotFound.
// File errors are wrapped with the failing step ("failed to open image",
// "failed to decode image", "failed to save image").
package imaging
