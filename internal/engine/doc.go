// Package engine implements the pixel transforms of the image editor.
//
// Every exported function is pure: it reads one or more *raster.Buffer
// values, allocates a new output buffer and returns it. Inputs are never
// modified and there is no package-level mutable state, so calls may run
// concurrently as long as each goroutine owns the buffers it writes.
//
// # Transform Families
//
//   - Convolution: Blur (3x3) and Sharpen (5x5) through ApplyKernel.
//     Kernel cells falling outside the image are skipped, not padded.
//   - Colour matrices: Sepia and luma through ApplyMatrix.
//   - Components: ExtractComponent replicates one scalar (red, green, blue,
//     value, intensity, luma) into all three channels.
//   - Histograms: ComputeFrequency, ColorCorrect and NormalizedHistogram.
//   - Levels: CurveCoefficients and ApplyLevels fit a quadratic tone curve
//     through (black,0), (mid,128) and (white,255).
//   - Compression: Compress runs a 2D Haar transform per channel, zeroes
//     the smallest coefficients and inverts the transform.
//   - Resampling: Downscale shrinks with bilinear interpolation.
//   - Compositing: Mask and SplitPreview apply an Operation to part of an
//     image.
//   - Utilities: Brighten, Flip, SplitRGB and CombineRGB.
//
// # Rounding
//
// Each family rounds the way its reference outputs were produced:
// convolution, compression and resampling round to nearest; colour
// matrices and level curves truncate toward zero; intensity uses integer
// division. Every result is clamped into [0,255].
//
// # Errors
//
// Parameter and shape violations return a *raster.ValidationError before
// any output is allocated. There are no other failure modes.
package engine
