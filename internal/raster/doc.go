// Package raster defines the in-memory image model shared by the transform
// engine and its callers.
//
// A Buffer is a named, fixed three-channel (R, G, B) grid of 8-bit
// intensities. Rows are indexed top to bottom and columns left to right,
// both 0-based; accessors take (row, column, channel) in that order.
//
// # Immutability
//
// Buffers produced by the engine are never written again by the engine.
// Every transform allocates a fresh output, so a Buffer may be shared
// between goroutines for reading without locking.
//
// # Errors
//
// Contract violations (out-of-range parameters, mismatched shapes) are
// reported as *ValidationError. Use IsValidation to test for them through
// wrapping.
package raster
