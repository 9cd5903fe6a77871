// Package server implements the MCP (Model Context Protocol) server for image editing tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the editing engine
// through the MCP protocol. Images live in a named in-memory store; tools read
// one or more named images and write their result under a new name, so an
// edit session is a sequence of tool calls over the same store.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Store Management:
//   - image_load: Decode a PPM, PNG, JPEG, BMP or TIFF file into the store
//   - image_save: Encode a stored image, format chosen by file extension
//   - image_list, image_info, image_delete
//
// Transforms:
//   - image_apply: Run a named operation (blur, sepia, levels-adjust, ...)
//   - image_brighten, image_flip
//   - image_rgb_split, image_rgb_combine
//   - image_compress: Haar wavelet compression by percentage
//   - image_downscale: Bilinear reduction to a smaller size
//
// Composites:
//   - image_mask: Apply an operation only where a mask is non-black
//   - image_split_preview: Apply an operation to the left part of the image
//
// Analysis:
//   - image_histogram: Render the normalized RGB histogram as an image
//   - image_frequency: Per-channel intensity counts
//   - image_sample_color, image_dominant_colors
//   - image_preview: Base64 PNG thumbnail for display in the client
//   - image_edge_detect: Canny edges as a white-on-black image
//   - image_grid_overlay: Coordinate grid drawn over a copy
//
// Scripting:
//   - image_run_script: Execute a command script against the store
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A failed tool call never modifies the store.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Printf("config: %v", err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
