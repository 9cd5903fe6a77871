package server

import (
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/engine"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func operationProp() map[string]interface{} {
	names := make([]string, 0, len(engine.Operations))
	for _, op := range engine.Operations {
		names = append(names, op.String())
	}
	p := prop("string", "Operation name: "+strings.Join(names, ", "))
	p["enum"] = names
	return p
}

func paramsProp() map[string]interface{} {
	p := prop("array", "Operation parameters. levels-adjust takes [black, mid, white] with 0 <= black < mid < white <= 255; other operations take none")
	p["items"] = map[string]interface{}{"type": "integer"}
	return p
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	source := prop("string", "Name of the stored image to read")
	destination := prop("string", "Name to store the result under (may equal source to replace it)")
	name := prop("string", "Name of a stored image")

	return []Tool{
		// Store Management
		{
			Name:        "image_load",
			Description: "Load an image file (.png, .jpg, .jpeg, .bmp, .tif, .tiff, .ppm) into the session under a name.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
				"name": prop("string", "Name to store the image under"),
			}, "path", "name"),
		},
		{
			Name:        "image_save",
			Description: "Write a stored image to disk. The file extension selects the format.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": name,
				"path": prop("string", "Destination file path (.png, .jpg, .jpeg, .bmp, .tif, .tiff, .ppm)"),
			}, "name", "path"),
		},
		{
			Name:        "image_list",
			Description: "List every stored image with its dimensions.",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
		{
			Name:        "image_info",
			Description: "Get the width, height and channel count of a stored image.",
			InputSchema: objectSchema(map[string]interface{}{"name": name}, "name"),
		},
		{
			Name:        "image_delete",
			Description: "Remove a stored image from the session.",
			InputSchema: objectSchema(map[string]interface{}{"name": name}, "name"),
		},

		// Transforms
		{
			Name:        "image_apply",
			Description: "Apply a whole-image operation (blur, sharpen, sepia, component extraction, color-correct, levels-adjust) and store the result.",
			InputSchema: objectSchema(map[string]interface{}{
				"operation":   operationProp(),
				"source":      source,
				"destination": destination,
				"params":      paramsProp(),
			}, "operation", "source", "destination"),
		},
		{
			Name:        "image_brighten",
			Description: "Add a constant to every channel of every pixel, clamped to 0-255. Negative values darken.",
			InputSchema: objectSchema(map[string]interface{}{
				"source":      source,
				"destination": destination,
				"delta":       prop("integer", "Amount to add to each channel"),
			}, "source", "destination", "delta"),
		},
		{
			Name:        "image_flip",
			Description: "Flip an image vertically (reverse rows) or horizontally (mirror columns).",
			InputSchema: objectSchema(map[string]interface{}{
				"source":      source,
				"destination": destination,
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "vertical or horizontal",
					"enum":        []string{"vertical", "horizontal"},
				},
			}, "source", "destination", "direction"),
		},
		{
			Name:        "image_rgb_split",
			Description: "Split an image into red, green and blue greyscale component images.",
			InputSchema: objectSchema(map[string]interface{}{
				"source": source,
				"red":    prop("string", "Name for the red component image"),
				"green":  prop("string", "Name for the green component image"),
				"blue":   prop("string", "Name for the blue component image"),
			}, "source", "red", "green", "blue"),
		},
		{
			Name:        "image_rgb_combine",
			Description: "Combine three same-sized images into one, taking the red channel of each as R, G and B.",
			InputSchema: objectSchema(map[string]interface{}{
				"destination": destination,
				"red":         prop("string", "Stored image supplying the red channel"),
				"green":       prop("string", "Stored image supplying the green channel"),
				"blue":        prop("string", "Stored image supplying the blue channel"),
			}, "destination", "red", "green", "blue"),
		},
		{
			Name:        "image_compress",
			Description: "Lossy Haar wavelet compression: discard the given percentage of the smallest coefficients per channel. 0 keeps the image, 100 yields black.",
			InputSchema: objectSchema(map[string]interface{}{
				"source":      source,
				"destination": destination,
				"percentage":  prop("number", "Percentage of coefficients to discard (0-100)"),
			}, "source", "destination", "percentage"),
		},
		{
			Name:        "image_downscale",
			Description: "Shrink an image with bilinear interpolation. Target dimensions must not exceed the source.",
			InputSchema: objectSchema(map[string]interface{}{
				"source":      source,
				"destination": destination,
				"height":      prop("integer", "Target height in pixels"),
				"width":       prop("integer", "Target width in pixels"),
			}, "source", "destination", "height", "width"),
		},

		// Compositing
		{
			Name:        "image_mask",
			Description: "Apply an operation only where the mask image is pure black (0,0,0); other pixels keep their original value.",
			InputSchema: objectSchema(map[string]interface{}{
				"operation":   operationProp(),
				"source":      source,
				"mask":        prop("string", "Stored mask image with the same dimensions as source"),
				"destination": destination,
				"params":      paramsProp(),
			}, "operation", "source", "mask", "destination"),
		},
		{
			Name:        "image_split_preview",
			Description: "Apply an operation to the left part of an image only, for a before/after comparison.",
			InputSchema: objectSchema(map[string]interface{}{
				"operation":   operationProp(),
				"source":      source,
				"destination": destination,
				"percentage":  prop("number", "Share of the width (0-100), from the left, that receives the operation"),
				"params":      paramsProp(),
			}, "operation", "source", "destination", "percentage"),
		},

		// Analysis
		{
			Name:        "image_histogram",
			Description: "Draw the red, green and blue histograms of an image as a new 256x256 image.",
			InputSchema: objectSchema(map[string]interface{}{
				"source":      source,
				"destination": destination,
			}, "source", "destination"),
		},
		{
			Name:        "image_frequency",
			Description: "Return the 256-entry value histogram of one channel of a stored image.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": name,
				"channel": map[string]interface{}{
					"type":        "string",
					"description": "red, green or blue",
					"enum":        []string{"red", "green", "blue"},
				},
			}, "name", "channel"),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color of one pixel in hex, RGB, HSL and Lab.",
			InputSchema: objectSchema(map[string]interface{}{
				"name": name,
				"row":  prop("integer", "Row index (0 = top)"),
				"col":  prop("integer", "Column index (0 = left)"),
			}, "name", "row", "col"),
		},
		{
			Name:        "image_dominant_colors",
			Description: "Get the most common colors of a stored image (quantized to steps of 16).",
			InputSchema: objectSchema(map[string]interface{}{
				"name":  name,
				"count": prop("integer", "Number of colors to return. Default 5"),
			}, "name"),
		},
		{
			Name:        "image_preview",
			Description: "Render a stored image as a base64 PNG thumbnail for viewing.",
			InputSchema: objectSchema(map[string]interface{}{
				"name":     name,
				"max_size": prop("integer", "Longest edge of the thumbnail in pixels. Defaults to the server setting"),
			}, "name"),
		},
		{
			Name:        "image_edge_detect",
			Description: "Canny edge detection. Stores a black image with edges in white, usable as a mask.",
			InputSchema: objectSchema(map[string]interface{}{
				"source":         source,
				"destination":    destination,
				"threshold_low":  prop("integer", "Weak edge threshold 0-255 (default: 50)"),
				"threshold_high": prop("integer", "Strong edge threshold 0-255 (default: 150)"),
			}, "source", "destination"),
		},
		{
			Name:        "image_grid_overlay",
			Description: "Draw a coordinate grid over a copy of an image to help locate pixels for sampling and masks.",
			InputSchema: objectSchema(map[string]interface{}{
				"source":           source,
				"destination":      destination,
				"spacing":          prop("integer", "Grid spacing in pixels (default: 50)"),
				"show_coordinates": prop("boolean", "Label intersections with row,col"),
				"color":            prop("string", "Line color as #RRGGBB or #RRGGBBAA (default: #FF0000)"),
			}, "source", "destination"),
		},

		// Scripting
		{
			Name:        "image_run_script",
			Description: "Run an editing script (one command per line) against the stored images. Failing lines are reported and skipped.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   prop("string", "Path of a script file"),
				"script": prop("string", "Script text; use instead of path"),
			}),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
