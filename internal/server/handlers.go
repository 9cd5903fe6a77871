package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/engine"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
	"github.com/ironsheep/image-edit-mcp/internal/script"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("[DEBUG] tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Checks required names and applies defaults
//  3. Fetches source images from the store
//  4. Calls the engine or imaging function
//  5. Stores the output under the destination name and returns its info
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Store Management
	case "image_load":
		return s.handleImageLoad(args)
	case "image_save":
		return s.handleImageSave(args)
	case "image_list":
		return s.handleImageList(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "image_delete":
		return s.handleImageDelete(args)

	// Transforms
	case "image_apply":
		return s.handleImageApply(args)
	case "image_brighten":
		return s.handleImageBrighten(args)
	case "image_flip":
		return s.handleImageFlip(args)
	case "image_rgb_split":
		return s.handleImageRGBSplit(args)
	case "image_rgb_combine":
		return s.handleImageRGBCombine(args)
	case "image_compress":
		return s.handleImageCompress(args)
	case "image_downscale":
		return s.handleImageDownscale(args)

	// Compositing
	case "image_mask":
		return s.handleImageMask(args)
	case "image_split_preview":
		return s.handleImageSplitPreview(args)

	// Analysis
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_frequency":
		return s.handleImageFrequency(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_grid_overlay":
		return s.handleImageGridOverlay(args)

	// Scripting
	case "image_run_script":
		return s.handleImageRunScript(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// require returns an error naming the first empty field.
func require(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fmt.Errorf("%s is required", f[0])
		}
	}
	return nil
}

// storeResult saves b under dst and returns its metadata.
func (s *Server) storeResult(dst string, b *raster.Buffer) (interface{}, error) {
	if err := s.store.Put(dst, b); err != nil {
		return nil, err
	}
	return s.store.Info(dst)
}

// === Store Management Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"path", a.Path}, [2]string{"name", a.Name}); err != nil {
		return nil, err
	}
	b, err := imaging.LoadFile(a.Path, a.Name)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Name, b)
}

type imageSaveArgs struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type saveResult struct {
	Path   string             `json:"path"`
	Format imaging.Format     `json:"format"`
	Image  imaging.BufferInfo `json:"image"`
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}, [2]string{"path", a.Path}); err != nil {
		return nil, err
	}
	format, err := imaging.FormatFromPath(a.Path)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Get(a.Name)
	if err != nil {
		return nil, err
	}
	if err := imaging.SaveFile(a.Path, b, s.cfg.SaveOptions()); err != nil {
		return nil, err
	}
	return &saveResult{Path: a.Path, Format: format, Image: imaging.Info(b)}, nil
}

type imageListResult struct {
	Images []imaging.BufferInfo `json:"images"`
}

func (s *Server) handleImageList(args json.RawMessage) (interface{}, error) {
	result := &imageListResult{Images: []imaging.BufferInfo{}}
	for _, name := range s.store.Names() {
		// a concurrent delete may remove a listed name
		if info, err := s.store.Info(name); err == nil {
			result.Images = append(result.Images, *info)
		}
	}
	return result, nil
}

type imageNameArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageNameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}); err != nil {
		return nil, err
	}
	return s.store.Info(a.Name)
}

func (s *Server) handleImageDelete(args json.RawMessage) (interface{}, error) {
	var a imageNameArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}); err != nil {
		return nil, err
	}
	if !s.store.Delete(a.Name) {
		return nil, fmt.Errorf("image %q: %w", a.Name, imaging.ErrNotFound)
	}
	return map[string]interface{}{"deleted": a.Name}, nil
}

// === Transform Handlers ===

type imageApplyArgs struct {
	Operation   string `json:"operation"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Params      []int  `json:"params"`
}

func (s *Server) handleImageApply(args json.RawMessage) (interface{}, error) {
	var a imageApplyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"operation", a.Operation}, [2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	op, err := engine.ParseOperation(a.Operation)
	if err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	out, err := engine.Apply(op, src, a.Params)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

type imageBrightenArgs struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Delta       int    `json:"delta"`
}

func (s *Server) handleImageBrighten(args json.RawMessage) (interface{}, error) {
	var a imageBrightenArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, engine.Brighten(src, a.Delta))
}

type imageFlipArgs struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Direction   string `json:"direction"`
}

func (s *Server) handleImageFlip(args json.RawMessage) (interface{}, error) {
	var a imageFlipArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	var vertical bool
	switch strings.ToLower(a.Direction) {
	case "vertical":
		vertical = true
	case "horizontal":
		vertical = false
	default:
		return nil, fmt.Errorf("direction must be vertical or horizontal, got %q", a.Direction)
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, engine.Flip(src, vertical))
}

type imageRGBArgs struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Red         string `json:"red"`
	Green       string `json:"green"`
	Blue        string `json:"blue"`
}

type rgbSplitResult struct {
	Red   *imaging.BufferInfo `json:"red"`
	Green *imaging.BufferInfo `json:"green"`
	Blue  *imaging.BufferInfo `json:"blue"`
}

func (s *Server) handleImageRGBSplit(args json.RawMessage) (interface{}, error) {
	var a imageRGBArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"red", a.Red}, [2]string{"green", a.Green}, [2]string{"blue", a.Blue}); err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	r, g, b := engine.SplitRGB(src)

	result := &rgbSplitResult{}
	targets := []struct {
		name string
		buf  *raster.Buffer
		info **imaging.BufferInfo
	}{
		{a.Red, r, &result.Red},
		{a.Green, g, &result.Green},
		{a.Blue, b, &result.Blue},
	}
	for _, t := range targets {
		if err := s.store.Put(t.name, t.buf); err != nil {
			return nil, err
		}
		info := imaging.Info(t.buf.Rename(t.name))
		*t.info = &info
	}
	return result, nil
}

func (s *Server) handleImageRGBCombine(args json.RawMessage) (interface{}, error) {
	var a imageRGBArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"destination", a.Destination}, [2]string{"red", a.Red}, [2]string{"green", a.Green}, [2]string{"blue", a.Blue}); err != nil {
		return nil, err
	}
	var parts [3]*raster.Buffer
	for i, name := range []string{a.Red, a.Green, a.Blue} {
		b, err := s.store.Get(name)
		if err != nil {
			return nil, err
		}
		parts[i] = b
	}
	out, err := engine.CombineRGB(parts[0], parts[1], parts[2])
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

type imageCompressArgs struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Percentage  float64 `json:"percentage"`
}

func (s *Server) handleImageCompress(args json.RawMessage) (interface{}, error) {
	var a imageCompressArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	out, err := engine.Compress(src, a.Percentage)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

type imageDownscaleArgs struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Height      int    `json:"height"`
	Width       int    `json:"width"`
}

func (s *Server) handleImageDownscale(args json.RawMessage) (interface{}, error) {
	var a imageDownscaleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	out, err := engine.Downscale(src, a.Height, a.Width)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

// === Compositing Handlers ===

type imageMaskArgs struct {
	Operation   string `json:"operation"`
	Source      string `json:"source"`
	Mask        string `json:"mask"`
	Destination string `json:"destination"`
	Params      []int  `json:"params"`
}

func (s *Server) handleImageMask(args json.RawMessage) (interface{}, error) {
	var a imageMaskArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"operation", a.Operation}, [2]string{"source", a.Source}, [2]string{"mask", a.Mask}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	op, err := engine.ParseOperation(a.Operation)
	if err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	mask, err := s.store.Get(a.Mask)
	if err != nil {
		return nil, err
	}
	out, err := engine.Mask(op, src, mask, a.Params)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

type imageSplitPreviewArgs struct {
	Operation   string  `json:"operation"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Percentage  float64 `json:"percentage"`
	Params      []int   `json:"params"`
}

func (s *Server) handleImageSplitPreview(args json.RawMessage) (interface{}, error) {
	var a imageSplitPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"operation", a.Operation}, [2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	op, err := engine.ParseOperation(a.Operation)
	if err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	out, err := engine.SplitPreview(op, src, a.Percentage, a.Params)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

// === Analysis Handlers ===

type imageHistogramArgs struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	var a imageHistogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, engine.NormalizedHistogram(src))
}

type imageFrequencyArgs struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

type frequencyResult struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Counts  []int  `json:"counts"`
	Peak    int    `json:"peak"`
	Max     int    `json:"max"`
}

var channelIndex = map[string]int{"red": 0, "green": 1, "blue": 2}

func (s *Server) handleImageFrequency(args json.RawMessage) (interface{}, error) {
	var a imageFrequencyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}, [2]string{"channel", a.Channel}); err != nil {
		return nil, err
	}
	channel := strings.ToLower(a.Channel)
	idx, ok := channelIndex[channel]
	if !ok {
		return nil, fmt.Errorf("channel must be red, green or blue, got %q", a.Channel)
	}
	src, err := s.store.Get(a.Name)
	if err != nil {
		return nil, err
	}
	table, err := engine.ComputeFrequency(src, idx)
	if err != nil {
		return nil, err
	}
	return &frequencyResult{
		Name:    a.Name,
		Channel: channel,
		Counts:  table[:],
		Peak:    table.Peak(0, 255),
		Max:     table.Max(),
	}, nil
}

type imageSampleColorArgs struct {
	Name string `json:"name"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}); err != nil {
		return nil, err
	}
	src, err := s.store.Get(a.Name)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(src, a.Row, a.Col)
}

type imageDominantColorsArgs struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	src, err := s.store.Get(a.Name)
	if err != nil {
		return nil, err
	}
	return imaging.DominantColors(src, a.Count)
}

type imagePreviewArgs struct {
	Name    string `json:"name"`
	MaxSize int    `json:"max_size"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"name", a.Name}); err != nil {
		return nil, err
	}
	if a.MaxSize <= 0 {
		a.MaxSize = s.cfg.PreviewSize
	}
	src, err := s.store.Get(a.Name)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(src, a.MaxSize)
}

type imageEdgeDetectArgs struct {
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	ThresholdLow  *int   `json:"threshold_low"`
	ThresholdHigh *int   `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	low, high := imaging.DefaultEdgeLow, imaging.DefaultEdgeHigh
	if a.ThresholdLow != nil {
		low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		high = *a.ThresholdHigh
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	out, err := imaging.EdgeDetect(src, low, high)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

type imageGridOverlayArgs struct {
	Source          string `json:"source"`
	Destination     string `json:"destination"`
	Spacing         int    `json:"spacing"`
	ShowCoordinates bool   `json:"show_coordinates"`
	Color           string `json:"color"`
}

func (s *Server) handleImageGridOverlay(args json.RawMessage) (interface{}, error) {
	var a imageGridOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := require([2]string{"source", a.Source}, [2]string{"destination", a.Destination}); err != nil {
		return nil, err
	}
	if a.Spacing == 0 {
		a.Spacing = 50
	}
	src, err := s.store.Get(a.Source)
	if err != nil {
		return nil, err
	}
	out, err := imaging.GridOverlay(src, a.Spacing, a.ShowCoordinates, a.Color)
	if err != nil {
		return nil, err
	}
	return s.storeResult(a.Destination, out)
}

// === Scripting Handlers ===

type imageRunScriptArgs struct {
	Path   string `json:"path"`
	Script string `json:"script"`
}

type runScriptResult struct {
	Executed int      `json:"executed"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures"`
	Images   []string `json:"images"`
}

func (s *Server) handleImageRunScript(args json.RawMessage) (interface{}, error) {
	var a imageRunScriptArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if (a.Path == "") == (a.Script == "") {
		return nil, errors.New("exactly one of path or script is required")
	}

	runner := script.NewRunner(s.store, script.Options{
		Save:  s.cfg.SaveOptions(),
		Debug: s.cfg.Debug(),
	})

	var (
		res *script.Result
		err error
	)
	if a.Path != "" {
		res, err = runner.RunFile(a.Path)
	} else {
		res, err = runner.Run(strings.NewReader(a.Script), "script")
	}
	if err != nil {
		return nil, err
	}

	return &runScriptResult{
		Executed: res.Executed,
		Failed:   len(res.Failures),
		Failures: res.Messages(),
		Images:   s.store.Names(),
	}, nil
}
