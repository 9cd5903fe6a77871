package server

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/engine"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// newServerWithImage returns a server whose store holds a 4x6 gradient
// called "src"
func newServerWithImage(t *testing.T) *Server {
	t.Helper()
	s := New(nil)
	b := raster.New("src", 4, 6)
	for i := 0; i < 4; i++ {
		for j := 0; j < 6; j++ {
			b.SetPixel(i, j, [3]uint8{uint8(60 * i), uint8(40 * j), uint8(100 + i + j)})
		}
	}
	if err := s.store.Put("src", b); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	return s
}

// callTool sends a tools/call request and returns the response
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// callToolOK calls a tool, fails on error and decodes the text content
// into out
func callToolOK(t *testing.T, s *Server, name string, args interface{}, out interface{}) {
	t.Helper()
	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %v (%v)", name, resp.Error.Message, resp.Error.Data)
	}
	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("%s: unexpected content %v", name, content)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("%s: invalid JSON result: %v", name, err)
		}
	}
}

// callToolErr calls a tool and returns the error data, failing if the call
// succeeded
func callToolErr(t *testing.T, s *Server, name string, args interface{}) string {
	t.Helper()
	resp := callTool(t, s, name, args)
	if resp.Error == nil {
		t.Fatalf("%s: expected an error", name)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("%s: error code got %d, want -32000", name, resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	return data
}

func mustGet(t *testing.T, s *Server, name string) *raster.Buffer {
	t.Helper()
	b, err := s.store.Get(name)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", name, err)
	}
	return b
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info imaging.BufferInfo
	callToolOK(t, s, "image_load", map[string]interface{}{"path": imgPath, "name": "red"}, &info)

	if info.Name != "red" || info.Width != 100 || info.Height != 80 || info.Channels != 3 {
		t.Errorf("info: got %+v, want red 100x80x3", info)
	}
	if got := mustGet(t, s, "red").Pixel(10, 10); got != [3]uint8{255, 0, 0} {
		t.Errorf("pixel: got %v, want [255 0 0]", got)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)
	data := callToolErr(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png", "name": "x"})
	if !strings.Contains(data, "failed to open image") {
		t.Errorf("error data: got %q", data)
	}
}

func TestHandleToolsCall_MissingArguments(t *testing.T) {
	s := newServerWithImage(t)
	tests := []struct {
		tool string
		args map[string]interface{}
		want string
	}{
		{"image_load", map[string]interface{}{"path": "/a.png"}, "name is required"},
		{"image_apply", map[string]interface{}{"operation": "blur", "source": "src"}, "destination is required"},
		{"image_mask", map[string]interface{}{"operation": "blur", "source": "src", "destination": "d"}, "mask is required"},
		{"image_info", map[string]interface{}{}, "name is required"},
		{"image_run_script", map[string]interface{}{}, "exactly one of path or script"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			data := callToolErr(t, s, tt.tool, tt.args)
			if !strings.Contains(data, tt.want) {
				t.Errorf("error data: got %q, want %q", data, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_InfoListDelete(t *testing.T) {
	s := newServerWithImage(t)

	var info imaging.BufferInfo
	callToolOK(t, s, "image_info", map[string]interface{}{"name": "src"}, &info)
	if info.Width != 6 || info.Height != 4 {
		t.Errorf("info: got %+v, want 6x4", info)
	}

	callToolOK(t, s, "image_apply", map[string]interface{}{"operation": "sepia", "source": "src", "destination": "old"}, nil)

	var list imageListResult
	callToolOK(t, s, "image_list", nil, &list)
	if len(list.Images) != 2 || list.Images[0].Name != "old" || list.Images[1].Name != "src" {
		t.Errorf("list: got %+v, want [old src]", list.Images)
	}

	callToolOK(t, s, "image_delete", map[string]interface{}{"name": "old"}, nil)
	if _, err := s.store.Get("old"); !errors.Is(err, imaging.ErrNotFound) {
		t.Error("image_delete should remove the image")
	}
	data := callToolErr(t, s, "image_delete", map[string]interface{}{"name": "old"})
	if !strings.Contains(data, "not found") {
		t.Errorf("second delete: got %q", data)
	}
}

func TestHandleToolsCall_Apply(t *testing.T) {
	s := newServerWithImage(t)
	src := mustGet(t, s, "src")

	for _, op := range engine.Operations {
		t.Run(op.String(), func(t *testing.T) {
			args := map[string]interface{}{"operation": op.String(), "source": "src", "destination": "out"}
			var params engine.Params
			if op == engine.OpLevelsAdjust {
				params = engine.Params{10, 120, 250}
				args["params"] = []int{10, 120, 250}
			}
			var info imaging.BufferInfo
			callToolOK(t, s, "image_apply", args, &info)

			want, _ := engine.Apply(op, src, params)
			if !mustGet(t, s, "out").Equal(want) {
				t.Error("stored result differs from engine.Apply")
			}
			if info.Name != "out" {
				t.Errorf("info name: got %q, want out", info.Name)
			}
		})
	}
}

func TestHandleToolsCall_ApplyErrors(t *testing.T) {
	s := newServerWithImage(t)
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{"unknown operation", map[string]interface{}{"operation": "emboss", "source": "src", "destination": "d"}, "unknown operation"},
		{"missing source", map[string]interface{}{"operation": "blur", "source": "nope", "destination": "d"}, "not found"},
		{"levels without params", map[string]interface{}{"operation": "levels-adjust", "source": "src", "destination": "d"}, "requires 3 parameters"},
		{"levels out of order", map[string]interface{}{"operation": "levels-adjust", "source": "src", "destination": "d", "params": []int{200, 100, 50}}, "black < mid < white"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := callToolErr(t, s, "image_apply", tt.args)
			if !strings.Contains(data, tt.want) {
				t.Errorf("error data: got %q, want %q", data, tt.want)
			}
		})
	}
	if _, err := s.store.Get("d"); err == nil {
		t.Error("failed calls should not store a destination")
	}
}

func TestHandleToolsCall_BrightenAndFlip(t *testing.T) {
	s := newServerWithImage(t)
	src := mustGet(t, s, "src")

	callToolOK(t, s, "image_brighten", map[string]interface{}{"source": "src", "destination": "b", "delta": -30}, nil)
	if !mustGet(t, s, "b").Equal(engine.Brighten(src, -30)) {
		t.Error("image_brighten differs from engine.Brighten")
	}

	callToolOK(t, s, "image_flip", map[string]interface{}{"source": "src", "destination": "v", "direction": "vertical"}, nil)
	if !mustGet(t, s, "v").Equal(engine.Flip(src, true)) {
		t.Error("vertical image_flip differs from engine.Flip")
	}
	callToolOK(t, s, "image_flip", map[string]interface{}{"source": "src", "destination": "h", "direction": "Horizontal"}, nil)
	if !mustGet(t, s, "h").Equal(engine.Flip(src, false)) {
		t.Error("horizontal image_flip differs from engine.Flip")
	}

	data := callToolErr(t, s, "image_flip", map[string]interface{}{"source": "src", "destination": "x", "direction": "diagonal"})
	if !strings.Contains(data, "direction") {
		t.Errorf("bad direction: got %q", data)
	}
}

func TestHandleToolsCall_RGBSplitCombine(t *testing.T) {
	s := newServerWithImage(t)

	var split rgbSplitResult
	callToolOK(t, s, "image_rgb_split", map[string]interface{}{"source": "src", "red": "r", "green": "g", "blue": "b"}, &split)
	if split.Red == nil || split.Red.Name != "r" || split.Blue.Name != "b" {
		t.Errorf("split result: got %+v", split)
	}

	callToolOK(t, s, "image_rgb_combine", map[string]interface{}{"destination": "joined", "red": "r", "green": "g", "blue": "b"}, nil)
	if !mustGet(t, s, "joined").Equal(mustGet(t, s, "src")) {
		t.Error("split then combine should restore the source")
	}

	_ = s.store.Put("tiny", raster.New("tiny", 1, 1))
	data := callToolErr(t, s, "image_rgb_combine", map[string]interface{}{"destination": "x", "red": "r", "green": "tiny", "blue": "b"})
	if !strings.Contains(data, "shapes differ") {
		t.Errorf("shape mismatch: got %q", data)
	}
}

func TestHandleToolsCall_CompressDownscaleHistogram(t *testing.T) {
	s := newServerWithImage(t)

	callToolOK(t, s, "image_compress", map[string]interface{}{"source": "src", "destination": "c0", "percentage": 0}, nil)
	if !mustGet(t, s, "c0").Equal(mustGet(t, s, "src")) {
		t.Error("compress 0 should keep the image")
	}
	callToolOK(t, s, "image_compress", map[string]interface{}{"source": "src", "destination": "c100", "percentage": 100}, nil)
	if !mustGet(t, s, "c100").Equal(raster.New("", 4, 6)) {
		t.Error("compress 100 should produce black")
	}
	callToolErr(t, s, "image_compress", map[string]interface{}{"source": "src", "destination": "c", "percentage": 101})

	var info imaging.BufferInfo
	callToolOK(t, s, "image_downscale", map[string]interface{}{"source": "src", "destination": "small", "height": 2, "width": 3}, &info)
	if info.Height != 2 || info.Width != 3 {
		t.Errorf("downscale info: got %+v, want 3x2", info)
	}
	callToolErr(t, s, "image_downscale", map[string]interface{}{"source": "src", "destination": "big", "height": 5, "width": 3})

	callToolOK(t, s, "image_histogram", map[string]interface{}{"source": "src", "destination": "hist"}, &info)
	if info.Height != 256 || info.Width != 256 {
		t.Errorf("histogram info: got %+v, want 256x256", info)
	}
}

func TestHandleToolsCall_Frequency(t *testing.T) {
	s := New(nil)
	b := raster.New("img", 2, 2)
	b.SetPixel(0, 0, [3]uint8{7, 0, 0})
	_ = s.store.Put("img", b)

	var result frequencyResult
	callToolOK(t, s, "image_frequency", map[string]interface{}{"name": "img", "channel": "Red"}, &result)
	if len(result.Counts) != 256 {
		t.Fatalf("counts length: got %d, want 256", len(result.Counts))
	}
	if result.Counts[0] != 3 || result.Counts[7] != 1 {
		t.Errorf("counts: got [0]=%d [7]=%d, want 3 and 1", result.Counts[0], result.Counts[7])
	}
	if result.Peak != 0 || result.Max != 3 || result.Channel != "red" {
		t.Errorf("result: got peak=%d max=%d channel=%s", result.Peak, result.Max, result.Channel)
	}

	callToolErr(t, s, "image_frequency", map[string]interface{}{"name": "img", "channel": "alpha"})
}

func TestHandleToolsCall_MaskAndSplitPreview(t *testing.T) {
	s := newServerWithImage(t)
	src := mustGet(t, s, "src")
	mask := raster.New("mask", 4, 6)
	for i := 0; i < 4; i++ {
		mask.SetPixel(i, 0, [3]uint8{255, 255, 255})
	}
	_ = s.store.Put("mask", mask)

	callToolOK(t, s, "image_mask", map[string]interface{}{
		"operation": "levels-adjust", "source": "src", "mask": "mask", "destination": "masked", "params": []int{0, 100, 255},
	}, nil)
	want, _ := engine.Mask(engine.OpLevelsAdjust, src, mask, engine.Params{0, 100, 255})
	if !mustGet(t, s, "masked").Equal(want) {
		t.Error("image_mask differs from engine.Mask")
	}

	callToolOK(t, s, "image_split_preview", map[string]interface{}{
		"operation": "blue-component", "source": "src", "destination": "split", "percentage": 50,
	}, nil)
	want, _ = engine.SplitPreview(engine.OpBlueComponent, src, 50, nil)
	if !mustGet(t, s, "split").Equal(want) {
		t.Error("image_split_preview differs from engine.SplitPreview")
	}

	_ = s.store.Put("small-mask", raster.New("small-mask", 2, 2))
	callToolErr(t, s, "image_mask", map[string]interface{}{"operation": "blur", "source": "src", "mask": "small-mask", "destination": "x"})
	callToolErr(t, s, "image_split_preview", map[string]interface{}{"operation": "blur", "source": "src", "destination": "x", "percentage": -5})
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := newServerWithImage(t)

	var result imaging.ColorResult
	callToolOK(t, s, "image_sample_color", map[string]interface{}{"name": "src", "row": 1, "col": 2}, &result)
	if result.RGB.R != 60 || result.RGB.G != 80 || result.RGB.B != 103 {
		t.Errorf("RGB: got %+v, want (60,80,103)", result.RGB)
	}
	if result.Hex != "#3C5067" {
		t.Errorf("Hex: got %s, want #3C5067", result.Hex)
	}

	callToolErr(t, s, "image_sample_color", map[string]interface{}{"name": "src", "row": 4, "col": 0})
}

func TestHandleToolsCall_DominantColors(t *testing.T) {
	s := New(nil)
	b := raster.New("img", 4, 4)
	for j := 0; j < 4; j++ {
		b.SetPixel(0, j, [3]uint8{255, 255, 255})
	}
	_ = s.store.Put("img", b)

	var result imaging.DominantColorsResult
	callToolOK(t, s, "image_dominant_colors", map[string]interface{}{"name": "img"}, &result)
	if len(result.Colors) != 2 {
		t.Fatalf("colors: got %d, want 2", len(result.Colors))
	}
	if result.Colors[0].Hex != "#000000" || result.Colors[0].Percentage != 75 {
		t.Errorf("top color: got %+v, want #000000 at 75%%", result.Colors[0])
	}
}

func TestHandleToolsCall_Preview(t *testing.T) {
	s := New(nil)
	s.cfg.PreviewSize = 16
	_ = s.store.Put("wide", raster.New("wide", 10, 40))

	var result imaging.PreviewResult
	callToolOK(t, s, "image_preview", map[string]interface{}{"name": "wide"}, &result)
	if result.Width != 16 || result.Height != 4 {
		t.Errorf("configured size: got %dx%d, want 16x4", result.Width, result.Height)
	}

	callToolOK(t, s, "image_preview", map[string]interface{}{"name": "wide", "max_size": 100}, &result)
	if result.Width != 40 || result.Height != 10 {
		t.Errorf("explicit size: got %dx%d, want 40x10", result.Width, result.Height)
	}
	if result.ImageBase64 == "" || result.MimeType != "image/png" {
		t.Error("preview should carry base64 PNG data")
	}
}

func TestHandleToolsCall_Save(t *testing.T) {
	s := newServerWithImage(t)
	path := filepath.Join(t.TempDir(), "out.ppm")

	var result saveResult
	callToolOK(t, s, "image_save", map[string]interface{}{"name": "src", "path": path}, &result)
	if result.Format != imaging.FormatPPM || result.Image.Name != "src" {
		t.Errorf("save result: got %+v", result)
	}

	back, err := imaging.LoadFile(path, "back")
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if !back.Equal(mustGet(t, s, "src")) {
		t.Error("saved file differs from the stored image")
	}

	callToolErr(t, s, "image_save", map[string]interface{}{"name": "src", "path": filepath.Join(t.TempDir(), "out.gif")})
}

func TestHandleToolsCall_RunScript(t *testing.T) {
	s := newServerWithImage(t)

	var result runScriptResult
	callToolOK(t, s, "image_run_script", map[string]interface{}{
		"script": "blur src soft\n# comment\nsepia missing x\nhistogram soft hist\n",
	}, &result)

	if result.Executed != 3 || result.Failed != 1 {
		t.Errorf("result: got executed=%d failed=%d, want 3 and 1", result.Executed, result.Failed)
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0], "script:3") {
		t.Errorf("failures: got %v", result.Failures)
	}
	want := []string{"hist", "soft", "src"}
	if strings.Join(result.Images, ",") != strings.Join(want, ",") {
		t.Errorf("images: got %v, want %v", result.Images, want)
	}

	path := filepath.Join(t.TempDir(), "edit.txt")
	if err := os.WriteFile(path, []byte("vertical-flip src flipped\n"), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	callToolOK(t, s, "image_run_script", map[string]interface{}{"path": path}, &result)
	if _, err := s.store.Get("flipped"); err != nil {
		t.Error("script file should have stored 'flipped'")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`invalid json`),
	}

	resp := s.handleToolsCall(req)
	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidArguments(t *testing.T) {
	s := New(nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"image_info","arguments":"not an object"}`),
	}

	resp := s.handleToolsCall(req)
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Fatalf("Expected -32000 for bad arguments, got %+v", resp.Error)
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(nil)
	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("Expected error for unknown tool")
	}
}

func TestHandleToolsCall_EdgeDetectAndGrid(t *testing.T) {
	s := New(nil)
	b := raster.New("step", 20, 20)
	for i := 0; i < 20; i++ {
		for j := 10; j < 20; j++ {
			b.SetPixel(i, j, [3]uint8{255, 255, 255})
		}
	}
	_ = s.store.Put("step", b)

	callToolOK(t, s, "image_edge_detect", map[string]interface{}{"source": "step", "destination": "edges"}, nil)
	want, _ := imaging.EdgeDetect(b, imaging.DefaultEdgeLow, imaging.DefaultEdgeHigh)
	if !mustGet(t, s, "edges").Equal(want) {
		t.Error("image_edge_detect differs from imaging.EdgeDetect")
	}
	callToolErr(t, s, "image_edge_detect", map[string]interface{}{
		"source": "step", "destination": "x", "threshold_low": 200, "threshold_high": 100,
	})

	callToolOK(t, s, "image_grid_overlay", map[string]interface{}{"source": "step", "destination": "grid", "spacing": 5}, nil)
	if got := mustGet(t, s, "grid").Pixel(2, 5); got != [3]uint8{255, 0, 0} {
		t.Errorf("grid line: got %v, want [255 0 0]", got)
	}
	callToolErr(t, s, "image_grid_overlay", map[string]interface{}{"source": "step", "destination": "x", "color": "blue"})
}
