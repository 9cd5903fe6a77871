package script

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/engine"
)

// CommandSpec describes one script command for help output.
type CommandSpec struct {
	Name        string
	Usage       string
	Description string
}

// Commands lists every verb the runner understands. Operation verbs
// (blur, sepia, levels-adjust, ...) accept the whole-image, masked and
// split forms shown for <op>.
var Commands = []CommandSpec{
	{"load", "load <path> <name>", "Read an image file (.ppm, .png, .jpg, .bmp, .tif) into <name>."},
	{"save", "save <path> <name>", "Write <name> to a file; the extension picks the format."},
	{"brighten", "brighten <delta> <src> <dst>", "Add <delta> to every channel, clamped."},
	{"vertical-flip", "vertical-flip <src> <dst>", "Reverse the row order."},
	{"horizontal-flip", "horizontal-flip <src> <dst>", "Mirror every row."},
	{"rgb-split", "rgb-split <src> <r> <g> <b>", "Store the red, green and blue component images."},
	{"rgb-combine", "rgb-combine <dst> <r> <g> <b>", "Build a colour image from three component images."},
	{"histogram", "histogram <src> <dst>", "Draw the normalized RGB histogram (256x256)."},
	{"compress", "compress <percent> <src> <dst>", "Haar wavelet compression discarding <percent> of coefficients."},
	{"downscale", "downscale <src> <dst> <height> <width>", "Bilinear downscale."},
	{"<op>", "<op> <src> <dst>", "Apply an operation to the whole image."},
	{"<op>", "<op> <src> <mask> <dst>", "Apply an operation where <mask> is pure black."},
	{"<op>", "<op> <src> <dst> split <percent>", "Apply an operation to the left <percent> of the columns."},
	{"levels-adjust", "levels-adjust <black> <mid> <white> <src> <dst> ...", "Levels curve; accepts the same forms as <op>."},
	{"run", "run <script-file>", "Execute another script against the same images."},
}

// Usage returns the command reference as text, one command per line.
func Usage() string {
	var b strings.Builder
	for _, c := range Commands {
		fmt.Fprintf(&b, "  %-52s %s\n", c.Usage, c.Description)
	}
	names := make([]string, 0, len(engine.Operations))
	for _, op := range engine.Operations {
		names = append(names, op.String())
	}
	fmt.Fprintf(&b, "\n  <op> is one of: %s\n", strings.Join(names, ", "))
	return b.String()
}
