package engine

import (
	"strings"

	"github.com/ironsheep/image-edit-mcp/internal/raster"
)

// Operation names a whole-image transform that Apply, Mask and
// SplitPreview can dispatch to.
type Operation int

const (
	OpBlur Operation = iota + 1
	OpSharpen
	OpSepia
	OpRedComponent
	OpGreenComponent
	OpBlueComponent
	OpLumaComponent
	OpValueComponent
	OpIntensityComponent
	OpColorCorrect
	OpLevelsAdjust
)

// Operations lists every Operation in declaration order.
var Operations = []Operation{
	OpBlur,
	OpSharpen,
	OpSepia,
	OpRedComponent,
	OpGreenComponent,
	OpBlueComponent,
	OpLumaComponent,
	OpValueComponent,
	OpIntensityComponent,
	OpColorCorrect,
	OpLevelsAdjust,
}

var operationNames = map[Operation]string{
	OpBlur:               "blur",
	OpSharpen:            "sharpen",
	OpSepia:              "sepia",
	OpRedComponent:       "red-component",
	OpGreenComponent:     "green-component",
	OpBlueComponent:      "blue-component",
	OpLumaComponent:      "luma-component",
	OpValueComponent:     "value-component",
	OpIntensityComponent: "intensity-component",
	OpColorCorrect:       "color-correct",
	OpLevelsAdjust:       "levels-adjust",
}

func (op Operation) String() string {
	if s, ok := operationNames[op]; ok {
		return s
	}
	return "unknown"
}

// ParseOperation maps a name such as "blur" or "levels-adjust"
// (case-insensitive) to its Operation.
func ParseOperation(name string) (Operation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations {
		if operationNames[op] == name {
			return op, nil
		}
	}
	return 0, raster.Invalidf("operation", "unknown operation %q", name)
}

// Params carries the numeric arguments of an Operation. Only
// OpLevelsAdjust takes any: black, mid and white in that order.
type Params []int

// ParamCount returns how many Params the operation requires.
func (op Operation) ParamCount() int {
	if op == OpLevelsAdjust {
		return 3
	}
	return 0
}

// Validate checks op and params without touching any pixels.
func (op Operation) Validate(params Params) error {
	if _, ok := operationNames[op]; !ok {
		return raster.Invalidf("operation", "unknown operation %d", int(op))
	}
	if op == OpLevelsAdjust {
		if len(params) != 3 {
			return raster.Invalidf(op.String(), "requires 3 parameters (black, mid, white), got %d", len(params))
		}
		if _, _, _, err := CurveCoefficients(params[0], params[1], params[2]); err != nil {
			return err
		}
	}
	return nil
}

// Apply runs op over the whole of src. Parameters are ignored by every
// operation except OpLevelsAdjust.
func Apply(op Operation, src *raster.Buffer, params Params) (*raster.Buffer, error) {
	if err := op.Validate(params); err != nil {
		return nil, err
	}
	switch op {
	case OpBlur:
		return Blur(src), nil
	case OpSharpen:
		return Sharpen(src), nil
	case OpSepia:
		return Sepia(src), nil
	case OpRedComponent:
		return ExtractComponent(src, ComponentRed)
	case OpGreenComponent:
		return ExtractComponent(src, ComponentGreen)
	case OpBlueComponent:
		return ExtractComponent(src, ComponentBlue)
	case OpLumaComponent:
		return ExtractComponent(src, ComponentLuma)
	case OpValueComponent:
		return ExtractComponent(src, ComponentValue)
	case OpIntensityComponent:
		return ExtractComponent(src, ComponentIntensity)
	case OpColorCorrect:
		return ColorCorrect(src), nil
	case OpLevelsAdjust:
		return ApplyLevels(src, params[0], params[1], params[2])
	default:
		return nil, raster.Invalidf("operation", "unknown operation %d", int(op))
	}
}
