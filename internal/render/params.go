// Package render requests worked-solution diagrams from the rendering
// service.
package render

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/egelkids/egel/internal/config"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/scoring"
)

// Parameter ranges accepted by the service.
const (
	MinUnit      = 28
	MaxUnit      = 96
	DefaultUnit  = 56
	MaxColorMode = 3
)

// Alignment of the division layout.
const (
	AlignLeft  = "left"
	AlignRight = "right"
)

// Placement of the division subtraction helper column.
const (
	SubPosTop  = "top"
	SubPosSide = "side"
	SubPosNone = "none"
)

// ErrDivisorZero is returned for a division diagram with b <= 0.
var ErrDivisorZero = errors.New("divisor (b) must be >= 1 for division")

// ErrOperandTooLarge is returned for an operand above problemgen.MaxOperand.
var ErrOperandTooLarge = fmt.Errorf("operands must be at most %d", problemgen.MaxOperand)

// Params describes one diagram. Align, SubPos and ShowRemainder only
// apply to division.
type Params struct {
	Op            problemgen.Operation
	A             int
	B             int
	Unit          int
	Stage         scoring.HintStage
	ShowGrid      bool
	ShowMarks     bool
	ColorMode     int
	Align         string
	SubPos        string
	ShowRemainder bool
}

// Display holds the per-learner display preferences that are not tied to
// a problem.
type Display struct {
	Unit          int
	ShowGrid      bool
	ShowMarks     bool
	ColorMode     int
	Align         string
	SubPos        string
	ShowRemainder bool
}

// DefaultDisplay returns the service defaults.
func DefaultDisplay() Display {
	return Display{
		Unit:          DefaultUnit,
		ShowGrid:      true,
		ShowMarks:     true,
		ColorMode:     1,
		Align:         AlignRight,
		SubPos:        SubPosTop,
		ShowRemainder: true,
	}
}

// DisplayFromConfig copies the render section of the config.
func DisplayFromConfig(c config.RenderConfig) Display {
	return Display{
		Unit:          c.Unit,
		ShowGrid:      c.ShowGrid,
		ShowMarks:     c.ShowMarks,
		ColorMode:     c.ColorMode,
		Align:         c.Align,
		SubPos:        c.SubPos,
		ShowRemainder: c.ShowRemainder,
	}
}

// For builds Params for a problem at stage with display d.
func (d Display) For(op problemgen.Operation, a, b int, stage scoring.HintStage) Params {
	return Params{
		Op:            op,
		A:             a,
		B:             b,
		Unit:          d.Unit,
		Stage:         stage,
		ShowGrid:      d.ShowGrid,
		ShowMarks:     d.ShowMarks,
		ColorMode:     d.ColorMode,
		Align:         d.Align,
		SubPos:        d.SubPos,
		ShowRemainder: d.ShowRemainder,
	}
}

// Validate checks Params against the ranges the service enforces.
func (p Params) Validate() error {
	if !p.Op.Valid() {
		return fmt.Errorf("unknown operation %q", p.Op)
	}
	if p.A < 0 || p.B < 0 {
		return fmt.Errorf("operands must be non-negative, got a=%d b=%d", p.A, p.B)
	}
	if p.A > problemgen.MaxOperand || p.B > problemgen.MaxOperand {
		return fmt.Errorf("%w: got a=%d b=%d", ErrOperandTooLarge, p.A, p.B)
	}
	if p.Op == problemgen.OpDiv && p.B <= 0 {
		return ErrDivisorZero
	}
	if p.Unit < MinUnit || p.Unit > MaxUnit {
		return fmt.Errorf("unit %d outside [%d, %d]", p.Unit, MinUnit, MaxUnit)
	}
	if p.Stage < scoring.StageNone || p.Stage > scoring.StageFull {
		return fmt.Errorf("stage %d outside [%d, %d]", p.Stage, scoring.StageNone, scoring.StageFull)
	}
	if p.ColorMode < 0 || p.ColorMode > MaxColorMode {
		return fmt.Errorf("color mode %d outside [0, %d]", p.ColorMode, MaxColorMode)
	}
	if p.Op == problemgen.OpDiv {
		switch p.Align {
		case AlignLeft, AlignRight:
		default:
			return fmt.Errorf("align %q must be left or right", p.Align)
		}
		switch p.SubPos {
		case SubPosTop, SubPosSide, SubPosNone:
		default:
			return fmt.Errorf("sub_pos %q must be top, side or none", p.SubPos)
		}
	}
	return nil
}

// Query encodes p as /api/render query parameters.
func (p Params) Query() url.Values {
	q := url.Values{}
	q.Set("op", string(p.Op))
	q.Set("a", strconv.Itoa(p.A))
	q.Set("b", strconv.Itoa(p.B))
	q.Set("unit", strconv.Itoa(p.Unit))
	q.Set("stage", strconv.Itoa(int(p.Stage)))
	q.Set("show_grid", strconv.FormatBool(p.ShowGrid))
	q.Set("show_marks", strconv.FormatBool(p.ShowMarks))
	q.Set("color_mode", strconv.Itoa(p.ColorMode))
	if p.Op == problemgen.OpDiv {
		q.Set("align", p.Align)
		q.Set("sub_pos", p.SubPos)
		q.Set("show_remainder", strconv.FormatBool(p.ShowRemainder))
	}
	return q
}
