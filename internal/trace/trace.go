// Package trace produces worked-solution traces: the column-by-column
// record of how a problem is solved. Traces come from the local
// algorithms, the remote service or an LLM explainer.
package trace

import (
	"context"
	"errors"
	"fmt"

	"github.com/egelkids/egel/internal/problemgen"
)

// ErrInvalidRequest is returned for operands no tracer accepts.
var ErrInvalidRequest = errors.New("invalid trace request")

// Source names where a trace came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
	SourceLLM    Source = "llm"
)

// Request identifies the problem to trace.
type Request struct {
	Op problemgen.Operation
	A  int
	B  int
}

// Validate rejects unknown operations, operands outside
// [0, problemgen.MaxOperand] and division by zero.
func (r Request) Validate() error {
	if !r.Op.Valid() {
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidRequest, r.Op)
	}
	if r.A < 0 || r.B < 0 {
		return fmt.Errorf("%w: operands must be non-negative", ErrInvalidRequest)
	}
	if r.A > problemgen.MaxOperand || r.B > problemgen.MaxOperand {
		return fmt.Errorf("%w: operands must be at most %d", ErrInvalidRequest, problemgen.MaxOperand)
	}
	if r.Op == problemgen.OpDiv && r.B <= 0 {
		return fmt.Errorf("%w: divisor (b) must be >= 1 for division", ErrInvalidRequest)
	}
	return nil
}

// Tracer produces a Trace for a request.
type Tracer interface {
	Trace(ctx context.Context, req Request) (*Trace, error)
}

// Trace is a worked solution. Exactly one of Add, Sub, Mul and Div is set,
// matching Op.
type Trace struct {
	Op          problemgen.Operation `json:"op"`
	A           int                  `json:"a"`
	B           int                  `json:"b"`
	Source      Source               `json:"source"`
	Add         *AddTrace            `json:"add,omitempty"`
	Sub         *SubTrace            `json:"sub,omitempty"`
	Mul         *MulTrace            `json:"mul,omitempty"`
	Div         *DivTrace            `json:"div,omitempty"`
	Explanation *Explanation         `json:"explanation,omitempty"`
}

// Detail returns the operation-specific trace.
func (t *Trace) Detail() any {
	switch {
	case t.Add != nil:
		return t.Add
	case t.Sub != nil:
		return t.Sub
	case t.Mul != nil:
		return t.Mul
	case t.Div != nil:
		return t.Div
	}
	return nil
}

// AddTrace is column addition with ten-completion marks. Columns run from
// units upward; a final carry gets its own synthetic column.
type AddTrace struct {
	Addends   []int         `json:"addends"`
	SumValue  int           `json:"sum_value"`
	MaxDigits int           `json:"max_digits"`
	Columns   []ColumnTrace `json:"columns"`
	Warnings  []string      `json:"warnings"`
}

// ColumnTrace is one column of an addition.
type ColumnTrace struct {
	Col         int         `json:"col"`
	Digits      []int       `json:"digits"`
	CarryIn     int         `json:"carry_in"`
	CarryOut    int         `json:"carry_out"`
	ResultDigit int         `json:"result_digit"`
	Underlines  []Underline `json:"underlines"`
}

// Underline marks where a column sum completed a ten. Row is the addend
// index, or -1 for the carry cell.
type Underline struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CarryRow is the Underline.Row value for the carry cell.
const CarryRow = -1

// Subtraction rules.
const (
	RuleFit      = "fit"
	RuleComplete = "complete"
)

// SubTrace is completion subtraction. Steps run left to right.
type SubTrace struct {
	Op           string    `json:"op"`
	A            int       `json:"a"`
	B            int       `json:"b"`
	APadded      string    `json:"a_padded"`
	BPadded      string    `json:"b_padded"`
	Digits       int       `json:"digits"`
	CarriesIn    []int     `json:"carries_in"`
	Steps        []SubStep `json:"steps"`
	ResultDigits []int     `json:"result_digits"`
	Result       int       `json:"result"`
	ResultStr    string    `json:"result_str"`
	FinalCarry   int       `json:"final_carry"`
}

// SubStep is one digit position. Comp is nil when the rule is fit.
type SubStep struct {
	Pos      int    `json:"pos"`
	A        int    `json:"a"`
	B        int    `json:"b"`
	CarryIn  int    `json:"carry_in"`
	SubVal   int    `json:"sub_val"`
	Rule     string `json:"rule"`
	Comp     *int   `json:"comp"`
	Res      int    `json:"res"`
	CarryOut int    `json:"carry_out"`
}

// MulTrace is a plain product.
type MulTrace struct {
	Op     string `json:"op"`
	A      int    `json:"a"`
	B      int    `json:"b"`
	Result int    `json:"result"`
}

// DivTrace is chunked division: repeated subtraction of 1, 2 or 5 times
// the divisor scaled by a power of ten.
type DivTrace struct {
	Dividend int        `json:"dividend"`
	Divisor  int        `json:"divisor"`
	Steps    []DivStep  `json:"steps"`
	QList    []int      `json:"q_list"`
	TotalQ   int        `json:"total_q"`
	FinalRem int        `json:"final_rem"`
	SubVals  []Multiple `json:"sub_vals"`
}

// DivStep removes Sub from RemBefore, adding Factor to the quotient.
type DivStep struct {
	RemBefore int    `json:"rem_before"`
	Sub       int    `json:"sub"`
	Factor    int    `json:"factor"`
	Msg       string `json:"msg"`
}

// Multiple is a helper row: K times the divisor.
type Multiple struct {
	K   int `json:"k"`
	Val int `json:"val"`
}

// Explanation is a short narrated walk-through.
type Explanation struct {
	Summary string   `json:"summary"`
	Steps   []string `json:"steps"`
}
