package trace

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/egelkids/egel/internal/problemgen"
)

// maxDivSteps bounds the chunking loop.
const maxDivSteps = 200

// LocalTracer computes traces in process.
type LocalTracer struct{}

// NewLocalTracer returns a LocalTracer.
func NewLocalTracer() *LocalTracer { return &LocalTracer{} }

func (LocalTracer) Trace(_ context.Context, req Request) (*Trace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t := &Trace{Op: req.Op, A: req.A, B: req.B, Source: SourceLocal}
	switch req.Op {
	case problemgen.OpAdd:
		t.Add = Addition(req.A, req.B)
	case problemgen.OpSub:
		t.Sub = Subtraction(req.A, req.B)
	case problemgen.OpMul:
		t.Mul = &MulTrace{Op: string(problemgen.OpMul), A: req.A, B: req.B, Result: req.A * req.B}
	case problemgen.OpDiv:
		t.Div = Division(req.A, req.B)
	}
	return t, nil
}

// Addition traces column addition of non-negative addends. Within a column
// the addend digits are added top to bottom, then the carry; each time the
// running sum reaches ten it is underlined and a ten moves to the carry.
func Addition(addends ...int) *AddTrace {
	digits := lo.Map(addends, func(n int, _ int) []int { return digitsLSB(n) })
	maxDigits := lo.Max(lo.Map(digits, func(d []int, _ int) int { return len(d) }))

	tr := &AddTrace{
		Addends:  addends,
		SumValue: lo.Sum(addends),
		Warnings: []string{},
	}

	carryIn := 0
	for col := range maxDigits {
		here := make([]int, len(digits))
		for r, d := range digits {
			if col < len(d) {
				here[r] = d[col]
			}
		}

		s, carryOut := 0, 0
		underlines := []Underline{}
		for r, dig := range here {
			s += dig
			if s >= 10 {
				underlines = append(underlines, Underline{Row: r, Col: col})
				s -= 10
				carryOut++
			}
		}
		if carryIn > 0 {
			s += carryIn
			if s >= 10 {
				underlines = append(underlines, Underline{Row: CarryRow, Col: col})
				s -= 10
				carryOut++
			}
		}
		if carryOut >= 10 {
			tr.Warnings = append(tr.Warnings, fmt.Sprintf(
				"column %d produced carry_out=%d; use fewer addends or smaller digits", col, carryOut))
		}

		tr.Columns = append(tr.Columns, ColumnTrace{
			Col:         col,
			Digits:      here,
			CarryIn:     carryIn,
			CarryOut:    carryOut,
			ResultDigit: s,
			Underlines:  underlines,
		})
		carryIn = carryOut
	}

	if carryIn > 0 {
		if carryIn >= 10 {
			tr.Warnings = append(tr.Warnings, fmt.Sprintf(
				"final carry %d is multi-digit and is shown as a number", carryIn))
		}
		tr.Columns = append(tr.Columns, ColumnTrace{
			Col:         maxDigits,
			Digits:      make([]int, len(addends)),
			CarryIn:     carryIn,
			CarryOut:    carryIn / 10,
			ResultDigit: carryIn % 10,
			Underlines:  []Underline{},
		})
		maxDigits++
	}
	tr.MaxDigits = maxDigits
	return tr
}

// Subtraction traces completion subtraction. Working right to left, the
// subtrahend digit plus the carry either fits in the minuend digit, or it
// is completed to ten and the complement is added to the minuend digit
// with a carry of one into the next column.
func Subtraction(a, b int) *SubTrace {
	as, bs := strconv.Itoa(a), strconv.Itoa(b)
	n := max(len(as), len(bs))
	ap := strings.Repeat("0", n-len(as)) + as
	bp := strings.Repeat("0", n-len(bs)) + bs

	result := make([]int, n)
	carriesIn := make([]int, n)
	steps := make([]SubStep, n)

	carry := 0
	for pos := n - 1; pos >= 0; pos-- {
		ad, bd := int(ap[pos]-'0'), int(bp[pos]-'0')
		carriesIn[pos] = carry
		step := SubStep{Pos: pos, A: ad, B: bd, CarryIn: carry, SubVal: bd + carry}
		if step.SubVal > ad {
			comp := 10 - step.SubVal
			step.Rule = RuleComplete
			step.Comp = &comp
			step.Res = comp + ad
			step.CarryOut = 1
		} else {
			step.Rule = RuleFit
			step.Res = ad - step.SubVal
		}
		result[pos] = step.Res
		steps[pos] = step
		carry = step.CarryOut
	}

	var sb strings.Builder
	for _, d := range result {
		sb.WriteByte(byte('0' + d))
	}
	resultStr := strings.TrimLeft(sb.String(), "0")
	if resultStr == "" {
		resultStr = "0"
	}
	value, _ := strconv.Atoi(resultStr)

	return &SubTrace{
		Op:           string(problemgen.OpSub),
		A:            a,
		B:            b,
		APadded:      ap,
		BPadded:      bp,
		Digits:       n,
		CarriesIn:    carriesIn,
		Steps:        steps,
		ResultDigits: result,
		Result:       value,
		ResultStr:    resultStr,
		FinalCarry:   carry,
	}
}

// Division traces chunked division. Each step reads the shortest leading
// part of the remainder that holds the divisor, takes 5, 2 or 1 times the
// divisor scaled to that place, and subtracts it. divisor must be >= 1.
func Division(dividend, divisor int) *DivTrace {
	tr := &DivTrace{
		Dividend: dividend,
		Divisor:  divisor,
		Steps:    []DivStep{},
		QList:    []int{},
		SubVals: []Multiple{
			{K: 1, Val: divisor},
			{K: 2, Val: divisor * 2},
			{K: 5, Val: divisor * 5},
		},
	}

	rem := dividend
	for rem >= divisor && len(tr.Steps) < maxDivSteps {
		rs := strconv.Itoa(rem)
		read, p10 := rs, 0
		for i := 1; i <= len(rs); i++ {
			if v, _ := strconv.Atoi(rs[:i]); v >= divisor {
				read, p10 = rs[:i], len(rs)-i
				break
			}
		}
		mult := pow10(p10)

		factor := 1
		switch {
		case rem >= divisor*5*mult:
			factor = 5
		case rem >= divisor*2*mult:
			factor = 2
		}
		sub := divisor * factor * mult
		chunk := factor * mult

		msg := fmt.Sprintf("%d fits into %s %d times.", divisor, read, factor)
		if p10 > 0 {
			msg += fmt.Sprintf(" Add %d zero%s to make %d.", p10, plural(p10), chunk)
		}

		tr.Steps = append(tr.Steps, DivStep{RemBefore: rem, Sub: sub, Factor: chunk, Msg: msg})
		tr.QList = append(tr.QList, chunk)
		rem -= sub
	}

	tr.TotalQ = lo.Sum(tr.QList)
	tr.FinalRem = rem
	return tr
}

// digitsLSB returns the decimal digits of n, least significant first.
func digitsLSB(n int) []int {
	if n == 0 {
		return []int{0}
	}
	var out []int
	for n > 0 {
		out = append(out, n%10)
		n /= 10
	}
	return out
}

func pow10(n int) int {
	p := 1
	for range n {
		p *= 10
	}
	return p
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
