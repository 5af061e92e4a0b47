package trace

import (
	"fmt"
	"strings"

	"github.com/egelkids/egel/internal/problemgen"
)

var placeNames = []string{"Ones", "Tens", "Hundreds", "Thousands", "Ten-thousands", "Hundred-thousands", "Millions"}

func placeName(col int) string {
	if col < len(placeNames) {
		return placeNames[col]
	}
	return fmt.Sprintf("10^%d", col)
}

// Lines narrates the trace one step per line. An LLM explanation, when
// present, takes precedence.
func (t *Trace) Lines() []string {
	if t.Explanation != nil && len(t.Explanation.Steps) > 0 {
		return t.Explanation.Steps
	}
	switch {
	case t.Add != nil:
		return addLines(t.Add)
	case t.Sub != nil:
		return subLines(t.Sub)
	case t.Mul != nil:
		return []string{fmt.Sprintf("%d %s %d = %d", t.Mul.A, problemgen.OpMul.Symbol(), t.Mul.B, t.Mul.Result)}
	case t.Div != nil:
		return divLines(t.Div)
	}
	return nil
}

func addLines(tr *AddTrace) []string {
	lines := make([]string, 0, len(tr.Columns)+1)
	for _, c := range tr.Columns {
		terms := make([]string, 0, len(c.Digits)+1)
		for _, d := range c.Digits {
			terms = append(terms, fmt.Sprint(d))
		}
		if c.CarryIn > 0 {
			terms = append(terms, fmt.Sprintf("carry %d", c.CarryIn))
		}
		line := fmt.Sprintf("%s: %s", placeName(c.Col), strings.Join(terms, " + "))
		if c.CarryOut > 0 {
			line += fmt.Sprintf(" makes %d ten%s, write %d, carry %d", c.CarryOut, plural(c.CarryOut), c.ResultDigit, c.CarryOut)
		} else {
			line += fmt.Sprintf(" = %d", c.ResultDigit)
		}
		lines = append(lines, line)
	}
	return append(lines, fmt.Sprintf("Sum: %d", tr.SumValue))
}

func subLines(tr *SubTrace) []string {
	lines := make([]string, 0, len(tr.Steps)+1)
	for i := len(tr.Steps) - 1; i >= 0; i-- {
		s := tr.Steps[i]
		place := placeName(tr.Digits - 1 - s.Pos)
		take := fmt.Sprint(s.B)
		if s.CarryIn > 0 {
			take = fmt.Sprintf("%d + carry %d = %d", s.B, s.CarryIn, s.SubVal)
		}
		if s.Rule == RuleComplete {
			lines = append(lines, fmt.Sprintf("%s: take %s; it does not fit in %d, complete to ten: 10 - %d = %d, %d + %d = %d, carry 1",
				place, take, s.A, s.SubVal, *s.Comp, *s.Comp, s.A, s.Res))
		} else {
			lines = append(lines, fmt.Sprintf("%s: take %s; %d - %d = %d", place, take, s.A, s.SubVal, s.Res))
		}
	}
	return append(lines, fmt.Sprintf("Difference: %s", tr.ResultStr))
}

func divLines(tr *DivTrace) []string {
	lines := make([]string, 0, len(tr.Steps)+1)
	for _, s := range tr.Steps {
		lines = append(lines, fmt.Sprintf("%s %d - %d = %d", s.Msg, s.RemBefore, s.Sub, s.RemBefore-s.Sub))
	}
	return append(lines, fmt.Sprintf("Quotient: %d, remainder: %d", tr.TotalQ, tr.FinalRem))
}
