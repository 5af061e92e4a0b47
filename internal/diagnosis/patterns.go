package diagnosis

import "github.com/egelkids/egel/internal/problemgen"

// RemainderClassifier flags a division with the right quotient and a
// wrong remainder.
type RemainderClassifier struct{}

func (c *RemainderClassifier) Name() string { return "remainder" }

func (c *RemainderClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	p, ans := input.Problem, input.Answer
	if p.Op == problemgen.OpDiv &&
		ans.Quotient == p.Answer.Quotient &&
		ans.Remainder != p.Answer.Remainder {
		return CategoryRemainder, 0.95
	}
	return "", 0
}

// WrongOperationClassifier flags an answer that solves the problem with
// another operation, e.g. 12 + 3 answered with 9.
type WrongOperationClassifier struct{}

func (c *WrongOperationClassifier) Name() string { return "wrong-operation" }

func (c *WrongOperationClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	p := input.Problem
	got := input.Answer.Value
	if p.Op == problemgen.OpDiv {
		got = input.Answer.Quotient
	}
	for _, other := range problemgen.Operations {
		if other == p.Op || (other == problemgen.OpDiv && p.B == 0) {
			continue
		}
		// Subtraction may have been done the other way around.
		a, b := p.A, p.B
		if other == problemgen.OpSub && a < b {
			a, b = b, a
		}
		r := problemgen.Evaluate(other, a, b)
		v := r.Value
		if other == problemgen.OpDiv {
			v = r.Quotient
		}
		if got == v && v != expected(p) {
			return CategoryWrongOperation, 0.85
		}
	}
	return "", 0
}

// MissedCarryClassifier flags an addition answered column by column
// with every carry dropped.
type MissedCarryClassifier struct{}

func (c *MissedCarryClassifier) Name() string { return "missed-carry" }

func (c *MissedCarryClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	p := input.Problem
	if p.Op != problemgen.OpAdd {
		return "", 0
	}
	if v := columnwise(p.A, p.B, func(x, y int) int { return (x + y) % 10 }); v != p.Answer.Value && input.Answer.Value == v {
		return CategoryMissedCarry, 0.9
	}
	return "", 0
}

// BorrowSlipClassifier flags a subtraction where each column took the
// smaller digit from the larger one instead of borrowing.
type BorrowSlipClassifier struct{}

func (c *BorrowSlipClassifier) Name() string { return "borrow-slip" }

func (c *BorrowSlipClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	p := input.Problem
	if p.Op != problemgen.OpSub {
		return "", 0
	}
	diff := func(x, y int) int {
		if x < y {
			return y - x
		}
		return x - y
	}
	if v := columnwise(p.A, p.B, diff); v != p.Answer.Value && input.Answer.Value == v {
		return CategoryBorrowSlip, 0.9
	}
	return "", 0
}

// OffByOneClassifier flags an answer exactly one away from the result.
type OffByOneClassifier struct{}

func (c *OffByOneClassifier) Name() string { return "off-by-one" }

func (c *OffByOneClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	got := input.Answer.Value
	if input.Problem.Op == problemgen.OpDiv {
		got = input.Answer.Quotient
	}
	if d := got - expected(input.Problem); d == 1 || d == -1 {
		return CategoryOffByOne, 0.7
	}
	return "", 0
}

// expected is the single number the learner types first: the value, or
// the quotient for division.
func expected(p problemgen.Problem) int {
	if p.Op == problemgen.OpDiv {
		return p.Answer.Quotient
	}
	return p.Answer.Value
}

// columnwise combines a and b digit by digit from the ones column up,
// with no carries between columns.
func columnwise(a, b int, f func(x, y int) int) int {
	result, place := 0, 1
	for a > 0 || b > 0 {
		result += f(a%10, b%10) * place
		a, b = a/10, b/10
		place *= 10
	}
	return result
}
