package problemgen

import (
	"fmt"
	"strconv"
)

// Operation is one of the four practiced arithmetic operations.
type Operation string

const (
	OpAdd Operation = "add"
	OpSub Operation = "sub"
	OpMul Operation = "mul"
	OpDiv Operation = "div"
)

// Operations lists every operation in display order.
var Operations = []Operation{OpAdd, OpSub, OpMul, OpDiv}

// ParseOperation converts a user-supplied name into an Operation.
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return op, nil
	}
	return "", fmt.Errorf("unknown operation %q (want add, sub, mul or div)", s)
}

// Valid reports whether o is one of the known operations.
func (o Operation) Valid() bool {
	_, err := ParseOperation(string(o))
	return err == nil
}

// Symbol returns the printed operator.
func (o Operation) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	}
	return "?"
}

// Label returns a human-readable name for menus and headers.
func (o Operation) Label() string {
	switch o {
	case OpAdd:
		return "Addition"
	case OpSub:
		return "Subtraction"
	case OpMul:
		return "Multiplication"
	case OpDiv:
		return "Division"
	}
	return string(o)
}

// DigitSpec holds target operand digit counts for one problem.
// A and B are used by add, sub and mul (they are always equal).
// Divisor and Quotient are used by div.
type DigitSpec struct {
	A        int
	B        int
	Divisor  int
	Quotient int
}

// Result is the canonical answer to a problem. Value is set for add, sub
// and mul; Quotient and Remainder are set for div.
type Result struct {
	Value     int `json:"value"`
	Quotient  int `json:"quotient"`
	Remainder int `json:"remainder"`
}

// Problem is a concrete practice problem with its canonical answer.
//
// For sub, A >= B. For div, A == B*Quotient + Remainder with
// 0 <= Remainder < B; A is the dividend and B the divisor.
type Problem struct {
	Op     Operation `json:"op"`
	A      int       `json:"a"`
	B      int       `json:"b"`
	Answer Result    `json:"answer"`
}

// Text renders the problem as "A op B".
func (p Problem) Text() string {
	return fmt.Sprintf("%d %s %d", p.A, p.Op.Symbol(), p.B)
}

// AnswerText renders the canonical answer the way it is shown after a
// wrong submission: "q=Q, r=R" for division, the plain number otherwise.
func (p Problem) AnswerText() string {
	if p.Op == OpDiv {
		return fmt.Sprintf("q=%d, r=%d", p.Answer.Quotient, p.Answer.Remainder)
	}
	return strconv.Itoa(p.Answer.Value)
}
