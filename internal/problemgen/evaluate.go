package problemgen

// Evaluate computes the canonical answer for a op b. It has no side
// effects. For div, a non-positive divisor yields a zero Result instead
// of an error.
func Evaluate(op Operation, a, b int) Result {
	switch op {
	case OpAdd:
		return Result{Value: a + b}
	case OpSub:
		return Result{Value: a - b}
	case OpMul:
		return Result{Value: a * b}
	case OpDiv:
		if b <= 0 {
			return Result{}
		}
		// Operands are non-negative, so truncation equals floor division.
		return Result{Quotient: a / b, Remainder: a % b}
	}
	return Result{}
}
