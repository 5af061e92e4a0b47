package problemgen

import "fmt"

// StructuralValidator checks the operation and operand ranges.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem) *ValidationError {
	if !p.Op.Valid() {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "operation must be add, sub, mul or div",
		}
	}
	if p.A < 0 || p.B < 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "operands must be non-negative",
		}
	}
	if p.A > MaxOperand || p.B > MaxOperand {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("operands must be at most %d", MaxOperand),
		}
	}
	if p.Op == OpSub && p.A < p.B {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "subtraction needs a >= b",
		}
	}
	if p.Op == OpDiv && p.B < 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "divisor must be at least 1",
		}
	}
	return nil
}
