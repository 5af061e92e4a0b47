package problemgen

import "fmt"

// MathCheckValidator independently recomputes the answer and, for
// division, checks dividend == divisor*quotient + remainder with
// 0 <= remainder < divisor.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(p *Problem) *ValidationError {
	computed := Evaluate(p.Op, p.A, p.B)
	if computed != p.Answer {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %+v but problem claims %+v", computed, p.Answer),
		}
	}
	if p.Op != OpDiv {
		return nil
	}
	r := p.Answer.Remainder
	if r < 0 || r >= p.B {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("remainder %d outside [0, %d)", r, p.B),
		}
	}
	if p.B*p.Answer.Quotient+r != p.A {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%d*%d+%d != %d", p.B, p.Answer.Quotient, r, p.A),
		}
	}
	return nil
}
