package problemgen

import "fmt"

// Validator checks a problem for correctness.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "math-check".
	Name() string

	// Validate returns nil if the problem passes, or a ValidationError
	// describing the first failure.
	Validate(p *Problem) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the standard validator chain. They execute in
// order; the first failure stops the pipeline.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&MathCheckValidator{},
	}
}

// Validate runs validators over p in order.
func Validate(p *Problem, validators ...Validator) error {
	for _, v := range validators {
		if verr := v.Validate(p); verr != nil {
			return verr
		}
	}
	return nil
}

// Custom builds a problem from learner-chosen operands, as used in learn
// mode. A division by zero or a negative divisor is coerced to 1. With no
// validators given, DefaultValidators is used.
func Custom(op Operation, a, b int, validators ...Validator) (Problem, error) {
	if op == OpDiv && b <= 0 {
		b = 1
	}
	p := Problem{Op: op, A: a, B: b, Answer: Evaluate(op, a, b)}
	if len(validators) == 0 {
		validators = DefaultValidators()
	}
	if err := Validate(&p, validators...); err != nil {
		return Problem{}, err
	}
	return p, nil
}
