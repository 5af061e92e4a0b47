package problemgen

import "fmt"

// RemainderMinLevel is the first division level at which a remainder can
// appear, provided remainders are allowed.
const RemainderMinLevel = 4

// Generator synthesizes problems for a level. It is not safe for
// concurrent use unless its Source is.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator drawing from src. A nil src falls back
// to a clock-seeded source.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewRandomSource()
	}
	return &Generator{src: src}
}

// Generate produces a problem for op at level. The invariants on Problem
// hold by construction; no candidate is ever rejected.
func (g *Generator) Generate(op Operation, level int, allowRemainder bool) Problem {
	spec := SpecFor(op, level)

	switch op {
	case OpAdd, OpMul:
		a := randNDigits(g.src, spec.A, true)
		b := randNDigits(g.src, spec.B, true)
		return Problem{Op: op, A: a, B: b, Answer: Evaluate(op, a, b)}

	case OpSub:
		x := randNDigits(g.src, spec.A, true)
		y := randNDigits(g.src, spec.B, true)
		a, b := max(x, y), min(x, y)
		return Problem{Op: op, A: a, B: b, Answer: Evaluate(op, a, b)}

	case OpDiv:
		var divisor, quotient, remainder int
		if spec.Divisor == 1 {
			divisor = RandInt(g.src, 2, 9)
		} else {
			divisor = randNDigits(g.src, spec.Divisor, false)
		}
		if spec.Quotient == 1 {
			quotient = RandInt(g.src, 1, 9)
		} else {
			quotient = randNDigits(g.src, spec.Quotient, false)
		}
		if allowRemainder && level >= RemainderMinLevel {
			remainder = RandInt(g.src, 0, divisor-1)
		}
		return division(divisor, quotient, remainder)
	}

	panic(fmt.Sprintf("problemgen: unknown operation %q", op))
}

// division assembles a division problem from its parts.
func division(divisor, quotient, remainder int) Problem {
	return Problem{
		Op: OpDiv,
		A:  divisor*quotient + remainder,
		B:  divisor,
		Answer: Result{
			Quotient:  quotient,
			Remainder: remainder,
		},
	}
}
