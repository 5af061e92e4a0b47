package problemgen

// ramp describes how one operand's digit count grows: one extra digit
// every step levels, clamped to [min, max].
type ramp struct {
	step, min, max int
}

var (
	addSubRamp   = ramp{step: 2, min: 1, max: 6}
	mulRamp      = ramp{step: 2, min: 1, max: 5}
	divisorRamp  = ramp{step: 3, min: 1, max: 4}
	quotientRamp = ramp{step: 2, min: 1, max: 4}
)

func (r ramp) digits(level int) int {
	return DigitsForLevel(r.step, level, r.min, r.max)
}

// MinLevel and MaxLevel bound every per-operation level.
const (
	MinLevel = 1
	MaxLevel = 10
)

// MaxOperand is the largest operand any problem, trace or diagram accepts:
// nine digits, the widest learn-mode input. Products and sums of operands
// this size still fit in an int.
const MaxOperand = 999_999_999

// DigitsForLevel maps a level onto a digit count:
// min + floor((max(level,1)-1)/step), clamped to [min, max].
func DigitsForLevel(step, level, min, max int) int {
	if step < 1 {
		step = 1
	}
	if level < 1 {
		level = 1
	}
	d := min + (level-1)/step
	return clamp(d, min, max)
}

// SpecFor returns the digit counts for op at the given level.
func SpecFor(op Operation, level int) DigitSpec {
	switch op {
	case OpMul:
		d := mulRamp.digits(level)
		return DigitSpec{A: d, B: d}
	case OpDiv:
		return DigitSpec{
			Divisor:  divisorRamp.digits(level),
			Quotient: quotientRamp.digits(level),
		}
	default:
		d := addSubRamp.digits(level)
		return DigitSpec{A: d, B: d}
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
