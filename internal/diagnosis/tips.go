package diagnosis

import (
	"fmt"

	"github.com/egelkids/egel/internal/problemgen"
)

// TipFor returns a short, kid-friendly tip for a wrong answer to p.
func TipFor(cat ErrorCategory, p problemgen.Problem) string {
	switch cat {
	case CategoryRemainder:
		return fmt.Sprintf("Your quotient is right! The remainder is what is left over, and it is always smaller than %d.", p.B)
	case CategoryWrongOperation:
		return fmt.Sprintf("Look at the sign again: this one is %s.", p.Op.Label())
	case CategoryMissedCarry:
		return "When a column adds up to 10 or more, carry the ten to the next column."
	case CategoryBorrowSlip:
		return "When the top digit is smaller, borrow ten from the next column."
	case CategoryOffByOne:
		return "So close! Check your counting once more."
	case CategorySpeedRush:
		return "Take your time. Checking is faster than fixing."
	case CategoryCareless:
		return "You know this one. Read the numbers carefully."
	}
	return "Try a hint to see the first step."
}
