package problemgen

import (
	"math/rand/v2"
	"time"
)

// Source is the only randomness dependency of the generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a uniform integer in [0, n). n is always > 0.
	IntN(n int) int
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the clock.
func NewRandomSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

// RandInt returns a uniform integer in [lo, hi], inclusive on both ends.
// It returns lo when hi <= lo.
func RandInt(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}

// randNDigits samples a number with exactly d digits. A one-digit draw
// covers [0,9], or [1,9] when zero is not allowed.
func randNDigits(src Source, d int, allowZero bool) int {
	if d <= 1 {
		if allowZero {
			return RandInt(src, 0, 9)
		}
		return RandInt(src, 1, 9)
	}
	lo := pow10(d - 1)
	return RandInt(src, lo, pow10(d)-1)
}

func pow10(k int) int {
	n := 1
	for range k {
		n *= 10
	}
	return n
}
