package problemgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAnswer is returned when learner input is not a number.
var ErrInvalidAnswer = errors.New("answer is not a number")

// Answer is a parsed learner submission.
type Answer struct {
	Value     int
	Quotient  int
	Remainder int
}

// ParseAnswer parses learner input for op.
//
// Normalization rules:
// - Whitespace is trimmed
// - Thousands separators ("," and "_") are ignored
// - Leading zeros are ignored (e.g., "007" matches "7")
// - For div, text is the quotient and remainderText the remainder; an
//   empty remainder counts as 0. "17 r 3" in text is also accepted when
//   remainderText is empty.
func ParseAnswer(op Operation, text, remainderText string) (Answer, error) {
	if op != OpDiv {
		n, err := parseInt(text)
		if err != nil {
			return Answer{}, err
		}
		return Answer{Value: n}, nil
	}

	split := false
	if strings.TrimSpace(remainderText) == "" {
		if q, r, ok := splitRemainder(text); ok {
			text, remainderText, split = q, r, true
		}
	}

	q, err := parseInt(text)
	if err != nil {
		return Answer{}, fmt.Errorf("quotient: %w", err)
	}
	var r int
	if split || strings.TrimSpace(remainderText) != "" {
		r, err = parseInt(remainderText)
		if err != nil {
			return Answer{}, fmt.Errorf("remainder: %w", err)
		}
	}
	return Answer{Quotient: q, Remainder: r}, nil
}

// CheckAnswer reports whether ans is the canonical answer to p.
func CheckAnswer(ans Answer, p Problem) bool {
	if p.Op == OpDiv {
		return ans.Quotient == p.Answer.Quotient && ans.Remainder == p.Answer.Remainder
	}
	return ans.Value == p.Answer.Value
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0, ErrInvalidAnswer
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
	return int(n), nil
}

// splitRemainder splits "17 r 3" or "17R3" into quotient and remainder.
func splitRemainder(s string) (string, string, bool) {
	i := strings.IndexAny(s, "rR")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
