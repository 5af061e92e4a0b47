package scoring

import "fmt"

// OutcomeKind classifies the result of an answer submission.
type OutcomeKind string

const (
	OutcomeCorrect   OutcomeKind = "correct"
	OutcomeIncorrect OutcomeKind = "incorrect"
	OutcomeLeveledUp OutcomeKind = "leveled_up"
)

// Outcome is emitted by Submit for the presentation layer to interpret.
type Outcome struct {
	Kind OutcomeKind

	// Reward is the number of stars earned. Zero for incorrect answers.
	Reward int

	// NewLevel is set for OutcomeLeveledUp.
	NewLevel int

	// CorrectAnswer is set for OutcomeIncorrect, e.g. "42" or "q=9, r=3".
	CorrectAnswer string
}

// IsCorrect reports whether the submission was accepted.
func (o Outcome) IsCorrect() bool {
	return o.Kind == OutcomeCorrect || o.Kind == OutcomeLeveledUp
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeCorrect:
		return fmt.Sprintf("Correct! +%d stars", o.Reward)
	case OutcomeLeveledUp:
		return fmt.Sprintf("Level %d reached! +%d stars", o.NewLevel, o.Reward)
	case OutcomeIncorrect:
		return fmt.Sprintf("Not quite. Correct: %s", o.CorrectAnswer)
	}
	return string(o.Kind)
}
