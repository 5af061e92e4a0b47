package session

import (
	"fmt"
	"time"

	"github.com/egelkids/egel/internal/diagnosis"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/scoring"
)

// Mode selects how problems are chosen.
type Mode string

const (
	// ModePlay generates problems from the learner's level.
	ModePlay Mode = "play"

	// ModeLearn works on operands the learner picks, with the solution
	// visible from the start.
	ModeLearn Mode = "learn"
)

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePlay, ModeLearn:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want play or learn)", s)
}

// SessionPhase represents the current phase of the session.
type SessionPhase int

const (
	PhaseActive   SessionPhase = iota // Waiting for an answer
	PhaseFeedback                     // Current problem solved, next one pending
	PhaseEnded                        // End was called
)

// State is a copy of the controller's state. Mutating it has no effect
// on the controller.
type State struct {
	SessionID string
	Mode      Mode
	Op        problemgen.Operation

	// Problem is the current problem. Serial increases every time it is
	// replaced, so async results can be matched to the problem that
	// requested them.
	Problem problemgen.Problem
	Serial  int

	Scoring        scoring.State
	AllowRemainder bool
	Phase          SessionPhase

	// Solved is true once the current problem was answered correctly.
	Solved bool

	// Attempts counts submissions for the current problem.
	Attempts int

	TotalQuestions int
	TotalCorrect   int

	StartTime         time.Time
	QuestionStartTime time.Time
}

// Level returns the learner's level for the current operation.
func (s State) Level() int {
	return s.Scoring.Levels.Level(s.Op)
}

// Stage returns the current hint stage.
func (s State) Stage() scoring.HintStage {
	return s.Scoring.Stage
}

// Result is returned by every controller command. Outcome is set only by
// SubmitAnswer.
type Result struct {
	Outcome *scoring.Outcome
	State   State

	// Diagnosis explains a wrong answer. Nil otherwise.
	Diagnosis *diagnosis.DiagnosisResult
}

// OpResult tracks per-operation performance within a single session.
type OpResult struct {
	Op          problemgen.Operation
	Attempted   int
	Correct     int
	LevelBefore int
	LevelAfter  int

	// Slips counts diagnosed wrong answers by category.
	Slips map[diagnosis.ErrorCategory]int
}

// TopSlip returns the most frequent diagnosed category. Ties go to the
// category the classifiers check first.
func (r OpResult) TopSlip() (diagnosis.ErrorCategory, bool) {
	var top diagnosis.ErrorCategory
	best := 0
	for _, c := range diagnosis.Categories {
		if n := r.Slips[c]; n > best {
			top, best = c, n
		}
	}
	return top, best > 0
}

func (r OpResult) accuracy() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempted)
}
