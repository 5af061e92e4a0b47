package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egelkids/egel/internal/problemgen"
)

func TestSubmit_StreakOfFourLevelsUp(t *testing.T) {
	s := NewState()
	s.Streak = 4
	s.Stage = 2

	next, out := Submit(s, problemgen.OpAdd, true, "")

	assert.Equal(t, 5, next.Streak)
	assert.Equal(t, 2, next.Levels.Level(problemgen.OpAdd))
	assert.Equal(t, OutcomeLeveledUp, out.Kind)
	assert.Equal(t, 2, out.NewLevel)
	assert.Equal(t, 2, out.Reward)
	assert.Equal(t, 2, next.Stars)
	assert.Equal(t, StageFull, next.Stage)
}

func TestSubmit_IncorrectAdvancesHint(t *testing.T) {
	s := NewState()
	s.Stars = 12
	s.Streak = 3

	next, out := Submit(s, problemgen.OpSub, false, "42")

	assert.Equal(t, HintStage(1), next.Stage)
	assert.Equal(t, 0, next.Streak)
	assert.Equal(t, 12, next.Stars)
	assert.Equal(t, Outcome{Kind: OutcomeIncorrect, CorrectAnswer: "42"}, out)
	assert.False(t, out.IsCorrect())
}

func TestSubmit_IncorrectHintSaturates(t *testing.T) {
	s := NewState()
	s.Stage = StageFull

	next, _ := Submit(s, problemgen.OpMul, false, "6")
	assert.Equal(t, StageFull, next.Stage)
}

func TestSubmit_FiveInARow(t *testing.T) {
	s := NewState()
	wantStars := 0
	stages := []HintStage{0, 2, 3, 1, 2}

	for i, stage := range stages {
		s = NewProblem(s)
		s.Stage = stage
		wantStars += Reward(stage)

		var out Outcome
		s, out = Submit(s, problemgen.OpDiv, true, "")
		if i < 4 {
			require.Equal(t, OutcomeCorrect, out.Kind, "answer %d", i+1)
		} else {
			require.Equal(t, OutcomeLeveledUp, out.Kind)
		}
	}

	assert.Equal(t, 2, s.Levels.Level(problemgen.OpDiv))
	assert.Equal(t, 1, s.Levels.Level(problemgen.OpAdd), "other operations keep their level")
	assert.Equal(t, wantStars, s.Stars)
}

func TestSubmit_LevelCappedAtMax(t *testing.T) {
	s := NewState()
	s.Levels[problemgen.OpMul] = problemgen.MaxLevel
	s.Streak = 9

	next, out := Submit(s, problemgen.OpMul, true, "")

	assert.Equal(t, OutcomeLeveledUp, out.Kind)
	assert.Equal(t, problemgen.MaxLevel, out.NewLevel)
	assert.Equal(t, problemgen.MaxLevel, next.Levels.Level(problemgen.OpMul))
}

func TestSubmit_StreakIsGlobal(t *testing.T) {
	s := NewState()
	ops := []problemgen.Operation{
		problemgen.OpAdd, problemgen.OpSub, problemgen.OpMul, problemgen.OpAdd, problemgen.OpSub,
	}
	for _, op := range ops {
		s = NewProblem(s)
		s, _ = Submit(s, op, true, "")
	}

	assert.Equal(t, 5, s.Streak)
	assert.Equal(t, 2, s.Levels.Level(problemgen.OpSub), "fifth answer's operation levels up")
	assert.Equal(t, 1, s.Levels.Level(problemgen.OpAdd))
	assert.Equal(t, 15, s.Stars)
}

func TestSubmit_DoesNotMutateInput(t *testing.T) {
	s := NewState()
	s.Streak = 4

	_, _ = Submit(s, problemgen.OpAdd, true, "")

	assert.Equal(t, 4, s.Streak)
	assert.Equal(t, 1, s.Levels.Level(problemgen.OpAdd))
}

func TestHintTransitions(t *testing.T) {
	s := NewState()
	s.Streak = 2
	s.Stars = 7

	s = RequestHint(s)
	assert.Equal(t, HintStage(1), s.Stage)
	s = RequestHint(RequestHint(RequestHint(s)))
	assert.Equal(t, StageFull, s.Stage)

	s = NewProblem(s)
	assert.Equal(t, StageNone, s.Stage)

	s = RevealAll(s)
	assert.Equal(t, StageFull, s.Stage)

	assert.Equal(t, 2, s.Streak, "hints never touch the streak")
	assert.Equal(t, 7, s.Stars, "hints never touch stars")
}

func TestLevelMap_Clone(t *testing.T) {
	m := LevelMap{problemgen.OpAdd: 4, problemgen.OpDiv: 42, "pow": 3}
	c := m.Clone()

	assert.Equal(t, 4, c.Level(problemgen.OpAdd))
	assert.Equal(t, 1, c.Level(problemgen.OpSub))
	assert.Equal(t, problemgen.MaxLevel, c.Level(problemgen.OpDiv))
	assert.NotContains(t, c, problemgen.Operation("pow"))

	c[problemgen.OpAdd] = 5
	assert.Equal(t, 4, m[problemgen.OpAdd])
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "Correct! +3 stars", Outcome{Kind: OutcomeCorrect, Reward: 3}.String())
	assert.Equal(t, "Level 4 reached! +1 stars", Outcome{Kind: OutcomeLeveledUp, Reward: 1, NewLevel: 4}.String())
	assert.Equal(t, "Not quite. Correct: q=9, r=3", Outcome{Kind: OutcomeIncorrect, CorrectAnswer: "q=9, r=3"}.String())
}
