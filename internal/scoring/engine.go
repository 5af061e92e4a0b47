package scoring

import "github.com/egelkids/egel/internal/problemgen"

// State is the scoring state of one session. Levels, Stars and Streak are
// persisted; Stage belongs to the current problem only.
type State struct {
	Levels LevelMap
	Stars  int
	Streak int
	Stage  HintStage
}

// NewState returns the starting state: level 1 everywhere, no stars, no
// streak, nothing revealed.
func NewState() State {
	return State{Levels: DefaultLevels()}
}

// Submit applies a checked answer for op and returns the next state.
// The input state is not modified.
//
// A correct answer extends the streak, awards Reward(stage) stars, raises
// op's level on every LevelUpStreak-th answer in a row (capped at
// problemgen.MaxLevel), and reveals the full solution. A wrong answer
// resets the streak and reveals one more hint stage.
func Submit(s State, op problemgen.Operation, correct bool, correctAnswer string) (State, Outcome) {
	next := s
	next.Levels = s.Levels.Clone()

	if !correct {
		next.Streak = 0
		next.Stage = s.Stage.Next()
		return next, Outcome{Kind: OutcomeIncorrect, CorrectAnswer: correctAnswer}
	}

	next.Streak = s.Streak + 1
	reward := Reward(s.Stage)
	next.Stars = s.Stars + reward
	next.Stage = StageFull

	if next.Streak%LevelUpStreak == 0 {
		lvl := clampLevel(next.Levels.Level(op) + 1)
		next.Levels[op] = lvl
		return next, Outcome{Kind: OutcomeLeveledUp, Reward: reward, NewLevel: lvl}
	}
	return next, Outcome{Kind: OutcomeCorrect, Reward: reward}
}

// RequestHint reveals one more stage of the solution.
func RequestHint(s State) State {
	s.Stage = s.Stage.Next()
	return s
}

// RevealAll reveals the full solution.
func RevealAll(s State) State {
	s.Stage = StageFull
	return s
}

// NewProblem hides the solution again for a fresh problem.
func NewProblem(s State) State {
	s.Stage = StageNone
	return s
}
