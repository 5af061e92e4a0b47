package session

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egelkids/egel/internal/diagnosis"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/render"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/store"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newController(t *testing.T, mode Mode, op problemgen.Operation, st progress.Store, opts ...Option) (*Controller, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	opts = append([]Option{WithLogger(log)}, opts...)
	c, err := New(context.Background(), problemgen.NewGenerator(problemgen.NewSource(7)), st, mode, op, opts...)
	require.NoError(t, err)
	return c, hook
}

func answerFor(p problemgen.Problem) (string, string) {
	if p.Op == problemgen.OpDiv {
		return strconv.Itoa(p.Answer.Quotient), strconv.Itoa(p.Answer.Remainder)
	}
	return strconv.Itoa(p.Answer.Value), ""
}

func wrongFor(p problemgen.Problem) (string, string) {
	if p.Op == problemgen.OpDiv {
		return strconv.Itoa(p.Answer.Quotient + 1), strconv.Itoa(p.Answer.Remainder)
	}
	return strconv.Itoa(p.Answer.Value + 1), ""
}

func solve(t *testing.T, c *Controller) Result {
	t.Helper()
	q, r := answerFor(c.State().Problem)
	res, err := c.SubmitAnswer(context.Background(), q, r)
	require.NoError(t, err)
	return res
}

func TestNew_LoadsStoredProgress(t *testing.T) {
	st := progress.NewMemoryStore()
	levels := scoring.DefaultLevels()
	levels[problemgen.OpMul] = 6
	require.NoError(t, st.Save(context.Background(), progress.Snapshot{Levels: levels, Stars: 40, Streak: 2}))

	c, _ := newController(t, ModePlay, problemgen.OpMul, st)
	s := c.State()

	assert.Equal(t, 6, s.Level())
	assert.Equal(t, 40, s.Scoring.Stars)
	assert.Equal(t, 2, s.Scoring.Streak)
	assert.Equal(t, scoring.StageNone, s.Stage())
	assert.Equal(t, 1, s.Serial)
	assert.Equal(t, problemgen.OpMul, s.Problem.Op)
	assert.NotEmpty(t, s.SessionID)
}

func TestNew_LoadFailureStartsFresh(t *testing.T) {
	st := progress.NewMemoryStore()
	st.LoadErr = errors.New("disk gone")

	c, hook := newController(t, ModePlay, problemgen.OpAdd, st)

	assert.Equal(t, 1, c.State().Level())
	assert.Equal(t, 0, c.State().Scoring.Stars)
	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
}

func TestNew_RejectsUnknownInputs(t *testing.T) {
	gen := problemgen.NewGenerator(problemgen.NewSource(1))
	_, err := New(context.Background(), gen, nil, ModePlay, "pow")
	assert.Error(t, err)
	_, err = New(context.Background(), gen, nil, "race", problemgen.OpAdd)
	assert.Error(t, err)
}

func TestSubmitAnswer_CorrectAwardsStarsAndRevealsAll(t *testing.T) {
	st := progress.NewMemoryStore()
	c, _ := newController(t, ModePlay, problemgen.OpAdd, st)

	res := solve(t, c)

	require.NotNil(t, res.Outcome)
	assert.Equal(t, scoring.OutcomeCorrect, res.Outcome.Kind)
	assert.Equal(t, 3, res.Outcome.Reward)
	assert.Equal(t, 3, res.State.Scoring.Stars)
	assert.Equal(t, 1, res.State.Scoring.Streak)
	assert.Equal(t, scoring.StageFull, res.State.Stage())
	assert.True(t, res.State.Solved)
	assert.Equal(t, PhaseFeedback, res.State.Phase)
	assert.Equal(t, 1, st.Saves())
}

func TestSubmitAnswer_WrongRaisesStageAndResetsStreak(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpSub, progress.NewMemoryStore())
	solve(t, c)
	_, err := c.NewProblem()
	require.NoError(t, err)

	q, r := wrongFor(c.State().Problem)
	res, err := c.SubmitAnswer(context.Background(), q, r)
	require.NoError(t, err)

	assert.Equal(t, scoring.OutcomeIncorrect, res.Outcome.Kind)
	assert.Equal(t, res.State.Problem.AnswerText(), res.Outcome.CorrectAnswer)
	assert.Equal(t, 0, res.State.Scoring.Streak)
	assert.Equal(t, scoring.HintStage(1), res.State.Stage())
	assert.False(t, res.State.Solved)
	assert.Equal(t, PhaseActive, res.State.Phase)

	// A second try on the same problem is allowed and pays for the hints used.
	res = solve(t, c)
	assert.Equal(t, 3, res.Outcome.Reward)
	assert.Equal(t, 2, res.State.Attempts)
}

func TestSubmitAnswer_FiveInARowLevelsUp(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpMul, progress.NewMemoryStore())

	var res Result
	for i := 0; i < scoring.LevelUpStreak; i++ {
		if i > 0 {
			_, err := c.NewProblem()
			require.NoError(t, err)
		}
		res = solve(t, c)
	}

	assert.Equal(t, scoring.OutcomeLeveledUp, res.Outcome.Kind)
	assert.Equal(t, 2, res.Outcome.NewLevel)
	assert.Equal(t, 2, res.State.Level())
	assert.Equal(t, 15, res.State.Scoring.Stars)

	_, err := c.NewProblem()
	require.NoError(t, err)
	assert.Equal(t, scoring.StageNone, c.State().Stage())
}

func TestSubmitAnswer_InvalidInputChangesNothing(t *testing.T) {
	st := progress.NewMemoryStore()
	c, _ := newController(t, ModePlay, problemgen.OpAdd, st)
	before := c.State()

	_, err := c.SubmitAnswer(context.Background(), "twelve", "")

	require.ErrorIs(t, err, problemgen.ErrInvalidAnswer)
	after := c.State()
	assert.Equal(t, before.Scoring, after.Scoring)
	assert.Equal(t, 0, after.TotalQuestions)
	assert.Equal(t, 0, st.Saves())
}

func TestSubmitAnswer_SolvedProblemRejectsResubmission(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpAdd, progress.NewMemoryStore())
	solve(t, c)

	q, r := answerFor(c.State().Problem)
	_, err := c.SubmitAnswer(context.Background(), q, r)

	assert.ErrorIs(t, err, ErrSolved)
	assert.Equal(t, 3, c.State().Scoring.Stars)
}

func TestSubmitAnswer_SaveFailureKeepsState(t *testing.T) {
	st := progress.NewMemoryStore()
	st.SaveErr = errors.New("read-only")
	c, hook := newController(t, ModePlay, problemgen.OpAdd, st)

	res := solve(t, c)

	assert.Equal(t, 3, res.State.Scoring.Stars)
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Message == "save progress failed" {
			warned = e.Level == logrus.WarnLevel
		}
	}
	assert.True(t, warned)
}

func TestHints(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpAdd, progress.NewMemoryStore())
	ctx := context.Background()

	res, err := c.RequestHint(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.HintStage(1), res.State.Stage())

	res, err = c.RevealAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.StageFull, res.State.Stage())

	res, err = c.RequestHint(ctx)
	require.NoError(t, err)
	assert.Equal(t, scoring.StageFull, res.State.Stage())

	res = solve(t, c)
	assert.Equal(t, 1, res.Outcome.Reward)
}

func TestSetStage_Clamps(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpAdd, progress.NewMemoryStore())

	res, err := c.SetStage(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, scoring.StageFull, res.State.Stage())

	res, err = c.SetStage(context.Background(), -2)
	require.NoError(t, err)
	assert.Equal(t, scoring.StageNone, res.State.Stage())
}

func TestSetOperation_PlayModeServesNewProblem(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpAdd, progress.NewMemoryStore())
	_, _ = c.RequestHint(context.Background())

	res, err := c.SetOperation(problemgen.OpDiv)
	require.NoError(t, err)

	assert.Equal(t, problemgen.OpDiv, res.State.Op)
	assert.Equal(t, problemgen.OpDiv, res.State.Problem.Op)
	assert.Equal(t, 2, res.State.Serial)
	assert.Equal(t, scoring.StageNone, res.State.Stage())

	_, err = c.SetOperation("pow")
	assert.Error(t, err)
}

func TestSetAllowRemainder(t *testing.T) {
	st := progress.NewMemoryStore()
	levels := scoring.DefaultLevels()
	levels[problemgen.OpDiv] = 7
	require.NoError(t, st.Save(context.Background(), progress.Snapshot{Levels: levels}))
	c, _ := newController(t, ModePlay, problemgen.OpDiv, st)

	res, err := c.SetAllowRemainder(true)
	require.NoError(t, err)
	assert.True(t, res.State.AllowRemainder)
	assert.Equal(t, 2, res.State.Serial)

	sawRemainder := false
	for i := 0; i < 50 && !sawRemainder; i++ {
		res, err = c.NewProblem()
		require.NoError(t, err)
		sawRemainder = res.State.Problem.Answer.Remainder > 0
	}
	assert.True(t, sawRemainder, "expected a remainder within 50 problems")
}

func TestLearnMode(t *testing.T) {
	c, _ := newController(t, ModeLearn, problemgen.OpAdd, progress.NewMemoryStore())
	assert.Equal(t, scoring.StageFull, c.State().Stage())

	res, err := c.LoadCustom(problemgen.OpDiv, 183, 12)
	require.NoError(t, err)
	assert.Equal(t, problemgen.Result{Quotient: 15, Remainder: 3}, res.State.Problem.Answer)
	assert.Equal(t, scoring.StageFull, res.State.Stage())

	_, err = c.SetStage(context.Background(), 1)
	require.NoError(t, err)
	res, err = c.LoadCustom(problemgen.OpMul, 12, 11)
	require.NoError(t, err)
	assert.Equal(t, scoring.HintStage(1), res.State.Stage())
	assert.Equal(t, 132, res.State.Problem.Answer.Value)

	res, err = c.SetOperation(problemgen.OpAdd)
	require.NoError(t, err)
	assert.Equal(t, 23, res.State.Problem.Answer.Value)

	res, err = c.SubmitAnswer(context.Background(), "23", "")
	require.NoError(t, err)
	assert.True(t, res.Outcome.IsCorrect())
	assert.Equal(t, 3, res.Outcome.Reward)
}

func TestSubmitAnswer_DiagnosesWrongAnswer(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c, _ := newController(t, ModeLearn, problemgen.OpAdd, progress.NewMemoryStore(), WithClock(clock.now))
	_, err := c.LoadCustom(problemgen.OpAdd, 48, 27)
	require.NoError(t, err)
	clock.advance(10 * time.Second)

	res, err := c.SubmitAnswer(context.Background(), "65", "")
	require.NoError(t, err)
	require.NotNil(t, res.Diagnosis)
	assert.Equal(t, diagnosis.CategoryMissedCarry, res.Diagnosis.Category)
	assert.NotEmpty(t, res.Diagnosis.Tip)

	res, err = c.SubmitAnswer(context.Background(), "75", "")
	require.NoError(t, err)
	assert.Nil(t, res.Diagnosis)

	sum := c.End(context.Background())
	require.Len(t, sum.OpResults, 1)
	slip, ok := sum.OpResults[0].TopSlip()
	assert.True(t, ok)
	assert.Equal(t, diagnosis.CategoryMissedCarry, slip)
}

func TestOpResult_TopSlip(t *testing.T) {
	_, ok := OpResult{}.TopSlip()
	assert.False(t, ok)

	r := OpResult{Slips: map[diagnosis.ErrorCategory]int{
		diagnosis.CategoryOffByOne:    2,
		diagnosis.CategoryMissedCarry: 2,
		diagnosis.CategorySpeedRush:   1,
	}}
	slip, ok := r.TopSlip()
	assert.True(t, ok)
	assert.Equal(t, diagnosis.CategoryMissedCarry, slip, "ties go to the earlier classifier")
}

func TestLearnMode_RejectsBadOperands(t *testing.T) {
	c, _ := newController(t, ModeLearn, problemgen.OpSub, progress.NewMemoryStore())

	_, err := c.LoadCustom(problemgen.OpSub, 3, 8)
	var verr *problemgen.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = c.LoadCustom(problemgen.OpAdd, -1, 2)
	assert.ErrorAs(t, err, &verr)

	res, err := c.LoadCustom(problemgen.OpDiv, 9, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Problem.B)
	assert.Equal(t, 9, res.State.Problem.Answer.Quotient)

	_, err = c.LoadCustom(problemgen.OpAdd, 3, 8)
	require.NoError(t, err)
	_, err = c.SetOperation(problemgen.OpSub)
	assert.Error(t, err)
	assert.Equal(t, problemgen.OpAdd, c.State().Op)
}

func TestLoadCustom_NeedsLearnMode(t *testing.T) {
	c, _ := newController(t, ModePlay, problemgen.OpAdd, progress.NewMemoryStore())
	_, err := c.LoadCustom(problemgen.OpAdd, 1, 2)
	assert.ErrorIs(t, err, ErrNotLearnMode)
}

func TestCollaboratorRequests(t *testing.T) {
	c, _ := newController(t, ModeLearn, problemgen.OpDiv, progress.NewMemoryStore())
	_, err := c.LoadCustom(problemgen.OpDiv, 96, 8)
	require.NoError(t, err)

	p := c.RenderParams(render.DefaultDisplay())
	assert.Equal(t, problemgen.OpDiv, p.Op)
	assert.Equal(t, 96, p.A)
	assert.Equal(t, 8, p.B)
	assert.Equal(t, scoring.StageFull, p.Stage)
	assert.Equal(t, render.DefaultUnit, p.Unit)
	require.NoError(t, p.Validate())

	req := c.TraceRequest()
	assert.Equal(t, problemgen.OpDiv, req.Op)
	assert.Equal(t, 96, req.A)
	assert.Equal(t, 8, req.B)
	require.NoError(t, req.Validate())
}

func TestEnd_Summary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	st := progress.NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), progress.Snapshot{Levels: scoring.DefaultLevels(), Stars: 10}))
	c, _ := newController(t, ModePlay, problemgen.OpAdd, st, WithClock(clock.now))

	solve(t, c)
	_, _ = c.NewProblem()
	q, r := wrongFor(c.State().Problem)
	_, err := c.SubmitAnswer(context.Background(), q, r)
	require.NoError(t, err)
	_, _ = c.SetOperation(problemgen.OpSub)
	solve(t, c)
	clock.advance(3 * time.Minute)

	sum := c.End(context.Background())

	assert.Equal(t, 3*time.Minute, sum.Duration)
	assert.Equal(t, 3, sum.TotalQuestions)
	assert.Equal(t, 2, sum.TotalCorrect)
	assert.InDelta(t, 2.0/3.0, sum.Accuracy, 1e-9)
	assert.Equal(t, 6, sum.StarsEarned)
	assert.Equal(t, 16, sum.Stars)
	require.Len(t, sum.OpResults, 2)
	assert.Equal(t, OpResult{Op: problemgen.OpAdd, Attempted: 2, Correct: 1, LevelBefore: 1, LevelAfter: 1}, sum.OpResults[0])
	assert.Equal(t, problemgen.OpSub, sum.OpResults[1].Op)

	_, err = c.NewProblem()
	assert.ErrorIs(t, err, ErrEnded)
	_, err = c.SubmitAnswer(context.Background(), "1", "")
	assert.ErrorIs(t, err, ErrEnded)
	assert.Equal(t, sum, c.End(context.Background()))
}

func TestEvents_Recorded(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	events := db.EventRepo()

	c, _ := newController(t, ModePlay, problemgen.OpAdd, progress.NewSQLStore(db.SnapshotRepo()), WithEvents(events))
	ctx := context.Background()
	_, err = c.RequestHint(ctx)
	require.NoError(t, err)
	q, _ := wrongFor(c.State().Problem)
	_, err = c.SubmitAnswer(ctx, q, "")
	require.NoError(t, err)
	solve(t, c)
	c.End(ctx)

	answers, err := events.QueryAnswerEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.True(t, answers[0].Correct)
	assert.Equal(t, 2, answers[0].HintStage)
	assert.Equal(t, 2, answers[0].Reward)
	assert.False(t, answers[1].Correct)
	assert.Equal(t, 1, answers[1].HintStage)
	assert.NotEmpty(t, answers[1].ErrorKind)
	assert.Empty(t, answers[0].ErrorKind)
	assert.Equal(t, c.State().SessionID, answers[1].SessionID)

	stats, err := events.AnswerStatsByOp(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Answered)
	assert.Equal(t, 1, stats[0].Correct)

	snap, err := progress.NewSQLStore(db.SnapshotRepo()).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Stars)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("learn")
	require.NoError(t, err)
	assert.Equal(t, ModeLearn, m)
	_, err = ParseMode("quiz")
	assert.Error(t, err)
}
