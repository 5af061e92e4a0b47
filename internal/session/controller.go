// Package session drives one practice session: it owns the scoring state,
// hands out problems and persists progress after every scored answer.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/egelkids/egel/internal/diagnosis"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/render"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/store"
	"github.com/egelkids/egel/internal/trace"
)

var (
	// ErrSolved is returned when an answer is submitted for a problem that
	// was already answered correctly.
	ErrSolved = errors.New("problem already solved")

	// ErrEnded is returned by commands issued after End.
	ErrEnded = errors.New("session ended")

	// ErrNotLearnMode is returned by LoadCustom in play mode.
	ErrNotLearnMode = errors.New("custom problems need learn mode")
)

// Option configures a Controller.
type Option func(*Controller)

// WithEvents records answers, hints and session boundaries in repo.
func WithEvents(repo store.EventRepo) Option {
	return func(c *Controller) { c.events = repo }
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithAllowRemainder sets the initial remainder toggle.
func WithAllowRemainder(allow bool) Option {
	return func(c *Controller) { c.state.AllowRemainder = allow }
}

// Controller runs a single session. It is not safe for concurrent use;
// the TUI calls it from its update loop only.
type Controller struct {
	gen    *problemgen.Generator
	store  progress.Store
	events store.EventRepo
	log    logrus.FieldLogger
	now    func() time.Time

	state      State
	learnStage scoring.HintStage
	startStars int
	perOp      map[problemgen.Operation]*OpResult
}

// New loads the learner's progress from st and starts a session on op.
// Play mode starts with a generated problem. Learn mode starts with a
// generated problem too, fully revealed, until LoadCustom replaces it.
func New(ctx context.Context, gen *problemgen.Generator, st progress.Store, mode Mode, op problemgen.Operation, opts ...Option) (*Controller, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	c := &Controller{
		gen:        gen,
		store:      st,
		log:        logrus.StandardLogger(),
		now:        time.Now,
		learnStage: scoring.StageFull,
		perOp:      make(map[problemgen.Operation]*OpResult),
	}
	for _, o := range opts {
		o(c)
	}

	snap := progress.LoadOrDefault(ctx, st, c.log)
	c.state.SessionID = uuid.New().String()
	c.state.Mode = mode
	c.state.Op = op
	c.state.Scoring = snap.State()
	c.state.StartTime = c.now()
	c.startStars = snap.Stars
	c.log = c.log.WithFields(logrus.Fields{"session": c.state.SessionID, "mode": mode})

	c.nextProblem()
	c.appendSession(ctx, "start")
	c.log.WithFields(logrus.Fields{"op": op, "level": c.state.Level()}).Info("session started")
	return c, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	st := c.state
	st.Scoring.Levels = c.state.Scoring.Levels.Clone()
	return st
}

func (c *Controller) result(o *scoring.Outcome) Result {
	return Result{Outcome: o, State: c.State()}
}

// NewProblem replaces the current problem. In play mode it generates one
// at the learner's level for the current operation; in learn mode it does
// the same but keeps the chosen stage.
func (c *Controller) NewProblem() (Result, error) {
	if c.state.Phase == PhaseEnded {
		return c.result(nil), ErrEnded
	}
	c.nextProblem()
	return c.result(nil), nil
}

func (c *Controller) nextProblem() {
	p := c.gen.Generate(c.state.Op, c.state.Level(), c.state.AllowRemainder)
	c.setProblem(p)
}

func (c *Controller) setProblem(p problemgen.Problem) {
	c.state.Problem = p
	c.state.Serial++
	c.state.Solved = false
	c.state.Attempts = 0
	c.state.Phase = PhaseActive
	c.state.QuestionStartTime = c.now()
	c.state.Scoring = scoring.NewProblem(c.state.Scoring)
	if c.state.Mode == ModeLearn {
		c.state.Scoring.Stage = c.learnStage
	}
}

// SubmitAnswer checks the learner's answer to the current problem. For
// division text is the quotient and remainder the remainder; an empty
// remainder counts as 0. Input that is not a number returns an error
// wrapping problemgen.ErrInvalidAnswer and leaves the state unchanged.
func (c *Controller) SubmitAnswer(ctx context.Context, text, remainder string) (Result, error) {
	switch {
	case c.state.Phase == PhaseEnded:
		return c.result(nil), ErrEnded
	case c.state.Solved:
		return c.result(nil), ErrSolved
	}

	p := c.state.Problem
	ans, err := problemgen.ParseAnswer(p.Op, text, remainder)
	if err != nil {
		return c.result(nil), err
	}
	correct := problemgen.CheckAnswer(ans, p)

	stage := c.state.Scoring.Stage
	level := c.state.Level()
	next, outcome := scoring.Submit(c.state.Scoring, p.Op, correct, p.AnswerText())
	c.state.Scoring = next
	c.state.Attempts++
	c.state.TotalQuestions++

	r := c.opResult(p.Op, level)
	var diag *diagnosis.DiagnosisResult
	if !correct {
		d := diagnosis.Diagnose(&diagnosis.ClassifyInput{
			Problem:      p,
			Answer:       ans,
			ResponseTime: c.now().Sub(c.state.QuestionStartTime),
			OpAttempts:   r.Attempted,
			OpAccuracy:   r.accuracy(),
		})
		diag = &d
		if d.Category != diagnosis.CategoryUnclassified {
			if r.Slips == nil {
				r.Slips = map[diagnosis.ErrorCategory]int{}
			}
			r.Slips[d.Category]++
		}
	}
	r.Attempted++
	if correct {
		c.state.TotalCorrect++
		c.state.Solved = true
		c.state.Phase = PhaseFeedback
		r.Correct++
	}
	r.LevelAfter = c.state.Scoring.Levels.Level(p.Op)

	c.save(ctx)
	errorKind := ""
	if diag != nil {
		errorKind = string(diag.Category)
	}
	c.appendAnswer(ctx, p, level, answerText(p.Op, text, remainder), correct, stage, outcome.Reward, errorKind)

	c.log.WithFields(logrus.Fields{
		"problem": p.Text(),
		"outcome": outcome.Kind,
		"stage":   stage,
		"streak":  next.Streak,
		"error":   errorKind,
	}).Debug("answer checked")
	res := c.result(&outcome)
	res.Diagnosis = diag
	return res, nil
}

func (c *Controller) opResult(op problemgen.Operation, level int) *OpResult {
	r, ok := c.perOp[op]
	if !ok {
		r = &OpResult{Op: op, LevelBefore: level, LevelAfter: level}
		c.perOp[op] = r
	}
	return r
}

// RequestHint reveals one more stage of the worked solution.
func (c *Controller) RequestHint(ctx context.Context) (Result, error) {
	if c.state.Phase == PhaseEnded {
		return c.result(nil), ErrEnded
	}
	c.state.Scoring = scoring.RequestHint(c.state.Scoring)
	c.appendHint(ctx, "hint")
	return c.result(nil), nil
}

// RevealAll reveals the full worked solution.
func (c *Controller) RevealAll(ctx context.Context) (Result, error) {
	if c.state.Phase == PhaseEnded {
		return c.result(nil), ErrEnded
	}
	c.state.Scoring = scoring.RevealAll(c.state.Scoring)
	c.appendHint(ctx, "reveal")
	return c.result(nil), nil
}

// SetStage sets the hint stage directly, clamped to [0, 3]. The stage
// also becomes the starting stage for later learn-mode problems.
func (c *Controller) SetStage(ctx context.Context, n int) (Result, error) {
	if c.state.Phase == PhaseEnded {
		return c.result(nil), ErrEnded
	}
	stage := scoring.ClampStage(n)
	c.state.Scoring.Stage = stage
	if c.state.Mode == ModeLearn {
		c.learnStage = stage
	}
	c.appendHint(ctx, "set")
	return c.result(nil), nil
}

// SetOperation switches the practiced operation. Play mode starts a new
// problem. Learn mode keeps the current operands and recomputes the
// answer, which fails for a subtraction whose first operand is smaller.
func (c *Controller) SetOperation(op problemgen.Operation) (Result, error) {
	if c.state.Phase == PhaseEnded {
		return c.result(nil), ErrEnded
	}
	if !op.Valid() {
		return c.result(nil), fmt.Errorf("unknown operation %q", op)
	}
	if c.state.Mode == ModeLearn {
		p, err := problemgen.Custom(op, c.state.Problem.A, c.state.Problem.B)
		if err != nil {
			return c.result(nil), err
		}
		c.state.Op = op
		c.setProblem(p)
		return c.result(nil), nil
	}
	c.state.Op = op
	c.nextProblem()
	return c.result(nil), nil
}

// SetAllowRemainder toggles remainders in generated divisions. Play mode
// starts a new problem.
func (c *Controller) SetAllowRemainder(allow bool) (Result, error) {
	if c.state.Phase == PhaseEnded {
		return c.result(nil), ErrEnded
	}
	c.state.AllowRemainder = allow
	if c.state.Mode == ModePlay {
		c.nextProblem()
	}
	return c.result(nil), nil
}

// LoadCustom replaces the current problem with learner-chosen operands.
// Operands must be non-negative and a subtraction needs a >= b; a
// divisor below 1 is coerced to 1.
func (c *Controller) LoadCustom(op problemgen.Operation, a, b int) (Result, error) {
	switch {
	case c.state.Phase == PhaseEnded:
		return c.result(nil), ErrEnded
	case c.state.Mode != ModeLearn:
		return c.result(nil), ErrNotLearnMode
	}
	p, err := problemgen.Custom(op, a, b)
	if err != nil {
		return c.result(nil), err
	}
	c.state.Op = op
	c.setProblem(p)
	return c.result(nil), nil
}

// RenderParams returns the diagram request for the current problem.
func (c *Controller) RenderParams(d render.Display) render.Params {
	p := c.state.Problem
	return d.For(p.Op, p.A, p.B, c.state.Scoring.Stage)
}

// TraceRequest returns the worked-solution request for the current problem.
func (c *Controller) TraceRequest() trace.Request {
	p := c.state.Problem
	return trace.Request{Op: p.Op, A: p.A, B: p.B}
}

// End closes the session and returns its summary. Calling End twice
// returns the same summary without recording a second end event.
func (c *Controller) End(ctx context.Context) SessionSummary {
	if c.state.Phase != PhaseEnded {
		c.state.Phase = PhaseEnded
		c.appendSession(ctx, "end")
		c.log.WithFields(logrus.Fields{
			"questions": c.state.TotalQuestions,
			"correct":   c.state.TotalCorrect,
		}).Info("session ended")
	}
	return buildSummary(c.state, c.startStars, c.perOp, c.now())
}

// save persists progress. A failure is logged and the in-memory state
// stays authoritative.
func (c *Controller) save(ctx context.Context) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, progress.FromState(c.state.Scoring)); err != nil {
		c.log.WithError(err).Warn("save progress failed")
	}
}

func (c *Controller) appendAnswer(ctx context.Context, p problemgen.Problem, level int, learner string, correct bool, stage scoring.HintStage, reward int, errorKind string) {
	if c.events == nil {
		return
	}
	err := c.events.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:     c.state.SessionID,
		Op:            string(p.Op),
		Level:         level,
		A:             p.A,
		B:             p.B,
		CorrectAnswer: p.AnswerText(),
		LearnerAnswer: learner,
		Correct:       correct,
		HintStage:     int(stage),
		Reward:        reward,
		TimeMs:        c.now().Sub(c.state.QuestionStartTime).Milliseconds(),
		ErrorKind:     errorKind,
	})
	if err != nil {
		c.log.WithError(err).Debug("append answer event failed")
	}
}

func (c *Controller) appendHint(ctx context.Context, action string) {
	if c.events == nil {
		return
	}
	err := c.events.AppendHintEvent(ctx, store.HintEventData{
		SessionID:    c.state.SessionID,
		Op:           string(c.state.Problem.Op),
		QuestionText: c.state.Problem.Text(),
		Action:       action,
		Stage:        int(c.state.Scoring.Stage),
	})
	if err != nil {
		c.log.WithError(err).Debug("append hint event failed")
	}
}

func (c *Controller) appendSession(ctx context.Context, action string) {
	if c.events == nil {
		return
	}
	var secs int
	if action == "end" {
		secs = int(c.now().Sub(c.state.StartTime).Seconds())
	}
	err := c.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:      c.state.SessionID,
		Action:         action,
		Mode:           string(c.state.Mode),
		Op:             string(c.state.Op),
		ProblemsServed: c.state.Serial,
		CorrectAnswers: c.state.TotalCorrect,
		DurationSecs:   secs,
	})
	if err != nil {
		c.log.WithError(err).Debug("append session event failed")
	}
}

func answerText(op problemgen.Operation, text, remainder string) string {
	if op == problemgen.OpDiv && remainder != "" {
		return text + " r " + remainder
	}
	return text
}
