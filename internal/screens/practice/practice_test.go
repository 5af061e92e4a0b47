package practice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/render"
	"github.com/egelkids/egel/internal/router"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/session"
	"github.com/egelkids/egel/internal/trace"
)

type fakeRenderer struct {
	err   error
	calls []render.Params
}

func (f *fakeRenderer) Render(_ context.Context, p render.Params) (*render.Diagram, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	return &render.Diagram{SVG: []byte("<svg/>"), Params: p}, nil
}

type failingTracer struct{}

func (failingTracer) Trace(context.Context, trace.Request) (*trace.Trace, error) {
	return nil, errors.New("service down")
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDeps(t *testing.T) (Deps, *progress.MemoryStore, *fakeRenderer) {
	t.Helper()
	log, _ := test.NewNullLogger()
	st := progress.NewMemoryStore()
	r := &fakeRenderer{}
	return Deps{
		Generator:   problemgen.NewGenerator(problemgen.NewSource(11)),
		Store:       st,
		Renderer:    r,
		Tracer:      trace.NewLocalTracer(),
		Display:     render.DefaultDisplay(),
		Log:         log,
		DiagramPath: filepath.Join(t.TempDir(), "diagram.svg"),
	}, st, r
}

// started runs Init and feeds its message back, as the Bubble Tea loop would.
func started(t *testing.T, deps Deps, opts Options) *PracticeScreen {
	t.Helper()
	s := New(deps, opts)
	cmd := s.Init()
	require.NotNil(t, cmd)
	_, _ = s.Update(cmd())
	require.NotNil(t, s.ctrl, "session did not start: %s", s.errMsg)
	return s
}

func typeText(s *PracticeScreen, text string) {
	for _, r := range text {
		_, _ = s.Update(keyPress(r))
	}
}

func correctText(p problemgen.Problem) string {
	if p.Op == problemgen.OpDiv {
		return strconv.Itoa(p.Answer.Quotient)
	}
	return strconv.Itoa(p.Answer.Value)
}

func TestPracticeScreen_Starts(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpMul})

	assert.Equal(t, 1, s.state.Serial)
	assert.Equal(t, problemgen.OpMul, s.state.Problem.Op)
	assert.Equal(t, session.ModePlay, s.state.Mode)
	assert.Equal(t, "Practice", s.Title())
	assert.True(t, s.answer.Focused())
	assert.Contains(t, s.View(100, 30), s.state.Problem.Text())
}

func TestPracticeScreen_CorrectAnswerAdvances(t *testing.T) {
	deps, st, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpAdd})

	typeText(s, correctText(s.state.Problem))
	_, cmd := s.Update(specialKey(tea.KeyEnter))

	require.NotNil(t, s.outcome)
	assert.True(t, s.outcome.IsCorrect())
	assert.NotNil(t, cmd, "expected auto-advance tick")
	assert.Equal(t, 1, st.Saves())
	stars, streak := s.Score()
	assert.Equal(t, 3, stars)
	assert.Equal(t, 1, streak)

	_, _ = s.Update(advanceMsg{Serial: 99})
	assert.Equal(t, 1, s.state.Serial, "stale advance must be ignored")

	_, _ = s.Update(advanceMsg{Serial: 1})
	assert.Equal(t, 2, s.state.Serial)
	assert.Nil(t, s.outcome)
	assert.Equal(t, "", s.answer.Value())
	assert.Equal(t, scoring.StageNone, s.state.Stage())
}

func TestPracticeScreen_WrongAnswerRevealsHint(t *testing.T) {
	deps, _, r := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpSub})

	wrong := s.state.Problem.Answer.Value + 1
	typeText(s, strconv.Itoa(wrong))
	_, cmd := s.Update(specialKey(tea.KeyEnter))

	require.NotNil(t, s.outcome)
	assert.Equal(t, scoring.OutcomeIncorrect, s.outcome.Kind)
	assert.NotEmpty(t, s.tip)
	assert.Contains(t, s.View(120, 40), s.tip)
	assert.Equal(t, scoring.HintStage(1), s.state.Stage())
	require.NotNil(t, cmd)

	msg := cmd()
	dm, ok := msg.(diagramMsg)
	require.True(t, ok, "expected a diagram fetch, got %T", msg)
	require.NoError(t, dm.Err)
	require.NotEmpty(t, r.calls)
	assert.Equal(t, scoring.HintStage(1), r.calls[len(r.calls)-1].Stage)
}

func TestPracticeScreen_HintKeys(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpAdd})

	_, _ = s.Update(keyPress('h'))
	assert.Equal(t, scoring.HintStage(1), s.state.Stage())

	_, _ = s.Update(keyPress('s'))
	assert.Equal(t, scoring.StageFull, s.state.Stage())
	assert.Equal(t, "", s.answer.Value(), "command keys must not reach the input")
}

func TestPracticeScreen_TraceRevealedByStage(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpAdd})

	tr, err := trace.NewLocalTracer().Trace(context.Background(), s.ctrl.TraceRequest())
	require.NoError(t, err)

	_, _ = s.Update(traceMsg{Serial: 42, Trace: tr})
	assert.Nil(t, s.trace, "trace for another problem must be dropped")

	_, _ = s.Update(traceMsg{Serial: s.state.Serial, Trace: tr})
	require.NotNil(t, s.trace)
	assert.Empty(t, s.visibleTrace())

	_, _ = s.Update(keyPress('s'))
	assert.Equal(t, tr.Lines(), s.visibleTrace())
}

func TestPracticeScreen_CollaboratorFailureKeepsScore(t *testing.T) {
	deps, _, r := testDeps(t)
	r.err = errors.New("connection refused")
	deps.Tracer = failingTracer{}
	s := started(t, deps, Options{Op: problemgen.OpAdd})
	before := s.state.Scoring

	_, _ = s.Update(s.fetchTrace()())
	assert.Equal(t, "Worked solution unavailable right now.", s.notice)

	_, _ = s.Update(s.fetchDiagram()())
	assert.Equal(t, "Diagram unavailable right now.", s.notice)
	assert.Equal(t, before, s.state.Scoring)
}

func TestPracticeScreen_DiagramWritten(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpDiv})

	_, _ = s.Update(s.fetchDiagram()())

	data, err := os.ReadFile(deps.DiagramPath)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
	assert.Contains(t, s.diagram, deps.DiagramPath)
}

func TestPracticeScreen_PlayModeKeys(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpAdd})

	_, _ = s.Update(keyPress('o'))
	assert.Equal(t, problemgen.OpSub, s.state.Op)
	assert.Equal(t, 2, s.state.Serial)

	_, _ = s.Update(keyPress('n'))
	assert.Equal(t, 3, s.state.Serial)

	_, _ = s.Update(keyPress('m'))
	assert.True(t, s.state.AllowRemainder)
}

func TestPracticeScreen_LearnModeCustomProblem(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Mode: session.ModeLearn, Op: problemgen.OpAdd})
	assert.Equal(t, scoring.StageFull, s.state.Stage())
	assert.Equal(t, "Learn", s.Title())

	_, _ = s.Update(keyPress('c'))
	typeText(s, "183")
	_, _ = s.Update(specialKey(tea.KeyTab))
	typeText(s, "12")
	_, _ = s.Update(specialKey(tea.KeyEnter))

	assert.Equal(t, 183, s.state.Problem.A)
	assert.Equal(t, 12, s.state.Problem.B)
	assert.Equal(t, 195, s.state.Problem.Answer.Value)
	assert.True(t, s.answer.Focused())

	_, _ = s.Update(keyPress('['))
	assert.Equal(t, scoring.HintStage(2), s.state.Stage())
}

func TestPracticeScreen_LearnModeRejectsBadOperands(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Mode: session.ModeLearn, Op: problemgen.OpSub})
	serial := s.state.Serial

	_, _ = s.Update(keyPress('c'))
	typeText(s, "3")
	_, _ = s.Update(specialKey(tea.KeyTab))
	typeText(s, "8")
	_, _ = s.Update(specialKey(tea.KeyEnter))

	assert.Equal(t, serial, s.state.Serial)
	assert.Contains(t, s.notice, "subtraction needs a >= b")
}

func TestPracticeScreen_EscFinishesWithSummary(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := started(t, deps, Options{Op: problemgen.OpAdd})
	assert.True(t, s.HandlesEscape())

	_, cmd := s.Update(specialKey(tea.KeyEscape))
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Session Summary", msg.Screen.Title())
}

func TestPracticeScreen_StartFailure(t *testing.T) {
	deps, _, _ := testDeps(t)
	s := New(deps, Options{Op: "pow"})
	_, _ = s.Update(s.Init()())

	assert.NotEmpty(t, s.errMsg)
	_, cmd := s.Update(keyPress('x'))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
