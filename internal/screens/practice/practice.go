// Package practice is the screen where problems are answered.
package practice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/render"
	"github.com/egelkids/egel/internal/router"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/screen"
	"github.com/egelkids/egel/internal/screens/summary"
	"github.com/egelkids/egel/internal/session"
	"github.com/egelkids/egel/internal/store"
	"github.com/egelkids/egel/internal/trace"
	"github.com/egelkids/egel/internal/ui/components"
	"github.com/egelkids/egel/internal/ui/layout"
)

// DefaultFetchTimeout bounds a single trace or diagram request.
const DefaultFetchTimeout = 30 * time.Second

// Deps are the collaborators shared by every practice session.
type Deps struct {
	Generator *problemgen.Generator
	Store     progress.Store
	Events    store.EventRepo // optional
	Renderer  render.Renderer // optional
	Tracer    trace.Tracer    // optional
	Display   render.Display
	Log       logrus.FieldLogger

	// DiagramPath is where rendered SVGs are written. Empty disables
	// rendering.
	DiagramPath string

	// AdvanceDelay is the pause after a correct answer in play mode.
	AdvanceDelay time.Duration

	FetchTimeout time.Duration
}

// Options select what the session practices.
type Options struct {
	Mode           session.Mode
	Op             problemgen.Operation
	AllowRemainder bool
}

type field int

const (
	fieldAnswer field = iota
	fieldRemainder
	fieldA
	fieldB
)

// PracticeScreen implements screen.Screen for an active session.
type PracticeScreen struct {
	deps Deps
	opts Options

	ctrl  *session.Controller
	state session.State

	answer    components.NumberInput
	remainder components.NumberInput
	operandA  components.NumberInput
	operandB  components.NumberInput
	focus     field

	outcome *scoring.Outcome
	tip     string
	trace   *trace.Trace
	diagram string
	notice  string
	errMsg  string
}

var (
	_ screen.Screen          = (*PracticeScreen)(nil)
	_ screen.KeyHintProvider = (*PracticeScreen)(nil)
	_ screen.ScoreProvider   = (*PracticeScreen)(nil)
	_ screen.EscapeHandler   = (*PracticeScreen)(nil)
)

// New creates a PracticeScreen. The session starts in Init.
func New(deps Deps, opts Options) *PracticeScreen {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if deps.FetchTimeout <= 0 {
		deps.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Mode == "" {
		opts.Mode = session.ModePlay
	}
	if opts.Op == "" {
		opts.Op = problemgen.OpAdd
	}
	return &PracticeScreen{
		deps:      deps,
		opts:      opts,
		answer:    components.NewNumberInput("answer", 12),
		remainder: components.NewNumberInput("remainder", 6),
		operandA:  components.NewNumberInput("a", 9),
		operandB:  components.NewNumberInput("b", 9),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	if s.ctrl != nil {
		return nil
	}
	deps, opts := s.deps, s.opts
	return func() tea.Msg {
		ctrl, err := session.New(context.Background(), deps.Generator, deps.Store, opts.Mode, opts.Op,
			session.WithEvents(deps.Events),
			session.WithLogger(deps.Log),
			session.WithAllowRemainder(opts.AllowRemainder),
		)
		return startedMsg{Ctrl: ctrl, Err: err}
	}
}

func (s *PracticeScreen) Title() string {
	if s.opts.Mode == session.ModeLearn {
		return "Learn"
	}
	return "Practice"
}

func (s *PracticeScreen) HandlesEscape() bool { return true }

func (s *PracticeScreen) Score() (int, int) {
	return s.state.Scoring.Stars, s.state.Scoring.Streak
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.ctrl == nil {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Check"},
		{Key: "h", Description: "Hint"},
		{Key: "s", Description: "Solution"},
		{Key: "o", Description: "Operation"},
	}
	if s.state.Mode == session.ModeLearn {
		hints = append(hints,
			layout.KeyHint{Key: "c", Description: "Custom"},
			layout.KeyHint{Key: "[ ]", Description: "Stage"},
		)
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "n", Description: "New"},
			layout.KeyHint{Key: "m", Description: "Remainders"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Finish"})
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s, s.handleStarted(msg)

	case traceMsg:
		s.handleTrace(msg)
		return s, nil

	case diagramMsg:
		s.handleDiagram(msg)
		return s, nil

	case advanceMsg:
		if s.ctrl == nil || msg.Serial != s.state.Serial || !s.state.Solved {
			return s, nil
		}
		return s, s.apply(s.ctrl.NewProblem())

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleStarted(msg startedMsg) tea.Cmd {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return nil
	}
	s.ctrl = msg.Ctrl
	s.state = s.ctrl.State()
	return s.problemChanged()
}

func (s *PracticeScreen) handleTrace(msg traceMsg) {
	if msg.Serial != s.state.Serial {
		return
	}
	if msg.Err != nil {
		s.deps.Log.WithError(msg.Err).Warn("worked solution unavailable")
		s.notice = "Worked solution unavailable right now."
		return
	}
	s.trace = msg.Trace
}

func (s *PracticeScreen) handleDiagram(msg diagramMsg) {
	if msg.Serial != s.state.Serial || msg.Stage != s.state.Stage() {
		return
	}
	if msg.Err != nil {
		s.deps.Log.WithError(msg.Err).Warn("diagram unavailable")
		s.notice = "Diagram unavailable right now."
		return
	}
	s.diagram = fmt.Sprintf("Diagram saved to %s", msg.Path)
	if msg.Cached {
		s.diagram += " (cached)"
	}
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || s.ctrl == nil {
		if key == "esc" || s.errMsg != "" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	ctx := context.Background()
	learn := s.state.Mode == session.ModeLearn

	switch key {
	case "esc":
		return s, s.finish(ctx)
	case "enter":
		if s.focus == fieldA || s.focus == fieldB {
			return s, s.loadCustom()
		}
		return s, s.submit(ctx)
	case "tab":
		return s, s.cycleFocus()
	case "h":
		return s, s.apply(s.ctrl.RequestHint(ctx))
	case "s":
		return s, s.apply(s.ctrl.RevealAll(ctx))
	case "o":
		return s, s.apply(s.ctrl.SetOperation(nextOp(s.state.Op)))
	case "n":
		if !learn {
			return s, s.apply(s.ctrl.NewProblem())
		}
	case "m":
		if !learn {
			return s, s.apply(s.ctrl.SetAllowRemainder(!s.state.AllowRemainder))
		}
	case "c":
		if learn {
			return s, s.setFocus(fieldA)
		}
	case "[":
		if learn {
			return s, s.apply(s.ctrl.SetStage(ctx, int(s.state.Stage())-1))
		}
	case "]":
		if learn {
			return s, s.apply(s.ctrl.SetStage(ctx, int(s.state.Stage())+1))
		}
	}

	return s, s.updateFocused(msg)
}

// apply takes over the state from a controller command and schedules
// the fetches its changes need.
func (s *PracticeScreen) apply(res session.Result, err error) tea.Cmd {
	if err != nil {
		s.notice = noticeFor(err)
		return nil
	}
	prev := s.state
	s.state = res.State
	s.notice = ""

	if s.state.Serial != prev.Serial {
		return s.problemChanged()
	}
	if s.state.Stage() != prev.Stage() {
		return s.fetchDiagram()
	}
	return nil
}

func (s *PracticeScreen) problemChanged() tea.Cmd {
	s.outcome = nil
	s.tip = ""
	s.trace = nil
	s.diagram = ""
	s.answer.Reset()
	s.remainder.Reset()
	return tea.Batch(s.setFocus(fieldAnswer), s.fetchTrace(), s.fetchDiagram())
}

func (s *PracticeScreen) submit(ctx context.Context) tea.Cmd {
	if s.answer.Value() == "" {
		return nil
	}
	res, err := s.ctrl.SubmitAnswer(ctx, s.answer.Value(), s.remainder.Value())
	if errors.Is(err, session.ErrSolved) {
		return nil
	}
	cmd := s.apply(res, err)
	if err != nil || res.Outcome == nil {
		return cmd
	}

	s.outcome = res.Outcome
	s.tip = ""
	if res.Diagnosis != nil {
		s.tip = res.Diagnosis.Tip
	}
	s.answer.Mark(res.Outcome.IsCorrect())
	if res.Outcome.IsCorrect() && s.state.Mode == session.ModePlay {
		serial := s.state.Serial
		return tea.Batch(cmd, tea.Tick(s.deps.AdvanceDelay, func(time.Time) tea.Msg {
			return advanceMsg{Serial: serial}
		}))
	}
	return cmd
}

func (s *PracticeScreen) loadCustom() tea.Cmd {
	a, okA := s.operandA.Int()
	b, okB := s.operandB.Int()
	if !okA || !okB {
		s.notice = "Enter both numbers first."
		return nil
	}
	cmd := s.apply(s.ctrl.LoadCustom(s.state.Op, a, b))
	if s.notice == "" {
		s.operandA.Reset()
		s.operandB.Reset()
	}
	return cmd
}

func (s *PracticeScreen) finish(ctx context.Context) tea.Cmd {
	sum := s.ctrl.End(ctx)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *PracticeScreen) fetchTrace() tea.Cmd {
	if s.deps.Tracer == nil {
		return nil
	}
	tracer, req, serial, timeout := s.deps.Tracer, s.ctrl.TraceRequest(), s.state.Serial, s.deps.FetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tr, err := tracer.Trace(ctx, req)
		return traceMsg{Serial: serial, Trace: tr, Err: err}
	}
}

func (s *PracticeScreen) fetchDiagram() tea.Cmd {
	if s.deps.Renderer == nil || s.deps.DiagramPath == "" {
		return nil
	}
	renderer, path, timeout := s.deps.Renderer, s.deps.DiagramPath, s.deps.FetchTimeout
	params := s.ctrl.RenderParams(s.deps.Display)
	serial, stage := s.state.Serial, s.state.Stage()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msg := diagramMsg{Serial: serial, Stage: stage, Path: path}
		d, err := renderer.Render(ctx, params)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Cached = d.Cached
		msg.Err = writeDiagram(path, d.SVG)
		return msg
	}
}

func writeDiagram(path string, svg []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create diagram dir: %w", err)
	}
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return fmt.Errorf("write diagram: %w", err)
	}
	return nil
}

func (s *PracticeScreen) visibleFields() []field {
	fields := []field{fieldAnswer}
	if s.state.Problem.Op == problemgen.OpDiv {
		fields = append(fields, fieldRemainder)
	}
	if s.state.Mode == session.ModeLearn {
		fields = append(fields, fieldA, fieldB)
	}
	return fields
}

func (s *PracticeScreen) cycleFocus() tea.Cmd {
	fields := s.visibleFields()
	i := lo.IndexOf(fields, s.focus)
	return s.setFocus(fields[(i+1)%len(fields)])
}

func (s *PracticeScreen) input(f field) *components.NumberInput {
	switch f {
	case fieldRemainder:
		return &s.remainder
	case fieldA:
		return &s.operandA
	case fieldB:
		return &s.operandB
	default:
		return &s.answer
	}
}

func (s *PracticeScreen) setFocus(f field) tea.Cmd {
	for _, other := range []field{fieldAnswer, fieldRemainder, fieldA, fieldB} {
		s.input(other).Blur()
	}
	s.focus = f
	return s.input(f).Focus()
}

func (s *PracticeScreen) updateFocused(msg tea.Msg) tea.Cmd {
	in := s.input(s.focus)
	updated, cmd := in.Update(msg)
	*in = updated
	return cmd
}

func nextOp(op problemgen.Operation) problemgen.Operation {
	i := lo.IndexOf(problemgen.Operations, op)
	return problemgen.Operations[(i+1)%len(problemgen.Operations)]
}

func noticeFor(err error) string {
	var verr *problemgen.ValidationError
	switch {
	case errors.Is(err, problemgen.ErrInvalidAnswer):
		return "Type a number to answer."
	case errors.As(err, &verr):
		return "Those numbers don't work: " + verr.Message + "."
	}
	return err.Error()
}
