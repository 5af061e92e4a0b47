package practice

import (
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/session"
	"github.com/egelkids/egel/internal/trace"
)

// startedMsg is sent when the controller has loaded progress.
type startedMsg struct {
	Ctrl *session.Controller
	Err  error
}

// traceMsg carries a worked solution for the problem with Serial.
type traceMsg struct {
	Serial int
	Trace  *trace.Trace
	Err    error
}

// diagramMsg reports a diagram written for the problem with Serial at Stage.
type diagramMsg struct {
	Serial int
	Stage  scoring.HintStage
	Path   string
	Cached bool
	Err    error
}

// advanceMsg moves on from the solved problem with Serial.
type advanceMsg struct {
	Serial int
}
