package session

import (
	"time"

	"github.com/samber/lo"

	"github.com/egelkids/egel/internal/problemgen"
)

// SessionSummary holds the data displayed when a session ends.
type SessionSummary struct {
	SessionID      string
	Mode           Mode
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	StarsEarned    int
	Stars          int
	OpResults      []OpResult
}

// buildSummary creates a SessionSummary. Operations that were never
// attempted are left out.
func buildSummary(st State, startStars int, perOp map[problemgen.Operation]*OpResult, now time.Time) SessionSummary {
	results := lo.FilterMap(problemgen.Operations, func(op problemgen.Operation, _ int) (OpResult, bool) {
		r, ok := perOp[op]
		if !ok || r.Attempted == 0 {
			return OpResult{}, false
		}
		return *r, true
	})

	var accuracy float64
	if st.TotalQuestions > 0 {
		accuracy = float64(st.TotalCorrect) / float64(st.TotalQuestions)
	}

	return SessionSummary{
		SessionID:      st.SessionID,
		Mode:           st.Mode,
		Duration:       now.Sub(st.StartTime),
		TotalQuestions: st.TotalQuestions,
		TotalCorrect:   st.TotalCorrect,
		Accuracy:       accuracy,
		StarsEarned:    st.Scoring.Stars - startStars,
		Stars:          st.Scoring.Stars,
		OpResults:      results,
	}
}
