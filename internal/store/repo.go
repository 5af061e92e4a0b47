package store

import (
	"context"
	"errors"
	"time"
)

// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotData captures the learner's persisted progress. The JSON shape
// is {"version":1,"level":{"add":1,...},"stars":0,"streak":0}.
type SnapshotData struct {
	Version int            `json:"version"`
	Level   map[string]int `json:"level"`
	Stars   int            `json:"stars"`
	Streak  int            `json:"streak"`
}

// Snapshot represents a point-in-time capture of learner state.
type Snapshot struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages learner state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	// A row that fails to decode yields an error wrapping ErrCorruptSnapshot.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// AnswerEventData captures one checked answer.
type AnswerEventData struct {
	SessionID     string
	Op            string
	Level         int
	A             int
	B             int
	CorrectAnswer string
	LearnerAnswer string
	Correct       bool
	HintStage     int
	Reward        int
	TimeMs        int64
	ErrorKind     string // diagnosis category of a wrong answer, "" otherwise
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// HintEventData captures a hint request, a reveal-all or a manual stage
// change in learn mode.
type HintEventData struct {
	SessionID    string
	Op           string
	QuestionText string
	Action       string // "hint", "reveal", "set"
	Stage        int
}

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID      string
	Action         string // "start", "end"
	Mode           string // "play", "learn"
	Op             string
	ProblemsServed int
	CorrectAnswers int
	DurationSecs   int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// OpAnswerStats aggregates answer events for one operation.
type OpAnswerStats struct {
	Op       string `json:"op" yaml:"op"`
	Answered int    `json:"answered" yaml:"answered"`
	Correct  int    `json:"correct" yaml:"correct"`
	Stars    int    `json:"stars" yaml:"stars"`
}

// Accuracy returns the fraction of correct answers in [0, 1].
func (s OpAnswerStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAnswerEvent records a checked answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendHintEvent records a hint stage change.
	AppendHintEvent(ctx context.Context, data HintEventData) error

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryAnswerEvents returns answer events, newest first.
	QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error)

	// AnswerStatsByOp aggregates answers per operation.
	AnswerStatsByOp(ctx context.Context) ([]OpAnswerStats, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
