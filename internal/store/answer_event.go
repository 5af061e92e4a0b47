package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const answerEventsTable = "answer_events"

var answerEventColumns = []string{
	"session_id", "op", "level", "a", "b", "correct_answer",
	"learner_answer", "correct", "hint_stage", "reward", "time_ms", "error_kind",
}

func (d AnswerEventData) table() string { return answerEventsTable }

func (d AnswerEventData) fields() ([]string, []any) {
	return answerEventColumns, []any{
		d.SessionID, d.Op, d.Level, d.A, d.B, d.CorrectAnswer,
		d.LearnerAnswer, d.Correct, d.HintStage, d.Reward, d.TimeMs, d.ErrorKind,
	}
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.appendEvent(ctx, data)
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, opts QueryOpts) ([]AnswerEventRecord, error) {
	query, args := r.selectEvents(answerEventsTable, opts, answerEventColumns...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventRecord
	for rows.Next() {
		var (
			rec AnswerEventRecord
			ms  int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &ms,
			&rec.SessionID, &rec.Op, &rec.Level, &rec.A, &rec.B,
			&rec.CorrectAnswer, &rec.LearnerAnswer, &rec.Correct,
			&rec.HintStage, &rec.Reward, &rec.TimeMs, &rec.ErrorKind,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ms)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) AnswerStatsByOp(ctx context.Context) ([]OpAnswerStats, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(answerEventsTable)
	query, args := b.Select(
		t.C("op"),
		entsql.Count("*"),
		"SUM(CASE WHEN correct THEN 1 ELSE 0 END)",
		entsql.Sum(t.C("reward")),
	).
		From(t).
		GroupBy(t.C("op")).
		OrderBy(t.C("op")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var out []OpAnswerStats
	for rows.Next() {
		var s OpAnswerStats
		if err := rows.Scan(&s.Op, &s.Answered, &s.Correct, &s.Stars); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
