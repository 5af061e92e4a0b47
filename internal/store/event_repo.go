package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the ent SQL builder and the global
// sequence counter.
type eventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

// eventRow is implemented by every *EventData type: the table it lands in
// and its columns after sequence and created_at.
type eventRow interface {
	table() string
	fields() ([]string, []any)
}

func (d HintEventData) table() string { return "hint_events" }

func (d HintEventData) fields() ([]string, []any) {
	return []string{"session_id", "op", "question_text", "action", "stage"},
		[]any{d.SessionID, d.Op, d.QuestionText, d.Action, d.Stage}
}

func (d SessionEventData) table() string { return "session_events" }

func (d SessionEventData) fields() ([]string, []any) {
	return []string{"session_id", "action", "mode", "op", "problems_served", "correct_answers", "duration_secs"},
		[]any{d.SessionID, d.Action, d.Mode, d.Op, d.ProblemsServed, d.CorrectAnswers, d.DurationSecs}
}

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	return r.appendEvent(ctx, data)
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	return r.appendEvent(ctx, data)
}

func (r *eventRepo) appendEvent(ctx context.Context, ev eventRow) error {
	cols, vals := ev.fields()
	if err := r.insert(ctx, ev.table(), cols, vals); err != nil {
		return fmt.Errorf("save %s row: %w", ev.table(), err)
	}
	return nil
}

// insert appends one event row, assigning it the next sequence number.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	cols := append([]string{"sequence", "created_at"}, columns...)
	vals := append([]any{seqNum, time.Now().UnixMilli()}, values...)

	query, args := entsql.Dialect(r.dialect).
		Insert(table).
		Columns(cols...).
		Values(vals...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// selectEvents builds a newest-first selector over table honoring opts.
func (r *eventRepo) selectEvents(table string, opts QueryOpts, columns ...string) (string, []any) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(table)

	cols := []string{t.C("id"), t.C("sequence"), t.C("created_at")}
	for _, c := range columns {
		cols = append(cols, t.C(c))
	}
	sel := b.Select(cols...).From(t)

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C("created_at"), opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C("created_at"), opts.To.UnixMilli()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	sel.OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel.Query()
}
