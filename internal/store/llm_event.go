package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const llmEventsTable = "llm_request_events"

var llmEventColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (d LLMRequestEventData) table() string { return llmEventsTable }

func (d LLMRequestEventData) fields() ([]string, []any) {
	return llmEventColumns, []any{
		d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens,
		d.LatencyMs, d.Success, d.ErrorMessage, d.RequestBody, d.ResponseBody,
	}
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.appendEvent(ctx, data)
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	query, args := r.selectEvents(llmEventsTable, opts, llmEventColumns...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(llmEventsTable)
	cols := append([]string{t.C("id"), t.C("sequence"), t.C("created_at")}, t.Columns(llmEventColumns...)...)
	query, args := b.Select(cols...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	rec, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(llmEventsTable)
	query, args := b.Select(
		t.C("purpose"),
		entsql.Count("*"),
		entsql.Sum(t.C("input_tokens")),
		entsql.Sum(t.C("output_tokens")),
		entsql.Avg(t.C("latency_ms")),
	).
		From(t).
		GroupBy(t.C("purpose")).
		OrderBy(t.C("purpose")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			s   LLMUsageStats
			avg float64
		)
		if err := rows.Scan(&s.Purpose, &s.Calls, &s.InputTokens, &s.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		s.AvgLatencyMs = int64(avg)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(llmEventsTable)
	query, args := b.Select(
		t.C("model"),
		entsql.Count("*"),
		entsql.Sum(t.C("input_tokens")),
		entsql.Sum(t.C("output_tokens")),
	).
		From(t).
		GroupBy(t.C("model")).
		OrderBy(t.C("model")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM model usage: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan LLM model usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (*LLMEventRecord, error) {
	var (
		rec LLMEventRecord
		ms  int64
	)
	err := row.Scan(
		&rec.ID, &rec.Sequence, &ms,
		&rec.Provider, &rec.Model, &rec.Purpose,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs,
		&rec.Success, &rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ms)
	return &rec, nil
}
