package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const snapshotsTable = "snapshots"

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	db      *sql.DB
	dialect string
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(snapshotsTable).
		Columns("sequence", "created_at", "data").
		Values(snap.Sequence, ts.UnixMilli(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	b := entsql.Dialect(r.dialect)
	t := b.Table(snapshotsTable)
	sel := b.Select(t.C("id"), t.C("sequence"), t.C("created_at"), t.C("data")).
		From(t).
		OrderBy(entsql.Desc(t.C("id"))).
		Limit(1)
	query, args := sel.Query()

	var (
		snap Snapshot
		ms   int64
		raw  string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.Sequence, &ms, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &snap.Data); err != nil {
		return nil, fmt.Errorf("%w: snapshot %d: %v", ErrCorruptSnapshot, snap.ID, err)
	}
	snap.Timestamp = time.UnixMilli(ms)
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}

	// Find the ID threshold: the Nth most recent snapshot.
	b := entsql.Dialect(r.dialect)
	t := b.Table(snapshotsTable)
	query, args := b.Select(t.C("id")).
		From(t).
		OrderBy(entsql.Desc(t.C("id"))).
		Offset(keep - 1).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = b.Delete(snapshotsTable).
		Where(entsql.LT("id", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
