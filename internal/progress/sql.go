package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/egelkids/egel/internal/store"
)

// DefaultKeepSnapshots is how many snapshot rows SQLStore retains.
const DefaultKeepSnapshots = 20

// SQLStore keeps snapshots as append-only rows in a store.SnapshotRepo
// and prunes old ones after each save.
type SQLStore struct {
	repo     store.SnapshotRepo
	keep     int
	sequence func(context.Context) (int64, error)
}

// SQLOption configures a SQLStore.
type SQLOption func(*SQLStore)

// WithKeep sets how many snapshots survive a prune.
func WithKeep(n int) SQLOption {
	return func(s *SQLStore) {
		if n > 0 {
			s.keep = n
		}
	}
}

// WithSequence stamps saved snapshots with the current event sequence.
func WithSequence(fn func(context.Context) (int64, error)) SQLOption {
	return func(s *SQLStore) { s.sequence = fn }
}

// NewSQLStore returns a Store backed by repo.
func NewSQLStore(repo store.SnapshotRepo, opts ...SQLOption) *SQLStore {
	s := &SQLStore{repo: repo, keep: DefaultKeepSnapshots}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SQLStore) Load(ctx context.Context) (*Snapshot, error) {
	snap, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, nil
	}
	out := decode(snap.Data)
	return &out, nil
}

func (s *SQLStore) Save(ctx context.Context, snap Snapshot) error {
	var seq int64
	if s.sequence != nil {
		n, err := s.sequence(ctx)
		if err != nil {
			return fmt.Errorf("snapshot sequence: %w", err)
		}
		seq = n
	}

	err := s.repo.Save(ctx, &store.Snapshot{
		Sequence:  seq,
		Timestamp: time.Now(),
		Data:      encode(snap),
	})
	if err != nil {
		return err
	}
	if err := s.repo.Prune(ctx, s.keep); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
