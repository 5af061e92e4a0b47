// Package progress persists the learner's levels, stars and streak.
package progress

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/store"
)

// Snapshot is the persisted part of the scoring state.
type Snapshot struct {
	Levels scoring.LevelMap
	Stars  int
	Streak int
}

// Defaults returns level 1 for every operation, no stars and no streak.
func Defaults() Snapshot {
	return Snapshot{Levels: scoring.DefaultLevels()}
}

// FromState extracts the persisted fields of s.
func FromState(s scoring.State) Snapshot {
	return Snapshot{Levels: s.Levels.Clone(), Stars: s.Stars, Streak: s.Streak}
}

// State returns a scoring state carrying this snapshot with nothing revealed.
func (s Snapshot) State() scoring.State {
	n := s.Normalize()
	return scoring.State{Levels: n.Levels, Stars: n.Stars, Streak: n.Streak}
}

// Normalize fills missing operations and clamps out-of-range values.
func (s Snapshot) Normalize() Snapshot {
	return Snapshot{
		Levels: s.Levels.Clone(),
		Stars:  max(s.Stars, 0),
		Streak: max(s.Streak, 0),
	}
}

// Store is durable storage for a single learner's snapshot.
type Store interface {
	// Load returns the stored snapshot, or nil if nothing is stored yet.
	Load(ctx context.Context) (*Snapshot, error)

	// Save stores snap, replacing what Load returns.
	Save(ctx context.Context, snap Snapshot) error
}

// LoadOrDefault loads the snapshot from st. Missing or malformed data
// yields Defaults without surfacing an error; a backend failure is
// logged and also yields Defaults.
func LoadOrDefault(ctx context.Context, st Store, log logrus.FieldLogger) Snapshot {
	if st == nil {
		return Defaults()
	}
	snap, err := st.Load(ctx)
	switch {
	case errors.Is(err, store.ErrCorruptSnapshot):
		log.WithError(err).Debug("stored progress is malformed, starting fresh")
		return Defaults()
	case err != nil:
		log.WithError(err).Warn("load progress failed, starting fresh")
		return Defaults()
	case snap == nil:
		return Defaults()
	}
	return snap.Normalize()
}

// encode converts a snapshot to its stored form.
func encode(s Snapshot) store.SnapshotData {
	level := make(map[string]int, len(problemgen.Operations))
	for _, op := range problemgen.Operations {
		level[string(op)] = s.Levels.Level(op)
	}
	return store.SnapshotData{
		Version: 1,
		Level:   level,
		Stars:   s.Stars,
		Streak:  s.Streak,
	}
}

// decode converts stored data back, ignoring unknown operations.
func decode(d store.SnapshotData) Snapshot {
	levels := scoring.DefaultLevels()
	for name, lvl := range d.Level {
		if op := problemgen.Operation(name); op.Valid() {
			levels[op] = lvl
		}
	}
	return Snapshot{Levels: levels, Stars: d.Stars, Streak: d.Streak}.Normalize()
}
