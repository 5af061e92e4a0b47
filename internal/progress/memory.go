package progress

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in memory. Used when persistence is
// disabled and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	snap  *Snapshot
	saves int

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.snap == nil {
		return nil, nil
	}
	cp := m.snap.Normalize()
	return &cp, nil
}

func (m *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	cp := snap.Normalize()
	m.snap = &cp
	m.saves++
	return nil
}

// Saves returns how many saves succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
