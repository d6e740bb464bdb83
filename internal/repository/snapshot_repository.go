package repository

import (
	"context"
	"sync"
)

// Keys under which the directory snapshot is persisted.
const (
	StaffDataKey     = "staff-data"
	LastFetchTimeKey = "last-fetch-time"
)

// SnapshotPair is the raw persisted form of a directory snapshot. Both
// values are always read and written together.
type SnapshotPair struct {
	StaffData     string
	LastFetchTime string
}

// SnapshotRepository persists the directory snapshot pair.
type SnapshotRepository interface {
	// Load returns nil when either half of the pair is missing.
	Load(ctx context.Context) (*SnapshotPair, error)
	Save(ctx context.Context, pair SnapshotPair) error
}

type memorySnapshotRepository struct {
	mu   sync.RWMutex
	pair *SnapshotPair
}

// NewMemorySnapshotRepository keeps the snapshot in process memory.
func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshotRepository{}
}

func (r *memorySnapshotRepository) Load(_ context.Context) (*SnapshotPair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pair == nil {
		return nil, nil
	}
	pair := *r.pair
	return &pair, nil
}

func (r *memorySnapshotRepository) Save(_ context.Context, pair SnapshotPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pair = &pair
	return nil
}
