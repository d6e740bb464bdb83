package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/repository"
)

// ErrSnapshotCorrupt marks a persisted snapshot that cannot be decoded.
var ErrSnapshotCorrupt = errors.New("directory snapshot corrupt")

// SnapshotCache persists the last fetched record set and decides whether it
// is still fresh enough to serve.
type SnapshotCache struct {
	repo     repository.SnapshotRepository
	interval time.Duration
	now      func() time.Time
}

// NewSnapshotCache builds the cache. A nil clock uses time.Now.
func NewSnapshotCache(repo repository.SnapshotRepository, interval time.Duration, now func() time.Time) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{repo: repo, interval: interval, now: now}
}

// ReadIfFresh returns the persisted entry when it is younger than the refresh
// interval, and nil when it is missing or stale. Undecodable snapshots yield
// an error wrapping ErrSnapshotCorrupt.
func (c *SnapshotCache) ReadIfFresh(ctx context.Context) (*domain.CacheEntry, error) {
	pair, err := c.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	fetchedAt, err := strconv.ParseInt(pair.LastFetchTime, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotCorrupt, repository.LastFetchTimeKey, err)
	}
	var records []domain.StaffRecord
	if err := json.Unmarshal([]byte(pair.StaffData), &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotCorrupt, repository.StaffDataKey, err)
	}

	entry := &domain.CacheEntry{Records: records, FetchedAtMillis: fetchedAt}
	if !entry.IsFresh(c.now(), c.interval) {
		return nil, nil
	}
	return entry, nil
}

// Write persists records and the fetch time as one pair.
func (c *SnapshotCache) Write(ctx context.Context, records []domain.StaffRecord, now time.Time) error {
	if records == nil {
		records = []domain.StaffRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.repo.Save(ctx, repository.SnapshotPair{
		StaffData:     string(data),
		LastFetchTime: strconv.FormatInt(now.UnixMilli(), 10),
	})
}
