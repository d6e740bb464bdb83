package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-directory/internal/repository"
)

func TestSnapshotCache_FreshWithinInterval(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(t0)
	cache := NewSnapshotCache(repository.NewMemorySnapshotRepository(), 10*time.Minute, clock.Now)

	require.NoError(t, cache.Write(ctx, sampleRecords(), t0))

	clock.Advance(5 * time.Minute)
	entry, err := cache.ReadIfFresh(ctx)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, sampleRecords(), entry.Records)
	assert.Equal(t, t0.UnixMilli(), entry.FetchedAtMillis)
	assert.True(t, entry.FetchedAt().Equal(t0))
}

func TestSnapshotCache_StaleAfterInterval(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(t0)
	cache := NewSnapshotCache(repository.NewMemorySnapshotRepository(), 10*time.Minute, clock.Now)
	require.NoError(t, cache.Write(ctx, sampleRecords(), t0))

	clock.Advance(11 * time.Minute)
	entry, err := cache.ReadIfFresh(ctx)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSnapshotCache_ExactIntervalIsStale(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(t0)
	cache := NewSnapshotCache(repository.NewMemorySnapshotRepository(), 10*time.Minute, clock.Now)
	require.NoError(t, cache.Write(ctx, sampleRecords(), t0))

	clock.Advance(10 * time.Minute)
	entry, err := cache.ReadIfFresh(ctx)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSnapshotCache_EmptyStore(t *testing.T) {
	cache := NewSnapshotCache(repository.NewMemorySnapshotRepository(), 10*time.Minute, nil)

	entry, err := cache.ReadIfFresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSnapshotCache_NilRecordsStoredAsEmptyList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySnapshotRepository()
	cache := NewSnapshotCache(repo, 10*time.Minute, nil)

	require.NoError(t, cache.Write(ctx, nil, time.Now()))

	pair, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "[]", pair.StaffData)

	entry, err := cache.ReadIfFresh(ctx)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Empty(t, entry.Records)
}

func TestSnapshotCache_CorruptData(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	cases := map[string]repository.SnapshotPair{
		"bad records":   {StaffData: "{not json", LastFetchTime: "1700000000000"},
		"bad timestamp": {StaffData: "[]", LastFetchTime: "yesterday"},
	}
	for name, pair := range cases {
		t.Run(name, func(t *testing.T) {
			repo := repository.NewMemorySnapshotRepository()
			require.NoError(t, repo.Save(ctx, pair))
			cache := NewSnapshotCache(repo, 10*time.Minute, func() time.Time { return now })

			entry, err := cache.ReadIfFresh(ctx)
			assert.Nil(t, entry)
			assert.ErrorIs(t, err, ErrSnapshotCorrupt)
		})
	}
}
