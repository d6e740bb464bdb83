package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/repository"
)

type rewriteResolver struct{ url string }

func (r rewriteResolver) ResolveRecord(_ context.Context, rec domain.StaffRecord) domain.StaffRecord {
	return rec.WithPhotoURL(r.url)
}

type loaderFixture struct {
	source   *fakeSource
	repo     repository.SnapshotRepository
	clock    *fakeClock
	resolver PhotoResolver
	loader   *DirectoryLoader
}

func newLoaderFixture(t *testing.T, source *fakeSource, resolver PhotoResolver) *loaderFixture {
	t.Helper()
	f := &loaderFixture{
		source:   source,
		repo:     repository.NewMemorySnapshotRepository(),
		clock:    newFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		resolver: resolver,
	}
	cfg := testDirectoryConfig()
	f.loader = NewDirectoryLoader(cfg, LoaderDependencies{
		Source:   source,
		Cache:    NewSnapshotCache(f.repo, cfg.RefreshInterval, f.clock.Now),
		Resolver: resolver,
		Now:      f.clock.Now,
		NewID:    sequentialIDs("gen"),
	})
	return f
}

func TestDirectoryLoader_MapsSheetRowsAndResolvesPhotos(t *testing.T) {
	row := func(name string) []string {
		return []string{"", name, "Engineer", "Eng", "", "9-5", "s@x.com", "555", "A3", "", "", "bio text"}
	}
	source := &fakeSource{rows: [][]string{row("Sarah"), row("Omar"), row("Lin")}}
	f := newLoaderFixture(t, source, newTestResolver(nil))

	result := f.loader.LoadWithOrigin(context.Background())

	assert.Equal(t, domain.LoadOriginSource, result.Origin)
	require.Len(t, result.Records, 3)
	assert.Equal(t, []string{"gen-1", "gen-2", "gen-3"}, ids(result.Records))

	photos := map[string]bool{}
	for i, rec := range result.Records {
		assert.Equal(t, []string{"Sarah", "Omar", "Lin"}[i], rec.Name)
		assert.Equal(t, "Engineer", rec.Position)
		assert.Equal(t, "Eng", rec.Department)
		assert.Equal(t, "9-5", rec.OfficeHours)
		assert.Equal(t, "s@x.com", rec.Email)
		assert.Equal(t, "555", rec.Phone)
		assert.Equal(t, "A3", rec.Location)
		assert.Equal(t, "bio text", rec.Bio)
		photos[rec.PhotoURL] = true
	}
	for _, url := range testPool {
		assert.True(t, photos[url], "expected placeholder %s to be used", url)
	}
}

func TestDirectoryLoader_PersistsUnresolvedRecords(t *testing.T) {
	source := &fakeSource{rows: [][]string{{"7", "Ana", "", "Ops", "https://img.test/ana.jpg"}}}
	f := newLoaderFixture(t, source, rewriteResolver{url: "https://fallback.test/0.jpg"})

	records := f.loader.Load(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "https://fallback.test/0.jpg", records[0].PhotoURL)

	entry, err := NewSnapshotCache(f.repo, time.Hour, f.clock.Now).ReadIfFresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Len(t, entry.Records, 1)
	assert.Equal(t, "7", entry.Records[0].ID)
	assert.Equal(t, "https://img.test/ana.jpg", entry.Records[0].PhotoURL)
	assert.Equal(t, f.clock.Now().UnixMilli(), entry.FetchedAtMillis)
}

func TestDirectoryLoader_FetchFailureServesMockData(t *testing.T) {
	resolver := &passthroughResolver{}
	f := newLoaderFixture(t, &fakeSource{err: errors.New("quota exceeded")}, resolver)

	result := f.loader.LoadWithOrigin(context.Background())

	assert.Equal(t, domain.LoadOriginMock, result.Origin)
	assert.Equal(t, domain.MockStaffRecords(), result.Records)
	assert.Equal(t, []string{"1", "2", "3"}, ids(result.Records))
	assert.Zero(t, resolver.calls.Load())

	pair, err := f.repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pair, "mock data must not be persisted")
}

func TestDirectoryLoader_FreshCacheSkipsFetch(t *testing.T) {
	resolver := &passthroughResolver{}
	source := &fakeSource{rows: [][]string{{"x", "Should Not Appear"}}}
	f := newLoaderFixture(t, source, resolver)

	cache := NewSnapshotCache(f.repo, 10*time.Minute, f.clock.Now)
	require.NoError(t, cache.Write(context.Background(), sampleRecords(), f.clock.Now()))
	f.clock.Advance(5 * time.Minute)

	result := f.loader.LoadWithOrigin(context.Background())

	assert.Equal(t, domain.LoadOriginCache, result.Origin)
	assert.Equal(t, sampleRecords(), result.Records)
	assert.Zero(t, source.fetches.Load())
	assert.EqualValues(t, len(sampleRecords()), resolver.calls.Load())
}

func TestDirectoryLoader_StaleCacheRefetches(t *testing.T) {
	source := &fakeSource{rows: [][]string{{"x", "Fresh Row"}}}
	f := newLoaderFixture(t, source, &passthroughResolver{})

	cache := NewSnapshotCache(f.repo, 10*time.Minute, f.clock.Now)
	require.NoError(t, cache.Write(context.Background(), sampleRecords(), f.clock.Now()))
	f.clock.Advance(11 * time.Minute)

	result := f.loader.LoadWithOrigin(context.Background())

	assert.Equal(t, domain.LoadOriginSource, result.Origin)
	assert.Equal(t, []string{"x"}, ids(result.Records))
	assert.EqualValues(t, 1, source.fetches.Load())
}

func TestDirectoryLoader_CorruptCacheRefetches(t *testing.T) {
	source := &fakeSource{rows: [][]string{{"x", "Fresh Row"}}}
	f := newLoaderFixture(t, source, &passthroughResolver{})
	require.NoError(t, f.repo.Save(context.Background(), repository.SnapshotPair{StaffData: "garbage", LastFetchTime: "1"}))

	result := f.loader.LoadWithOrigin(context.Background())

	assert.Equal(t, domain.LoadOriginSource, result.Origin)
	assert.EqualValues(t, 1, source.fetches.Load())
}

func TestDirectoryLoader_EmptySheet(t *testing.T) {
	f := newLoaderFixture(t, &fakeSource{rows: nil}, &passthroughResolver{})

	result := f.loader.LoadWithOrigin(context.Background())

	assert.Equal(t, domain.LoadOriginSource, result.Origin)
	assert.Empty(t, result.Records)
}

func TestMapRow_ShortRowsYieldEmptyFields(t *testing.T) {
	rec := MapRow([]string{"42", "Kim"}, sequentialIDs("gen"))

	assert.Equal(t, domain.StaffRecord{ID: "42", Name: "Kim"}, rec)
}

func TestMapRow_ColumnsJAndKAreIgnored(t *testing.T) {
	rec := MapRow([]string{"1", "N", "P", "D", "U", "H", "E", "T", "L", "ignored-j", "ignored-k", "B"}, sequentialIDs("gen"))

	assert.Equal(t, domain.StaffRecord{
		ID: "1", Name: "N", Position: "P", Department: "D", PhotoURL: "U",
		OfficeHours: "H", Email: "E", Phone: "T", Location: "L", Bio: "B",
	}, rec)
}

func TestMapRows_ReplacesDuplicateIDs(t *testing.T) {
	records := MapRows([][]string{{"1", "A"}, {"1", "B"}, {"", "C"}, {"2", "D"}}, sequentialIDs("gen"))

	assert.Equal(t, []string{"1", "gen-1", "gen-2", "2"}, ids(records))
}

func TestDirectoryLoader_LogsCachedFetchTime(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	repo := repository.NewMemorySnapshotRepository()
	clock := newFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	cache := NewSnapshotCache(repo, 10*time.Minute, clock.Now)
	require.NoError(t, cache.Write(context.Background(), sampleRecords(), clock.Now()))
	fetchedAt := clock.Now()
	clock.Advance(time.Minute)

	loader := NewDirectoryLoader(testDirectoryConfig(), LoaderDependencies{
		Source:   &fakeSource{},
		Cache:    cache,
		Resolver: &passthroughResolver{},
		Logger:   zap.New(core),
		Now:      clock.Now,
	})
	loader.Load(context.Background())

	entries := logs.FilterMessage("serving cached directory").All()
	require.Len(t, entries, 1)
	assert.True(t, fetchedAt.Equal(entries[0].ContextMap()["fetched_at"].(time.Time)))
}
