package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
)

var testPool = []string{"https://fallback.test/0.jpg", "https://fallback.test/1.jpg", "https://fallback.test/2.jpg"}

func testDirectoryConfig() config.DirectoryConfig {
	return config.DirectoryConfig{
		RefreshInterval:     10 * time.Minute,
		LoadTimeout:         5 * time.Second,
		ImageCheckTimeout:   2 * time.Second,
		ImageConcurrency:    4,
		Locale:              "en",
		FallbackImages:      testPool,
		WarmImageCache:      true,
		MaxCachedImageBytes: 1024,
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSource struct {
	rows    [][]string
	err     error
	initErr error
	fetches atomic.Int32
}

func (s *fakeSource) Init(context.Context) error { return s.initErr }

func (s *fakeSource) FetchRows(context.Context) ([][]string, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

// passthroughResolver leaves photos untouched and counts calls.
type passthroughResolver struct {
	calls atomic.Int32
}

func (r *passthroughResolver) ResolveRecord(_ context.Context, rec domain.StaffRecord) domain.StaffRecord {
	r.calls.Add(1)
	return rec
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func sampleRecords() []domain.StaffRecord {
	return []domain.StaffRecord{
		{ID: "a", Name: "Sam Lee", Position: "Engineer", Department: "Engineering", Email: "sam@example.com"},
		{ID: "b", Name: "ada Park", Position: "Designer", Department: "Design", Location: "Building C"},
		{ID: "c", Name: "Zoe Quinn", Position: "Manager", Department: "Product", Bio: "Runs the roadmap"},
		{ID: "d", Name: "Sam Lee", Position: "Intern", Department: "Engineering"},
		{ID: "e", Name: "Ben Ode", Position: "Writer", Department: "Design", Phone: "555-0100"},
	}
}

func ids(records []domain.StaffRecord) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.ID
	}
	return out
}
