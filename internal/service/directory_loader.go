package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
)

// Sheet column positions, A=0.
const (
	colID          = 0
	colName        = 1
	colPosition    = 2
	colDepartment  = 3
	colPhotoURL    = 4
	colOfficeHours = 5
	colEmail       = 6
	colPhone       = 7
	colLocation    = 8
	colBio         = 11
)

// RowSource yields the raw data rows of the directory sheet.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// PhotoResolver turns a record's photo reference into a loadable one.
type PhotoResolver interface {
	ResolveRecord(ctx context.Context, rec domain.StaffRecord) domain.StaffRecord
}

// LoadResult is the outcome of one load cycle.
type LoadResult struct {
	Records []domain.StaffRecord
	Origin  domain.LoadOrigin
}

// DirectoryLoader produces the record set for one refresh cycle.
type DirectoryLoader struct {
	source      RowSource
	cache       *SnapshotCache
	resolver    PhotoResolver
	concurrency int
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// LoaderDependencies encapsulates collaborators required by the loader.
type LoaderDependencies struct {
	Source   RowSource
	Cache    *SnapshotCache
	Resolver PhotoResolver
	Logger   *zap.Logger
	// Now and NewID default to time.Now and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

// NewDirectoryLoader constructs the loader.
func NewDirectoryLoader(cfg config.DirectoryConfig, deps LoaderDependencies) *DirectoryLoader {
	l := &DirectoryLoader{
		source:      deps.Source,
		cache:       deps.Cache,
		resolver:    deps.Resolver,
		concurrency: cfg.ImageConcurrency,
		now:         deps.Now,
		newID:       deps.NewID,
		logger:      deps.Logger,
	}
	if l.concurrency <= 0 {
		l.concurrency = 1
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

// Load returns the directory's records. It never fails: when the sheet
// cannot be read the built-in mock dataset is returned instead.
func (l *DirectoryLoader) Load(ctx context.Context) []domain.StaffRecord {
	return l.LoadWithOrigin(ctx).Records
}

// LoadWithOrigin is Load plus where the records came from.
func (l *DirectoryLoader) LoadWithOrigin(ctx context.Context) LoadResult {
	var (
		records []domain.StaffRecord
		origin  domain.LoadOrigin
	)

	entry, err := l.cache.ReadIfFresh(ctx)
	if err != nil {
		l.logger.Warn("ignoring unreadable directory snapshot", zap.Error(err))
	}

	if entry != nil {
		records = entry.Records
		origin = domain.LoadOriginCache
		l.logger.Debug("serving cached directory",
			zap.Time("fetched_at", entry.FetchedAt()),
			zap.Int("records", len(records)),
		)
	} else {
		rows, err := l.source.FetchRows(ctx)
		if err != nil {
			l.logger.Warn("sheet source unavailable; serving mock directory", zap.Error(err))
			return LoadResult{Records: domain.MockStaffRecords(), Origin: domain.LoadOriginMock}
		}
		records = MapRows(rows, l.newID)
		if err := l.cache.Write(ctx, records, l.now()); err != nil {
			l.logger.Warn("failed to persist directory snapshot", zap.Error(err))
		}
		origin = domain.LoadOriginSource
	}

	return LoadResult{Records: l.resolvePhotos(ctx, records), Origin: origin}
}

// resolvePhotos resolves every photo concurrently into a new slice; each
// goroutine writes only its own index.
func (l *DirectoryLoader) resolvePhotos(ctx context.Context, records []domain.StaffRecord) []domain.StaffRecord {
	resolved := make([]domain.StaffRecord, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			resolved[i] = l.resolver.ResolveRecord(gctx, rec)
			return nil
		})
	}
	_ = g.Wait()
	return resolved
}

// MapRows converts sheet rows into records. Missing or repeated ids are
// replaced with newID so ids stay unique within the set.
func MapRows(rows [][]string, newID func() string) []domain.StaffRecord {
	records := make([]domain.StaffRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		rec := MapRow(row, newID)
		if _, dup := seen[rec.ID]; dup {
			rec.ID = newID()
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}
	return records
}

// MapRow converts one sheet row using the fixed column layout.
func MapRow(row []string, newID func() string) domain.StaffRecord {
	id := cell(row, colID)
	if id == "" {
		id = newID()
	}
	return domain.StaffRecord{
		ID:          id,
		Name:        cell(row, colName),
		Position:    cell(row, colPosition),
		Department:  cell(row, colDepartment),
		PhotoURL:    cell(row, colPhotoURL),
		OfficeHours: cell(row, colOfficeHours),
		Email:       cell(row, colEmail),
		Phone:       cell(row, colPhone),
		Location:    cell(row, colLocation),
		Bio:         cell(row, colBio),
	}
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
