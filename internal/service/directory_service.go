package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/events"
	"github.com/spec-kit/staff-directory/internal/observability"
)

// LoadFailureMessage is the one error surfaced to directory consumers.
const LoadFailureMessage = "Failed to load staff directory"

// ErrDirectoryUnavailable is returned by Reload when the sheet client could
// not be initialized.
var ErrDirectoryUnavailable = errors.New("staff directory unavailable")

// SourceInitializer prepares the sheet client before the first fetch.
type SourceInitializer interface {
	Init(ctx context.Context) error
}

// Loader runs one load cycle.
type Loader interface {
	LoadWithOrigin(ctx context.Context) LoadResult
}

// DirectoryService runs load cycles one at a time and tracks the loading
// and error state shown to consumers.
type DirectoryService struct {
	source     SourceInitializer
	loader     Loader
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	timeout    time.Duration
	now        func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	status domain.DirectoryStatus
}

// DirectoryDependencies encapsulates collaborators of the directory service.
type DirectoryDependencies struct {
	Source     SourceInitializer
	Loader     Loader
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewDirectoryService constructs the service. It reports loading until the
// first cycle finishes.
func NewDirectoryService(cfg config.DirectoryConfig, deps DirectoryDependencies) *DirectoryService {
	s := &DirectoryService{
		source:     deps.Source,
		loader:     deps.Loader,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		timeout:    cfg.LoadTimeout,
		now:        deps.Now,
		status:     domain.DirectoryStatus{IsLoading: true},
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Reload runs a load cycle and publishes its records. Callers arriving while
// a cycle is in flight wait for that cycle instead of starting another one.
// The cycle is detached from ctx cancellation and bounded by the configured
// load timeout.
func (s *DirectoryService) Reload(ctx context.Context) error {
	ch := s.group.DoChan("reload", func() (interface{}, error) {
		cycleCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			cycleCtx, cancel = context.WithTimeout(cycleCtx, s.timeout)
			defer cancel()
		}
		return nil, s.reload(cycleCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DirectoryService) reload(ctx context.Context) error {
	s.setLoading()
	start := s.now()

	if err := s.source.Init(ctx); err != nil {
		s.logger.Error("directory source initialization failed", zap.Error(err))
		s.finishFailed()
		s.metrics.RecordLoad("failed", s.now().Sub(start))
		if s.dispatcher != nil {
			ev := events.NewEvent(events.EventDirectoryLoadFailed, events.DirectoryLoadFailedPayload{Reason: err.Error()})
			if perr := s.dispatcher.Publish(ctx, ev); perr != nil {
				s.logger.Warn("publish load failure", zap.Error(perr))
			}
		}
		return errors.Join(ErrDirectoryUnavailable, err)
	}

	result := s.loader.LoadWithOrigin(ctx)
	if s.dispatcher != nil {
		ev := events.NewEvent(events.EventDirectoryRefreshed, events.DirectoryRefreshedPayload{
			Records: result.Records,
			Origin:  result.Origin,
		})
		if err := s.dispatcher.Publish(ctx, ev); err != nil {
			s.logger.Warn("publish directory refresh", zap.Error(err))
		}
	}

	finished := s.now()
	s.finishLoaded(result, finished)
	s.metrics.RecordLoad(string(result.Origin), finished.Sub(start))
	s.logger.Info("directory loaded",
		zap.String("origin", string(result.Origin)),
		zap.Int("records", len(result.Records)),
		zap.Duration("elapsed", finished.Sub(start)),
	)
	return nil
}

func (s *DirectoryService) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.IsLoading = true
}

func (s *DirectoryService) finishFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := LoadFailureMessage
	s.status.IsLoading = false
	s.status.ErrorMessage = &msg
}

func (s *DirectoryService) finishLoaded(result LoadResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.IsLoading = false
	s.status.ErrorMessage = nil
	s.status.LastLoadedAt = &at
	s.status.LastOrigin = result.Origin
	s.status.RecordCount = len(result.Records)
}

// Status returns a copy of the loading and error state.
func (s *DirectoryService) Status() domain.DirectoryStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := s.status
	if status.ErrorMessage != nil {
		msg := *status.ErrorMessage
		status.ErrorMessage = &msg
	}
	if status.LastLoadedAt != nil {
		at := *status.LastLoadedAt
		status.LastLoadedAt = &at
	}
	return status
}
