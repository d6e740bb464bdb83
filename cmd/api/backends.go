package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/api/http/handlers"
	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/persistence"
	"github.com/spec-kit/staff-directory/internal/repository"
)

// backends holds the storage chosen for snapshots and cached images.
type backends struct {
	snapshots repository.SnapshotRepository
	images    repository.ImageRepository
	pingers   map[string]handlers.Pinger
	closers   []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) *backends {
	b := &backends{pingers: map[string]handlers.Pinger{}}
	dir := cfg.Directory

	var redis *persistence.Redis
	if dir.SnapshotBackend == config.BackendRedis || dir.ImageCacheBackend == config.BackendRedis {
		redis = persistence.NewRedis(cfg.Redis, logger)
		b.closers = append(b.closers, redis.Close)
		b.pingers["redis"] = redis
	}

	switch dir.SnapshotBackend {
	case config.BackendRedis:
		b.snapshots = repository.NewRedisSnapshotRepository(redis.Client, dir.KeyPrefix)
	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		b.closers = append(b.closers, pg.Close)
		b.pingers["postgres"] = pg
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		b.snapshots = repository.NewPostgresSnapshotRepository(pg.PoolHandle(), dir.KeyPrefix)
	default:
		b.snapshots = repository.NewMemorySnapshotRepository()
	}

	switch dir.ImageCacheBackend {
	case config.BackendRedis:
		b.images = repository.NewRedisImageRepository(redis.Client, dir.KeyPrefix)
	case config.BackendMinIO:
		store, err := persistence.NewMinIO(ctx, cfg.MinIO, logger)
		if err != nil {
			logger.Fatal("failed to connect minio", zap.Error(err))
		}
		b.pingers["minio"] = store
		b.images = repository.NewMinIOImageRepository(store.Client, store.Bucket, dir.KeyPrefix)
	default:
		b.images = repository.NewMemoryImageRepository()
	}

	return b
}
