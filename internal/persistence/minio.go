package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
)

// MinIO wraps an object storage client bound to one bucket.
type MinIO struct {
	Client *minio.Client
	Bucket string
}

// NewMinIO connects to object storage and makes sure the bucket exists.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, logger *zap.Logger) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("MINIO_ENDPOINT not provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("created minio bucket", zap.String("bucket", cfg.Bucket))
	}

	logger.Info("connected to minio", zap.String("endpoint", cfg.Endpoint))
	return &MinIO{Client: client, Bucket: cfg.Bucket}, nil
}

// Ping verifies the bucket is reachable.
func (m *MinIO) Ping(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return errors.New("minio client not configured")
	}
	_, err := m.Client.BucketExists(ctx, m.Bucket)
	return err
}
