package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
)

type minioImageRepository struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinIOImageRepository stores each image as an object named by the
// SHA-256 of its URL, with the content type kept as object metadata.
func NewMinIOImageRepository(client *minio.Client, bucket, prefix string) ImageRepository {
	return &minioImageRepository{client: client, bucket: bucket, prefix: prefix + PhotoCacheKey + "/"}
}

func (r *minioImageRepository) objectKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return r.prefix + hex.EncodeToString(sum[:])
}

func (r *minioImageRepository) Has(ctx context.Context, url string) (bool, error) {
	_, err := r.client.StatObject(ctx, r.bucket, r.objectKey(url), minio.StatObjectOptions{})
	if err != nil {
		if isMinIONotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat cached image: %w", err)
	}
	return true, nil
}

func (r *minioImageRepository) Get(ctx context.Context, url string) (*CachedImage, error) {
	object, err := r.client.GetObject(ctx, r.bucket, r.objectKey(url), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get cached image: %w", err)
	}
	defer object.Close()

	info, err := object.Stat()
	if err != nil {
		if isMinIONotFound(err) {
			return nil, ErrImageNotCached
		}
		return nil, fmt.Errorf("stat cached image: %w", err)
	}

	body, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("read cached image: %w", err)
	}
	return &CachedImage{Body: body, ContentType: info.ContentType}, nil
}

func (r *minioImageRepository) Put(ctx context.Context, url string, img CachedImage) error {
	_, err := r.client.PutObject(ctx, r.bucket, r.objectKey(url),
		bytes.NewReader(img.Body),
		int64(len(img.Body)),
		minio.PutObjectOptions{
			ContentType:  img.ContentType,
			UserMetadata: map[string]string{"source-url": url},
		},
	)
	if err != nil {
		return fmt.Errorf("put cached image: %w", err)
	}
	return nil
}

func isMinIONotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey"
}
