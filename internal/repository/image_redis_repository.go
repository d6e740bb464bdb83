package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	imageBodyField        = "body"
	imageContentTypeField = "content_type"
)

type redisImageRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisImageRepository stores each image as a hash of body and content type.
func NewRedisImageRepository(client redis.UniversalClient, prefix string) ImageRepository {
	return &redisImageRepository{client: client, prefix: prefix + PhotoCacheKey + ":"}
}

func (r *redisImageRepository) key(url string) string {
	return r.prefix + url
}

func (r *redisImageRepository) Has(ctx context.Context, url string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(url)).Result()
	if err != nil {
		return false, fmt.Errorf("check cached image: %w", err)
	}
	return n > 0, nil
}

func (r *redisImageRepository) Get(ctx context.Context, url string) (*CachedImage, error) {
	fields, err := r.client.HGetAll(ctx, r.key(url)).Result()
	if err != nil {
		return nil, fmt.Errorf("get cached image: %w", err)
	}
	body, ok := fields[imageBodyField]
	if !ok {
		return nil, ErrImageNotCached
	}
	return &CachedImage{Body: []byte(body), ContentType: fields[imageContentTypeField]}, nil
}

func (r *redisImageRepository) Put(ctx context.Context, url string, img CachedImage) error {
	err := r.client.HSet(ctx, r.key(url),
		imageBodyField, img.Body,
		imageContentTypeField, img.ContentType,
	).Err()
	if err != nil {
		return fmt.Errorf("put cached image: %w", err)
	}
	return nil
}
