package repository

import (
	"context"
	"errors"
	"sync"
)

// PhotoCacheKey namespaces cached image entries.
const PhotoCacheKey = "staff-photos-cache"

// ErrImageNotCached is returned when no bytes are stored for a URL.
var ErrImageNotCached = errors.New("image not cached")

// CachedImage is the stored copy of a resolved photo.
type CachedImage struct {
	Body        []byte
	ContentType string
}

// ImageRepository caches image bytes keyed by resolved URL.
type ImageRepository interface {
	Has(ctx context.Context, url string) (bool, error)
	Get(ctx context.Context, url string) (*CachedImage, error)
	Put(ctx context.Context, url string, img CachedImage) error
}

type memoryImageRepository struct {
	mu     sync.RWMutex
	images map[string]CachedImage
}

// NewMemoryImageRepository keeps cached images in process memory.
func NewMemoryImageRepository() ImageRepository {
	return &memoryImageRepository{images: make(map[string]CachedImage)}
}

func (r *memoryImageRepository) Has(_ context.Context, url string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.images[url]
	return ok, nil
}

func (r *memoryImageRepository) Get(_ context.Context, url string) (*CachedImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.images[url]
	if !ok {
		return nil, ErrImageNotCached
	}
	img.Body = append([]byte(nil), img.Body...)
	return &img, nil
}

func (r *memoryImageRepository) Put(_ context.Context, url string, img CachedImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img.Body = append([]byte(nil), img.Body...)
	r.images[url] = img
	return nil
}
