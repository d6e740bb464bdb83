package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/repository"
)

// ImageResolver validates photo URLs and hands out placeholder images in a
// fixed round-robin order when a photo is missing or unusable.
type ImageResolver struct {
	pool     []string
	client   *http.Client
	timeout  time.Duration
	images   repository.ImageRepository
	maxBytes int64
	logger   *zap.Logger

	mu     sync.Mutex
	cursor int
}

// ImageResolverDependencies bundles collaborators for the resolver.
type ImageResolverDependencies struct {
	HTTPClient *http.Client
	// Images may be nil, which disables cache warming.
	Images repository.ImageRepository
	Logger *zap.Logger
}

// NewImageResolver constructs the resolver. Construct one per process and
// share it, so the fallback cursor keeps advancing across loads.
func NewImageResolver(cfg config.DirectoryConfig, deps ImageResolverDependencies) *ImageResolver {
	client := deps.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	images := deps.Images
	if !cfg.WarmImageCache {
		images = nil
	}
	pool := cfg.FallbackImages
	if len(pool) == 0 {
		pool = config.DefaultFallbackImages
	}
	return &ImageResolver{
		pool:     append([]string(nil), pool...),
		client:   client,
		timeout:  cfg.ImageCheckTimeout,
		images:   images,
		maxBytes: cfg.MaxCachedImageBytes,
		logger:   logger,
	}
}

// NextFallback returns the next placeholder and advances the cursor.
func (r *ImageResolver) NextFallback() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	image := r.pool[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.pool)
	return image
}

// Resolve returns a loadable image URL for candidate: the final URL after
// redirects when it serves an image, otherwise the next placeholder.
func (r *ImageResolver) Resolve(ctx context.Context, candidate string) string {
	if strings.TrimSpace(candidate) == "" {
		return r.NextFallback()
	}

	finalURL, ok := r.check(ctx, candidate)
	if !ok {
		return r.NextFallback()
	}

	r.warm(ctx, finalURL)
	return finalURL
}

// ResolveRecord returns a copy of rec with its photo resolved.
func (r *ImageResolver) ResolveRecord(ctx context.Context, rec domain.StaffRecord) domain.StaffRecord {
	return rec.WithPhotoURL(r.Resolve(ctx, rec.PhotoURL))
}

func (r *ImageResolver) check(ctx context.Context, candidate string) (string, bool) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, candidate, nil)
	if err != nil {
		r.logger.Debug("invalid photo url", zap.String("url", candidate), zap.Error(err))
		return "", false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("photo check failed", zap.String("url", candidate), zap.Error(err))
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Debug("photo check rejected", zap.String("url", candidate), zap.Int("status", resp.StatusCode))
		return "", false
	}
	if !isImageType(resp.Header.Get("Content-Type")) {
		r.logger.Debug("photo is not an image", zap.String("url", candidate), zap.String("content_type", resp.Header.Get("Content-Type")))
		return "", false
	}
	return resp.Request.URL.String(), true
}

// warm stores the image bytes under url unless they are already cached.
// Failures are logged and otherwise ignored.
func (r *ImageResolver) warm(ctx context.Context, url string) {
	if r.images == nil {
		return
	}

	cached, err := r.images.Has(ctx, url)
	if err != nil {
		r.logger.Debug("image cache lookup failed", zap.String("url", url), zap.Error(err))
		return
	}
	if cached {
		return
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("image download failed", zap.String("url", url), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return
	}

	limit := r.maxBytes
	if limit <= 0 {
		limit = 5 * 1024 * 1024
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil || int64(len(body)) > limit {
		r.logger.Debug("image not cached", zap.String("url", url), zap.Int("bytes", len(body)), zap.Error(err))
		return
	}

	detected := mimetype.Detect(body)
	if !isCacheableImage(detected.String()) {
		r.logger.Debug("image body not recognized", zap.String("url", url), zap.String("detected", detected.String()))
		return
	}
	contentType := resp.Header.Get("Content-Type")
	if !isCacheableImage(contentType) {
		contentType = detected.String()
	}

	if err := r.images.Put(ctx, url, repository.CachedImage{Body: body, ContentType: contentType}); err != nil {
		r.logger.Debug("image cache store failed", zap.String("url", url), zap.Error(err))
	}
}

func (r *ImageResolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func isImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// isCacheableImage admits raster images only. Cached bytes are served from
// this service's origin, where SVG could run script.
func isCacheableImage(contentType string) bool {
	if !isImageType(contentType) {
		return false
	}
	mediaType, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), ";")
	return strings.TrimSpace(mediaType) != "image/svg+xml"
}
