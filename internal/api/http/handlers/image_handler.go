package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/repository"
	apperrors "github.com/spec-kit/staff-directory/pkg/util"
)

// imageCSP stops cached bytes from acting as a document on this origin.
const imageCSP = "default-src 'none'; style-src 'unsafe-inline'; sandbox"

// ImageHandler serves photos from the image cache.
type ImageHandler struct {
	images repository.ImageRepository
}

// NewImageHandler constructs handler. A nil repository answers 404 for
// every image.
func NewImageHandler(images repository.ImageRepository) *ImageHandler {
	return &ImageHandler{images: images}
}

// Get handles GET /images?url=.
func (h *ImageHandler) Get(c *fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return apperrors.NewValidationError("url required", nil)
	}
	if h.images == nil {
		return apperrors.NewNotFound("cached image", map[string]any{"url": url})
	}

	img, err := h.images.Get(c.UserContext(), url)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotCached) {
			return apperrors.NewNotFound("cached image", map[string]any{"url": url})
		}
		return apperrors.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=600")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderContentSecurityPolicy, imageCSP)
	return c.Send(img.Body)
}
