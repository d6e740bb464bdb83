package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/dto"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/service"
	apperrors "github.com/spec-kit/staff-directory/pkg/util"
)

// ViewHandler exposes the presentation view state and its actions. Every
// action responds with the resulting view.
type ViewHandler struct {
	store *service.PresentationStore
}

// NewViewHandler constructs handler.
func NewViewHandler(store *service.PresentationStore) *ViewHandler {
	return &ViewHandler{store: store}
}

// Get handles GET /directory/view.
func (h *ViewHandler) Get(c *fiber.Ctx) error {
	return h.respond(c)
}

// SetSearch handles PUT /directory/view/search.
func (h *ViewHandler) SetSearch(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	h.store.SetSearchTerm(req.Value)
	return h.respond(c)
}

// SetSort handles POST /directory/view/sort.
func (h *ViewHandler) SetSort(c *fiber.Ctx) error {
	var req dto.SortRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	field, ok := domain.ParseSortField(req.Field)
	if !ok {
		return apperrors.NewValidationError("invalid sort field", map[string]any{"field": req.Field})
	}
	if err := h.store.SetSort(field); err != nil {
		return err
	}
	return h.respond(c)
}

// SetDepartment handles PUT /directory/view/department.
func (h *ViewHandler) SetDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	h.store.SetDepartmentFilter(req.Value)
	return h.respond(c)
}

// Reset handles POST /directory/view/reset.
func (h *ViewHandler) Reset(c *fiber.Ctx) error {
	h.store.Reset()
	return h.respond(c)
}

// Select handles PUT /directory/view/selection.
func (h *ViewHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}
	if err := h.store.Select(req.ID); err != nil {
		return err
	}
	return h.respond(c)
}

// ClearSelection handles DELETE /directory/view/selection.
func (h *ViewHandler) ClearSelection(c *fiber.Ctx) error {
	h.store.ClearSelection()
	return h.respond(c)
}

func (h *ViewHandler) respond(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	state := snap.State
	data := fiber.Map{
		"view": dto.ViewStateResponse{
			SearchTerm:       state.SearchTerm,
			SortField:        string(state.SortField),
			SortDirection:    string(state.SortDirection),
			DepartmentFilter: state.DepartmentFilter,
			SelectedID:       state.SelectedID,
		},
		"records": recordsResponse(snap.Visible),
	}
	if snap.Selected != nil {
		data["selected"] = recordResponse(*snap.Selected)
	}
	return c.JSON(fiber.Map{"data": data})
}
