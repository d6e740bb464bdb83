package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/dto"
	"github.com/spec-kit/staff-directory/internal/auth"
	"github.com/spec-kit/staff-directory/internal/domain"
	"github.com/spec-kit/staff-directory/internal/observability"
	"github.com/spec-kit/staff-directory/internal/service"
	apperrors "github.com/spec-kit/staff-directory/pkg/util"
)

// DirectoryHandler exposes the loaded directory and its load state.
type DirectoryHandler struct {
	directory *service.DirectoryService
	store     *service.PresentationStore
	metrics   *observability.Metrics
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService, store *service.PresentationStore, metrics *observability.Metrics) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, store: store, metrics: metrics}
}

// Status handles GET /directory/status.
func (h *DirectoryHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": statusResponse(h.directory.Status()),
		"meta": fiber.Map{"metrics": h.metrics.Snapshot()},
	})
}

// statusClientClosedRequest reports a caller that went away mid-request.
const statusClientClosedRequest = 499

// Reload handles POST /directory/reload. A caller that stops waiting does
// not stop the cycle, so that case is not reported as a load failure.
func (h *DirectoryHandler) Reload(c *fiber.Ctx) error {
	if err := h.directory.Reload(c.UserContext()); err != nil {
		switch {
		case errors.Is(err, service.ErrDirectoryUnavailable):
			return apperrors.NewServiceUnavailable(service.LoadFailureMessage, err)
		case errors.Is(err, context.DeadlineExceeded):
			return apperrors.NewDomainError("RELOAD_PENDING", "directory reload still running", fiber.StatusGatewayTimeout, nil)
		case errors.Is(err, context.Canceled):
			return apperrors.NewDomainError("REQUEST_CANCELED", "request canceled; directory reload continues", statusClientClosedRequest, nil)
		default:
			return apperrors.NewServiceUnavailable(service.LoadFailureMessage, err)
		}
	}

	body := fiber.Map{"data": statusResponse(h.directory.Status())}
	if claims, ok := auth.ClaimsFromContext(c); ok {
		body["meta"] = fiber.Map{"requestedBy": claims.Subject}
	}
	return c.JSON(body)
}

// ListRecords handles GET /directory/records. Any of the search, sort,
// direction or department query parameters switches from the stored view
// to a view derived from the query alone.
func (h *DirectoryHandler) ListRecords(c *fiber.Ctx) error {
	args := c.Context().QueryArgs()
	if !args.Has("search") && !args.Has("sort") && !args.Has("direction") && !args.Has("department") {
		return h.listResponse(c, h.store.VisibleRecords())
	}

	query := domain.DefaultViewQuery()
	query.SearchTerm = c.Query("search")
	query.DepartmentFilter = c.Query("department")
	if raw := c.Query("sort"); raw != "" {
		field, ok := domain.ParseSortField(raw)
		if !ok {
			return apperrors.NewValidationError("invalid sort field", map[string]any{"sort": raw})
		}
		query.SortField = field
	}
	if raw := c.Query("direction"); raw != "" {
		direction, ok := domain.ParseSortDirection(raw)
		if !ok {
			return apperrors.NewValidationError("invalid sort direction", map[string]any{"direction": raw})
		}
		query.SortDirection = direction
	}
	return h.listResponse(c, h.store.Derive(query))
}

func (h *DirectoryHandler) listResponse(c *fiber.Ctx, records []domain.StaffRecord) error {
	return c.JSON(fiber.Map{
		"data": recordsResponse(records),
		"meta": fiber.Map{"total": h.store.RecordCount(), "visible": len(records)},
	})
}

// GetRecord handles GET /directory/records/:id.
func (h *DirectoryHandler) GetRecord(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, ok := h.store.Record(id)
	if !ok {
		return apperrors.NewNotFound("staff record", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": recordResponse(rec)})
}

// ListDepartments handles GET /directory/departments.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	depts := h.store.Departments()
	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		resp = append(resp, dto.DepartmentResponse{Name: d.Name, StaffCount: d.StaffCount})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func statusResponse(status domain.DirectoryStatus) dto.StatusResponse {
	return dto.StatusResponse{
		IsLoading:    status.IsLoading,
		ErrorMessage: status.ErrorMessage,
		LastLoadedAt: status.LastLoadedAt,
		LastOrigin:   string(status.LastOrigin),
		RecordCount:  status.RecordCount,
	}
}

func recordResponse(rec domain.StaffRecord) dto.StaffRecordResponse {
	return dto.StaffRecordResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Position:    rec.Position,
		Department:  rec.Department,
		PhotoURL:    rec.PhotoURL,
		Bio:         rec.Bio,
		OfficeHours: rec.OfficeHours,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Location:    rec.Location,
	}
}

func recordsResponse(records []domain.StaffRecord) []dto.StaffRecordResponse {
	resp := make([]dto.StaffRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, recordResponse(rec))
	}
	return resp
}
