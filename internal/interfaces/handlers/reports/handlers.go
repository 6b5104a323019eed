package reports

import (
	"errors"

	projectsvc "estatebook-backend/internal/application/projects"
	reportsvc "estatebook-backend/internal/application/reports"
	"estatebook-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles report handlers with dependencies.
type Handlers struct {
	Service *reportsvc.Service
}

// SummaryRequest body: which projects to roll up. An empty selection rolls up
// nothing, mirroring the unchecked state of the project picker.
type SummaryRequest struct {
	ProjectIDs []string `json:"project_ids"`
}

// Summary POST /api/v1/reports/summary — cross-project financial rollup.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	var req SummaryRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.Error(c, "Invalid summary request", 400, nil)
		}
	}
	summary, err := h.Service.Summary(c.Context(), req.ProjectIDs)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Summary computed successfully", summary, nil)
}

// ExportProject GET /api/v1/reports/export-project/:id — CSV download of the
// full project report.
func (h *Handlers) ExportProject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing project id", 400, nil)
	}
	data, filename, err := h.Service.ExportProjectCSV(c.Context(), id)
	if err != nil {
		if errors.Is(err, projectsvc.ErrProjectNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
