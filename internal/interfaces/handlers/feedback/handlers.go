package feedback

import (
	"errors"

	feedbacksvc "estatebook-backend/internal/application/feedback"
	"estatebook-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles feedback handlers with dependencies.
type Handlers struct {
	Service *feedbacksvc.Service
}

// CreateRequest body for create-feedback.
type CreateRequest struct {
	Content string `json:"content"`
}

// CreateFeedback POST /api/v1/feedback/create-feedback
func (h *Handlers) CreateFeedback(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Feedback content is required", 400, nil)
	}
	fb, err := h.Service.CreateFeedback(c.Context(), req.Content)
	if err != nil {
		if errors.Is(err, feedbacksvc.ErrContentRequired) {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Feedback created successfully", fb, nil)
}

// ListFeedbacks GET /api/v1/feedback/list-feedbacks
func (h *Handlers) ListFeedbacks(c *fiber.Ctx) error {
	items, err := h.Service.ListFeedbacks(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Feedbacks fetched successfully", items, nil)
}

// DeleteFeedback DELETE /api/v1/feedback/delete-feedback/:id
func (h *Handlers) DeleteFeedback(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing feedback id", 400, nil)
	}
	if err := h.Service.DeleteFeedback(c.Context(), id); err != nil {
		if errors.Is(err, feedbacksvc.ErrFeedbackNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Feedback deleted successfully", fiber.Map{"feedback_id": id.String()}, nil)
}
