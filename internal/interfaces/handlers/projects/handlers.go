package projects

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	projectsvc "estatebook-backend/internal/application/projects"
	"estatebook-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 25 * time.Second

// Handlers bundles project handlers with dependencies.
type Handlers struct {
	Service *projectsvc.Service
}

// CreateProject POST /api/v1/projects/create-project
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	project, err := h.Service.CreateProject(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Project created successfully", project, nil)
}

// ListProjects GET /api/v1/projects/list-projects
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	projects, err := h.Service.ListProjects(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Projects fetched successfully", projects, nil)
}

// ViewProject GET /api/v1/projects/view-project/:id
func (h *Handlers) ViewProject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing project id", 400, nil)
	}
	project, err := h.Service.GetProject(c.Context(), id)
	if err != nil {
		if errors.Is(err, projectsvc.ErrProjectNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project fetched successfully", project, nil)
}

// SaveProject PUT /api/v1/projects/save-project/:id — whole-document save.
// Validation failures return 400 and persist nothing.
func (h *Handlers) SaveProject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing project id", 400, nil)
	}

	var in projectsvc.SaveProjectInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid project payload", 400, nil)
	}

	project, err := h.Service.SaveProject(c.Context(), id, in)
	if err != nil {
		var ve *projectsvc.ValidationError
		switch {
		case errors.As(err, &ve):
			return response.Error(c, ve.Msg, 400, nil)
		case errors.Is(err, projectsvc.ErrProjectNotFound):
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Project saved successfully", project, nil)
}

// DeleteProject DELETE /api/v1/projects/delete-project/:id
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Missing project id", 400, nil)
	}
	if err := h.Service.DeleteProject(c.Context(), id); err != nil {
		if errors.Is(err, projectsvc.ErrProjectNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project deleted successfully", fiber.Map{"project_id": id.String()}, nil)
}

// Subscribe GET /api/v1/projects/subscribe — server-sent event stream of
// project change notifications. One event per successful write, shaped as
// projectsvc.ChangeEvent JSON; a comment line every 25s keeps proxies from
// closing the idle connection.
func (h *Handlers) Subscribe(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	// The stream outlives the request handler; it gets its own context.
	ctx, cancel := context.WithCancel(context.Background())
	sub := h.Service.SubscribeChanges(ctx)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer sub.Close()

		ch := sub.Channel()
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", msg.Payload)
				if err := w.Flush(); err != nil {
					log.Debug().Err(err).Msg("subscriber disconnected")
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
