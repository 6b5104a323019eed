package auth

import (
	"context"
	"time"

	"estatebook-backend/internal/middleware"
	"estatebook-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints. There are no accounts and no
// passwords; a visitor becomes a user by asking for an anonymous identity.
type Handlers struct {
	Rdb    *redis.Client
	Config middleware.SessionConfig
}

// Anonymous POST /api/v1/auth/anonymous — issue (or return) an anonymous
// identity bound to the session cookie. Idempotent: calling it with a live
// session returns the same user.
func (h *Handlers) Anonymous(c *fiber.Ctx) error {
	if existing := middleware.GetUser(c); existing != nil {
		return response.Success(c, "Already signed in", fiber.Map{"user": existing}, nil)
	}

	sessionID := middleware.RegenerateSessionID(c)
	user := middleware.SessionUser{
		UserID:    uuid.New().String(),
		Anonymous: true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	middleware.SetSessionUser(c, user)

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+user.UserID, sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	log.Info().Str("user_id", user.UserID).Msg("anonymous sign-in")
	return response.SuccessCreated(c, "Signed in anonymously", fiber.Map{
		"user": fiber.Map{
			"user_id":    user.UserID,
			"anonymous":  true,
			"created_at": user.CreatedAt,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	if sessionUser == nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": sessionUser}, nil)
}

// Logout DELETE /api/v1/auth/logout — drop session tracking, delete the Redis
// session, clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	ctx := context.Background()

	if sessionUser != nil && sessionID != "" {
		if m, ok := sessionUser.(map[string]interface{}); ok {
			if userID, _ := m["user_id"].(string); userID != "" {
				_ = h.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err()
			}
		}
	}

	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
