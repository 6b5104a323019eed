package auth

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"estatebook-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthHandlers(t *testing.T) (*Handlers, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Handlers{
		Rdb: rdb,
		Config: middleware.SessionConfig{
			AllowCrossSiteDev: false,
			IsProduction:      false,
		},
	}, rdb
}

// TestAnonymous_IssuesIdentity returns 201, a session cookie, and an anonymous user.
func TestAnonymous_IssuesIdentity(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/api/v1/auth/anonymous", h.Anonymous)

	req := httptest.NewRequest("POST", "/api/v1/auth/anonymous", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	cookies := resp.Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookieName {
			found = true
			assert.NotEmpty(t, ck.Value)
		}
	}
	assert.True(t, found, "session cookie not set")

	var body struct {
		Data struct {
			User struct {
				UserID    string `json:"user_id"`
				Anonymous bool   `json:"anonymous"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Data.User.UserID)
	assert.True(t, body.Data.User.Anonymous)
}

// TestAnonymous_IdempotentWithSession returns the existing user instead of
// minting a new one.
func TestAnonymous_IdempotentWithSession(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": "existing-user", "anonymous": true})
		return c.Next()
	})
	app.Post("/api/v1/auth/anonymous", h.Anonymous)

	req := httptest.NewRequest("POST", "/api/v1/auth/anonymous", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			User map[string]interface{} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "existing-user", body.Data.User["user_id"])
}

// TestMe_NotAuthenticated returns 401 with no session user.
func TestMe_NotAuthenticated(t *testing.T) {
	h, _ := setupAuthHandlers(t)
	app := fiber.New()
	app.Get("/api/v1/auth/me", h.Me)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// TestLogout_DropsSessionTracking removes the user_sessions member and the
// session key.
func TestLogout_DropsSessionTracking(t *testing.T) {
	h, rdb := setupAuthHandlers(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session_id", "sess-1")
		c.Locals("user", map[string]interface{}{"user_id": "user-1", "anonymous": true})
		return c.Next()
	})
	app.Delete("/api/v1/auth/logout", h.Logout)

	ctx := context.Background()
	require.NoError(t, rdb.SAdd(ctx, "user_sessions:user-1", "sess-1").Err())
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+"sess-1", "{}", 0).Err())

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	members, err := rdb.SMembers(ctx, "user_sessions:user-1").Result()
	require.NoError(t, err)
	assert.Empty(t, members)
	exists, err := rdb.Exists(ctx, middleware.SessionRedisPrefix+"sess-1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}
