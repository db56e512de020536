package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- humanizeParam (pure function, no HTTP) ---

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"requestId", "request ID"},
		{"objectiveId", "objective ID"},
		{"friendId", "friend ID"},
		{"something", "something"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

// --- parseID ---

func TestParseID_ValidID(t *testing.T) {
	app := fiber.New()
	s := &Server{}
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseID_InvalidNonNumeric(t *testing.T) {
	app := fiber.New()
	s := &Server{}
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		_, _ = s.parseID(c, "id")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/items/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "Invalid ID")
}

func TestParseID_ContextSpecificErrorMessage(t *testing.T) {
	tests := []struct {
		param       string
		expectedMsg string
	}{
		{"id", "Invalid ID"},
		{"requestId", "Invalid request ID"},
		{"objectiveId", "Invalid objective ID"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			app := fiber.New()
			s := &Server{}
			app.Get("/items/:"+tt.param, func(c *fiber.Ctx) error {
				_, _ = s.parseID(c, tt.param)
				return nil
			})

			req := httptest.NewRequest(http.MethodGet, "/items/abc", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedMsg, body["error"])
		})
	}
}

// --- parseQueryID ---

func TestParseQueryID(t *testing.T) {
	app := fiber.New()
	s := &Server{}
	app.Get("/view", func(c *fiber.Ctx) error {
		id, err := s.parseQueryID(c, "friendId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/view?friendId=9", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/view", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Invalid friend ID", body["error"])
	})
}

// --- PremiumRequired middleware ---

func TestPremiumRequired(t *testing.T) {
	s, _ := newTestServer(t)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return c.Next()
	})
	app.Get("/premium", s.PremiumRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	seedUser(t, s, "alice", "alice@example.com")

	t.Run("RejectsMember", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/premium", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Premium access required", body["error"])
	})

	t.Run("AllowsPremium", func(t *testing.T) {
		require.NoError(t, s.db.Exec("UPDATE users SET role = 'premium' WHERE id = 1").Error)

		req := httptest.NewRequest(http.MethodGet, "/premium", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
