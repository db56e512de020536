package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plusnine/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func setupIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	issuer, err := auth.NewIssuer(testSecret, time.Hour, 7*24*time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	issuer := setupIssuer(t)

	app.Get("/test", AuthRequired(issuer), func(c *fiber.Ctx) error {
		userID := c.Locals("userID")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": userID})
	})

	validToken, err := issuer.IssueAccessToken(123, "alice")
	require.NoError(t, err)

	// Build an expired token by issuing with a tiny TTL and waiting it out.
	shortIssuer, err := auth.NewIssuer(testSecret, time.Millisecond, time.Hour)
	require.NoError(t, err)
	expiredToken, err := shortIssuer.IssueAccessToken(123, "alice")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	tests := []struct {
		name           string
		cookie         string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{
			name:           "Cookie Happy Path",
			cookie:         validToken,
			expectedStatus: http.StatusOK,
			expectedUserID: 123,
		},
		{
			name:           "Bearer Fallback",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUserID: 123,
		},
		{
			name:           "Missing Credentials",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Header Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			cookie:         "malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			cookie:         expiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
					assert.Equal(t, float64(tt.expectedUserID), body["userID"])
				}
			}
		})
	}
}

func TestWebSocketAuthRequired(t *testing.T) {
	app := fiber.New()
	issuer := setupIssuer(t)

	app.Get("/ws-test", WebSocketAuthRequired(issuer), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	validToken, err := issuer.IssueAccessToken(1, "alice")
	require.NoError(t, err)

	tests := []struct {
		name           string
		cookie         string
		tokenParam     string
		expectedStatus int
	}{
		{
			name:           "Token via Cookie",
			cookie:         validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Token via Query Param",
			tokenParam:     validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Token",
			tokenParam:     "invalid-token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/ws-test"
			if tt.tokenParam != "" {
				path += "?token=" + tt.tokenParam
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
