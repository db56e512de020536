package server

import (
	"net/http"
	"testing"

	"plusnine/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserPassword = "Sw0rdfish!Password"

func registerUser(t *testing.T, app *fiber.App, username, email string) {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/Auth/Register", fiber.Map{
		"username":        username,
		"email":           email,
		"password":        testUserPassword,
		"confirmPassword": testUserPassword,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// loginUser logs in and returns the access and refresh token cookie values.
func loginUser(t *testing.T, app *fiber.App, username string) (access, refresh string) {
	t.Helper()
	req := jsonRequest(t, http.MethodPost, "/Auth/Login", fiber.Map{
		"username": username,
		"password": testUserPassword,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	access = cookieValue(resp, middleware.AccessTokenCookie)
	refresh = cookieValue(resp, middleware.RefreshTokenCookie)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

func withAccessCookie(req *http.Request, access string) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: access})
	return req
}

func TestRegisterEndpoint(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("Success", func(t *testing.T) {
		registerUser(t, app, "alice", "alice@example.com")
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/Auth/Register", fiber.Map{
			"username":        "alice",
			"email":           "alice2@example.com",
			"password":        testUserPassword,
			"confirmPassword": testUserPassword,
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/Auth/Register", fiber.Map{
			"username":        "bob",
			"email":           "bob@example.com",
			"password":        "short",
			"confirmPassword": "short",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// An eight-character password with no symbol mix is acceptable; only
	// length is enforced.
	t.Run("MinLengthPassword", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/Auth/Register", fiber.Map{
			"username":        "carol",
			"email":           "carol@example.com",
			"password":        "pw123456",
			"confirmPassword": "pw123456",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		login := jsonRequest(t, http.MethodPost, "/Auth/Login", fiber.Map{
			"username": "carol",
			"password": "pw123456",
		})
		loginResp, err := app.Test(login)
		require.NoError(t, err)
		defer func() { _ = loginResp.Body.Close() }()
		assert.Equal(t, http.StatusOK, loginResp.StatusCode)
	})
}

func TestLoginAndJwtCheck(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice", "alice@example.com")

	t.Run("WrongPassword", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/Auth/Login", fiber.Map{
			"username": "alice",
			"password": "not-the-password",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	access, _ := loginUser(t, app, "alice")

	t.Run("JwtCheckWithCookie", func(t *testing.T) {
		req := withAccessCookie(jsonRequest(t, http.MethodGet, "/Auth/JwtCheck", nil), access)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "alice", body["username"])
	})

	t.Run("JwtCheckWithBearerHeader", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/Auth/JwtCheck", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("JwtCheckUnauthenticated", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/Auth/JwtCheck", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice", "alice@example.com")
	_, refresh := loginUser(t, app, "alice")

	// First refresh succeeds and returns a new pair.
	req := jsonRequest(t, http.MethodGet, "/Auth/RefreshToken", nil)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: refresh})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := cookieValue(resp, middleware.RefreshTokenCookie)
	_ = resp.Body.Close()
	require.NotEmpty(t, rotated)
	require.NotEqual(t, refresh, rotated)

	// Replaying the consumed token is rejected.
	replay := jsonRequest(t, http.MethodGet, "/Auth/RefreshToken", nil)
	replay.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: refresh})
	resp, err = app.Test(replay)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The rotated token still works.
	next := jsonRequest(t, http.MethodGet, "/Auth/RefreshToken", nil)
	next.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: rotated})
	resp, err = app.Test(next)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshTokenMissingCookie(t *testing.T) {
	_, app := newTestServer(t)
	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/Auth/RefreshToken", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRevokeToken(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice", "alice@example.com")
	registerUser(t, app, "bob", "bob@example.com")
	aliceAccess, _ := loginUser(t, app, "alice")
	_, bobRefresh := loginUser(t, app, "bob")

	t.Run("RevokedUserCannotRefresh", func(t *testing.T) {
		req := withAccessCookie(jsonRequest(t, http.MethodDelete, "/Auth/RevokeToken?username=bob", nil), aliceAccess)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		refresh := jsonRequest(t, http.MethodGet, "/Auth/RefreshToken", nil)
		refresh.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: bobRefresh})
		resp2, err := app.Test(refresh)
		require.NoError(t, err)
		defer func() { _ = resp2.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		req := withAccessCookie(jsonRequest(t, http.MethodDelete, "/Auth/RevokeToken?username=nobody", nil), aliceAccess)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("MissingUsername", func(t *testing.T) {
		req := withAccessCookie(jsonRequest(t, http.MethodDelete, "/Auth/RevokeToken", nil), aliceAccess)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	_, app := newTestServer(t)
	registerUser(t, app, "alice", "alice@example.com")
	access, refresh := loginUser(t, app, "alice")

	req := withAccessCookie(jsonRequest(t, http.MethodPost, "/Auth/Logout", nil), access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The stored refresh token was cleared, so refreshing fails.
	refreshReq := jsonRequest(t, http.MethodGet, "/Auth/RefreshToken", nil)
	refreshReq.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: refresh})
	resp2, err := app.Test(refreshReq)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}
