package server

import (
	"time"

	"plusnine/internal/middleware"
	"plusnine/internal/models"
	"plusnine/internal/service"

	"github.com/gofiber/fiber/v2"
)

// setSessionCookies writes the access and refresh tokens as secure cookies.
// SameSite=None is required because the browser client runs on a different
// origin than the API.
func (s *Server) setSessionCookies(c *fiber.Ctx, session *service.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    session.AccessToken,
		Expires:  time.Now().Add(s.authService.AccessTTL()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Domain:   s.config.CookieDomain,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    session.RefreshToken.Token,
		Expires:  session.RefreshToken.Expires,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Domain:   s.config.CookieDomain,
		Path:     "/",
	})
}

// clearSessionCookies expires both session cookies.
func (s *Server) clearSessionCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteNoneMode,
			Domain:   s.config.CookieDomain,
			Path:     "/",
		})
	}
}

// Register handles POST /Auth/Register
// @Summary User registration
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,confirmPassword=string} true "Registration request"
// @Success 200 {object} object{user=models.PublicUser}
// @Failure 400 {object} models.ErrorResponse
// @Router /Auth/Register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user.Public(),
	})
}

// Login handles POST /Auth/Login
// @Summary User login
// @Description Authenticate and receive session cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{user=models.PublicUser}
// @Failure 401 {object} models.ErrorResponse
// @Router /Auth/Login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.setSessionCookies(c, session)
	return c.JSON(fiber.Map{
		"user": session.User.Public(),
	})
}

// RefreshToken handles GET /Auth/RefreshToken
// @Summary Refresh session
// @Description Exchange the refresh token cookie for a new token pair
// @Tags auth
// @Produce json
// @Success 200 {object} object{user=models.PublicUser}
// @Failure 401 {object} models.ErrorResponse
// @Router /Auth/RefreshToken [get]
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	presented := c.Cookies(middleware.RefreshTokenCookie)
	if presented == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Refresh token required"))
	}

	session, err := s.authService.Refresh(c.Context(), presented)
	if err != nil {
		s.clearSessionCookies(c)
		return respondServiceError(c, err)
	}

	s.setSessionCookies(c, session)
	return c.JSON(fiber.Map{
		"user": session.User.Public(),
	})
}

// JwtCheck handles GET /Auth/JwtCheck
// @Summary Validate session
// @Description Report the identity of the current access token
// @Tags auth
// @Produce json
// @Success 200 {object} object{id=integer,username=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /Auth/JwtCheck [get]
func (s *Server) JwtCheck(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Locals("username").(string)

	return c.JSON(fiber.Map{
		"id":       userID,
		"username": username,
	})
}

// RevokeToken handles DELETE /Auth/RevokeToken?username=
// @Summary Revoke a user's refresh token
// @Description Clear the stored refresh token for the named user
// @Tags auth
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /Auth/RevokeToken [delete]
func (s *Server) RevokeToken(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	if err := s.authService.Revoke(c.Context(), username); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Refresh token revoked"})
}

// Logout handles POST /Auth/Logout
// @Summary Logout
// @Description Clear the session cookies and stored refresh token
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /Auth/Logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.authService.Logout(c.Context(), userID); err != nil {
		return respondServiceError(c, err)
	}

	s.clearSessionCookies(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
