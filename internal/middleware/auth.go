// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"errors"
	"strings"

	"plusnine/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie is the cookie carrying the access token JWT.
const AccessTokenCookie = "X-Access-Token"

// RefreshTokenCookie is the cookie carrying the opaque refresh token.
const RefreshTokenCookie = "X-Refresh-Token"

// extractAccessToken reads the access token from the session cookie, falling
// back to a Bearer Authorization header for non-browser clients.
func extractAccessToken(c *fiber.Ctx) string {
	if token := c.Cookies(AccessTokenCookie); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthRequired returns a middleware that enforces authentication for
// protected routes. The issuer is injected here rather than held in a
// package-level variable.
func AuthRequired(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := issuer.ParseAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Token expired",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		// Store identity in context for handlers and logging
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// WebSocketAuthRequired returns a middleware validating the access token for
// WebSocket upgrade requests. Browsers cannot set headers on WebSocket
// handshakes, so the session cookie is the primary carrier; a query parameter
// is accepted for non-browser clients.
func WebSocketAuthRequired(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := extractAccessToken(c)
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := issuer.ParseAccessToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}
