package api

import (
	"context"
	"errors"
	"strings"

	domain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/account"
	"github.com/example/todo-app/modules/session"
	"github.com/gofiber/fiber/v2"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"
)

// SessionStore is the subset of the session store the middleware needs.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthMiddleware authenticates requests with a Bearer access token or,
// failing that, the session cookie. Unauthenticated requests are rejected
// before any data access.
func AuthMiddleware(accountAdapter account.AccountPort, sessions SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				return unauthorized(c, "Token is required")
			}

			claims, err := accountAdapter.ValidateToken(c.UserContext(), token)
			if err != nil {
				return tokenRejection(c, err)
			}

			c.Locals(UserContextKey, claims)
			return c.Next()
		}

		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return unauthorized(c, "Authentication required")
		}

		userID, err := sessions.Get(c.UserContext(), sessionID)
		if err != nil {
			return unauthorized(c, "Invalid or expired session")
		}

		user, err := accountAdapter.GetUser(c.UserContext(), userID)
		if err != nil {
			return unauthorized(c, "Invalid or expired session")
		}
		if user.Banned {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   account.ErrCodeUserBanned,
				Message: "Account is banned",
			})
		}

		c.Locals(UserContextKey, &domain.Claims{
			UserID:   user.ID,
			Username: user.Username,
			Admin:    user.Admin,
		})
		return c.Next()
	}
}

// AdminMiddleware requires an authenticated admin. Must run after
// AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(UserContextKey).(*domain.Claims)
		if !ok {
			return unauthorized(c, "Authentication required")
		}
		if !claims.Admin {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Error:   "forbidden",
				Message: "Administrator access required",
			})
		}
		return c.Next()
	}
}

// tokenRejection maps token validation errors to responses, keeping the
// distinguishable error kinds distinguishable for API consumers.
func tokenRejection(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, account.ErrUserBanned):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   account.ErrCodeUserBanned,
			Message: "Account is banned",
		})
	case errors.Is(err, account.ErrInvalidTokenScope):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   account.ErrCodeInvalidTokenScope,
			Message: "Token does not grant access to this operation",
		})
	default:
		return unauthorized(c, "Invalid or expired token")
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
