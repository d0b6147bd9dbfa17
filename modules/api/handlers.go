package api

import (
	"log"
	"strings"

	domain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/account"
	"github.com/example/todo-app/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	accountContainer mono.ServiceContainer
	todoContainer    mono.ServiceContainer
	accountAdapter   account.AccountPort
	sessions         SessionStore
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(accountContainer, todoContainer mono.ServiceContainer, accountAdapter account.AccountPort, sessions SessionStore) *Handlers {
	return &Handlers{
		accountContainer: accountContainer,
		todoContainer:    todoContainer,
		accountAdapter:   accountAdapter,
		sessions:         sessions,
	}
}

// claims returns the authenticated identity set by AuthMiddleware.
func (h *Handlers) claims(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

// wantsRedirect reports whether the client submitted a browser form, in
// which case success responses redirect to the index instead of rendering
// JSON.
func wantsRedirect(c *fiber.Ctx) bool {
	contentType := c.Get("Content-Type")
	return strings.HasPrefix(contentType, fiber.MIMEApplicationForm) ||
		strings.HasPrefix(contentType, fiber.MIMEMultipartForm)
}

// Resource URL builders. Representations are hyperlinked: every resource
// carries its own absolute URL.

func listURL(c *fiber.Ctx, id string) string {
	return c.BaseURL() + "/api/todo-lists/" + id + "/"
}

func taskURL(c *fiber.Ctx, id string) string {
	return c.BaseURL() + "/api/tasks/" + id + "/"
}

func userURL(c *fiber.Ctx, id string) string {
	return c.BaseURL() + "/api/users/" + id + "/"
}

func toListResource(c *fiber.Ctx, list todo.ListResponse) TodoListResource {
	return TodoListResource{
		URL:  listURL(c, list.ID),
		ID:   list.ID,
		Name: list.Name,
	}
}

func toTaskResource(c *fiber.Ctx, task todo.TaskResponse) TaskResource {
	return TaskResource{
		URL:       taskURL(c, task.ID),
		ID:        task.ID,
		Name:      task.Name,
		DueDate:   task.DueDate,
		Completed: task.Completed,
		List:      listURL(c, task.ListID),
	}
}

// handleAccountError maps account service errors to responses. Errors arrive
// across the service bus as strings, so matching is on known messages.
func (h *Handlers) handleAccountError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "passwords must match"):
		return badRequest(c, "The passwords must match.")
	case strings.Contains(errStr, "password must be at least"):
		return badRequest(c, "Passwords must be at least 8 characters long.")
	case strings.Contains(errStr, "password must be at most"):
		return badRequest(c, "Passwords must be at most 72 characters long.")
	case strings.Contains(errStr, "invalid email format"):
		return badRequest(c, "Invalid email format.")
	case strings.Contains(errStr, "username is required"):
		return badRequest(c, "Username is required.")
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this username already exists.",
		})
	case strings.Contains(errStr, "invalid user credentials"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid user credentials.",
		})
	case strings.Contains(errStr, "user is banned"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   account.ErrCodeUserBanned,
			Message: "Account is banned.",
		})
	case strings.Contains(errStr, "invalid scope for this operation"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   account.ErrCodeInvalidTokenScope,
			Message: "Token does not grant access to this operation.",
		})
	case strings.Contains(errStr, "token has expired"):
		return badRequestWithCode(c, account.ErrCodeTokenExpired, "Verification token has expired.")
	case strings.Contains(errStr, "invalid token"):
		return badRequestWithCode(c, account.ErrCodeInvalidToken, "Invalid verification token.")
	case strings.Contains(errStr, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   account.ErrCodeUserNotFound,
			Message: "User not found.",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c)
	}
}

// handleTodoError maps todo service errors to responses.
func (h *Handlers) handleTodoError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "todo list not found"):
		return notFound(c, "Todo list not found.")
	case strings.Contains(errStr, "task not found"):
		return notFound(c, "Task not found.")
	case strings.Contains(errStr, "name is required"),
		strings.Contains(errStr, "name is too long"),
		strings.Contains(errStr, "owner_id is required"),
		strings.Contains(errStr, "due_date must be"):
		return badRequest(c, errStr)
	default:
		log.Printf("[api] Internal error: %v", err)
		return internalError(c)
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return badRequestWithCode(c, "bad_request", message)
}

func badRequestWithCode(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
