package api

import (
	"github.com/example/todo-app/modules/todo"
	"github.com/gofiber/fiber/v2"
)

// SearchTodoLists handles GET /api/admin/todo-lists/?search=. Matches list
// name or owner username.
func (h *Handlers) SearchTodoLists(c *fiber.Ctx) error {
	req := todo.SearchListsRequest{Query: c.Query("search")}
	var resp todo.SearchListsResponse

	if err := h.callTodo(c, "search-lists", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(resp)
}

// SearchTasks handles GET /api/admin/tasks/?search=. Matches task name, list
// name or the list owner's username.
func (h *Handlers) SearchTasks(c *fiber.Ctx) error {
	req := todo.SearchTasksRequest{Query: c.Query("search")}
	var resp todo.SearchTasksResponse

	if err := h.callTodo(c, "search-tasks", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(resp)
}

// MarkComplete handles POST /api/admin/tasks/mark-complete. Sets
// completed=true on exactly the selected tasks and reports the count with a
// pluralized operator message.
func (h *Handlers) MarkComplete(c *fiber.Ctx) error {
	return h.bulkAction(c, "mark-complete")
}

// MarkIncomplete handles POST /api/admin/tasks/mark-incomplete.
func (h *Handlers) MarkIncomplete(c *fiber.Ctx) error {
	return h.bulkAction(c, "mark-incomplete")
}

func (h *Handlers) bulkAction(c *fiber.Ctx, service string) error {
	var body BulkActionRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(body.IDs) == 0 {
		return badRequest(c, "At least one task id is required")
	}

	req := todo.BulkActionRequest{IDs: body.IDs}
	var resp todo.BulkActionResponse

	if err := h.callTodo(c, service, &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(BulkActionResponse{
		Count:   resp.Count,
		Message: resp.Message,
	})
}
