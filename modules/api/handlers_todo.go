package api

import (
	"encoding/json"

	"github.com/example/todo-app/modules/todo"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// ListTodoLists handles GET /api/todo-lists/. Results are owner-scoped and
// ordered by name.
func (h *Handlers) ListTodoLists(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	req := todo.ListListsRequest{OwnerID: claims.UserID}
	var resp todo.ListListsResponse

	if err := h.callTodo(c, "list-lists", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	resources := make([]TodoListResource, 0, len(resp.Lists))
	for _, list := range resp.Lists {
		resources = append(resources, toListResource(c, list))
	}
	return c.JSON(resources)
}

// CreateTodoList handles POST /api/todo-lists/. The owner is stamped from the
// authenticated session, never from the request body.
func (h *Handlers) CreateTodoList(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	var body TodoListWriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := todo.CreateListRequest{OwnerID: claims.UserID, Name: body.Name}
	var resp todo.ListResponse

	if err := h.callTodo(c, "create-list", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toListResource(c, resp))
}

// GetTodoList handles GET /api/todo-lists/:id/.
func (h *Handlers) GetTodoList(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	req := todo.GetListRequest{OwnerID: claims.UserID, ID: c.Params("id")}
	var resp todo.ListResponse

	if err := h.callTodo(c, "get-list", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(toListResource(c, resp))
}

// UpdateTodoList handles PUT and PATCH /api/todo-lists/:id/.
func (h *Handlers) UpdateTodoList(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	var body TodoListWriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	req := todo.UpdateListRequest{OwnerID: claims.UserID, ID: c.Params("id"), Name: body.Name}
	var resp todo.ListResponse

	if err := h.callTodo(c, "update-list", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(toListResource(c, resp))
}

// DeleteTodoList handles DELETE /api/todo-lists/:id/. Deleting a list also
// deletes its tasks.
func (h *Handlers) DeleteTodoList(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	req := todo.DeleteListRequest{OwnerID: claims.UserID, ID: c.Params("id")}
	var resp todo.DeleteListResponse

	if err := h.callTodo(c, "delete-list", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListTasks handles GET /api/tasks/. Results are owner-scoped through the
// owning list and ordered by name; an optional ?list= filter narrows to one
// list.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	req := todo.ListTasksRequest{OwnerID: claims.UserID, ListID: c.Query("list")}
	var resp todo.ListTasksResponse

	if err := h.callTodo(c, "list-tasks", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	resources := make([]TaskResource, 0, len(resp.Tasks))
	for _, task := range resp.Tasks {
		resources = append(resources, toTaskResource(c, task))
	}
	return c.JSON(resources)
}

// CreateTask handles POST /api/tasks/. The referenced list must belong to the
// caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	var body TaskWriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Name == nil || body.DueDate == nil || body.List == nil {
		return badRequest(c, "Name, due_date and list are required")
	}

	req := todo.CreateTaskRequest{
		OwnerID: claims.UserID,
		ListID:  *body.List,
		Name:    *body.Name,
		DueDate: *body.DueDate,
	}
	if body.Completed != nil {
		req.Completed = *body.Completed
	}
	var resp todo.TaskResponse

	if err := h.callTodo(c, "create-task", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResource(c, resp))
}

// GetTask handles GET /api/tasks/:id/.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	req := todo.GetTaskRequest{OwnerID: claims.UserID, ID: c.Params("id")}
	var resp todo.TaskResponse

	if err := h.callTodo(c, "get-task", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(toTaskResource(c, resp))
}

// UpdateTask handles PUT and PATCH /api/tasks/:id/. PUT requires the full
// representation; PATCH applies only the provided fields.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	var body TaskWriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if c.Method() == fiber.MethodPut {
		if body.Name == nil || body.DueDate == nil {
			return badRequest(c, "Name and due_date are required")
		}
	}

	req := todo.UpdateTaskRequest{
		OwnerID:   claims.UserID,
		ID:        c.Params("id"),
		Name:      body.Name,
		DueDate:   body.DueDate,
		Completed: body.Completed,
		ListID:    body.List,
	}
	var resp todo.TaskResponse

	if err := h.callTodo(c, "update-task", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.JSON(toTaskResource(c, resp))
}

// DeleteTask handles DELETE /api/tasks/:id/.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := h.claims(c)
	if !ok {
		return unauthorized(c, "Authentication required")
	}

	req := todo.DeleteTaskRequest{OwnerID: claims.UserID, ID: c.Params("id")}
	var resp todo.DeleteTaskResponse

	if err := h.callTodo(c, "delete-task", &req, &resp); err != nil {
		return h.handleTodoError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// callTodo invokes a todo module service.
func (h *Handlers) callTodo(c *fiber.Ctx, service string, req, resp any) error {
	return helper.CallRequestReplyService[any, any](
		c.UserContext(),
		h.todoContainer,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	)
}
