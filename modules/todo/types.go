package todo

import (
	"time"
)

// DateLayout is the wire format for task due dates.
const DateLayout = "2006-01-02"

// ListResponse represents a todo list on the service bus.
type ListResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskResponse represents a task on the service bus.
type TaskResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DueDate   string    `json:"due_date"`
	Completed bool      `json:"completed"`
	ListID    string    `json:"list_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateListRequest creates a list for the authenticated owner.
type CreateListRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

// GetListRequest retrieves one of the owner's lists.
type GetListRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// ListListsRequest retrieves all of the owner's lists.
type ListListsRequest struct {
	OwnerID string `json:"owner_id"`
}

// ListListsResponse carries the owner's lists, ordered by name.
type ListListsResponse struct {
	Lists []ListResponse `json:"lists"`
	Total int            `json:"total"`
}

// UpdateListRequest renames one of the owner's lists.
type UpdateListRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// DeleteListRequest deletes one of the owner's lists and its tasks.
type DeleteListRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteListResponse reports a list deletion.
type DeleteListResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// CreateTaskRequest creates a task under one of the owner's lists.
type CreateTaskRequest struct {
	OwnerID   string `json:"owner_id"`
	ListID    string `json:"list_id"`
	Name      string `json:"name"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
}

// GetTaskRequest retrieves one of the owner's tasks.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// ListTasksRequest retrieves the owner's tasks, optionally for one list.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
	ListID  string `json:"list_id,omitempty"`
}

// ListTasksResponse carries the owner's tasks, ordered by name.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// UpdateTaskRequest mutates one of the owner's tasks. Nil fields are left
// unchanged.
type UpdateTaskRequest struct {
	OwnerID   string  `json:"owner_id"`
	ID        string  `json:"id"`
	Name      *string `json:"name,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	ListID    *string `json:"list_id,omitempty"`
}

// DeleteTaskRequest deletes one of the owner's tasks.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse reports a task deletion.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// BulkActionRequest selects tasks for an administrative bulk action.
type BulkActionRequest struct {
	IDs []string `json:"ids"`
}

// BulkActionResponse reports the affected count with an operator message,
// e.g. "2 tasks were marked as complete."
type BulkActionResponse struct {
	Count   int64  `json:"count"`
	Message string `json:"message"`
}

// SearchListsRequest searches lists by name or owner username.
type SearchListsRequest struct {
	Query string `json:"query"`
}

// SearchListsResponse carries administrative list summaries.
type SearchListsResponse struct {
	Lists []ListSummary `json:"lists"`
	Total int           `json:"total"`
}

// SearchTasksRequest searches tasks by name, list name or owner username.
type SearchTasksRequest struct {
	Query string `json:"query"`
}

// SearchTasksResponse carries administrative task summaries.
type SearchTasksResponse struct {
	Tasks []TaskSummary `json:"tasks"`
	Total int           `json:"total"`
}
