package todo

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/todo-app/domain/todo"
	"github.com/google/uuid"
)

var (
	// ErrNameRequired is returned when a list or task name is empty.
	ErrNameRequired = errors.New("name is required")
	// ErrNameTooLong is returned when a name exceeds its column limit.
	ErrNameTooLong = errors.New("name is too long")
)

const (
	maxListNameLen = 64
	maxTaskNameLen = 128
)

// TodoService handles todo list and task business logic. All operations that
// act on behalf of a user take the owner's id and never trust client-supplied
// ownership fields.
type TodoService struct {
	lists *ListRepository
	tasks *TaskRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(lists *ListRepository, tasks *TaskRepository) *TodoService {
	return &TodoService{
		lists: lists,
		tasks: tasks,
	}
}

// CreateList creates a list owned by the given user.
func (s *TodoService) CreateList(_ context.Context, ownerID, name string) (*domain.TodoList, error) {
	if err := validateName(name, maxListNameLen); err != nil {
		return nil, err
	}

	now := time.Now()
	list := &domain.TodoList{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.lists.Create(list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetList retrieves one of the owner's lists.
func (s *TodoService) GetList(_ context.Context, ownerID, id string) (*domain.TodoList, error) {
	return s.lists.FindByID(id, ownerID)
}

// ListLists retrieves the owner's lists, ordered by name.
func (s *TodoService) ListLists(_ context.Context, ownerID string) ([]*domain.TodoList, error) {
	return s.lists.FindByOwner(ownerID)
}

// UpdateList renames one of the owner's lists.
func (s *TodoService) UpdateList(_ context.Context, ownerID, id, name string) (*domain.TodoList, error) {
	if err := validateName(name, maxListNameLen); err != nil {
		return nil, err
	}

	list, err := s.lists.FindByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	list.Name = name
	if err := s.lists.Update(list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList deletes one of the owner's lists together with its tasks.
func (s *TodoService) DeleteList(_ context.Context, ownerID, id string) error {
	return s.lists.Delete(id, ownerID)
}

// CreateTask creates a task under one of the owner's lists. The target list
// must belong to the caller; a cross-owner list id is rejected as not-found.
func (s *TodoService) CreateTask(_ context.Context, ownerID, listID, name string, dueDate time.Time, completed bool) (*domain.Task, error) {
	if err := validateName(name, maxTaskNameLen); err != nil {
		return nil, err
	}

	// Ownership guard: the referenced list must belong to the caller.
	if _, err := s.lists.FindByID(listID, ownerID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &domain.Task{
		ID:        uuid.New().String(),
		Name:      name,
		DueDate:   dueDate,
		Completed: completed,
		ListID:    listID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task transitively owned by the user.
func (s *TodoService) GetTask(_ context.Context, ownerID, id string) (*domain.Task, error) {
	return s.tasks.FindByID(id, ownerID)
}

// ListTasks retrieves the user's tasks, optionally limited to one list,
// ordered by name.
func (s *TodoService) ListTasks(_ context.Context, ownerID, listID string) ([]*domain.Task, error) {
	if listID != "" {
		// Reject cross-owner list filters the same way as direct reads.
		if _, err := s.lists.FindByID(listID, ownerID); err != nil {
			return nil, err
		}
	}
	return s.tasks.FindByOwner(ownerID, listID)
}

// TaskUpdate carries the mutable task fields. Nil fields are left unchanged.
type TaskUpdate struct {
	Name      *string
	DueDate   *time.Time
	Completed *bool
	ListID    *string
}

// UpdateTask mutates a task transitively owned by the user. Moving a task to
// another list re-checks that the destination belongs to the caller.
func (s *TodoService) UpdateTask(_ context.Context, ownerID, id string, update TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.FindByID(id, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if err := validateName(*update.Name, maxTaskNameLen); err != nil {
			return nil, err
		}
		task.Name = *update.Name
	}
	if update.DueDate != nil {
		task.DueDate = *update.DueDate
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.ListID != nil && *update.ListID != task.ListID {
		if _, err := s.lists.FindByID(*update.ListID, ownerID); err != nil {
			return nil, err
		}
		task.ListID = *update.ListID
	}

	if err := s.tasks.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task transitively owned by the user.
func (s *TodoService) DeleteTask(_ context.Context, ownerID, id string) error {
	return s.tasks.Delete(id, ownerID)
}

// MarkComplete sets completed=true on exactly the selected tasks and returns
// the affected count with an operator message.
func (s *TodoService) MarkComplete(_ context.Context, ids []string) (int64, string, error) {
	count, err := s.tasks.SetCompleted(ids, true)
	if err != nil {
		return 0, "", err
	}
	return count, completionMessage(count, true), nil
}

// MarkIncomplete is the mirror of MarkComplete.
func (s *TodoService) MarkIncomplete(_ context.Context, ids []string) (int64, string, error) {
	count, err := s.tasks.SetCompleted(ids, false)
	if err != nil {
		return 0, "", err
	}
	return count, completionMessage(count, false), nil
}

// SearchLists finds lists by name or owner username (administrative).
func (s *TodoService) SearchLists(_ context.Context, query string) ([]ListSummary, error) {
	return s.lists.Search(query)
}

// SearchTasks finds tasks by name, list name or owner username
// (administrative).
func (s *TodoService) SearchTasks(_ context.Context, query string) ([]TaskSummary, error) {
	return s.tasks.Search(query)
}

// completionMessage renders the operator feedback for bulk completion
// actions, pluralized for the affected count.
func completionMessage(count int64, completed bool) string {
	state := "complete"
	if !completed {
		state = "incomplete"
	}
	if count == 1 {
		return fmt.Sprintf("1 task was marked as %s.", state)
	}
	return fmt.Sprintf("%d tasks were marked as %s.", count, state)
}

// validateName checks list/task name constraints.
func validateName(name string, max int) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > max {
		return ErrNameTooLong
	}
	return nil
}
