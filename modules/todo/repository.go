package todo

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/todo-app/domain/todo"
	"gorm.io/gorm"
)

var (
	// ErrListNotFound is returned when a todo list is not found within the
	// caller's scope. Cross-owner lookups surface as not-found rather than
	// forbidden so record existence is never leaked.
	ErrListNotFound = errors.New("todo list not found")
	// ErrTaskNotFound is returned when a task is not found within the
	// caller's scope.
	ErrTaskNotFound = errors.New("task not found")
)

// ListRepository handles todo list persistence using GORM.
// Every read is owner-scoped: a list is only ever visible to its own owner.
type ListRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new ListRepository.
func NewListRepository(db *gorm.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create saves a new todo list.
func (r *ListRepository) Create(list *domain.TodoList) error {
	if err := r.db.Create(list).Error; err != nil {
		return fmt.Errorf("failed to create todo list: %w", err)
	}
	return nil
}

// FindByID retrieves a list by ID, scoped to the given owner.
func (r *ListRepository) FindByID(id, ownerID string) (*domain.TodoList, error) {
	var list domain.TodoList
	err := r.db.First(&list, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find todo list: %w", err)
	}
	return &list, nil
}

// FindByOwner retrieves all lists belonging to the owner, ordered by name.
func (r *ListRepository) FindByOwner(ownerID string) ([]*domain.TodoList, error) {
	var lists []*domain.TodoList
	err := r.db.Where("owner_id = ?", ownerID).Order("name").Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find todo lists: %w", err)
	}
	return lists, nil
}

// Update saves changes to an existing list. Callers must have resolved the
// list through an owner-scoped read first.
func (r *ListRepository) Update(list *domain.TodoList) error {
	result := r.db.Model(&domain.TodoList{}).
		Where("id = ? AND owner_id = ?", list.ID, list.OwnerID).
		Updates(map[string]any{"name": list.Name, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update todo list: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}
	return nil
}

// Delete removes a list and all of its tasks in a single transaction.
func (r *ListRepository) Delete(id, ownerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.TodoList{}, "id = ? AND owner_id = ?", id, ownerID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete todo list: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrListNotFound
		}

		if err := tx.Delete(&domain.Task{}, "list_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tasks of list: %w", err)
		}
		return nil
	})
}

// ListSummary is an administrative view of a list with its owner's username.
type ListSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OwnerID       string `json:"owner_id"`
	OwnerUsername string `json:"owner_username"`
}

// Search finds lists by name or owner username. Administrative, not
// owner-scoped.
func (r *ListRepository) Search(query string) ([]ListSummary, error) {
	like := "%" + query + "%"
	var rows []ListSummary
	err := r.db.Table("todo_lists").
		Select("todo_lists.id, todo_lists.name, todo_lists.owner_id, users.username AS owner_username").
		Joins("JOIN users ON users.id = todo_lists.owner_id").
		Where("todo_lists.name LIKE ? OR users.username LIKE ?", like, like).
		Order("todo_lists.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search todo lists: %w", err)
	}
	return rows, nil
}

// TaskRepository handles task persistence using GORM.
// Task visibility is resolved transitively: a task is visible only when the
// list it belongs to is owned by the requesting user.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create saves a new task.
func (r *TaskRepository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by ID, scoped to the owner of its list.
func (r *TaskRepository) FindByID(id, ownerID string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.
		Joins("JOIN todo_lists ON todo_lists.id = tasks.list_id").
		Where("tasks.id = ? AND todo_lists.owner_id = ?", id, ownerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByOwner retrieves all tasks transitively owned by the user, ordered by
// name. When listID is non-empty, results are limited to that list.
func (r *TaskRepository) FindByOwner(ownerID, listID string) ([]*domain.Task, error) {
	q := r.db.
		Joins("JOIN todo_lists ON todo_lists.id = tasks.list_id").
		Where("todo_lists.owner_id = ?", ownerID).
		Order("tasks.name")
	if listID != "" {
		q = q.Where("tasks.list_id = ?", listID)
	}

	var tasks []*domain.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Update saves changes to an existing task. Callers must have resolved the
// task through an owner-scoped read first.
func (r *TaskRepository) Update(task *domain.Task) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"name":       task.Name,
			"due_date":   task.DueDate,
			"completed":  task.Completed,
			"list_id":    task.ListID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task, scoped to the owner of its list.
func (r *TaskRepository) Delete(id, ownerID string) error {
	result := r.db.Delete(&domain.Task{},
		"id = ? AND list_id IN (SELECT id FROM todo_lists WHERE owner_id = ?)", id, ownerID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SetCompleted updates the completed flag on exactly the selected tasks in
// one transaction and returns the number of affected rows. Administrative:
// not owner-scoped.
func (r *TaskRepository) SetCompleted(ids []string, completed bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var updated int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Task{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"completed": completed, "updated_at": time.Now()})
		if result.Error != nil {
			return fmt.Errorf("failed to update tasks: %w", result.Error)
		}
		updated = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// TaskSummary is an administrative view of a task with its list and owner.
type TaskSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DueDate       time.Time `json:"due_date"`
	Completed     bool      `json:"completed"`
	ListID        string    `json:"list_id"`
	ListName      string    `json:"list_name"`
	OwnerUsername string    `json:"owner_username"`
}

// Search finds tasks by name, list name or owner username. Administrative,
// not owner-scoped.
func (r *TaskRepository) Search(query string) ([]TaskSummary, error) {
	like := "%" + query + "%"
	var rows []TaskSummary
	err := r.db.Table("tasks").
		Select("tasks.id, tasks.name, tasks.due_date, tasks.completed, tasks.list_id, todo_lists.name AS list_name, users.username AS owner_username").
		Joins("JOIN todo_lists ON todo_lists.id = tasks.list_id").
		Joins("JOIN users ON users.id = todo_lists.owner_id").
		Where("tasks.name LIKE ? OR todo_lists.name LIKE ? OR users.username LIKE ?", like, like, like).
		Order("tasks.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return rows, nil
}
