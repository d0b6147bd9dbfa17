package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	domain "github.com/example/todo-app/domain/todo"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TodoModule provides todo list and task services.
type TodoModule struct {
	db      *gorm.DB
	service *TodoService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TodoModule)(nil)
var _ mono.ServiceProviderModule = (*TodoModule)(nil)
var _ mono.HealthCheckableModule = (*TodoModule)(nil)

// NewModule creates a new TodoModule.
func NewModule() *TodoModule {
	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "todo.db"
	}
	return &TodoModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// Start initializes the todo module.
func (m *TodoModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.TodoList{}, &domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewTodoService(NewListRepository(db), NewTaskRepository(db))

	log.Printf("[todo] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TodoModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[todo] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TodoModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create-list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create-list", json.Unmarshal, json.Marshal, m.handleCreateList,
			)
		},
		"get-list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-list", json.Unmarshal, json.Marshal, m.handleGetList,
			)
		},
		"list-lists": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list-lists", json.Unmarshal, json.Marshal, m.handleListLists,
			)
		},
		"update-list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update-list", json.Unmarshal, json.Marshal, m.handleUpdateList,
			)
		},
		"delete-list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete-list", json.Unmarshal, json.Marshal, m.handleDeleteList,
			)
		},
		"create-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create-task", json.Unmarshal, json.Marshal, m.handleCreateTask,
			)
		},
		"get-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-task", json.Unmarshal, json.Marshal, m.handleGetTask,
			)
		},
		"list-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list-tasks", json.Unmarshal, json.Marshal, m.handleListTasks,
			)
		},
		"update-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update-task", json.Unmarshal, json.Marshal, m.handleUpdateTask,
			)
		},
		"delete-task": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete-task", json.Unmarshal, json.Marshal, m.handleDeleteTask,
			)
		},
		"mark-complete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "mark-complete", json.Unmarshal, json.Marshal, m.handleMarkComplete,
			)
		},
		"mark-incomplete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "mark-incomplete", json.Unmarshal, json.Marshal, m.handleMarkIncomplete,
			)
		},
		"search-lists": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "search-lists", json.Unmarshal, json.Marshal, m.handleSearchLists,
			)
		},
		"search-tasks": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "search-tasks", json.Unmarshal, json.Marshal, m.handleSearchTasks,
			)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[todo] Registered services: list and task CRUD, bulk actions, admin search")
	return nil
}

func (m *TodoModule) handleCreateList(ctx context.Context, req CreateListRequest, _ *mono.Msg) (ListResponse, error) {
	if req.OwnerID == "" {
		return ListResponse{}, fmt.Errorf("owner_id is required")
	}

	list, err := m.service.CreateList(ctx, req.OwnerID, req.Name)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(list), nil
}

func (m *TodoModule) handleGetList(ctx context.Context, req GetListRequest, _ *mono.Msg) (ListResponse, error) {
	list, err := m.service.GetList(ctx, req.OwnerID, req.ID)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(list), nil
}

func (m *TodoModule) handleListLists(ctx context.Context, req ListListsRequest, _ *mono.Msg) (ListListsResponse, error) {
	lists, err := m.service.ListLists(ctx, req.OwnerID)
	if err != nil {
		return ListListsResponse{}, err
	}

	resp := ListListsResponse{
		Lists: make([]ListResponse, 0, len(lists)),
		Total: len(lists),
	}
	for _, list := range lists {
		resp.Lists = append(resp.Lists, toListResponse(list))
	}
	return resp, nil
}

func (m *TodoModule) handleUpdateList(ctx context.Context, req UpdateListRequest, _ *mono.Msg) (ListResponse, error) {
	list, err := m.service.UpdateList(ctx, req.OwnerID, req.ID, req.Name)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(list), nil
}

func (m *TodoModule) handleDeleteList(ctx context.Context, req DeleteListRequest, _ *mono.Msg) (DeleteListResponse, error) {
	if err := m.service.DeleteList(ctx, req.OwnerID, req.ID); err != nil {
		return DeleteListResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteListResponse{Deleted: true, ID: req.ID}, nil
}

func (m *TodoModule) handleCreateTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, fmt.Errorf("owner_id is required")
	}

	dueDate, err := time.Parse(DateLayout, req.DueDate)
	if err != nil {
		return TaskResponse{}, fmt.Errorf("due_date must be in YYYY-MM-DD format")
	}

	task, err := m.service.CreateTask(ctx, req.OwnerID, req.ListID, req.Name, dueDate, req.Completed)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

func (m *TodoModule) handleGetTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	task, err := m.service.GetTask(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

func (m *TodoModule) handleListTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.ListTasks(ctx, req.OwnerID, req.ListID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(task))
	}
	return resp, nil
}

func (m *TodoModule) handleUpdateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	update := TaskUpdate{
		Name:      req.Name,
		Completed: req.Completed,
		ListID:    req.ListID,
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(DateLayout, *req.DueDate)
		if err != nil {
			return TaskResponse{}, fmt.Errorf("due_date must be in YYYY-MM-DD format")
		}
		update.DueDate = &dueDate
	}

	task, err := m.service.UpdateTask(ctx, req.OwnerID, req.ID, update)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(task), nil
}

func (m *TodoModule) handleDeleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.DeleteTask(ctx, req.OwnerID, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

func (m *TodoModule) handleMarkComplete(ctx context.Context, req BulkActionRequest, _ *mono.Msg) (BulkActionResponse, error) {
	count, message, err := m.service.MarkComplete(ctx, req.IDs)
	if err != nil {
		return BulkActionResponse{}, err
	}
	return BulkActionResponse{Count: count, Message: message}, nil
}

func (m *TodoModule) handleMarkIncomplete(ctx context.Context, req BulkActionRequest, _ *mono.Msg) (BulkActionResponse, error) {
	count, message, err := m.service.MarkIncomplete(ctx, req.IDs)
	if err != nil {
		return BulkActionResponse{}, err
	}
	return BulkActionResponse{Count: count, Message: message}, nil
}

func (m *TodoModule) handleSearchLists(ctx context.Context, req SearchListsRequest, _ *mono.Msg) (SearchListsResponse, error) {
	lists, err := m.service.SearchLists(ctx, req.Query)
	if err != nil {
		return SearchListsResponse{}, err
	}
	return SearchListsResponse{Lists: lists, Total: len(lists)}, nil
}

func (m *TodoModule) handleSearchTasks(ctx context.Context, req SearchTasksRequest, _ *mono.Msg) (SearchTasksResponse, error) {
	tasks, err := m.service.SearchTasks(ctx, req.Query)
	if err != nil {
		return SearchTasksResponse{}, err
	}
	return SearchTasksResponse{Tasks: tasks, Total: len(tasks)}, nil
}

// toListResponse converts a TodoList entity to its wire representation.
func toListResponse(list *domain.TodoList) ListResponse {
	return ListResponse{
		ID:        list.ID,
		Name:      list.Name,
		OwnerID:   list.OwnerID,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

// toTaskResponse converts a Task entity to its wire representation.
func toTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Name:      task.Name,
		DueDate:   task.DueDate.Format(DateLayout),
		Completed: task.Completed,
		ListID:    task.ListID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}
