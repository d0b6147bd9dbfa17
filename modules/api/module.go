package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/todo-app/modules/account"
	"github.com/example/todo-app/modules/session"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app              *fiber.App
	accountContainer mono.ServiceContainer
	todoContainer    mono.ServiceContainer
	accountAdapter   account.AccountPort
	sessionModule    *session.Module
	port             string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. The session module is passed directly
// because it provides a store, not request-reply services.
func NewModule(sessionModule *session.Module) *APIModule {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{
		sessionModule: sessionModule,
		port:          port,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"account", "todo"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "account":
		m.accountContainer = container
		m.accountAdapter = account.NewAccountAdapter(container)
	case "todo":
		m.todoContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.accountContainer == nil {
		return fmt.Errorf("account dependency not set")
	}
	if m.todoContainer == nil {
		return fmt.Errorf("todo dependency not set")
	}
	sessions := m.sessionModule.Store()
	if sessions == nil {
		return fmt.Errorf("session store not started")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes(sessions)

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes(sessions SessionStore) {
	handlers := NewHandlers(m.accountContainer, m.todoContainer, m.accountAdapter, sessions)
	authRequired := AuthMiddleware(m.accountAdapter, sessions)

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// Index requires authentication
	m.app.Get("/", authRequired, handlers.Index)

	// Account endpoints (public except logout, which is a no-op without a
	// session anyway)
	acct := m.app.Group("/account")
	acct.Get("/register", handlers.RegisterForm)
	acct.Post("/register", handlers.Register)
	acct.Get("/login", handlers.LoginForm)
	acct.Post("/login", handlers.Login)
	acct.Get("/logout", handlers.Logout)
	acct.Get("/verify", handlers.Verify)

	// Owner-scoped REST resources
	api := m.app.Group("/api", authRequired)
	api.Get("/todo-lists", handlers.ListTodoLists)
	api.Post("/todo-lists", handlers.CreateTodoList)
	api.Get("/todo-lists/:id", handlers.GetTodoList)
	api.Put("/todo-lists/:id", handlers.UpdateTodoList)
	api.Patch("/todo-lists/:id", handlers.UpdateTodoList)
	api.Delete("/todo-lists/:id", handlers.DeleteTodoList)

	api.Get("/tasks", handlers.ListTasks)
	api.Post("/tasks", handlers.CreateTask)
	api.Get("/tasks/:id", handlers.GetTask)
	api.Put("/tasks/:id", handlers.UpdateTask)
	api.Patch("/tasks/:id", handlers.UpdateTask)
	api.Delete("/tasks/:id", handlers.DeleteTask)

	// Administrative surface
	admin := api.Group("/admin", AdminMiddleware())
	admin.Get("/todo-lists", handlers.SearchTodoLists)
	admin.Get("/tasks", handlers.SearchTasks)
	admin.Post("/tasks/mark-complete", handlers.MarkComplete)
	admin.Post("/tasks/mark-incomplete", handlers.MarkIncomplete)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
