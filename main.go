package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/todo-app/modules/account"
	"github.com/example/todo-app/modules/api"
	"github.com/example/todo-app/modules/mailer"
	"github.com/example/todo-app/modules/session"
	"github.com/example/todo-app/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	sessionModule := session.NewModule()

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(mailer.NewModule())
	app.Register(account.NewModule()) // depends on mailer
	app.Register(todo.NewModule())
	app.Register(sessionModule)
	app.Register(api.NewModule(sessionModule)) // depends on account, todo, session

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Account:")
	log.Println("  POST   /account/register          - Register (logs in, sends verification email)")
	log.Println("  POST   /account/login             - Login")
	log.Println("  GET    /account/logout            - Terminate session")
	log.Println("  GET    /account/verify?token=...  - Redeem a verification token")
	log.Println("")
	log.Println("  Todo resources (require Bearer token or session cookie):")
	log.Println("  GET/POST       /api/todo-lists/")
	log.Println("  GET/PUT/PATCH/DELETE /api/todo-lists/{id}/")
	log.Println("  GET/POST       /api/tasks/")
	log.Println("  GET/PUT/PATCH/DELETE /api/tasks/{id}/")
	log.Println("")
	log.Println("  Admin (require an admin account):")
	log.Println("  GET    /api/admin/todo-lists/?search=")
	log.Println("  GET    /api/admin/tasks/?search=")
	log.Println("  POST   /api/admin/tasks/mark-complete")
	log.Println("  POST   /api/admin/tasks/mark-incomplete")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
