package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// Module provides the session store as a mono module.
type Module struct {
	store     *Store
	client    *redis.Client
	redisAddr string
	ttl       time.Duration
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new session module configured from the environment.
func NewModule() *Module {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &Module{
		redisAddr: addr,
		ttl:       defaultSessionTTL,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "session"
}

// Start initializes the Redis client and the session store.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.store = NewStore(m.client, "session:", m.ttl)

	log.Printf("[session] Module started (redis: %s, ttl: %s)", m.redisAddr, m.ttl)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	log.Println("[session] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "session store not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis": m.redisAddr,
		},
	}
}

// Store returns the session store. Only valid after Start.
func (m *Module) Store() *Store {
	return m.store
}
