package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	domain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/mailer"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AccountModule provides account and authentication services.
type AccountModule struct {
	db      *gorm.DB
	service *AccountService
	dbPath  string
	mail    mailer.MailerPort
}

// Compile-time interface checks.
var _ mono.Module = (*AccountModule)(nil)
var _ mono.ServiceProviderModule = (*AccountModule)(nil)
var _ mono.DependentModule = (*AccountModule)(nil)
var _ mono.HealthCheckableModule = (*AccountModule)(nil)

// NewModule creates a new AccountModule.
func NewModule() *AccountModule {
	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "todo.db"
	}
	return &AccountModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *AccountModule) Name() string {
	return "account"
}

// Dependencies returns the list of module dependencies.
func (m *AccountModule) Dependencies() []string {
	return []string{"mailer"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *AccountModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "mailer" {
		m.mail = mailer.NewMailerAdapter(container)
	}
}

// Start initializes the account module.
func (m *AccountModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	tokens := NewTokenManager(loadTokenConfig())

	m.service = NewAccountService(repo, hasher, tokens, m.mail)

	log.Printf("[account] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AccountModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[account] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AccountModule) Health(_ context.Context) mono.HealthStatus {
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
func (m *AccountModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"register": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "register", json.Unmarshal, json.Marshal, m.handleRegister,
			)
		},
		"login": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "login", json.Unmarshal, json.Marshal, m.handleLogin,
			)
		},
		"verify": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "verify", json.Unmarshal, json.Marshal, m.handleVerify,
			)
		},
		"validate-token": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken,
			)
		},
		"get-user": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser,
			)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[account] Registered services: register, login, verify, validate-token, get-user")
	return nil
}

// handleRegister handles user registration.
func (m *AccountModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return RegisterResponse{}, err
	}

	// Registration establishes an authenticated session immediately, so an
	// access token is issued alongside the created account.
	token, err := m.service.tokens.GenerateAccessToken(user.ID, user.Username, user.Admin)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return RegisterResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Active:      user.Active,
		AccessToken: token,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// handleLogin handles user login.
func (m *AccountModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	user, token, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token,
		ExpiresIn:   m.service.tokens.AccessTokenDuration(),
		TokenType:   "Bearer",
	}, nil
}

// handleVerify handles verification token redemption.
func (m *AccountModule) handleVerify(ctx context.Context, req VerifyRequest, _ *mono.Msg) (VerifyResponse, error) {
	user, err := m.service.Verify(ctx, req.Token)
	if err != nil {
		return VerifyResponse{}, err
	}

	return VerifyResponse{
		ID:       user.ID,
		Username: user.Username,
		Active:   user.Active,
	}, nil
}

// handleValidateToken handles access token validation.
// Validation failures are reported in the response rather than as errors so
// the error kind survives the trip across the service bus.
func (m *AccountModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateAccess(ctx, req.Token)
	if err != nil {
		return ValidateTokenResponse{
			Valid:     false,
			ErrorCode: errorCode(err),
			Error:     err.Error(),
		}, nil
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   claims.UserID,
		Username: claims.Username,
		Admin:    claims.Admin,
	}, nil
}

// handleGetUser handles get user requests.
func (m *AccountModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}

	return GetUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Active:    user.Active,
		Banned:    user.Banned,
		Admin:     user.Admin,
		CreatedAt: user.CreatedAt,
	}, nil
}

// errorCode maps validation errors to wire error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return ErrCodeTokenExpired
	case errors.Is(err, ErrInvalidTokenScope):
		return ErrCodeInvalidTokenScope
	case errors.Is(err, ErrUserBanned):
		return ErrCodeUserBanned
	case errors.Is(err, ErrUserNotFound):
		return ErrCodeUserNotFound
	default:
		return ErrCodeInvalidToken
	}
}

// loadTokenConfig loads token configuration from environment variables.
func loadTokenConfig() TokenConfig {
	config := DefaultTokenConfig()

	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("WEBSITE_NAME"); issuer != "" {
		config.Issuer = issuer
	}

	if ttl := os.Getenv("VERIFY_TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.VerifyTokenDuration = d
		}
	}

	return config
}
