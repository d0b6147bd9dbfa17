package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/account"
	"github.com/example/todo-app/modules/session"
	"github.com/gofiber/fiber/v2"
)

// mockAccountPort implements account.AccountPort for testing
type mockAccountPort struct {
	validateTokenFunc func(ctx context.Context, token string) (*domain.Claims, error)
	getUserFunc       func(ctx context.Context, userID string) (*account.GetUserResponse, error)
}

func (m *mockAccountPort) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAccountPort) GetUser(ctx context.Context, userID string) (*account.GetUserResponse, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// mockSessionStore implements SessionStore for testing
type mockSessionStore struct {
	sessions map[string]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]string)}
}

func (m *mockSessionStore) Create(_ context.Context, userID string) (string, error) {
	id := "session-" + userID
	m.sessions[id] = userID
	return id, nil
}

func (m *mockSessionStore) Get(_ context.Context, sessionID string) (string, error) {
	userID, ok := m.sessions[sessionID]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return userID, nil
}

func (m *mockSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func newTestApp(accountPort account.AccountPort, sessions SessionStore) *fiber.App {
	app := fiber.New()
	app.Use(AuthMiddleware(accountPort, sessions))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "authenticated"})
	})
	return app
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		mockAccount    *mockAccountPort
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing authorization header and cookie",
			authHeader:     "",
			mockAccount:    &mockAccountPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Authentication required"`,
		},
		{
			name:           "invalid authorization format - no bearer",
			authHeader:     "Basic token123",
			mockAccount:    &mockAccountPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `Invalid authorization header format`,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer invalid-token",
			mockAccount: &mockAccountPort{
				validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
					return nil, account.ErrInvalidToken
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired token"`,
		},
		{
			name:       "expired token",
			authHeader: "Bearer expired-token",
			mockAccount: &mockAccountPort{
				validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
					return nil, account.ErrExpiredToken
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired token"`,
		},
		{
			name:       "verification token used for access",
			authHeader: "Bearer verify-token",
			mockAccount: &mockAccountPort{
				validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
					return nil, account.ErrInvalidTokenScope
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   account.ErrCodeInvalidTokenScope,
		},
		{
			name:       "banned user with valid token",
			authHeader: "Bearer banned-token",
			mockAccount: &mockAccountPort{
				validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
					return nil, account.ErrUserBanned
				},
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   account.ErrCodeUserBanned,
		},
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			mockAccount: &mockAccountPort{
				validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
					return &domain.Claims{
						UserID:   "user-123",
						Username: "alice",
					}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"authenticated"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.mockAccount, newMockSessionStore())

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}

			if tt.expectedBody != "" && !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %v, want to contain %v", string(body), tt.expectedBody)
			}
		})
	}
}

func TestAuthMiddleware_SessionCookie(t *testing.T) {
	sessions := newMockSessionStore()
	sessionID, _ := sessions.Create(context.Background(), "user-123")

	tests := []struct {
		name           string
		cookie         string
		mockAccount    *mockAccountPort
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "unknown session",
			cookie:         "no-such-session",
			mockAccount:    &mockAccountPort{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired session"`,
		},
		{
			name:   "valid session",
			cookie: sessionID,
			mockAccount: &mockAccountPort{
				getUserFunc: func(ctx context.Context, userID string) (*account.GetUserResponse, error) {
					return &account.GetUserResponse{
						ID:       userID,
						Username: "alice",
					}, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"authenticated"`,
		},
		{
			name:   "session for banned user",
			cookie: sessionID,
			mockAccount: &mockAccountPort{
				getUserFunc: func(ctx context.Context, userID string) (*account.GetUserResponse, error) {
					return &account.GetUserResponse{
						ID:       userID,
						Username: "alice",
						Banned:   true,
					}, nil
				},
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   account.ErrCodeUserBanned,
		},
		{
			name:   "session for deleted user",
			cookie: sessionID,
			mockAccount: &mockAccountPort{
				getUserFunc: func(ctx context.Context, userID string) (*account.GetUserResponse, error) {
					return nil, account.ErrUserNotFound
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"Invalid or expired session"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.mockAccount, sessions)

			req := httptest.NewRequest("GET", "/test", nil)
			req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}

			if tt.expectedBody != "" && !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %v, want to contain %v", string(body), tt.expectedBody)
			}
		})
	}
}

func TestAuthMiddleware_UserContext(t *testing.T) {
	mockAccount := &mockAccountPort{
		validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
			return &domain.Claims{
				UserID:   "user-456",
				Username: "alice",
				Admin:    true,
			}, nil
		},
	}

	app := fiber.New()
	app.Use(AuthMiddleware(mockAccount, newMockSessionStore()))

	var capturedClaims *domain.Claims
	app.Get("/test", func(c *fiber.Ctx) error {
		claims, ok := c.Locals(UserContextKey).(*domain.Claims)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "no claims"})
		}
		capturedClaims = claims
		return c.JSON(fiber.Map{"status": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
	}

	if capturedClaims == nil {
		t.Fatal("claims not set in context")
	}
	if capturedClaims.UserID != "user-456" {
		t.Errorf("claims.UserID = %v, want %v", capturedClaims.UserID, "user-456")
	}
	if capturedClaims.Username != "alice" {
		t.Errorf("claims.Username = %v, want %v", capturedClaims.Username, "alice")
	}
	if !capturedClaims.Admin {
		t.Error("claims.Admin = false, want true")
	}
}

func TestAdminMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		admin          bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "admin user",
			admin:          true,
			expectedStatus: http.StatusOK,
			expectedBody:   `"ok"`,
		},
		{
			name:           "regular user",
			admin:          false,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `Administrator access required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccount := &mockAccountPort{
				validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
					return &domain.Claims{
						UserID:   "user-123",
						Username: "alice",
						Admin:    tt.admin,
					}, nil
				},
			}

			app := fiber.New()
			app.Use(AuthMiddleware(mockAccount, newMockSessionStore()))
			app.Use(AdminMiddleware())
			app.Get("/test", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"status": "ok"})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer valid-token")

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %v, want %v", resp.StatusCode, tt.expectedStatus)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("io.ReadAll() error = %v", err)
			}

			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %v, want to contain %v", string(body), tt.expectedBody)
			}
		})
	}
}
