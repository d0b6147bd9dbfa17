package account

import (
	"time"
)

// Error codes carried across the service bus so callers can map failures
// back to distinct error kinds.
const (
	ErrCodeInvalidToken      = "invalid_token"
	ErrCodeTokenExpired      = "token_expired"
	ErrCodeInvalidTokenScope = "invalid_token_scope"
	ErrCodeUserBanned        = "user_banned"
	ErrCodeUserNotFound      = "user_not_found"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Active      bool      `json:"active"`
	AccessToken string    `json:"access_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a user login response with an access token.
type LoginResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// VerifyRequest represents a verification token redemption request.
type VerifyRequest struct {
	Token string `json:"token"`
}

// VerifyResponse represents a verification redemption response.
type VerifyResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Active   bool   `json:"active"`
}

// ValidateTokenRequest represents an access token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents an access token validation response.
type ValidateTokenResponse struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Admin     bool   `json:"admin,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse represents a get user response.
type GetUserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	Banned    bool      `json:"banned"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}
