package account

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/todo-app/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AccountPort defines the interface other modules use for authentication.
type AccountPort interface {
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*GetUserResponse, error)
}

// AccountAdapter implements AccountPort using the service container.
type AccountAdapter struct {
	container mono.ServiceContainer
}

// NewAccountAdapter creates a new AccountAdapter.
func NewAccountAdapter(container mono.ServiceContainer) *AccountAdapter {
	return &AccountAdapter{
		container: container,
	}
}

// ValidateToken validates an access token and returns claims. Failures are
// mapped back to the account package's sentinel errors so callers can
// distinguish banned accounts and scope mismatches from plain bad tokens.
func (a *AccountAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		switch resp.ErrorCode {
		case ErrCodeTokenExpired:
			return nil, ErrExpiredToken
		case ErrCodeInvalidTokenScope:
			return nil, ErrInvalidTokenScope
		case ErrCodeUserBanned:
			return nil, ErrUserBanned
		case ErrCodeUserNotFound:
			return nil, ErrUserNotFound
		default:
			return nil, ErrInvalidToken
		}
	}

	return &domain.Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
		Admin:    resp.Admin,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AccountAdapter) GetUser(ctx context.Context, userID string) (*GetUserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &resp, nil
}
