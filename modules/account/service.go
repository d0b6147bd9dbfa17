package account

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"time"

	domain "github.com/example/todo-app/domain/user"
	"github.com/example/todo-app/modules/mailer"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid user credentials")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when password is too weak.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("the passwords must match")
	// ErrUserBanned is returned when an otherwise valid account is denied
	// because it has been banned.
	ErrUserBanned = errors.New("user is banned")
)

// AccountService handles registration, login and verification business logic.
type AccountService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
	mail   mailer.MailerPort
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenManager, mail mailer.MailerPort) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		mail:   mail,
	}
}

// Register creates a new, inactive user account and dispatches a verification
// email. The email send is best-effort: failures are logged and never fail
// the registration (verification can always be redone manually).
func (s *AccountService) Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	// Validate password length (bcrypt has 72-byte limit)
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if len(password) > 72 {
		return nil, ErrPasswordTooLong
	}

	exists, err := s.repo.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendVerificationEmail(ctx, user)

	return user, nil
}

// sendVerificationEmail issues a verification token for the user and hands it
// to the mailer. Errors are logged and swallowed.
func (s *AccountService) sendVerificationEmail(ctx context.Context, user *domain.User) {
	token, err := s.tokens.GenerateVerificationToken(user.ID)
	if err != nil {
		log.Printf("[account] Failed to generate verification token for %s: %v", user.Username, err)
		return
	}

	if s.mail == nil {
		log.Printf("[account] Mailer unavailable, skipping verification email for %s", user.Username)
		return
	}

	if err := s.mail.SendVerification(ctx, user.Email, token); err != nil {
		log.Printf("[account] Verification email to %s failed: %v", user.Email, err)
	}
}

// Login authenticates a user and returns the user with an access token.
func (s *AccountService) Login(_ context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if user.Banned {
		return nil, "", ErrUserBanned
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Admin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return user, token, nil
}

// Verify redeems a verification token and activates the embedded user.
// Token errors (bad signature, tampering, expiry, wrong scope) are reported
// distinctly from a missing user.
func (s *AccountService) Verify(_ context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateVerificationToken(token)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Activate(claims.UserID); err != nil {
		return nil, err
	}

	return s.repo.FindByID(claims.UserID)
}

// ValidateAccess validates an access token and checks the account status of
// the user it belongs to. Banned accounts are rejected even with a valid token.
func (s *AccountService) ValidateAccess(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Banned {
		return nil, ErrUserBanned
	}

	return &domain.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.Admin,
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AccountService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(userID)
}
