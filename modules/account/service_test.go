package account

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "github.com/example/todo-app/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingMailer captures verification emails instead of sending them.
type recordingMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

type sentMail struct {
	recipient string
	token     string
}

func (m *recordingMailer) SendVerification(_ context.Context, recipient, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{recipient: recipient, token: token})
	return nil
}

func setupTestService(t *testing.T) (*AccountService, *UserRepository, *TokenManager, *recordingMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := NewUserRepository(db)
	hasher := testHasher()
	tokens := NewTokenManager(testTokenConfig())
	mail := &recordingMailer{}
	service := NewAccountService(repo, hasher, tokens, mail)
	return service, repo, tokens, mail
}

func TestAccountService_Register(t *testing.T) {
	service, repo, _, mail := setupTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("user.Username = %v, want alice", user.Username)
	}
	if user.Active {
		t.Error("new user should be inactive until verified")
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}
	if !service.hasher.Verify("password123", user.PasswordHash) {
		t.Error("stored hash does not verify against the original password")
	}

	stored, err := repo.FindByUsername("alice")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if stored.ID != user.ID {
		t.Errorf("stored.ID = %v, want %v", stored.ID, user.ID)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 verification email, got %d", len(mail.sent))
	}
	if mail.sent[0].recipient != "alice@example.com" {
		t.Errorf("verification recipient = %v, want alice@example.com", mail.sent[0].recipient)
	}
	if mail.sent[0].token == "" {
		t.Error("verification email sent without a token")
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	tests := []struct {
		name            string
		username        string
		email           string
		password        string
		confirmPassword string
		wantErr         error
	}{
		{
			name:            "password mismatch",
			username:        "alice",
			email:           "alice@example.com",
			password:        "password123",
			confirmPassword: "password124",
			wantErr:         ErrPasswordMismatch,
		},
		{
			name:            "invalid email",
			username:        "alice",
			email:           "not-an-email",
			password:        "password123",
			confirmPassword: "password123",
			wantErr:         ErrInvalidEmail,
		},
		{
			name:            "short password",
			username:        "alice",
			email:           "alice@example.com",
			password:        "short",
			confirmPassword: "short",
			wantErr:         ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, mail := setupTestService(t)

			_, err := service.Register(context.Background(), tt.username, tt.email, tt.password, tt.confirmPassword)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}

			// Rejected registrations must not leave a user behind
			exists, err := repo.UsernameExists(tt.username)
			if err != nil {
				t.Fatalf("UsernameExists() error = %v", err)
			}
			if exists {
				t.Error("rejected registration created a user")
			}
			if len(mail.sent) != 0 {
				t.Error("rejected registration sent a verification email")
			}
		})
	}
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	service, _, _, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := service.Register(ctx, "alice", "other@example.com", "password456", "password456")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() error = %v, want ErrUserExists", err)
	}
}

func TestAccountService_Register_MailerFailureIsBestEffort(t *testing.T) {
	service, repo, _, mail := setupTestService(t)
	mail.failWith = errors.New("smtp unreachable")

	user, err := service.Register(context.Background(), "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v, mail failure should not fail registration", err)
	}

	if _, err := repo.FindByID(user.ID); err != nil {
		t.Errorf("user not persisted: %v", err)
	}
}

func TestAccountService_Login(t *testing.T) {
	service, _, tokens, _ := setupTestService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, token, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user.ID = %v, want %v", user.ID, registered.ID)
	}

	claims, err := tokens.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != registered.ID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, registered.ID)
	}
}

func TestAccountService_Login_InvalidCredentials(t *testing.T) {
	service, _, _, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{
			name:     "wrong password",
			username: "alice",
			password: "wrongpassword",
		},
		{
			name:     "unknown user",
			username: "nobody",
			password: "password123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAccountService_Login_BannedUser(t *testing.T) {
	service, repo, _, _ := setupTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := repo.db.Model(&domain.User{}).Where("id = ?", user.ID).Update("banned", true).Error; err != nil {
		t.Fatalf("failed to ban user: %v", err)
	}

	_, _, err = service.Login(ctx, "alice", "password123")
	if !errors.Is(err, ErrUserBanned) {
		t.Errorf("Login() error = %v, want ErrUserBanned", err)
	}
}

func TestAccountService_Verify(t *testing.T) {
	service, repo, _, mail := setupTestService(t)
	ctx := context.Background()

	alice, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	bob, err := service.Register(ctx, "bob", "bob@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Redeem the token from alice's verification email
	verified, err := service.Verify(ctx, mail.sent[0].token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.ID != alice.ID {
		t.Errorf("verified.ID = %v, want %v", verified.ID, alice.ID)
	}
	if !verified.Active {
		t.Error("verified user should be active")
	}

	// Only the token's embedded user is activated
	other, err := repo.FindByID(bob.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if other.Active {
		t.Error("verification activated an unrelated user")
	}
}

func TestAccountService_Verify_RejectsAccessToken(t *testing.T) {
	service, _, tokens, _ := setupTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	accessToken, err := tokens.GenerateAccessToken(user.ID, user.Username, false)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	_, err = service.Verify(ctx, accessToken)
	if !errors.Is(err, ErrInvalidTokenScope) {
		t.Errorf("Verify() error = %v, want ErrInvalidTokenScope", err)
	}
}

func TestAccountService_Verify_UnknownUser(t *testing.T) {
	service, _, tokens, _ := setupTestService(t)

	token, err := tokens.GenerateVerificationToken("no-such-user")
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}

	_, err = service.Verify(context.Background(), token)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Verify() error = %v, want ErrUserNotFound", err)
	}
}

func TestAccountService_ValidateAccess(t *testing.T) {
	service, repo, _, _ := setupTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, "alice", "alice@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, token, err := service.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := service.ValidateAccess(ctx, token)
	if err != nil {
		t.Fatalf("ValidateAccess() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, user.ID)
	}

	// Banning invalidates access even with a still-valid token
	if err := repo.db.Model(&domain.User{}).Where("id = ?", user.ID).Update("banned", true).Error; err != nil {
		t.Fatalf("failed to ban user: %v", err)
	}

	_, err = service.ValidateAccess(ctx, token)
	if !errors.Is(err, ErrUserBanned) {
		t.Errorf("ValidateAccess() error = %v, want ErrUserBanned", err)
	}
}
