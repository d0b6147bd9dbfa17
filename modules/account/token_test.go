package account

import (
	"testing"
	"time"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		SecretKey:           "test-secret-key",
		AccessTokenDuration: 15 * time.Minute,
		VerifyTokenDuration: 24 * time.Hour,
		Issuer:              "test-issuer",
	}
}

func TestTokenManager_GenerateAndValidateAccessToken(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	userID := "user-123"
	username := "alice"

	token, err := manager.GenerateAccessToken(userID, username, true)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateAccessToken() returned empty token")
	}

	claims, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Username != username {
		t.Errorf("claims.Username = %v, want %v", claims.Username, username)
	}
	if !claims.Admin {
		t.Error("claims.Admin = false, want true")
	}
	if claims.Scope != ScopeAccess {
		t.Errorf("claims.Scope = %v, want %v", claims.Scope, ScopeAccess)
	}
}

func TestTokenManager_GenerateAndValidateVerificationToken(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	token, err := manager.GenerateVerificationToken("user-456")
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}

	claims, err := manager.ValidateVerificationToken(token)
	if err != nil {
		t.Fatalf("ValidateVerificationToken() error = %v", err)
	}

	if claims.UserID != "user-456" {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, "user-456")
	}
	if claims.Scope != ScopeVerify {
		t.Errorf("claims.Scope = %v, want %v", claims.Scope, ScopeVerify)
	}
}

func TestTokenManager_AccessTokenCannotBeUsedForVerification(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	accessToken, err := manager.GenerateAccessToken("user-123", "alice", false)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	_, err = manager.ValidateVerificationToken(accessToken)
	if err == nil {
		t.Error("ValidateVerificationToken() should reject access token")
	}
	if err != ErrInvalidTokenScope {
		t.Errorf("expected ErrInvalidTokenScope, got %v", err)
	}
}

func TestTokenManager_VerificationTokenCannotBeUsedForAccess(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	verifyToken, err := manager.GenerateVerificationToken("user-123")
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}

	_, err = manager.ValidateAccessToken(verifyToken)
	if err == nil {
		t.Error("ValidateAccessToken() should reject verification token")
	}
	if err != ErrInvalidTokenScope {
		t.Errorf("expected ErrInvalidTokenScope, got %v", err)
	}
}

func TestTokenManager_InvalidToken(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "random string",
			token: "not.a.valid.token",
		},
		{
			name:  "malformed jwt",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.ValidateToken(tt.token)
			if err == nil {
				t.Error("ValidateToken() should return error for invalid token")
			}
		})
	}
}

func TestTokenManager_TamperedToken(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	token, err := manager.GenerateVerificationToken("user-123")
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}

	// Flip a character in the payload segment
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = manager.ValidateVerificationToken(string(tampered))
	if err == nil {
		t.Error("ValidateVerificationToken() should reject tampered token")
	}
	if err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_WrongSecretKey(t *testing.T) {
	config1 := testTokenConfig()
	config2 := testTokenConfig()
	config2.SecretKey = "a-different-secret-key"

	manager1 := NewTokenManager(config1)
	manager2 := NewTokenManager(config2)

	token, err := manager1.GenerateAccessToken("user-123", "alice", false)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	_, err = manager2.ValidateToken(token)
	if err == nil {
		t.Error("ValidateToken() should fail with different secret key")
	}
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	config := testTokenConfig()
	config.AccessTokenDuration = 1 * time.Millisecond
	config.VerifyTokenDuration = 1 * time.Millisecond
	manager := NewTokenManager(config)

	token, err := manager.GenerateVerificationToken("user-123")
	if err != nil {
		t.Fatalf("GenerateVerificationToken() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err = manager.ValidateToken(token)
	if err == nil {
		t.Error("ValidateToken() should fail for expired token")
	}
	if err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenManager_AccessTokenDuration(t *testing.T) {
	config := testTokenConfig()
	config.AccessTokenDuration = 30 * time.Minute
	manager := NewTokenManager(config)

	expected := int64(30 * 60)
	if got := manager.AccessTokenDuration(); got != expected {
		t.Errorf("AccessTokenDuration() = %v, want %v", got, expected)
	}
}
