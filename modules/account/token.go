package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or its signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token is past its validity window.
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidTokenScope is returned when a well-formed token carries the
	// wrong scope for the attempted operation, e.g. a verification token
	// presented where an access token is required.
	ErrInvalidTokenScope = errors.New("token has invalid scope for this operation")
)

// Token scopes.
const (
	ScopeAccess = "access"
	ScopeVerify = "verify"
)

// TokenConfig holds token signing configuration.
type TokenConfig struct {
	SecretKey           string
	AccessTokenDuration time.Duration
	VerifyTokenDuration time.Duration
	Issuer              string
}

// DefaultTokenConfig returns a default token configuration.
// In production, the secret key must be loaded from SECRET_KEY.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		SecretKey:           "your-secret-key-change-in-production",
		AccessTokenDuration: 12 * time.Hour,
		VerifyTokenDuration: 24 * time.Hour,
		Issuer:              "todo-app",
	}
}

// TokenClaims represents the custom claims carried by signed tokens.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access and verification tokens.
type TokenManager struct {
	config TokenConfig
}

// NewTokenManager creates a new TokenManager with the given configuration.
func NewTokenManager(config TokenConfig) *TokenManager {
	return &TokenManager{
		config: config,
	}
}

// GenerateAccessToken generates a new access token for the given user.
func (m *TokenManager) GenerateAccessToken(userID, username string, admin bool) (string, error) {
	return m.generateToken(userID, username, admin, ScopeAccess, m.config.AccessTokenDuration)
}

// GenerateVerificationToken generates a token that activates the given user
// when redeemed. Only the user id is embedded in the payload.
func (m *TokenManager) GenerateVerificationToken(userID string) (string, error) {
	return m.generateToken(userID, "", false, ScopeVerify, m.config.VerifyTokenDuration)
}

// generateToken creates a new JWT token with the specified parameters.
func (m *TokenManager) generateToken(userID, username string, admin bool, scope string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   userID,
		Username: username,
		Admin:    admin,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// ValidateToken validates the token signature and returns the claims if valid.
func (m *TokenManager) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateAccessToken validates a token and requires the access scope.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Scope != ScopeAccess {
		return nil, ErrInvalidTokenScope
	}

	return claims, nil
}

// ValidateVerificationToken validates a token and requires the verify scope.
func (m *TokenManager) ValidateVerificationToken(tokenString string) (*TokenClaims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Scope != ScopeVerify {
		return nil, ErrInvalidTokenScope
	}

	return claims, nil
}

// AccessTokenDuration returns the access token duration in seconds.
func (m *TokenManager) AccessTokenDuration() int64 {
	return int64(m.config.AccessTokenDuration.Seconds())
}
