package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/drmadhusudhan/clinic-api/config"
	"github.com/drmadhusudhan/clinic-api/pkg/auth"
)

// LoginResult carries the issued session token.
type LoginResult struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// dummyHash is a valid bcrypt hash of a throwaway value, compared against
// when the email does not match the configured admin.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService authenticates the single configured admin account. There is
// no user table: credentials come from configuration.
type AuthService struct {
	admin config.AdminConfig
	jwt   *auth.JWTManager
	log   *zap.Logger
}

func NewAuthService(admin config.AdminConfig, jwt *auth.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{admin: admin, jwt: jwt, log: log}
}

// Login verifies the admin credentials and issues a short-lived token.
// The same ErrInvalidCredentials covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &ValidationError{Fields: []string{"email and password are required"}}
	}

	if s.admin.PasswordHash == "" || !strings.EqualFold(email, s.admin.Email) {
		// Unknown emails must cost the same as wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("admin login failed", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateToken(&auth.Claims{Email: email, Role: "admin"})
	if err != nil {
		return nil, err
	}

	s.log.Info("admin logged in", zap.String("email", email))
	return &LoginResult{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// Validate parses a bearer token and returns the admin claims.
func (s *AuthService) Validate(token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if claims.Role != "admin" {
		return nil, ErrForbidden
	}
	return claims, nil
}
