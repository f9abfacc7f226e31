package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/Rrens/prompt-playground/internal/domain"
	"github.com/Rrens/prompt-playground/internal/security"
)

// ErrInvalidCredentials is returned for a failed login
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single configured operator
type AuthService struct {
	username     string
	passwordHash string
	jwtManager   *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(username, passwordHash string, jwtManager *security.JWTManager) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		jwtManager:   jwtManager,
	}
}

// Login checks the credentials and returns an access token
func (s *AuthService) Login(ctx context.Context, input domain.Credentials) (*domain.AccessToken, error) {
	if subtle.ConstantTimeCompare([]byte(input.Username), []byte(s.username)) != 1 {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(s.passwordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(s.username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.AccessToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}
