package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"teamhub/internal/auth"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/model"
)

// AuthService owns the login/logout session flow. Refresh tokens are
// stored on the user row and rotated on every refresh.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users UserService
	jwt   *auth.JWTService
}

// NewAuthService creates an authentication service on top of the user service.
func NewAuthService(users UserService, jwt *auth.JWTService) AuthService {
	return &authService{users: users, jwt: jwt}
}

// Login verifies credentials and issues a token pair. The refresh token
// is persisted on the user record, replacing any previous one.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.users.CheckUserExists(ctx, UserQuery{Email: email})
	if err != nil {
		return "", "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if _, err := s.users.AddRefreshToken(ctx, user.Email, refreshToken); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh validates the presented refresh token against the store and
// rotates it, returning a fresh token pair.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if _, err := s.jwt.ValidateToken(refreshToken); err != nil {
		return "", "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.users.CheckUserExists(ctx, UserQuery{RefreshToken: refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("lookup refresh token: %w", err)
	}
	if user == nil {
		return "", "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	newRefreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	if _, err := s.users.AddRefreshToken(ctx, user.Email, newRefreshToken); err != nil {
		return "", "", fmt.Errorf("rotate refresh token: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

// Logout clears the stored refresh token, invalidating the session.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	user, err := s.users.CheckUserExists(ctx, UserQuery{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("lookup refresh token: %w", err)
	}
	if user == nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if _, err := s.users.DeleteRefreshToken(ctx, user.Email); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}
