package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"teamhub/internal/auth"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/model"
)

// MockUserService is a mock implementation of UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CheckUserExists(ctx context.Context, q UserQuery) (*model.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) AddRefreshToken(ctx context.Context, email, token string) (*model.User, error) {
	args := m.Called(ctx, email, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteRefreshToken(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, filter map[string]interface{}) ([]model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*model.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	member := &model.User{ID: 3, Email: "ada@example.com", Password: string(hashed)}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserService)
		expectedError error
	}{
		{
			name:     "successful login stores rotated refresh token",
			email:    "ada@example.com",
			password: "password123",
			setupMock: func(m *MockUserService) {
				m.On("CheckUserExists", mock.Anything, UserQuery{Email: "ada@example.com"}).Return(member, nil)
				m.On("AddRefreshToken", mock.Anything, "ada@example.com", mock.AnythingOfType("string")).Return(member, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "password123",
			setupMock: func(m *MockUserService) {
				m.On("CheckUserExists", mock.Anything, UserQuery{Email: "ghost@example.com"}).Return(nil, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "ada@example.com",
			password: "nope",
			setupMock: func(m *MockUserService) {
				m.On("CheckUserExists", mock.Anything, UserQuery{Email: "ada@example.com"}).Return(member, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserService)
			tt.setupMock(mockUsers)

			svc := NewAuthService(mockUsers, auth.NewJWTService("test-secret"))
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.email, user.Email)
			}
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	member := &model.User{ID: 3, Email: "ada@example.com"}

	t.Run("valid token is rotated", func(t *testing.T) {
		oldToken, err := jwtService.GenerateRefreshToken(member.ID, member.Email)
		assert.NoError(t, err)

		mockUsers := new(MockUserService)
		mockUsers.On("CheckUserExists", mock.Anything, UserQuery{RefreshToken: oldToken}).Return(member, nil)
		mockUsers.On("AddRefreshToken", mock.Anything, member.Email, mock.AnythingOfType("string")).Return(member, nil)

		svc := NewAuthService(mockUsers, jwtService)
		accessToken, newToken, err := svc.Refresh(context.Background(), oldToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, newToken)
		assert.NotEqual(t, oldToken, newToken)
		mockUsers.AssertExpectations(t)
	})

	t.Run("garbage token is rejected before any lookup", func(t *testing.T) {
		mockUsers := new(MockUserService)

		svc := NewAuthService(mockUsers, jwtService)
		_, _, err := svc.Refresh(context.Background(), "not-a-jwt")

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockUsers.AssertNotCalled(t, "CheckUserExists", mock.Anything, mock.Anything)
	})

	t.Run("token unknown to the store is rejected", func(t *testing.T) {
		token, err := jwtService.GenerateRefreshToken(member.ID, member.Email)
		assert.NoError(t, err)

		mockUsers := new(MockUserService)
		mockUsers.On("CheckUserExists", mock.Anything, UserQuery{RefreshToken: token}).Return(nil, nil)

		svc := NewAuthService(mockUsers, jwtService)
		_, _, err = svc.Refresh(context.Background(), token)

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	member := &model.User{ID: 3, Email: "ada@example.com"}

	t.Run("clears the stored token", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("CheckUserExists", mock.Anything, UserQuery{RefreshToken: "token-abc"}).Return(member, nil)
		mockUsers.On("DeleteRefreshToken", mock.Anything, member.Email).Return(member, nil)

		svc := NewAuthService(mockUsers, auth.NewJWTService("test-secret"))
		err := svc.Logout(context.Background(), "token-abc")

		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		mockUsers := new(MockUserService)
		mockUsers.On("CheckUserExists", mock.Anything, UserQuery{RefreshToken: "stale"}).Return(nil, nil)

		svc := NewAuthService(mockUsers, auth.NewJWTService("test-secret"))
		err := svc.Logout(context.Background(), "stale")

		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockUsers.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
	})
}
