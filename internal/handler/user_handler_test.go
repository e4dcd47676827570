package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"teamhub/internal/model"
	"teamhub/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CheckUserExists(ctx context.Context, q service.UserQuery) (*model.User, error) {
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

func (m *MockUserService) UpdateUser(ctx context.Context, id uint, upd service.UserUpdate) (*model.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func authedContext(e *echo.Echo, req *http.Request, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &jwtv5.Token{Claims: jwtv5.MapClaims{"user_id": float64(userID)}})
	return c, rec
}

func TestUserHandler_CurrentUser(t *testing.T) {
	e := echo.New()

	t.Run("returns the caller's record", func(t *testing.T) {
		svc := new(MockUserService)
		id := uint(42)
		svc.On("CheckUserExists", mock.Anything, service.UserQuery{ID: &id}).
			Return(&model.User{ID: 42, Email: "ada@example.com"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users/current-user", nil)
		c, rec := authedContext(e, req, 42)

		h := NewUserHandler(svc)
		err := h.CurrentUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ada@example.com")
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/current-user", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewUserHandler(new(MockUserService))
		err := h.CurrentUser(c)

		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("unknown caller is not found", func(t *testing.T) {
		svc := new(MockUserService)
		id := uint(42)
		svc.On("CheckUserExists", mock.Anything, service.UserQuery{ID: &id}).Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users/current-user", nil)
		c, _ := authedContext(e, req, 42)

		h := NewUserHandler(svc)
		err := h.CurrentUser(c)

		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	e := echo.New()

	t.Run("maps allow-listed query params", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ListUsers", mock.Anything, map[string]interface{}{
			"show":      true,
			"team_role": 1,
		}).Return([]model.User{{ID: 1}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users?show=true&team_role=1&ignored=x", nil)
		c, rec := authedContext(e, req, 42)

		h := NewUserHandler(svc)
		err := h.ListUsers(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid filter value is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users?show=maybe", nil)
		c, _ := authedContext(e, req, 42)

		h := NewUserHandler(new(MockUserService))
		err := h.ListUsers(c)

		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestUserHandler_UpdateUser(t *testing.T) {
	e := echo.New()

	t.Run("explicit target id", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateUser", mock.Anything, uint(5), mock.Anything).
			Return(&model.User{ID: 5, Name: "Ada L"}, nil)

		body := `{"id":5,"name":"Ada L"}`
		req := httptest.NewRequest(http.MethodPut, "/api/users/update-user", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, rec := authedContext(e, req, 42)

		h := NewUserHandler(svc)
		err := h.UpdateUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("defaults to the caller", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateUser", mock.Anything, uint(42), mock.Anything).
			Return(&model.User{ID: 42}, nil)

		body := `{"bio":"updated"}`
		req := httptest.NewRequest(http.MethodPut, "/api/users/update-user", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c, rec := authedContext(e, req, 42)

		h := NewUserHandler(svc)
		err := h.UpdateUser(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}
