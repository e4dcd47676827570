package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"teamhub/internal/cache"
	apperrors "teamhub/internal/errors"
	"teamhub/internal/model"
	"teamhub/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// UserQuery selects a single user by exactly one key. Keys are tried in
// declaration order: ID, then Email, then RefreshToken.
type UserQuery struct {
	ID           *uint
	Email        string
	RefreshToken string
}

// UserUpdate enumerates the fields a caller may attempt to change. Nil
// means "leave untouched". Which fields actually reach the store is
// decided by the allow-list in UpdateUser.
type UserUpdate struct {
	Name               *string               `json:"name,omitempty"`
	Bio                *string               `json:"bio,omitempty"`
	Password           *string               `json:"password,omitempty"`
	RoleID             *uint                 `json:"role_id,omitempty"`
	ExtraPermissions   *model.PermissionList `json:"extra_permissions,omitempty"`
	RemovedPermissions *model.PermissionList `json:"removed_permissions,omitempty"`
}

// UserService exposes the account operations.
type UserService interface {
	CheckUserExists(ctx context.Context, q UserQuery) (*model.User, error)
	AddRefreshToken(ctx context.Context, email, token string) (*model.User, error)
	DeleteRefreshToken(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, filter map[string]interface{}) ([]model.User, error)
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*model.User, error)
}

type userService struct {
	users         repository.UserRepository
	roles         repository.RoleRepository
	cache         *cache.Client
	defaultRoleID uint
}

// NewUserService builds a UserService. defaultRoleID is the role assigned
// to freshly created users; it is resolved from configuration once at
// startup, not read from the environment per request.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, cache *cache.Client, defaultRoleID uint) UserService {
	return &userService{
		users:         users,
		roles:         roles,
		cache:         cache,
		defaultRoleID: defaultRoleID,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// CheckUserExists tries the query keys in order and returns the first
// match with its role resolved. Absence is (nil, nil), never an error;
// only store failures are reported.
func (s *userService) CheckUserExists(ctx context.Context, q UserQuery) (*model.User, error) {
	if q.ID != nil {
		if data, _ := s.cache.Get(ctx, s.cacheKey(*q.ID)); data != nil {
			var cached model.User
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
		user, err := s.users.FindByID(ctx, *q.ID)
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		if payload, err := json.Marshal(user); err == nil {
			_ = s.cache.Set(ctx, s.cacheKey(user.ID), payload, userCacheTTL)
		}
		return user, nil
	}
	if q.Email != "" {
		user, err := s.users.FindByEmail(ctx, q.Email)
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		return user, nil
	}
	if q.RefreshToken != "" {
		user, err := s.users.FindByRefreshToken(ctx, q.RefreshToken)
		if err != nil {
			return nil, ignoreNotFound(err)
		}
		return user, nil
	}
	return nil, nil
}

// AddRefreshToken stores a refresh token on the user matching the email
// and returns the updated record. No match returns (nil, nil).
func (s *userService) AddRefreshToken(ctx context.Context, email, token string) (*model.User, error) {
	return s.setRefreshToken(ctx, email, &token)
}

// DeleteRefreshToken clears the refresh token on the user matching the
// email and returns the updated record. No match returns (nil, nil).
func (s *userService) DeleteRefreshToken(ctx context.Context, email string) (*model.User, error) {
	return s.setRefreshToken(ctx, email, nil)
}

func (s *userService) setRefreshToken(ctx context.Context, email string, token *string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ignoreNotFound(err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, token); err != nil {
		return nil, fmt.Errorf("set refresh token: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	user.RefreshToken = token
	return user, nil
}

// ListUsers returns every user matching the column filter, roles
// resolved. Unranked full-match semantics; no pagination.
func (s *userService) ListUsers(ctx context.Context, filter map[string]interface{}) ([]model.User, error) {
	return s.users.List(ctx, filter)
}

// CreateUser creates an account with a generated 7-character password and
// queues a registration mail carrying the plaintext. The user row and the
// outbox row are written in one transaction, so a created user is never
// silently left unnotified: delivery is retried from the outbox.
func (s *userService) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	password := generateRandomPassword(generatedPasswordLength)
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		RoleID:   s.defaultRoleID,
	}

	err = s.users.WithTransaction(ctx, func(ctx context.Context, tx repository.UserRepository) error {
		if err := tx.Create(ctx, user); err != nil {
			return err
		}
		return tx.CreateOutbox(ctx, &model.MailOutbox{
			UserID:   user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Password: password,
			Status:   model.OutboxPending,
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// UpdateUser applies a field-filtered update. Name, bio and password are
// always writable; role and permission lists only when the target record
// itself already carries the UpdateProfile extra permission. A password
// making it through the filter is re-hashed before it is stored.
func (s *userService) UpdateUser(ctx context.Context, id uint, upd UserUpdate) (*model.User, error) {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hashed)
	}

	if target.ExtraPermissions.Contains(model.UpdateProfile) {
		if upd.RoleID != nil {
			if _, err := s.roles.FindByID(ctx, *upd.RoleID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.ErrRoleNotFound
				}
				return nil, fmt.Errorf("load role %d: %w", *upd.RoleID, err)
			}
			fields["role_id"] = *upd.RoleID
		}
		if upd.ExtraPermissions != nil {
			if !upd.ExtraPermissions.Valid() {
				return nil, apperrors.ErrInvalidPermission
			}
			fields["extra_permissions"] = *upd.ExtraPermissions
		}
		if upd.RemovedPermissions != nil {
			if !upd.RemovedPermissions.Valid() {
				return nil, apperrors.ErrInvalidPermission
			}
			fields["removed_permissions"] = *upd.RemovedPermissions
		}
	}

	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	updated, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload user %d: %w", id, err)
	}
	return updated, nil
}

// ignoreNotFound maps gorm's record-not-found to nil so lookup-style
// operations can report absence as a nil result.
func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
