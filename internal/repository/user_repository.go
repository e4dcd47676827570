package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	apperrors "teamhub/internal/errors"
	"teamhub/internal/model"
)

const mysqlDuplicateEntry = 1062

// UserRepository defines user persistence operations. Every read resolves
// the Role relation.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateOutbox(ctx context.Context, row *model.MailOutbox) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*model.User, error)
	List(ctx context.Context, filter map[string]interface{}) ([]model.User, error)
	SetRefreshToken(ctx context.Context, id uint, token *string) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. A duplicate email surfaces as ErrEmailTaken.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// CreateOutbox inserts a pending mail row. Exposed on the user repository
// so it can share a transaction with Create.
func (r *userRepository) CreateOutbox(ctx context.Context, row *model.MailOutbox) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByID finds a user by primary key with the role resolved.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email with the role resolved.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role").
		Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRefreshToken finds a user holding the given refresh token.
func (r *userRepository) FindByRefreshToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role").
		Where("refresh_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users matching the column filter, roles resolved.
// An empty filter returns everything; no pagination or ordering.
func (r *userRepository) List(ctx context.Context, filter map[string]interface{}) ([]model.User, error) {
	q := r.db.WithContext(ctx).Preload("Role")
	if len(filter) > 0 {
		q = q.Where(filter)
	}
	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetRefreshToken sets or clears (nil) the refresh token column.
func (r *userRepository) SetRefreshToken(ctx context.Context, id uint, token *string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// UpdateFields applies a column map to one row. A duplicate email
// surfaces as ErrEmailTaken.
func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return translateDuplicate(err)
	}
	return nil
}

// WithTransaction executes a function within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return apperrors.ErrEmailTaken
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrEmailTaken
	}
	return err
}
