package repository

import (
	"context"

	"gorm.io/gorm"

	"teamhub/internal/model"
)

// RoleRepository reads roles. Role management lives outside this module.
type RoleRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	Save(ctx context.Context, role *model.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository builds a GORM-backed repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Save upserts a role. Only the seed command writes roles.
func (r *roleRepository) Save(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}
