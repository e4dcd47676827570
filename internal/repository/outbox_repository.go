package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teamhub/internal/model"
)

// OutboxRepository drives the mail dispatch loop.
type OutboxRepository interface {
	ListPending(ctx context.Context, limit int) ([]model.MailOutbox, error)
	MarkSent(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint) error
	IncrementAttempts(ctx context.Context, id uint) error
}

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository builds a GORM-backed repository.
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// ListPending returns oldest-first pending rows up to limit.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]model.MailOutbox, error) {
	var rows []model.MailOutbox
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.MailOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": model.OutboxSent, "sent_at": &now}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.MailOutbox{}).
		Where("id = ?", id).
		Update("status", model.OutboxFailed).Error
}

func (r *outboxRepository) IncrementAttempts(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.MailOutbox{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}
