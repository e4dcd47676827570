package model

import "time"

// Outbox row statuses.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// MailOutbox queues a registration mail for delivery. The row is written
// in the same transaction as the user it belongs to, so a created user
// always has a pending mail even if the broker is down at creation time.
type MailOutbox struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"index;not null"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Email     string     `json:"email" gorm:"size:255;not null"`
	Password  string     `json:"-" gorm:"size:64;not null"` // generated plaintext, pending delivery
	Status    string     `json:"status" gorm:"size:16;default:'pending';index"`
	Attempts  int        `json:"attempts" gorm:"default:0"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}
