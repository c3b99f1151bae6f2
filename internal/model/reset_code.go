package model

import (
	"time"

	"github.com/google/uuid"
)

// ResetCode is a one-time 6-digit code for password recovery
type ResetCode struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Code      string     `json:"-" gorm:"size:6;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at"` // NULL = not yet used
	CreatedAt time.Time  `json:"created_at"`
}

// IsValid checks if the code can still be used
func (c *ResetCode) IsValid() bool {
	return c.UsedAt == nil && time.Now().Before(c.ExpiresAt)
}
