package model

import (
	"time"

	"github.com/google/uuid"
)

// PushToken is a device's push handle. Keyed by the token string: a user may
// hold several tokens (multi-device) and a token is reassignable across users
// (last writer wins) because physical devices get reused.
type PushToken struct {
	Token     string     `json:"token" gorm:"primaryKey;size:255"`
	UserID    *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Platform  string     `json:"platform" gorm:"size:20;default:'unknown'"` // ios, android, unknown
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
