package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLog is the dedup record for scheduled notifications: at most
// one row may exist per (kind, user, reference day). The composite unique
// index is the dedup gate — inserts race instead of check-then-insert.
type NotificationLog struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind          string    `json:"kind" gorm:"size:50;uniqueIndex:idx_notif_dedup;not null"` // e.g. vigencia-3d
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_notif_dedup;not null"`
	ReferenceDate time.Time `json:"reference_date" gorm:"uniqueIndex:idx_notif_dedup;not null"` // start of target day
	CreatedAt     time.Time `json:"created_at"`
}
