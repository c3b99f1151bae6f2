package model

import (
	"time"

	"github.com/google/uuid"
)

// Rule is one entry of the unit's reglamento
type Rule struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Text      string     `json:"text" gorm:"type:text;not null"`
	AdminID   *uuid.UUID `json:"admin_id,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
