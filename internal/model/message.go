package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat message. Append-only; deleted only in bulk when its
// parent chat is deleted. SentAt is assigned by the server on write.
type Message struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatID   uuid.UUID `json:"chat_id" gorm:"type:uuid;index;not null"`
	SenderID uuid.UUID `json:"sender_id" gorm:"type:uuid;index;not null"`
	Content  string    `json:"content" gorm:"type:text;not null"`
	SentAt   time.Time `json:"sent_at" gorm:"index;not null"`
}
