package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatKind defines the audience of a chat room
type ChatKind string

const (
	ChatKindGeneral  ChatKind = "general"
	ChatKindBuilding ChatKind = "building"
	ChatKindPrivate  ChatKind = "private"
)

// Chat represents a chat room. Immutable after creation except for deletion.
type Chat struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Kind         ChatKind    `json:"kind" gorm:"type:varchar(20);not null"`
	BuildingName string      `json:"building_name" gorm:"size:100;default:''"` // set iff kind=building
	CreatorID    *uuid.UUID  `json:"creator_id,omitempty" gorm:"type:uuid"`
	CreatedAt    time.Time   `json:"created_at"`

	// Relations
	Members []ChatMember `json:"members,omitempty" gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
}

// RoomName is the identifier chats use in the socket layer.
func (c *Chat) RoomName() string {
	return RoomName(c.ID)
}

// RoomName builds the broadcast group name for a chat ID.
func RoomName(chatID uuid.UUID) string {
	return "chat:" + chatID.String()
}

// ChatMember records membership for private chats (exactly two rows per chat)
type ChatMember struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatID uuid.UUID `json:"chat_id" gorm:"type:uuid;uniqueIndex:idx_chat_user;not null"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_chat_user;not null"`
}

// MemberIDs returns the user IDs of the chat's member rows.
func (c *Chat) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}
