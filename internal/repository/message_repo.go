package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// MessageRepository handles database operations for Message
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// ListByChat returns every message of a chat in send order
func (r *MessageRepository) ListByChat(chatID uuid.UUID) ([]model.Message, error) {
	messages := []model.Message{}
	err := r.db.
		Where("chat_id = ?", chatID).
		Order("sent_at ASC").
		Find(&messages).Error
	return messages, err
}

// DeleteByChat bulk-deletes all messages of a chat
func (r *MessageRepository) DeleteByChat(chatID uuid.UUID) error {
	return r.db.Where("chat_id = ?", chatID).Delete(&model.Message{}).Error
}
