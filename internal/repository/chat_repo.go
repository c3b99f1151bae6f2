package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// ChatRepository handles database operations for Chat
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create persists a new chat with its member rows
func (r *ChatRepository) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

// FindByID finds a chat by ID with members
func (r *ChatRepository) FindByID(id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.
		Preload("Members").
		Where("id = ?", id).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListAll returns every chat, newest first
func (r *ChatRepository) ListAll() ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.
		Preload("Members").
		Order("created_at DESC").
		Find(&chats).Error
	return chats, err
}

// Delete removes a chat and its member rows. Returns
// gorm.ErrRecordNotFound when nothing matched so callers can distinguish
// "nothing to do" from "something broke".
func (r *ChatRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", id).Delete(&model.ChatMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Chat{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
