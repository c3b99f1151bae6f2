package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

// Validation and lookup failures handlers map to HTTP status codes.
var (
	ErrChatNotFound        = errors.New("chat not found")
	ErrEmptyContent        = errors.New("message content cannot be empty")
	ErrMissingBuildingName = errors.New("building chats require a building name")
	ErrPrivateMemberCount  = errors.New("private chats require exactly 2 distinct members")
	ErrUnknownChatKind     = errors.New("unknown chat kind")
)

// ChatStore is the persistence surface ChatService needs for chats.
type ChatStore interface {
	Create(chat *model.Chat) error
	FindByID(id uuid.UUID) (*model.Chat, error)
	ListAll() ([]model.Chat, error)
	Delete(id uuid.UUID) error
}

// MessageStore is the persistence surface ChatService needs for messages.
type MessageStore interface {
	Create(msg *model.Message) error
	ListByChat(chatID uuid.UUID) ([]model.Message, error)
	DeleteByChat(chatID uuid.UUID) error
}

// ChatService handles chat room business logic. Broadcasting is left to
// the handlers so a message is never announced before it is persisted.
type ChatService struct {
	chatStore ChatStore
	msgStore  MessageStore
}

func NewChatService(chatStore ChatStore, msgStore MessageStore) *ChatService {
	return &ChatService{
		chatStore: chatStore,
		msgStore:  msgStore,
	}
}

// CreateChat validates and persists a new chat room.
//
// general chats have no extra fields. building chats must name their
// building. private chats must list exactly two distinct members.
func (s *ChatService) CreateChat(creatorID *uuid.UUID, req model.CreateChatRequest) (*model.Chat, error) {
	chat := &model.Chat{
		Kind:      req.Kind,
		CreatorID: creatorID,
	}

	switch req.Kind {
	case model.ChatKindGeneral:
		// Nothing extra to validate.

	case model.ChatKindBuilding:
		name := strings.TrimSpace(req.BuildingName)
		if name == "" {
			return nil, ErrMissingBuildingName
		}
		chat.BuildingName = name

	case model.ChatKindPrivate:
		if len(req.Members) != 2 || req.Members[0] == req.Members[1] {
			return nil, ErrPrivateMemberCount
		}
		for _, userID := range req.Members {
			chat.Members = append(chat.Members, model.ChatMember{UserID: userID})
		}

	default:
		return nil, ErrUnknownChatKind
	}

	if err := s.chatStore.Create(chat); err != nil {
		return nil, err
	}
	return s.chatStore.FindByID(chat.ID)
}

// GetChat returns one chat with its members
func (s *ChatService) GetChat(id uuid.UUID) (*model.Chat, error) {
	chat, err := s.chatStore.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	return chat, err
}

// ListChats returns every chat room
func (s *ChatService) ListChats() ([]model.Chat, error) {
	return s.chatStore.ListAll()
}

// DeleteChat removes a chat together with its message history and member
// rows. Deleting a chat that does not exist returns ErrChatNotFound.
func (s *ChatService) DeleteChat(id uuid.UUID) error {
	if _, err := s.chatStore.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatNotFound
		}
		return err
	}

	if err := s.msgStore.DeleteByChat(id); err != nil {
		return err
	}
	err := s.chatStore.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Concurrent delete got there first; history is gone either way.
		return ErrChatNotFound
	}
	return err
}

// ListMessages returns the full message history of a chat in send order
func (s *ChatService) ListMessages(chatID uuid.UUID) ([]model.Message, error) {
	if _, err := s.chatStore.FindByID(chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return s.msgStore.ListByChat(chatID)
}

// PostMessage validates and persists a message. The send timestamp is
// assigned here, not taken from the client. Callers broadcast the
// returned message only after this succeeds.
func (s *ChatService) PostMessage(req model.PostMessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if _, err := s.chatStore.FindByID(req.ChatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	msg := &model.Message{
		ChatID:   req.ChatID,
		SenderID: req.SenderID,
		Content:  content,
		SentAt:   time.Now().UTC(),
	}
	if err := s.msgStore.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}
