package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/armandomtz/fraccionet/internal/model"
)

type fakeChatStore struct {
	chats map[uuid.UUID]*model.Chat
	ops   *[]string

	createErr error
}

func newFakeChatStore(ops *[]string) *fakeChatStore {
	return &fakeChatStore{chats: make(map[uuid.UUID]*model.Chat), ops: ops}
}

func (f *fakeChatStore) Create(chat *model.Chat) error {
	if f.createErr != nil {
		return f.createErr
	}
	if chat.ID == uuid.Nil {
		chat.ID = uuid.New()
	}
	chat.CreatedAt = time.Now()
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatStore) FindByID(id uuid.UUID) (*model.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return chat, nil
}

func (f *fakeChatStore) ListAll() ([]model.Chat, error) {
	out := make([]model.Chat, 0, len(f.chats))
	for _, c := range f.chats {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeChatStore) Delete(id uuid.UUID) error {
	if f.ops != nil {
		*f.ops = append(*f.ops, "chat.Delete")
	}
	if _, ok := f.chats[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.chats, id)
	return nil
}

type fakeMessageStore struct {
	messages map[uuid.UUID][]model.Message
	ops      *[]string

	deleteErr error
}

func newFakeMessageStore(ops *[]string) *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[uuid.UUID][]model.Message), ops: ops}
}

func (f *fakeMessageStore) Create(msg *model.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	f.messages[msg.ChatID] = append(f.messages[msg.ChatID], *msg)
	return nil
}

func (f *fakeMessageStore) ListByChat(chatID uuid.UUID) ([]model.Message, error) {
	return f.messages[chatID], nil
}

func (f *fakeMessageStore) DeleteByChat(chatID uuid.UUID) error {
	if f.ops != nil {
		*f.ops = append(*f.ops, "message.DeleteByChat")
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.messages, chatID)
	return nil
}

func newChatServiceForTest() (*ChatService, *fakeChatStore, *fakeMessageStore, *[]string) {
	ops := &[]string{}
	chats := newFakeChatStore(ops)
	msgs := newFakeMessageStore(ops)
	return NewChatService(chats, msgs), chats, msgs, ops
}

func TestChatService_CreateChat_General(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	chat, err := svc.CreateChat(nil, model.CreateChatRequest{Kind: model.ChatKindGeneral})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if chat.ID == uuid.Nil {
		t.Error("expected chat to be persisted with an ID")
	}
	if chat.Kind != model.ChatKindGeneral {
		t.Errorf("Kind = %v, want general", chat.Kind)
	}
}

func TestChatService_CreateChat_BuildingRequiresName(t *testing.T) {
	svc, store, _, _ := newChatServiceForTest()

	_, err := svc.CreateChat(nil, model.CreateChatRequest{
		Kind:         model.ChatKindBuilding,
		BuildingName: "   ",
	})
	if !errors.Is(err, ErrMissingBuildingName) {
		t.Fatalf("expected ErrMissingBuildingName, got: %v", err)
	}
	if len(store.chats) != 0 {
		t.Error("rejected chat must not be persisted")
	}

	chat, err := svc.CreateChat(nil, model.CreateChatRequest{
		Kind:         model.ChatKindBuilding,
		BuildingName: "  Torre A  ",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if chat.BuildingName != "Torre A" {
		t.Errorf("BuildingName = %q, want trimmed %q", chat.BuildingName, "Torre A")
	}
}

func TestChatService_CreateChat_PrivateMemberValidation(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()
	a, b := uuid.New(), uuid.New()

	cases := []struct {
		name    string
		members []uuid.UUID
		wantErr bool
	}{
		{"no members", nil, true},
		{"one member", []uuid.UUID{a}, true},
		{"three members", []uuid.UUID{a, b, uuid.New()}, true},
		{"duplicate member", []uuid.UUID{a, a}, true},
		{"two distinct members", []uuid.UUID{a, b}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chat, err := svc.CreateChat(nil, model.CreateChatRequest{
				Kind:    model.ChatKindPrivate,
				Members: tc.members,
			})
			if tc.wantErr {
				if !errors.Is(err, ErrPrivateMemberCount) {
					t.Fatalf("expected ErrPrivateMemberCount, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if len(chat.Members) != 2 {
				t.Errorf("expected 2 member rows, got %d", len(chat.Members))
			}
		})
	}
}

func TestChatService_CreateChat_UnknownKind(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	_, err := svc.CreateChat(nil, model.CreateChatRequest{Kind: "grupo"})
	if !errors.Is(err, ErrUnknownChatKind) {
		t.Fatalf("expected ErrUnknownChatKind, got: %v", err)
	}
}

func TestChatService_DeleteChat_RemovesMessagesFirst(t *testing.T) {
	svc, _, msgs, ops := newChatServiceForTest()

	chat, err := svc.CreateChat(nil, model.CreateChatRequest{Kind: model.ChatKindGeneral})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}
	if _, err := svc.PostMessage(model.PostMessageRequest{
		ChatID: chat.ID, SenderID: uuid.New(), Content: "hola",
	}); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}

	if err := svc.DeleteChat(chat.ID); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}

	want := []string{"message.DeleteByChat", "chat.Delete"}
	if len(*ops) != 2 || (*ops)[0] != want[0] || (*ops)[1] != want[1] {
		t.Errorf("delete order = %v, want %v", *ops, want)
	}
	if len(msgs.messages[chat.ID]) != 0 {
		t.Error("expected message history to be removed")
	}
}

func TestChatService_DeleteChat_NotFound(t *testing.T) {
	svc, _, _, ops := newChatServiceForTest()

	err := svc.DeleteChat(uuid.New())
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got: %v", err)
	}
	if len(*ops) != 0 {
		t.Errorf("nothing should be deleted for an unknown chat, got ops %v", *ops)
	}
}

func TestChatService_DeleteChat_ChatSurvivesMessageDeleteFailure(t *testing.T) {
	svc, store, msgs, _ := newChatServiceForTest()
	msgs.deleteErr = errors.New("db down")

	chat, err := svc.CreateChat(nil, model.CreateChatRequest{Kind: model.ChatKindGeneral})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	if err := svc.DeleteChat(chat.ID); err == nil {
		t.Fatal("expected error when message delete fails")
	}
	if _, ok := store.chats[chat.ID]; !ok {
		t.Error("chat must still exist when its history could not be removed")
	}
}

func TestChatService_PostMessage_Validation(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	chat, err := svc.CreateChat(nil, model.CreateChatRequest{Kind: model.ChatKindGeneral})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	_, err = svc.PostMessage(model.PostMessageRequest{ChatID: chat.ID, Content: "   "})
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got: %v", err)
	}

	_, err = svc.PostMessage(model.PostMessageRequest{ChatID: uuid.New(), Content: "hola"})
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got: %v", err)
	}
}

func TestChatService_PostMessage_ServerAssignsTimestamp(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	chat, err := svc.CreateChat(nil, model.CreateChatRequest{Kind: model.ChatKindGeneral})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	before := time.Now().UTC()
	msg, err := svc.PostMessage(model.PostMessageRequest{
		ChatID:   chat.ID,
		SenderID: uuid.New(),
		Content:  "  buenos días  ",
	})
	after := time.Now().UTC()
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}

	if msg.Content != strings.TrimSpace("  buenos días  ") {
		t.Errorf("Content = %q, want trimmed", msg.Content)
	}
	if msg.SentAt.Before(before) || msg.SentAt.After(after) {
		t.Errorf("SentAt = %v, want between %v and %v", msg.SentAt, before, after)
	}
}

func TestChatService_ListMessages_UnknownChat(t *testing.T) {
	svc, _, _, _ := newChatServiceForTest()

	_, err := svc.ListMessages(uuid.New())
	if !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got: %v", err)
	}
}
