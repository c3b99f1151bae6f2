package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/service"
	"github.com/armandomtz/fraccionet/internal/ws"
)

// ChatHandler handles chat-related HTTP endpoints
type ChatHandler struct {
	chatService *service.ChatService
	hub         *ws.Hub
}

func NewChatHandler(chatService *service.ChatService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{chatService: chatService, hub: hub}
}

// ListChats godoc
// @Summary List all chat rooms
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Chat
// @Router /chats [get]
func (h *ChatHandler) ListChats(c *gin.Context) {
	chats, err := h.chatService.ListChats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list chats"})
		return
	}
	c.JSON(http.StatusOK, chats)
}

// CreateChat godoc
// @Summary Create a chat room
// @Description general, building (requires building_name) or private (requires exactly 2 members)
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateChatRequest true "Create chat request"
// @Success 201 {object} model.Chat
// @Failure 400 {object} model.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req model.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	chat, err := h.chatService.CreateChat(&userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	// Announce after the chat exists so no client learns about a room
	// it cannot fetch.
	h.hub.BroadcastAll(&model.WSEvent{
		Type:    model.WSEventChatCreated,
		Payload: chat,
	})

	c.JSON(http.StatusCreated, chat)
}

// DeleteChat godoc
// @Summary Delete a chat room and its message history
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /chats/{id} [delete]
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid chat ID"})
		return
	}

	if err := h.chatService.DeleteChat(chatID); err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to delete chat"})
		return
	}

	// Scoped to the room: only connections with the chat open need to
	// close the view.
	h.hub.BroadcastToRoom(model.RoomName(chatID), &model.WSEvent{
		Type:    model.WSEventChatDeleted,
		Payload: model.ChatDeletedPayload{ChatID: chatID},
	})

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Chat eliminado"})
}

// ListMessages godoc
// @Summary Get the full message history of a chat
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Success 200 {array} model.Message
// @Failure 404 {object} model.ErrorResponse
// @Router /chats/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid chat ID"})
		return
	}

	messages, err := h.chatService.ListMessages(chatID)
	if err != nil {
		if errors.Is(err, service.ErrChatNotFound) {
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// PostMessage godoc
// @Summary Post a message into a chat
// @Description Persists the message, then broadcasts mensaje:nuevo to the chat's room
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Param body body model.PostMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /chats/{id}/messages [post]
func (h *ChatHandler) PostMessage(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid chat ID"})
		return
	}

	var req model.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}
	req.ChatID = chatID
	if req.SenderID == uuid.Nil {
		req.SenderID = c.MustGet("user_id").(uuid.UUID)
	}

	msg, err := h.chatService.PostMessage(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChatNotFound):
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Failed to post message"})
		}
		return
	}

	h.hub.BroadcastToRoom(model.RoomName(chatID), &model.WSEvent{
		Type:    model.WSEventNewMessage,
		Payload: msg,
	})

	c.JSON(http.StatusCreated, msg)
}
