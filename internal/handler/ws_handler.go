package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/service"
	"github.com/armandomtz/fraccionet/internal/ws"
	"github.com/armandomtz/fraccionet/pkg/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate origin
	},
}

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub         *ws.Hub
	chatService *service.ChatService
	jwtManager  *auth.JWTManager
}

func NewWSHandler(hub *ws.Hub, chatService *service.ChatService, jwtManager *auth.JWTManager) *WSHandler {
	return &WSHandler{
		hub:         hub,
		chatService: chatService,
		jwtManager:  jwtManager,
	}
}

// HandleWebSocket upgrades HTTP to WebSocket and manages the connection
// Client connects with: ws://host/ws?token=<jwt_token>
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	// Authenticate via query parameter (WebSocket can't use Authorization header)
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID, claims.Name)
	h.hub.Register(client)

	log.Printf("✅ WS conectado: UserID=%s Name=%s", claims.UserID, claims.Name)

	go client.WritePump()
	go client.ReadPump(h.handleWSMessage)
}

// handleWSMessage processes incoming WebSocket events from clients
func (h *WSHandler) handleWSMessage(client *ws.Client, event model.WSEvent) {
	switch event.Type {
	case model.WSEventJoinChat:
		h.handleJoin(client, event)

	case model.WSEventLeaveChat:
		h.handleLeave(client, event)

	case model.WSEventSendMessage:
		h.handleSendMessage(client, event)

	default:
		log.Printf("Unknown WebSocket event type: %s", event.Type)
	}
}

// handleJoin subscribes the connection to a chat's room
func (h *WSHandler) handleJoin(client *ws.Client, event model.WSEvent) {
	var payload model.JoinLeavePayload
	if !decodePayload(event.Payload, &payload) {
		return
	}
	h.hub.Join(client, model.RoomName(payload.ChatID))
}

// handleLeave unsubscribes the connection from a chat's room
func (h *WSHandler) handleLeave(client *ws.Client, event model.WSEvent) {
	var payload model.JoinLeavePayload
	if !decodePayload(event.Payload, &payload) {
		return
	}
	h.hub.Leave(client, model.RoomName(payload.ChatID))
}

// handleSendMessage persists a chat message, then fans it out to the
// room, the sender's own connection included. Clients render from the
// broadcast only, never from a local echo, so each message appears exactly
// once. The ack just confirms the outcome to the sender.
func (h *WSHandler) handleSendMessage(client *ws.Client, event model.WSEvent) {
	var payload model.SendMessagePayload
	if !decodePayload(event.Payload, &payload) {
		h.ack(client, nil, "invalid payload")
		return
	}

	senderID := payload.SenderID
	if senderID == uuid.Nil {
		senderID = client.UserID
	}

	msg, err := h.chatService.PostMessage(model.PostMessageRequest{
		ChatID:   payload.ChatID,
		SenderID: senderID,
		Content:  payload.Content,
	})
	if err != nil {
		h.ack(client, nil, err.Error())
		return
	}

	h.hub.BroadcastToRoom(model.RoomName(payload.ChatID), &model.WSEvent{
		Type:    model.WSEventNewMessage,
		Payload: msg,
	})

	h.ack(client, msg, "")
}

// ack reports the outcome of a chat:enviar back to the sending connection
func (h *WSHandler) ack(client *ws.Client, msg *model.Message, errText string) {
	h.hub.SendToClient(client, &model.WSEvent{
		Type: model.WSEventAck,
		Payload: model.AckPayload{
			OK:      errText == "",
			Error:   errText,
			Message: msg,
		},
	})
}

// decodePayload re-marshals the loosely-typed event payload into its
// concrete form
func decodePayload(payload interface{}, out interface{}) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("Error parsing WebSocket payload: %v", err)
		return false
	}
	return true
}
