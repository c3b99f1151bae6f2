package model

import (
	"time"

	"github.com/google/uuid"
)

// ========== Auth DTOs ==========

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ========== User DTOs ==========

type CreateUserRequest struct {
	FullName  string   `json:"full_name" binding:"required,min=2,max=150"`
	Building  string   `json:"building"`
	Apartment string   `json:"apartment"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=6"`
	Role      UserRole `json:"role" binding:"required,oneof=residente vigilante administrador"`
	IneURL    string   `json:"ine_url"`
}

type UpdateUserRequest struct {
	FullName  string   `json:"full_name"`
	Building  string   `json:"building"`
	Apartment string   `json:"apartment"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email" binding:"omitempty,email"`
	Password  string   `json:"password"` // rehashed when non-empty
	Role      UserRole `json:"role" binding:"omitempty,oneof=residente vigilante administrador"`
	IneURL    string   `json:"ine_url"`
}

// UserNameEntry backs the lightweight name directory used by chat screens
type UserNameEntry struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// ========== Chat DTOs ==========

type CreateChatRequest struct {
	Kind         ChatKind    `json:"kind" binding:"required,oneof=general building private"`
	BuildingName string      `json:"building_name"`
	Members      []uuid.UUID `json:"members"`
}

// PostMessageRequest posts into a chat. ChatID comes from the URL path;
// SenderID defaults to the authenticated user when omitted.
type PostMessageRequest struct {
	ChatID   uuid.UUID `json:"chat_id"`
	SenderID uuid.UUID `json:"sender_id"`
	Content  string    `json:"content" binding:"required"`
}

// ========== Payment DTOs ==========

type CreatePaymentRequest struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	UserName        string    `json:"user_name"`
	Building        string    `json:"building"`
	Apartment       string    `json:"apartment"`
	PaymentType     string    `json:"payment_type"`
	PaymentMethod   string    `json:"payment_method"`
	Amount          float64   `json:"amount" binding:"required,gt=0"`
	PaidAt          time.Time `json:"paid_at"`
	Vigencia        time.Time `json:"vigencia" binding:"required"`
	Status          string    `json:"status"`
	ProcessedBy     string    `json:"processed_by"`
	StripeReference string    `json:"stripe_reference"`
}

// ========== Push DTOs ==========

type RegisterTokenRequest struct {
	Token    string     `json:"token" binding:"required"`
	UserID   *uuid.UUID `json:"user_id"`
	Platform string     `json:"platform"`
}

// SendNotificationRequest triggers a manual push. When Tokens is empty the
// token store is queried, optionally filtered by platform and user IDs.
type SendNotificationRequest struct {
	Title    string                 `json:"title" binding:"required"`
	Body     string                 `json:"body" binding:"required"`
	Data     map[string]interface{} `json:"data"`
	Platform string                 `json:"platform"`
	UserIDs  []uuid.UUID            `json:"user_ids"`
	Tokens   []string               `json:"tokens"`
}

// RunVigenciaRequest drives the manual/test trigger for the vigencia scan.
// DaysAhead and DateISO are mutually exclusive; with neither, the
// configured look-ahead is used.
type RunVigenciaRequest struct {
	DaysAhead *int   `json:"daysAhead"`
	DateISO   string `json:"dateISO"`
	Kind      string `json:"kind"`
}

// ========== Announcement / Rule DTOs ==========

type AnnouncementRequest struct {
	Title        string           `json:"title" binding:"required"`
	Content      string           `json:"content" binding:"required"`
	Kind         AnnouncementKind `json:"kind" binding:"required,oneof=general building"`
	BuildingName string           `json:"building_name"`
	Scheduled    bool             `json:"scheduled"`
	ScheduledFor *time.Time       `json:"scheduled_for"`
	AdminID      *uuid.UUID       `json:"admin_id"`
}

type RuleRequest struct {
	Text    string     `json:"text" binding:"required"`
	AdminID *uuid.UUID `json:"admin_id"`
}

// ========== WebSocket Event DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebSocket event types. The wire names match what the mobile client already
// listens for.
const (
	WSEventJoinChat    = "join-chat"
	WSEventLeaveChat   = "leave-chat"
	WSEventSendMessage = "chat:enviar"
	WSEventNewMessage  = "mensaje:nuevo"
	WSEventChatCreated = "chat:creado"
	WSEventChatDeleted = "chat:eliminado"
	WSEventAck         = "chat:ack"
)

// JoinLeavePayload carries the chat a connection wants to (un)subscribe from
type JoinLeavePayload struct {
	ChatID uuid.UUID `json:"chat_id"`
}

// SendMessagePayload is the inbound socket form of PostMessageRequest
type SendMessagePayload struct {
	ChatID   uuid.UUID `json:"chat_id"`
	SenderID uuid.UUID `json:"sender_id"`
	Content  string    `json:"content"`
}

// AckPayload is sent back to the requesting connection only
type AckPayload struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// ChatDeletedPayload tells currently-open viewers to close the view
type ChatDeletedPayload struct {
	ChatID uuid.UUID `json:"chat_id"`
}

// ========== Upload DTOs ==========

type UploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
