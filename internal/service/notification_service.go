package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
	"github.com/armandomtz/fraccionet/internal/repository"
)

// ErrNoTokens is returned when a manual send matches no registered device.
var ErrNoTokens = errors.New("no registered tokens match the request")

// NotificationService handles device registration and manual pushes
type NotificationService struct {
	tokens *repository.PushTokenRepository
	sender PushGateway
}

func NewNotificationService(tokens *repository.PushTokenRepository, sender PushGateway) *NotificationService {
	return &NotificationService{tokens: tokens, sender: sender}
}

// RegisterToken stores or reassigns a device token. Tokens are keyed by
// value: re-registering from another account moves the device over.
func (s *NotificationService) RegisterToken(req model.RegisterTokenRequest) error {
	return s.tokens.Upsert(req.Token, req.UserID, req.Platform)
}

// RemoveToken drops a device token (app uninstall, logout)
func (s *NotificationService) RemoveToken(token string) error {
	return s.tokens.Delete(token)
}

// SendManual pushes an ad-hoc notification. With no explicit token list
// the token store is queried using the request's platform/user filters.
func (s *NotificationService) SendManual(ctx context.Context, req model.SendNotificationRequest) (int, error) {
	toks := req.Tokens
	if len(toks) == 0 {
		var err error
		toks, err = s.tokens.ListFiltered(req.Platform, req.UserIDs)
		if err != nil {
			return 0, err
		}
	}
	if len(toks) == 0 {
		return 0, ErrNoTokens
	}
	return s.sender.Send(ctx, toks, req.Title, req.Body, req.Data)
}

// ListUserTokens returns the registered devices of one user (debug surface)
func (s *NotificationService) ListUserTokens(userID uuid.UUID) ([]model.PushToken, error) {
	return s.tokens.ListByUserDetail(userID)
}
