package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
)

// Notification kind labels. The scheduled scan's label encodes the
// look-ahead so different windows claim different dedup slots; the push
// payload always carries the plain "vigencia" type the app switches on.
const (
	vigenciaPayloadType = "vigencia"
	manualVigenciaKind  = "vigencia-test"
)

// VigenciaKind returns the dedup label for a scan with the given look-ahead.
func VigenciaKind(daysAhead int) string {
	return fmt.Sprintf("vigencia-%dd", daysAhead)
}

// ErrBadDate is returned when a manual trigger passes an unparseable date.
var ErrBadDate = errors.New("date must be in YYYY-MM-DD format")

// PaymentStore is the read surface the vigencia scan needs.
type PaymentStore interface {
	ListByVigenciaWindow(start, end time.Time) ([]model.Payment, error)
}

// TokenStore resolves a user's registered push tokens.
type TokenStore interface {
	ListByUser(userID uuid.UUID) ([]string, error)
}

// NotificationLogStore is the dedup gate. InsertIfAbsent must be atomic:
// of any number of concurrent calls for the same (kind, user, day), exactly
// one returns true.
type NotificationLogStore interface {
	Exists(kind string, userID uuid.UUID, referenceDate time.Time) (bool, error)
	InsertIfAbsent(kind string, userID uuid.UUID, referenceDate time.Time) (bool, error)
}

// PushGateway delivers a notification to a set of device tokens.
type PushGateway interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) (int, error)
}

// VigenciaResult summarizes one scan for logs and the manual trigger.
type VigenciaResult struct {
	ReferenceDate string `json:"reference_date"`
	Kind          string `json:"kind"`
	Scanned       int    `json:"scanned"`
	Candidates    int    `json:"candidates"`
	Notified      int    `json:"notified"`
	AlreadySent   int    `json:"already_sent"`
	NoTokens      int    `json:"no_tokens"`
	Failed        int    `json:"failed"`
	TokensSent    int    `json:"tokens_sent"`
}

// VigenciaService scans payments whose vigencia (paid-through date) falls
// on a target day and pushes a reminder to each affected resident, at most
// once per (kind, user, day).
type VigenciaService struct {
	payments  PaymentStore
	tokens    TokenStore
	notifLog  NotificationLogStore
	gateway   PushGateway
	loc       *time.Location
	daysAhead int
}

func NewVigenciaService(
	payments PaymentStore,
	tokens TokenStore,
	notifLog NotificationLogStore,
	gateway PushGateway,
	loc *time.Location,
	daysAhead int,
) *VigenciaService {
	if loc == nil {
		loc = time.UTC
	}
	if daysAhead <= 0 {
		daysAhead = 3
	}
	return &VigenciaService{
		payments:  payments,
		tokens:    tokens,
		notifLog:  notifLog,
		gateway:   gateway,
		loc:       loc,
		daysAhead: daysAhead,
	}
}

// Run performs the daily scan with the configured look-ahead.
func (s *VigenciaService) Run(ctx context.Context) (*VigenciaResult, error) {
	return s.RunForDaysAhead(ctx, s.daysAhead, "")
}

// RunForDaysAhead scans for vigencias expiring exactly daysAhead days from
// today in the service's timezone. An empty kind derives the label from the
// look-ahead.
func (s *VigenciaService) RunForDaysAhead(ctx context.Context, daysAhead int, kind string) (*VigenciaResult, error) {
	if daysAhead < 0 {
		return nil, fmt.Errorf("daysAhead must be non-negative, got %d", daysAhead)
	}
	if kind == "" {
		kind = VigenciaKind(daysAhead)
	}
	now := time.Now().In(s.loc)
	target := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc).
		AddDate(0, 0, daysAhead)
	return s.scan(ctx, target, kind)
}

// RunForDate scans for vigencias expiring on an explicit calendar day,
// given as YYYY-MM-DD. Used by the manual trigger to replay a day.
func (s *VigenciaService) RunForDate(ctx context.Context, dateISO, kind string) (*VigenciaResult, error) {
	parsed, err := time.ParseInLocation("2006-01-02", dateISO, s.loc)
	if err != nil {
		return nil, ErrBadDate
	}
	if kind == "" {
		kind = manualVigenciaKind
	}
	return s.scan(ctx, parsed, kind)
}

// scan is the shared core. target is the start of the target day in the
// service's timezone; kind is the non-empty dedup label.
func (s *VigenciaService) scan(ctx context.Context, target time.Time, kind string) (*VigenciaResult, error) {
	dayStart := target
	dayEnd := target.AddDate(0, 0, 1).Add(-time.Millisecond)

	// The dedup key uses the civil date only, so a run from any timezone
	// configuration claims the same slot for the same calendar day.
	refDate := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)

	payments, err := s.payments.ListByVigenciaWindow(dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("scanning payments: %w", err)
	}

	result := &VigenciaResult{
		ReferenceDate: target.Format("2006-01-02"),
		Kind:          kind,
		Scanned:       len(payments),
	}

	// Several payments can share a vigencia for the same resident; the
	// resident is notified once.
	byUser := make(map[uuid.UUID]model.Payment)
	for _, p := range payments {
		if _, ok := byUser[p.UserID]; !ok {
			byUser[p.UserID] = p
		}
	}
	result.Candidates = len(byUser)

	log.Printf("📅 [Vigencia] Escaneando %s: %d pagos, %d residentes", result.ReferenceDate, len(payments), len(byUser))

	title := "Vigencia por vencer"
	body := fmt.Sprintf("Tu vigencia de pago vence el %s. Realiza tu pago para mantener tus servicios activos.", target.Format("02/01/2006"))
	data := map[string]interface{}{
		"type":     vigenciaPayloadType,
		"vigencia": result.ReferenceDate,
	}

	for userID := range byUser {
		exists, err := s.notifLog.Exists(kind, userID, refDate)
		if err != nil {
			log.Printf("⚠️ [Vigencia] Error consultando el registro para %s: %v", userID, err)
			result.Failed++
			continue
		}
		if exists {
			result.AlreadySent++
			continue
		}

		tokens, err := s.tokens.ListByUser(userID)
		if err != nil {
			log.Printf("⚠️ [Vigencia] Error obteniendo tokens de %s: %v", userID, err)
			result.Failed++
			continue
		}
		// No devices yet: leave the slot unclaimed so a later run on the
		// same day still reaches the resident once they register a token.
		if len(tokens) == 0 {
			result.NoTokens++
			continue
		}

		claimed, err := s.notifLog.InsertIfAbsent(kind, userID, refDate)
		if err != nil {
			log.Printf("⚠️ [Vigencia] Error reclamando el registro para %s: %v", userID, err)
			result.Failed++
			continue
		}
		if !claimed {
			// A concurrent run won the slot.
			result.AlreadySent++
			continue
		}

		sent, err := s.gateway.Send(ctx, tokens, title, body, data)
		result.TokensSent += sent
		if err != nil {
			log.Printf("⚠️ [Vigencia] Envío parcial para %s: %v", userID, err)
		}
		result.Notified++
	}

	log.Printf("✅ [Vigencia] %s: %d notificados, %d ya enviados, %d sin tokens, %d fallidos",
		result.ReferenceDate, result.Notified, result.AlreadySent, result.NoTokens, result.Failed)
	return result, nil
}
