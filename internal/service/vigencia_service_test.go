package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
)

type fakePaymentStore struct {
	payments []model.Payment
	filter   bool // apply the window instead of returning everything

	mu       sync.Mutex
	gotStart time.Time
	gotEnd   time.Time
	err      error
}

func (f *fakePaymentStore) ListByVigenciaWindow(start, end time.Time) ([]model.Payment, error) {
	f.mu.Lock()
	f.gotStart, f.gotEnd = start, end
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if !f.filter {
		return f.payments, nil
	}
	var out []model.Payment
	for _, p := range f.payments {
		if !p.Vigencia.Before(start) && !p.Vigencia.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTokenStore struct {
	tokens map[uuid.UUID][]string
	err    error
}

func (f *fakeTokenStore) ListByUser(userID uuid.UUID) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens[userID], nil
}

type fakeNotifLog struct {
	mu      sync.Mutex
	entries map[string]bool

	claimDenied bool
}

func newFakeNotifLog() *fakeNotifLog {
	return &fakeNotifLog{entries: make(map[string]bool)}
}

func (f *fakeNotifLog) key(kind string, userID uuid.UUID, refDate time.Time) string {
	return fmt.Sprintf("%s|%s|%s", kind, userID, refDate.Format("2006-01-02"))
}

func (f *fakeNotifLog) Exists(kind string, userID uuid.UUID, refDate time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[f.key(kind, userID, refDate)], nil
}

// InsertIfAbsent mirrors the ON CONFLICT DO NOTHING contract: of any number
// of concurrent claims for the same slot, exactly one returns true.
func (f *fakeNotifLog) InsertIfAbsent(kind string, userID uuid.UUID, refDate time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimDenied {
		return false, nil
	}
	k := f.key(kind, userID, refDate)
	if f.entries[k] {
		return false, nil
	}
	f.entries[k] = true
	return true, nil
}

type gatewayCall struct {
	tokens []string
	title  string
	body   string
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
	err   error
}

func (f *fakeGateway) Send(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, gatewayCall{tokens: tokens, title: title, body: body})
	f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return len(tokens), nil
}

func paymentFor(userID uuid.UUID, vigencia time.Time) model.Payment {
	return model.Payment{
		ID:       uuid.New(),
		UserID:   userID,
		Amount:   500,
		Vigencia: vigencia,
	}
}

func TestVigenciaService_RunForDate_NotifiesEachResidentOnce(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	payments := &fakePaymentStore{payments: []model.Payment{paymentFor(userID, vigencia)}}
	tokens := &fakeTokenStore{tokens: map[uuid.UUID][]string{
		userID: {"ExponentPushToken[aaa]", "ExponentPushToken[bbb]"},
	}}
	notifLog := newFakeNotifLog()
	gateway := &fakeGateway{}

	svc := NewVigenciaService(payments, tokens, notifLog, gateway, time.UTC, 3)

	res, err := svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("RunForDate: %v", err)
	}
	if res.Notified != 1 || res.TokensSent != 2 {
		t.Errorf("Notified = %d, TokensSent = %d, want 1 and 2", res.Notified, res.TokensSent)
	}
	if res.Kind != manualVigenciaKind {
		t.Errorf("Kind = %q, want %q", res.Kind, manualVigenciaKind)
	}
	if len(gateway.calls) != 1 || len(gateway.calls[0].tokens) != 2 {
		t.Fatalf("expected one send with 2 tokens, got %+v", gateway.calls)
	}

	// Same day again: the dedup log blocks the second push.
	res, err = svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("second RunForDate: %v", err)
	}
	if res.Notified != 0 || res.AlreadySent != 1 {
		t.Errorf("second run: Notified = %d, AlreadySent = %d, want 0 and 1", res.Notified, res.AlreadySent)
	}
	if len(gateway.calls) != 1 {
		t.Errorf("expected no further sends, got %d", len(gateway.calls))
	}
}

func TestVigenciaService_NoTokensLeavesSlotUnclaimed(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	payments := &fakePaymentStore{payments: []model.Payment{paymentFor(userID, vigencia)}}
	tokens := &fakeTokenStore{tokens: map[uuid.UUID][]string{}}
	notifLog := newFakeNotifLog()
	gateway := &fakeGateway{}

	svc := NewVigenciaService(payments, tokens, notifLog, gateway, time.UTC, 3)

	res, err := svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("RunForDate: %v", err)
	}
	if res.NoTokens != 1 || res.Notified != 0 {
		t.Errorf("NoTokens = %d, Notified = %d, want 1 and 0", res.NoTokens, res.Notified)
	}
	if len(notifLog.entries) != 0 {
		t.Fatal("slot must stay unclaimed while the resident has no devices")
	}

	// The resident registers a device, then a later run on the same day
	// must still reach them.
	tokens.tokens[userID] = []string{"ExponentPushToken[ccc]"}

	res, err = svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("second RunForDate: %v", err)
	}
	if res.Notified != 1 {
		t.Errorf("Notified = %d after token registration, want 1", res.Notified)
	}
}

func TestVigenciaService_MultiplePaymentsSameUserNotifyOnce(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)

	payments := &fakePaymentStore{payments: []model.Payment{
		paymentFor(userID, vigencia),
		paymentFor(userID, vigencia.Add(2*time.Hour)),
	}}
	tokens := &fakeTokenStore{tokens: map[uuid.UUID][]string{
		userID: {"ExponentPushToken[ddd]"},
	}}
	svc := NewVigenciaService(payments, tokens, newFakeNotifLog(), &fakeGateway{}, time.UTC, 3)

	res, err := svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("RunForDate: %v", err)
	}
	if res.Scanned != 2 || res.Candidates != 1 || res.Notified != 1 {
		t.Errorf("Scanned = %d, Candidates = %d, Notified = %d, want 2, 1, 1",
			res.Scanned, res.Candidates, res.Notified)
	}
}

func TestVigenciaService_ScanWindowCoversWholeDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	payments := &fakePaymentStore{}
	svc := NewVigenciaService(payments, &fakeTokenStore{}, newFakeNotifLog(), &fakeGateway{}, loc, 3)

	if _, err := svc.RunForDate(context.Background(), "2026-09-15", ""); err != nil {
		t.Fatalf("RunForDate: %v", err)
	}

	wantStart := time.Date(2026, 9, 15, 0, 0, 0, 0, loc)
	wantEnd := wantStart.AddDate(0, 0, 1).Add(-time.Millisecond)
	if !payments.gotStart.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", payments.gotStart, wantStart)
	}
	if !payments.gotEnd.Equal(wantEnd) {
		t.Errorf("window end = %v, want %v", payments.gotEnd, wantEnd)
	}
}

func TestVigenciaService_OnlyTheTargetDayMatches(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	payments := &fakePaymentStore{
		payments: []model.Payment{paymentFor(userID, vigencia)},
		filter:   true,
	}
	tokens := &fakeTokenStore{tokens: map[uuid.UUID][]string{
		userID: {"ExponentPushToken[fff]"},
	}}
	svc := NewVigenciaService(payments, tokens, newFakeNotifLog(), &fakeGateway{}, time.UTC, 3)

	// A day early and a day late: the vigencia is outside the window.
	for _, day := range []string{"2026-09-14", "2026-09-16"} {
		res, err := svc.RunForDate(context.Background(), day, "")
		if err != nil {
			t.Fatalf("RunForDate(%s): %v", day, err)
		}
		if res.Candidates != 0 {
			t.Errorf("RunForDate(%s): Candidates = %d, want 0", day, res.Candidates)
		}
	}

	res, err := svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("RunForDate(2026-09-15): %v", err)
	}
	if res.Notified != 1 {
		t.Errorf("Notified = %d on the matching day, want 1", res.Notified)
	}
}

func TestVigenciaService_ConcurrentRunsSendExactlyOnce(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	notifLog := newFakeNotifLog()
	gateway := &fakeGateway{}
	svc := NewVigenciaService(
		&fakePaymentStore{payments: []model.Payment{paymentFor(userID, vigencia)}},
		&fakeTokenStore{tokens: map[uuid.UUID][]string{userID: {"ExponentPushToken[ggg]"}}},
		notifLog,
		gateway,
		time.UTC, 3,
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RunForDate(context.Background(), "2026-09-15", ""); err != nil {
				t.Errorf("RunForDate: %v", err)
			}
		}()
	}
	wg.Wait()

	gateway.mu.Lock()
	calls := len(gateway.calls)
	gateway.mu.Unlock()
	if calls != 1 {
		t.Errorf("concurrent runs issued %d sends, want exactly 1", calls)
	}
	if len(notifLog.entries) != 1 {
		t.Errorf("dedup log holds %d entries, want exactly 1", len(notifLog.entries))
	}
}

func TestVigenciaService_LostClaimCountsAsAlreadySent(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	notifLog := newFakeNotifLog()
	notifLog.claimDenied = true // a concurrent run holds the slot

	gateway := &fakeGateway{}
	svc := NewVigenciaService(
		&fakePaymentStore{payments: []model.Payment{paymentFor(userID, vigencia)}},
		&fakeTokenStore{tokens: map[uuid.UUID][]string{userID: {"ExponentPushToken[eee]"}}},
		notifLog,
		gateway,
		time.UTC, 3,
	)

	res, err := svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("RunForDate: %v", err)
	}
	if res.AlreadySent != 1 || res.Notified != 0 {
		t.Errorf("AlreadySent = %d, Notified = %d, want 1 and 0", res.AlreadySent, res.Notified)
	}
	if len(gateway.calls) != 0 {
		t.Error("a lost claim must not push")
	}
}

func TestVigenciaService_TokenStoreErrorIsolatedPerUser(t *testing.T) {
	userID := uuid.New()
	vigencia := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	svc := NewVigenciaService(
		&fakePaymentStore{payments: []model.Payment{paymentFor(userID, vigencia)}},
		&fakeTokenStore{err: errors.New("redis timeout")},
		newFakeNotifLog(),
		&fakeGateway{},
		time.UTC, 3,
	)

	res, err := svc.RunForDate(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("a per-user failure must not abort the scan: %v", err)
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1", res.Failed)
	}
}

func TestVigenciaService_RunForDate_RejectsBadDate(t *testing.T) {
	svc := NewVigenciaService(&fakePaymentStore{}, &fakeTokenStore{}, newFakeNotifLog(), &fakeGateway{}, time.UTC, 3)

	for _, bad := range []string{"15/09/2026", "2026-13-01", "mañana", ""} {
		if _, err := svc.RunForDate(context.Background(), bad, ""); !errors.Is(err, ErrBadDate) {
			t.Errorf("RunForDate(%q): expected ErrBadDate, got %v", bad, err)
		}
	}
}

func TestVigenciaService_RunForDaysAhead_DerivesKindFromLookAhead(t *testing.T) {
	svc := NewVigenciaService(&fakePaymentStore{}, &fakeTokenStore{}, newFakeNotifLog(), &fakeGateway{}, time.UTC, 3)

	res, err := svc.RunForDaysAhead(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("RunForDaysAhead: %v", err)
	}
	if res.Kind != "vigencia-7d" {
		t.Errorf("Kind = %q, want vigencia-7d", res.Kind)
	}

	res, err = svc.RunForDaysAhead(context.Background(), 7, "vigencia-manual")
	if err != nil {
		t.Fatalf("RunForDaysAhead: %v", err)
	}
	if res.Kind != "vigencia-manual" {
		t.Errorf("Kind = %q, want the caller's label", res.Kind)
	}
}

func TestVigenciaService_RunForDaysAhead_RejectsNegative(t *testing.T) {
	svc := NewVigenciaService(&fakePaymentStore{}, &fakeTokenStore{}, newFakeNotifLog(), &fakeGateway{}, time.UTC, 3)

	if _, err := svc.RunForDaysAhead(context.Background(), -1, ""); err == nil {
		t.Fatal("expected error for negative daysAhead")
	}
}

func TestVigenciaService_ScanAbortsWhenPaymentStoreFails(t *testing.T) {
	svc := NewVigenciaService(
		&fakePaymentStore{err: errors.New("db down")},
		&fakeTokenStore{}, newFakeNotifLog(), &fakeGateway{},
		time.UTC, 3,
	)

	if _, err := svc.RunForDate(context.Background(), "2026-09-15", ""); err == nil {
		t.Fatal("expected error when the payment scan fails")
	}
}
