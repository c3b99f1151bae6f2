package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func expoToken(i int) string {
	return fmt.Sprintf("ExponentPushToken[tok-%03d]", i)
}

// newExpoServer records each batch and answers with ok tickets. fail marks
// 1-based request numbers that should return HTTP 500.
func newExpoServer(t *testing.T, batches *[][]ExpoMessage, fail map[int]bool) *httptest.Server {
	t.Helper()
	requests := 0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var msgs []ExpoMessage
		if err := json.NewDecoder(r.Body).Decode(&msgs); err != nil {
			t.Errorf("decode batch: %v", err)
		}
		*batches = append(*batches, msgs)

		if fail[requests] {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		tickets := make([]ExpoTicket, len(msgs))
		for i := range tickets {
			tickets[i] = ExpoTicket{Status: "ok", ID: fmt.Sprintf("ticket-%d", i)}
		}
		json.NewEncoder(w).Encode(ExpoResponse{Data: tickets})
	}))
}

func TestExpoClient_Send_SplitsIntoBatchesOf100(t *testing.T) {
	var batches [][]ExpoMessage
	srv := newExpoServer(t, &batches, nil)
	defer srv.Close()

	tokens := make([]string, 150)
	for i := range tokens {
		tokens[i] = expoToken(i)
	}

	client := NewExpoClient(srv.URL)
	sent, err := client.Send(context.Background(), tokens, "Aviso", "cuerpo", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent != 150 {
		t.Errorf("sent = %d, want 150", sent)
	}
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if len(batches[0]) != 100 || len(batches[1]) != 50 {
		t.Errorf("batch sizes = %d, %d, want 100 and 50", len(batches[0]), len(batches[1]))
	}
	if batches[0][0].To != expoToken(0) || batches[1][0].To != expoToken(100) {
		t.Error("batches are not in token order")
	}
	if batches[0][0].Sound != "default" {
		t.Errorf("Sound = %q, want default", batches[0][0].Sound)
	}
}

func TestExpoClient_Send_FiltersForeignTokens(t *testing.T) {
	var batches [][]ExpoMessage
	srv := newExpoServer(t, &batches, nil)
	defer srv.Close()

	tokens := []string{
		"ExponentPushToken[valid-1]",
		"fcm-registration-token",
		"ExpoPushToken[valid-2]",
		"",
	}

	client := NewExpoClient(srv.URL)
	sent, err := client.Send(context.Background(), tokens, "Aviso", "cuerpo", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("expected one batch of 2, got %+v", batches)
	}
}

func TestExpoClient_Send_NoValidTokensSkipsRequest(t *testing.T) {
	var batches [][]ExpoMessage
	srv := newExpoServer(t, &batches, nil)
	defer srv.Close()

	client := NewExpoClient(srv.URL)
	sent, err := client.Send(context.Background(), []string{"apns-token"}, "Aviso", "cuerpo", nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent != 0 || len(batches) != 0 {
		t.Errorf("sent = %d, batches = %d, want 0 and 0", sent, len(batches))
	}
}

func TestExpoClient_Send_FailedBatchDoesNotStopTheRest(t *testing.T) {
	var batches [][]ExpoMessage
	srv := newExpoServer(t, &batches, map[int]bool{1: true})
	defer srv.Close()

	tokens := make([]string, 150)
	for i := range tokens {
		tokens[i] = expoToken(i)
	}

	client := NewExpoClient(srv.URL)
	sent, err := client.Send(context.Background(), tokens, "Aviso", "cuerpo", nil)
	if err == nil {
		t.Fatal("expected the first batch's error to be reported")
	}
	if sent != 50 {
		t.Errorf("sent = %d, want 50 (second batch only)", sent)
	}
	if len(batches) != 2 {
		t.Errorf("got %d batches, want 2 (both attempted)", len(batches))
	}
}

func TestIsExpoToken(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"ExponentPushToken[abc123]", true},
		{"ExpoPushToken[abc123]", true},
		{"fcm-registration-token", false},
		{"exponentpushtoken[abc]", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsExpoToken(tc.token); got != tc.want {
			t.Errorf("IsExpoToken(%q) = %v, want %v", tc.token, got, tc.want)
		}
	}
}
