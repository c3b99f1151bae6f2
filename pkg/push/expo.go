package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultExpoURL is Expo's production push endpoint.
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// expoBatchSize is the maximum number of messages Expo accepts per request.
const expoBatchSize = 100

// ExpoClient sends push notifications through Expo's Push API.
//
// The mobile app registers an Expo push token ("ExponentPushToken[xxx]")
// with the backend; Expo handles delivery to both iOS and Android, so no
// APNs or FCM configuration is needed for Expo-managed devices.
type ExpoClient struct {
	url        string
	httpClient *http.Client
}

// ExpoMessage is one notification in an Expo push request.
type ExpoMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
}

// ExpoResponse is the ticket list Expo returns for a push request.
type ExpoResponse struct {
	Data []ExpoTicket `json:"data"`
}

type ExpoTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"` // e.g. "DeviceNotRegistered"
	} `json:"details,omitempty"`
}

// NewExpoClient creates an Expo push client. An empty url selects the
// production endpoint; tests point it at a local server.
func NewExpoClient(url string) *ExpoClient {
	if url == "" {
		url = DefaultExpoURL
	}
	return &ExpoClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsExpoToken reports whether token has Expo's push token format.
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") ||
		strings.HasPrefix(token, "ExpoPushToken[")
}

// Send delivers a notification to the given Expo tokens in batches of 100.
// A failed batch is logged and skipped; the remaining batches are still
// sent. It returns the number of tokens that were accepted by Expo.
func (c *ExpoClient) Send(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) (int, error) {
	valid := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsExpoToken(token) {
			valid = append(valid, token)
		} else {
			log.Printf("⚠️ [ExpoPush] Ignorando token con formato inválido: %.20s", token)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	sent := 0
	var firstErr error
	for start := 0; start < len(valid); start += expoBatchSize {
		end := start + expoBatchSize
		if end > len(valid) {
			end = len(valid)
		}
		batch := valid[start:end]

		if err := c.sendBatch(ctx, batch, title, body, data); err != nil {
			log.Printf("⚠️ [ExpoPush] Lote %d-%d falló: %v", start, end, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent += len(batch)
	}
	return sent, firstErr
}

func (c *ExpoClient) sendBatch(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) error {
	messages := make([]ExpoMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, ExpoMessage{
			To:    token,
			Title: title,
			Body:  body,
			Data:  data,
			Sound: "default",
		})
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo api: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var pushResp ExpoResponse
	if err := json.Unmarshal(respBody, &pushResp); err != nil {
		// Expo accepted the batch; a malformed ticket list is not fatal.
		log.Printf("⚠️ [ExpoPush] No se pudo parsear la respuesta: %v", err)
		return nil
	}
	for i, ticket := range pushResp.Data {
		if ticket.Status != "ok" {
			log.Printf("⚠️ [ExpoPush] Ticket %d falló: %s (%s)", i, ticket.Message, ticket.Details.Error)
		}
	}
	return nil
}
