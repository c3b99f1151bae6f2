package push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient delivers notifications to native (non-Expo) device tokens
// through Firebase Cloud Messaging.
type FCMClient struct {
	client *messaging.Client
}

// NewFCMClient initializes Firebase from a credentials file. A missing or
// broken credentials file disables FCM instead of blocking server startup.
func NewFCMClient(credentialsFile string) (*FCMClient, error) {
	if credentialsFile == "" {
		log.Println("⚠️ Credenciales de Firebase no configuradas, FCM deshabilitado")
		return nil, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		log.Printf("⚠️ No se pudo inicializar Firebase: %v (FCM deshabilitado)", err)
		return nil, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("⚠️ No se pudo obtener el cliente de mensajería: %v", err)
		return nil, nil
	}

	log.Println("✅ Firebase FCM inicializado")
	return &FCMClient{client: client}, nil
}

// Send delivers a multicast notification to the given FCM tokens and
// returns the number of successful deliveries.
func (c *FCMClient) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, error) {
	if c == nil || c.client == nil || len(tokens) == 0 {
		return 0, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	br, err := c.client.SendMulticast(ctx, message)
	if err != nil {
		return 0, fmt.Errorf("error sending multicast message: %w", err)
	}
	if br.FailureCount > 0 {
		for idx, resp := range br.Responses {
			if !resp.Success {
				log.Printf("⚠️ FCM falló para el token %s: %v", tokens[idx], resp.Error)
			}
		}
	}
	return br.SuccessCount, nil
}
