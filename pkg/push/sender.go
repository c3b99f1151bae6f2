package push

import "context"

// Sender routes each device token to the gateway that can deliver to it:
// Expo-format tokens go through Expo's Push API, everything else through
// FCM when Firebase is configured.
type Sender struct {
	expo *ExpoClient
	fcm  *FCMClient
}

func NewSender(expo *ExpoClient, fcm *FCMClient) *Sender {
	return &Sender{expo: expo, fcm: fcm}
}

// Send fans a notification out to all tokens and returns how many were
// accepted by the gateways. Gateway failures are logged per batch; the
// first error is returned after every token has been attempted.
func (s *Sender) Send(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) (int, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	var expoTokens, fcmTokens []string
	for _, token := range tokens {
		if IsExpoToken(token) {
			expoTokens = append(expoTokens, token)
		} else {
			fcmTokens = append(fcmTokens, token)
		}
	}

	sent := 0
	var firstErr error
	if len(expoTokens) > 0 && s.expo != nil {
		n, err := s.expo.Send(ctx, expoTokens, title, body, data)
		sent += n
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(fcmTokens) > 0 && s.fcm != nil {
		fcmData := make(map[string]string, len(data))
		for k, v := range data {
			if str, ok := v.(string); ok {
				fcmData[k] = str
			}
		}
		n, err := s.fcm.Send(ctx, fcmTokens, title, body, fcmData)
		sent += n
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return sent, firstErr
}
