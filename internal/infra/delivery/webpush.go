package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string
	TTLSeconds int
}

// WebPushSender delivers notifications through the Web Push protocol.
type WebPushSender struct {
	vapid      VAPIDConfig
	httpClient *http.Client
}

func NewWebPushSender(vapid VAPIDConfig, httpClient *http.Client) *WebPushSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebPushSender{
		vapid:      vapid,
		httpClient: httpClient,
	}
}

var _ domain.PushSender = (*WebPushSender)(nil)

func (s *WebPushSender) Send(ctx context.Context, cred domain.PushCredential, payload domain.PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: cred.Endpoint,
		Keys: webpush.Keys{
			Auth:   cred.Keys.Auth,
			P256dh: cred.Keys.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      s.httpClient,
		Subscriber:      s.vapid.Subject,
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             s.vapid.TTLSeconds,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return &domain.DeliveryError{Endpoint: cred.Endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return classifyPushStatus(cred.Endpoint, resp.StatusCode)
}

// classifyPushStatus maps a push service response onto the delivery
// outcome. Only 404 and 410 mean the subscription no longer exists.
func classifyPushStatus(endpoint string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusGone || status == http.StatusNotFound:
		return &domain.DeliveryError{
			Permanent:  true,
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("push subscription is no longer valid"),
		}
	default:
		return &domain.DeliveryError{
			Endpoint:   endpoint,
			StatusCode: status,
			Err:        fmt.Errorf("push service rejected the message"),
		}
	}
}
