package domain

import "context"

//go:generate mockgen -source=delivery.go -destination=delivery_mock.go -package=domain

// PushPayload is the JSON document the service worker renders.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// PushSender delivers a payload to a push endpoint. Failures are reported
// as *DeliveryError.
type PushSender interface {
	Send(ctx context.Context, cred PushCredential, payload PushPayload) error
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
