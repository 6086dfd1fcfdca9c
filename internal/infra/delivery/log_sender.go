package delivery

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

// LogPushSender stands in for a push channel that is not configured. It
// logs the message and reports success.
type LogPushSender struct{}

var (
	_ domain.PushSender  = LogPushSender{}
	_ domain.EmailSender = LogEmailSender{}
)

func (LogPushSender) Send(ctx context.Context, cred domain.PushCredential, payload domain.PushPayload) error {
	slog.InfoContext(ctx, "push delivery not configured, logging notification",
		slog.String("endpoint", cred.Endpoint),
		slog.String("title", payload.Title),
		slog.String("body", payload.Body),
	)
	return nil
}

// LogEmailSender is the email counterpart of LogPushSender.
type LogEmailSender struct{}

func (LogEmailSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	slog.InfoContext(ctx, "email delivery not configured, logging notification",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
