package delivery

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

const defaultMailjetTimeout = 10 * time.Second

type MailjetConfig struct {
	PublicKey  string
	PrivateKey string
	Sender     string
	SenderName string
	Timeout    time.Duration
}

// MailjetSender delivers email through the Mailjet v3.1 send API.
type MailjetSender struct {
	sender     string
	senderName string
	send       func(*mailjet.MessagesV31) error
}

func NewMailjetSender(cfg MailjetConfig) *MailjetSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultMailjetTimeout
	}

	clt := mailjet.NewMailjetClient(cfg.PublicKey, cfg.PrivateKey)
	clt.SetClient(&http.Client{Timeout: timeout})

	return &MailjetSender{
		sender:     cfg.Sender,
		senderName: cfg.SenderName,
		send: func(msgs *mailjet.MessagesV31) error {
			_, err := clt.SendMailV31(msgs)
			return err
		},
	}
}

var _ domain.EmailSender = (*MailjetSender)(nil)

// Send does not return a permanent failure: bounced addresses are
// handled by Mailjet itself. Send returns once ctx is done; the client
// timeout ends the underlying request.
func (s *MailjetSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return &domain.DeliveryError{Err: err}
	}

	info := []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: s.sender, Name: s.senderName},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: msg.To}},
		Subject:  msg.Subject,
		TextPart: msg.TextBody,
		HTMLPart: msg.HTMLBody,
	}}

	done := make(chan error, 1)
	go func() {
		done <- s.send(&mailjet.MessagesV31{Info: info})
	}()

	select {
	case err := <-done:
		if err != nil {
			return &domain.DeliveryError{Err: fmt.Errorf("could not send mail: %w", err)}
		}
		return nil
	case <-ctx.Done():
		return &domain.DeliveryError{Err: fmt.Errorf("could not send mail: %w", ctx.Err())}
	}
}
