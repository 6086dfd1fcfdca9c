package delivery

import (
	"context"
	"errors"
	"testing"
	"time"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

func TestMailjetSenderSend(t *testing.T) {
	var captured *mailjet.MessagesV31
	sender := &MailjetSender{
		sender:     "sunset@example.com",
		senderName: "Sunset Notifier",
		send: func(msgs *mailjet.MessagesV31) error {
			captured = msgs
			return nil
		},
	}

	err := sender.Send(context.Background(), domain.EmailMessage{
		To:       "a@example.com",
		Subject:  "subject",
		HTMLBody: "<p>html</p>",
		TextBody: "text",
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	require.Len(t, captured.Info, 1)
	info := captured.Info[0]
	assert.Equal(t, "sunset@example.com", info.From.Email)
	assert.Equal(t, "Sunset Notifier", info.From.Name)
	require.NotNil(t, info.To)
	require.Len(t, *info.To, 1)
	assert.Equal(t, "a@example.com", (*info.To)[0].Email)
	assert.Equal(t, "subject", info.Subject)
	assert.Equal(t, "<p>html</p>", info.HTMLPart)
	assert.Equal(t, "text", info.TextPart)
}

func TestMailjetSenderFailureIsTransient(t *testing.T) {
	sender := &MailjetSender{
		send: func(*mailjet.MessagesV31) error {
			return errors.New("unauthorized")
		},
	}

	err := sender.Send(context.Background(), domain.EmailMessage{To: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrDeliveryTransient)
}

func TestMailjetSenderStopsAtDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	sender := &MailjetSender{
		send: func(*mailjet.MessagesV31) error {
			<-release
			return nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := sender.Send(ctx, domain.EmailMessage{To: "a@example.com"})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.ErrorIs(t, err, domain.ErrDeliveryTransient)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewMailjetSender(t *testing.T) {
	sender := NewMailjetSender(MailjetConfig{PublicKey: "pub", PrivateKey: "priv", Sender: "sunset@example.com"})
	require.NotNil(t, sender.send)
	assert.Equal(t, "sunset@example.com", sender.sender)
}
