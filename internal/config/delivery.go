package config

import "os"

const (
	vapidPublicKeyEnv    = "VAPID_PUBLIC_KEY"
	vapidPrivateKeyEnv   = "VAPID_PRIVATE_KEY"
	vapidSubjectEnv      = "VAPID_SUBJECT"
	pushTTLSecondsEnv    = "PUSH_TTL_SECONDS"
	mailjetPublicKeyEnv  = "MAILJET_PUBLIC_KEY"
	mailjetPrivateKeyEnv = "MAILJET_PRIVATE_KEY"
	emailSenderEnv       = "EMAIL_SENDER"
	emailSenderNameEnv   = "EMAIL_SENDER_NAME"

	defaultPushTTLSeconds  = 3600
	defaultEmailSenderName = "Sunset Notifier"
)

type DeliveryConfig struct {
	VAPIDPublicKey    string
	VAPIDPrivateKey   string
	VAPIDSubject      string
	PushTTLSeconds    int
	MailjetPublicKey  string
	MailjetPrivateKey string
	EmailSender       string
	EmailSenderName   string
}

func LoadDeliveryConfig() *DeliveryConfig {
	return &DeliveryConfig{
		VAPIDPublicKey:    os.Getenv(vapidPublicKeyEnv),
		VAPIDPrivateKey:   os.Getenv(vapidPrivateKeyEnv),
		VAPIDSubject:      os.Getenv(vapidSubjectEnv),
		PushTTLSeconds:    positiveInt(pushTTLSecondsEnv, defaultPushTTLSeconds),
		MailjetPublicKey:  os.Getenv(mailjetPublicKeyEnv),
		MailjetPrivateKey: os.Getenv(mailjetPrivateKeyEnv),
		EmailSender:       os.Getenv(emailSenderEnv),
		EmailSenderName:   getEnvOrDefault(emailSenderNameEnv, defaultEmailSenderName),
	}
}

func (c *DeliveryConfig) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

func (c *DeliveryConfig) EmailEnabled() bool {
	return c.MailjetPublicKey != "" && c.MailjetPrivateKey != ""
}
