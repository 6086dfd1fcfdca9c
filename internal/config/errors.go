package config

import "errors"

var (
	ErrRedisAddrMissing    = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB      = errors.New("REDIS_DB must be a non-negative integer")
	ErrInvalidThreshold    = errors.New("SCORE_THRESHOLD must be a number within [0,100]")
	ErrInvalidScorePolicy  = errors.New("invalid scoring policy")
	ErrVAPIDKeysMissing    = errors.New("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY are required")
	ErrVAPIDSubjectMissing = errors.New("VAPID_SUBJECT is required when VAPID keys are set")
	ErrEmailSenderMissing  = errors.New("EMAIL_SENDER is required when Mailjet keys are set")
	ErrNoDeliveryChannel   = errors.New("at least one delivery channel (web push or email) must be configured")
)
