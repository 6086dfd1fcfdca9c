package config

import (
	"errors"
	"fmt"
)

func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Dispatch.Threshold < 0 || cfg.Dispatch.Threshold > 100 {
		errs = append(errs, ErrInvalidThreshold)
	}
	if err := cfg.Delivery.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}

func (c *DeliveryConfig) Validate() error {
	var errs []error

	if (c.VAPIDPublicKey == "") != (c.VAPIDPrivateKey == "") {
		errs = append(errs, ErrVAPIDKeysMissing)
	}
	if c.PushEnabled() && c.VAPIDSubject == "" {
		errs = append(errs, ErrVAPIDSubjectMissing)
	}
	if c.EmailEnabled() && c.EmailSender == "" {
		errs = append(errs, ErrEmailSenderMissing)
	}
	if err := c.validatePlatform(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
