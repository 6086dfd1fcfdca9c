package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrProviderDataIncomplete    = errors.New("provider data incomplete")
	ErrDeliveryTransient         = errors.New("delivery failed transiently")
	ErrDeliveryPermanent         = errors.New("delivery endpoint gone")
	ErrStorage                   = errors.New("storage failure")
	ErrSubscriberNotFound        = errors.New("subscriber not found")
	ErrLocationNotFound          = errors.New("location not found")
	ErrLocationAlreadySubscribed = errors.New("location already subscribed")
)

// DeliveryError describes a failed delivery attempt. It matches
// ErrDeliveryPermanent or ErrDeliveryTransient with errors.Is.
type DeliveryError struct {
	Permanent  bool
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s delivery failure (status %d): %v", kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s delivery failure: %v", kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func (e *DeliveryError) Is(target error) bool {
	switch target {
	case ErrDeliveryPermanent:
		return e.Permanent
	case ErrDeliveryTransient:
		return !e.Permanent
	}
	return false
}
