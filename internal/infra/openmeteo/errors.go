package openmeteo

import "errors"

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrServerError      = errors.New("server error")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrInvalidBackoff   = errors.New("invalid backoff configuration")
	ErrDecode           = errors.New("failed to decode provider response")
)
