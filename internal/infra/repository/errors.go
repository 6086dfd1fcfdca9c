package repository

import "errors"

var (
	ErrRedisConnection       = errors.New("redis connection error")
	ErrInvalidSubscriberData = errors.New("invalid subscriber data")
	ErrUpdateConflict        = errors.New("subscriber update kept conflicting")
)
