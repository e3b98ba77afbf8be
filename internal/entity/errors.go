package entity

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidTemplate    = errors.New("unknown outreach template")
	ErrSendFailed         = errors.New("message could not be delivered")

	ErrChatNotConfigured = errors.New("chat service not configured")
	ErrChatQuotaExceeded = errors.New("chat service quota exceeded")
	ErrChatRateLimited   = errors.New("chat service rate limited")
)
