package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrSlotsFilled      = errors.New("skill slots filled")
	ErrAlreadyDecided   = errors.New("application already decided")
	ErrStoreUnavailable = errors.New("project store unavailable")
)
