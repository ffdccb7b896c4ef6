package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrTimerRunning      = errors.New("a timer is already running")
	ErrTimerStopped      = errors.New("timer already stopped")
	ErrBadCredentials    = errors.New("invalid email or password")
)
