package usecase

import "errors"

var (
	// ErrInvalidInput marks a malformed request. Nothing was mutated.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition is returned when the requested status is not
	// reachable from the entry's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCaptchaInvalid    = errors.New("CAPTCHA_INVALID")
)
