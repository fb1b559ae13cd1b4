package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every verification flow.
// Callers match with errors.Is; messages are wrapped with context.
var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidState     = errors.New("invalid state")
	ErrExpired          = errors.New("otp expired")
	ErrAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrInvalidCode      = errors.New("invalid otp code")
	ErrConflict         = errors.New("conflict")
	ErrPersistence      = errors.New("persistence failure")

	ErrNotFound        = errors.New("not found")
	ErrNotSubmitted    = errors.New("verification not submitted")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrDelivery        = errors.New("otp delivery failed")
)

// InvalidCodeError is returned when a submitted OTP does not match
// and attempts remain.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid otp code: %d attempts remaining", e.Remaining)
}

// Is lets errors.Is(err, ErrInvalidCode) match.
func (e *InvalidCodeError) Is(target error) bool {
	return target == ErrInvalidCode
}

// RemainingAttempts extracts the remaining attempt count from an
// InvalidCodeError, if err is one.
func RemainingAttempts(err error) (int, bool) {
	var ice *InvalidCodeError
	if errors.As(err, &ice) {
		return ice.Remaining, true
	}
	return 0, false
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func stateErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
