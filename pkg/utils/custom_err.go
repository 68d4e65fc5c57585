package utils

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidOption      = errors.New("invalid option for current question")
	ErrEmptyConcern       = errors.New("concern must not be empty")
	ErrUnsupportedLocale  = errors.New("unsupported locale")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoQuizResults      = errors.New("no quiz results found")
	ErrSessionBusy        = errors.New("session is busy")
	ErrWrongPhase         = errors.New("operation not allowed in current phase")
	ErrNoPreviousQuestion = errors.New("no previous question")
	ErrPlanDowngrade      = errors.New("plan can only move forward")
	ErrNoUpgradeAvailable = errors.New("no upgrade available")
	ErrAlreadyPurchased   = errors.New("a plan was already purchased")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrDatabaseError      = errors.New("database error")
)

// PaymentError carries the provider's user-facing decline reason.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	return "payment failed: " + e.Reason
}

func (e *PaymentError) Unwrap() error {
	return ErrPaymentFailed
}
