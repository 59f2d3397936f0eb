package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrUnsupportedGateway  = errors.New("unsupported payment gateway")
	ErrSignatureMissing    = errors.New("webhook signature missing")
	ErrSignatureInvalid    = errors.New("webhook signature invalid")
	ErrMissingExchangeRate = errors.New("no exchange rate configured for currency")
)

// ValidationError aggregates every violation found during request
// validation, not only the first one.
type ValidationError struct {
	Violations []string
}

// NewValidationError builds ValidationError from collected violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// GatewayDeclineError signals a deterministic or simulated decline from a
// payment gateway. Reason is human-readable and safe to surface.
type GatewayDeclineError struct {
	Gateway string
	Reason  string
}

func (e *GatewayDeclineError) Error() string {
	return e.Reason
}

// GatewayTimeoutError marks an authorize call that exceeded its deadline.
// No payment is persisted for a timed-out attempt.
type GatewayTimeoutError struct {
	Gateway string
}

func (e *GatewayTimeoutError) Error() string {
	return fmt.Sprintf("gateway %s timed out", e.Gateway)
}
