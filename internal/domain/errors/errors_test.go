package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestValidationErrorAggregatesViolations(t *testing.T) {
	err := NewValidationError("order is not awaiting payment", "order cost must be positive")

	msg := err.Error()
	if !strings.Contains(msg, "order is not awaiting payment") {
		t.Fatalf("first violation missing from %q", msg)
	}
	if !strings.Contains(msg, "order cost must be positive") {
		t.Fatalf("second violation missing from %q", msg)
	}
	if len(err.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(err.Violations))
	}
}

func TestValidationErrorAs(t *testing.T) {
	var wrapped error = NewValidationError("amount is required")

	var v *ValidationError
	if !stderrors.As(wrapped, &v) {
		t.Fatal("expected errors.As to match ValidationError")
	}
}

func TestGatewayDeclineErrorMessage(t *testing.T) {
	err := &GatewayDeclineError{Gateway: "stripe", Reason: "Card declined by issuer"}
	if err.Error() != "Card declined by issuer" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestGatewayTimeoutErrorMessage(t *testing.T) {
	err := &GatewayTimeoutError{Gateway: "mtn"}
	if !strings.Contains(err.Error(), "mtn") {
		t.Fatalf("expected gateway name in message, got %q", err.Error())
	}
}
