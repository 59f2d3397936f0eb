package usecase

import (
	"math"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// amountTolerance absorbs binary float noise when comparing a requested
// amount against the order cost, both held to 2 decimal places.
const amountTolerance = 0.005

// ValidatePaymentRequest collects gateway-agnostic violations of the payment
// request. All violations are reported, not just the first.
func ValidatePaymentRequest(req model.ProcessPaymentRequest) []string {
	var violations []string
	if req.OrderID == "" {
		violations = append(violations, "order id is required")
	}
	if req.Amount <= 0 {
		violations = append(violations, "amount must be a positive number")
	}
	if req.Currency == "" {
		violations = append(violations, "currency is required")
	}
	return violations
}

// ValidateOrderEligibility collects order-level violations for a payment
// attempt: status, cost, amount match, and prior successful payment.
func ValidateOrderEligibility(order *model.Order, requestedAmount float64, hasSucceededPayment bool) []string {
	var violations []string
	if order.Status != model.OrderStatusAwaitingPayment {
		violations = append(violations, "order is not awaiting payment")
	}
	if order.Cost <= 0 {
		violations = append(violations, "order cost must be set and positive")
	} else if requestedAmount > 0 && math.Abs(requestedAmount-order.Cost) > amountTolerance {
		violations = append(violations, "amount does not match order cost")
	}
	if hasSucceededPayment {
		violations = append(violations, "order already has a successful payment")
	}
	return violations
}
