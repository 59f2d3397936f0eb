package repository

import (
	"context"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Status
// mutations are funneled through the payment orchestrator only.
type OrderRepository interface {
	GetByID(ctx context.Context, orderID string) (*model.Order, error)
	// ClaimForPayment atomically moves an order from awaiting_payment to
	// payment_in_flight. Returns false when the order was not claimable,
	// which covers the concurrent-attempt race.
	ClaimForPayment(ctx context.Context, orderID string) (bool, error)
	// ReleaseClaim reverts payment_in_flight back to awaiting_payment after
	// a failed attempt.
	ReleaseClaim(ctx context.Context, orderID string) error
	MarkPaid(ctx context.Context, orderID string) error
}
