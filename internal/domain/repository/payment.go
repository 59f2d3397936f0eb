package repository

import (
	"context"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// PaymentRepository describes persistence operations with payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, paymentID string) (*model.Payment, error)
	GetByTransaction(ctx context.Context, gateway model.Gateway, transactionID string) (*model.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.Payment, error)
	HasSucceededForOrder(ctx context.Context, orderID string) (bool, error)
	UpdateStatus(ctx context.Context, paymentID string, status model.PaymentStatus) error
	AttachReceipt(ctx context.Context, paymentID, receiptID, receiptNumber string) error
	// SelectUnapplied returns succeeded payments whose order status or
	// receipt has not been applied yet, locking them against concurrent
	// reconcilers.
	SelectUnapplied(ctx context.Context, limit int) ([]model.Payment, error)
}
