package repository

import (
	"context"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// ReceiptRepository describes persistence operations with receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
	GetByID(ctx context.Context, receiptID string) (*model.Receipt, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error)
	// NextNumber atomically allocates the next receipt sequence number for
	// the calendar year. Allocated numbers are never reused.
	NextNumber(ctx context.Context, year int) (int, error)
}
