package repository

import (
	"context"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// AuditRepository is the append-only audit trail. Entries are written once
// and only ever read back, newest first.
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditEntry) error
	List(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error)
}
