package model

import "time"

// Audit actions recorded by the orchestrator. Webhook entries use
// WebhookAction to derive the action from the resulting payment status.
const (
	AuditActionPaymentProcessed = "payment_processed"
	AuditActionPaymentFailed    = "payment_failed"
	AuditActionReceiptGenerated = "receipt_generated"
	AuditActionReconciled       = "payment_reconciled"
	// AuditActionWebhookRejected traces a verified webhook that could not be
	// applied: unparseable payload, unknown transaction, or a failed update.
	AuditActionWebhookRejected = "webhook_rejected"
)

// WebhookAction builds the audit action tag for a webhook outcome.
func WebhookAction(status PaymentStatus) string {
	return "webhook_" + string(status)
}

// AuditEntry is one append-only trace of an orchestration step. Entries are
// never mutated or deleted.
type AuditEntry struct {
	ID              string
	PaymentID       string
	OrderID         string
	Action          string
	GatewayResponse map[string]any
	ErrorDetails    string
	UserID          string
	CreatedAt       time.Time
}
