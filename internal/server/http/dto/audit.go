package dto

import "time"

// AuditEntryResponse describes one audit trail entry, newest first.
type AuditEntryResponse struct {
	ID              string         `json:"id"`
	PaymentID       string         `json:"payment_id,omitempty"`
	OrderID         string         `json:"order_id,omitempty"`
	Action          string         `json:"action"`
	GatewayResponse map[string]any `json:"gateway_response,omitempty"`
	ErrorDetails    string         `json:"error_details,omitempty"`
	UserID          string         `json:"user_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
