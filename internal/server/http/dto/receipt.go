package dto

import (
	"time"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// CustomerInfo optionally identifies the payer on a generated receipt.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// GenerateReceiptRequest is the optional payload of receipt generation.
type GenerateReceiptRequest struct {
	Customer *CustomerInfo `json:"customer"`
}

// GenerateReceiptResponse reports the allocated receipt identity.
type GenerateReceiptResponse struct {
	ReceiptID     string `json:"receipt_id"`
	ReceiptNumber string `json:"receipt_number"`
}

// ReceiptResponse describes one stored receipt. Details carry the immutable
// figures the document is rendered from.
type ReceiptResponse struct {
	ID        string               `json:"id"`
	PaymentID string               `json:"payment_id"`
	OrderID   string               `json:"order_id"`
	Details   model.ReceiptDetails `json:"details"`
	CreatedAt time.Time            `json:"created_at"`
}
