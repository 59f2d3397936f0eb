package dto

import "time"

// ProcessPaymentRequest describes the payment submission payload.
type ProcessPaymentRequest struct {
	OrderID     string            `json:"order_id"`
	Gateway     string            `json:"gateway"`
	Amount      float64           `json:"amount"`
	Currency    string            `json:"currency"`
	PaymentData map[string]string `json:"payment_data"`
}

// ProcessPaymentResponse reports the outcome of a successful charge.
type ProcessPaymentResponse struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// PaymentResponse describes one stored payment.
type PaymentResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Gateway       string    `json:"gateway"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	ReceiptID     *string   `json:"receipt_id,omitempty"`
	ReceiptNumber *string   `json:"receipt_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ErrorResponse carries the reason a request was rejected. Violations lists
// every validation failure found.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}
