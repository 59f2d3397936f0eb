package model

import "time"

// Gateway identifies a supported payment processor.
type Gateway string

const (
	GatewayStripe Gateway = "stripe"
	GatewayPayPal Gateway = "paypal"
	GatewayMTN    Gateway = "mtn"
)

// PaymentStatus describes the terminal-bound payment lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ProcessPaymentRequest carries one charge attempt: the target order, the
// chosen gateway and its gateway-specific payment data.
type ProcessPaymentRequest struct {
	OrderID  string
	Gateway  Gateway
	Amount   float64
	Currency string
	Data     map[string]string
}

// ProcessPaymentResult reports a successful charge.
type ProcessPaymentResult struct {
	PaymentID     string
	TransactionID string
	Status        PaymentStatus
}

// Payment is one completed charge attempt against an order. The pair
// (Gateway, TransactionID) is unique and serves as the webhook lookup key.
type Payment struct {
	ID            string
	OrderID       string
	Amount        float64
	Currency      string
	Gateway       Gateway
	TransactionID string
	Status        PaymentStatus
	ReceiptID     *string
	ReceiptNumber *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
