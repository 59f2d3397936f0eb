package handlers

import (
	"context"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// PaymentProcessor describes payment operations exposed via HTTP.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error)
	ProcessWebhook(ctx context.Context, gw model.Gateway, payload []byte, signature string) error
	Payment(ctx context.Context, paymentID string) (*model.Payment, error)
	PaymentsForOrder(ctx context.Context, orderID string) ([]model.Payment, error)
	AuditLogs(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error)
}

// ReceiptProvider describes receipt operations exposed via HTTP.
type ReceiptProvider interface {
	GenerateReceipt(ctx context.Context, paymentID string, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error)
	ReceiptByPayment(ctx context.Context, paymentID string) (*model.Receipt, error)
	ReceiptPDF(ctx context.Context, receiptID string) ([]byte, error)
}

// PaymentFacade aggregates the full set of operations used across handlers.
type PaymentFacade interface {
	PaymentProcessor
	ReceiptProvider
}
