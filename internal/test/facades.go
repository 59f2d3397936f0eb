package test

import (
	"context"
	"sync"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	ProcessPaymentFn  func(context.Context, model.ProcessPaymentRequest, string) (*model.ProcessPaymentResult, error)
	ProcessWebhookFn  func(context.Context, model.Gateway, []byte, string) error
	PaymentFn         func(context.Context, string) (*model.Payment, error)
	PaymentsFn        func(context.Context, string) ([]model.Payment, error)
	AuditLogsFn       func(context.Context, string, string) ([]model.AuditEntry, error)
	GenerateReceiptFn func(context.Context, string, model.PharmacyInfo, *model.CustomerInfo) (*model.GeneratedReceipt, error)
	ReceiptFn         func(context.Context, string) (*model.Receipt, error)
	ReceiptPDFFn      func(context.Context, string) ([]byte, error)
}

// ProcessPayment delegates to the override or reports a fixed success.
func (s PaymentFacadeStub) ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
	if s.ProcessPaymentFn != nil {
		return s.ProcessPaymentFn(ctx, req, userID)
	}
	return &model.ProcessPaymentResult{PaymentID: "pay-1", TransactionID: "txn-1", Status: model.PaymentStatusSucceeded}, nil
}

// ProcessWebhook delegates to the override or accepts the webhook.
func (s PaymentFacadeStub) ProcessWebhook(ctx context.Context, gw model.Gateway, payload []byte, signature string) error {
	if s.ProcessWebhookFn != nil {
		return s.ProcessWebhookFn(ctx, gw, payload, signature)
	}
	return nil
}

// Payment returns the configured payment.
func (s PaymentFacadeStub) Payment(ctx context.Context, paymentID string) (*model.Payment, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, paymentID)
	}
	return &model.Payment{ID: paymentID, Status: model.PaymentStatusSucceeded}, nil
}

// PaymentsForOrder returns the configured payment list.
func (s PaymentFacadeStub) PaymentsForOrder(ctx context.Context, orderID string) ([]model.Payment, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx, orderID)
	}
	return []model.Payment{{ID: "pay-1", OrderID: orderID}}, nil
}

// AuditLogs returns the configured audit trail.
func (s PaymentFacadeStub) AuditLogs(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error) {
	if s.AuditLogsFn != nil {
		return s.AuditLogsFn(ctx, paymentID, orderID)
	}
	return nil, nil
}

// GenerateReceipt delegates to the override or reports a fixed receipt.
func (s PaymentFacadeStub) GenerateReceipt(ctx context.Context, paymentID string, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
	if s.GenerateReceiptFn != nil {
		return s.GenerateReceiptFn(ctx, paymentID, pharmacy, customer)
	}
	return &model.GeneratedReceipt{ReceiptID: "rcpt-1", ReceiptNumber: "BJ-2026-000001"}, nil
}

// ReceiptByPayment returns the configured receipt.
func (s PaymentFacadeStub) ReceiptByPayment(ctx context.Context, paymentID string) (*model.Receipt, error) {
	if s.ReceiptFn != nil {
		return s.ReceiptFn(ctx, paymentID)
	}
	return &model.Receipt{ID: "rcpt-1", PaymentID: paymentID}, nil
}

// ReceiptPDF returns the configured document bytes.
func (s PaymentFacadeStub) ReceiptPDF(ctx context.Context, receiptID string) ([]byte, error) {
	if s.ReceiptPDFFn != nil {
		return s.ReceiptPDFFn(ctx, receiptID)
	}
	return []byte("%PDF"), nil
}

// ReconcilerFacadeStub feeds reconciliation batches to the worker.
type ReconcilerFacadeStub struct {
	sync.Mutex

	Batches [][]model.Payment
	ApplyFn func(context.Context, model.Payment) error

	Applied []model.Payment
}

// PaymentsForReconciliation pops the next configured batch.
func (s *ReconcilerFacadeStub) PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	s.Lock()
	defer s.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// ApplyPayment records applied payments.
func (s *ReconcilerFacadeStub) ApplyPayment(ctx context.Context, payment model.Payment) error {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, payment)
	}
	s.Lock()
	defer s.Unlock()
	s.Applied = append(s.Applied, payment)
	return nil
}
