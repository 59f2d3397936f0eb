package app

import (
	"context"

	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/usecase"
)

// PaymentFacade is the application surface behind the HTTP handlers and the
// reconciliation worker.
type PaymentFacade struct {
	payments *usecase.PaymentUseCase
	receipts *usecase.ReceiptUseCase
}

func NewPaymentFacade(payments *usecase.PaymentUseCase, receipts *usecase.ReceiptUseCase) *PaymentFacade {
	return &PaymentFacade{payments: payments, receipts: receipts}
}

func (f *PaymentFacade) ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
	return f.payments.ProcessPayment(ctx, req, userID)
}

func (f *PaymentFacade) ProcessWebhook(ctx context.Context, gw model.Gateway, payload []byte, signature string) error {
	return f.payments.ProcessWebhook(ctx, gw, payload, signature)
}

func (f *PaymentFacade) Payment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return f.payments.Payment(ctx, paymentID)
}

func (f *PaymentFacade) PaymentsForOrder(ctx context.Context, orderID string) ([]model.Payment, error) {
	return f.payments.PaymentsForOrder(ctx, orderID)
}

func (f *PaymentFacade) AuditLogs(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error) {
	return f.payments.AuditLogs(ctx, paymentID, orderID)
}

func (f *PaymentFacade) GenerateReceipt(ctx context.Context, paymentID string, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
	return f.receipts.GenerateForPayment(ctx, paymentID, pharmacy, customer)
}

func (f *PaymentFacade) ReceiptByPayment(ctx context.Context, paymentID string) (*model.Receipt, error) {
	return f.receipts.ByPayment(ctx, paymentID)
}

func (f *PaymentFacade) ReceiptPDF(ctx context.Context, receiptID string) ([]byte, error) {
	return f.receipts.PDF(ctx, receiptID)
}

func (f *PaymentFacade) PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	return f.payments.PaymentsForReconciliation(ctx, limit)
}

func (f *PaymentFacade) ApplyPayment(ctx context.Context, payment model.Payment) error {
	return f.payments.ApplyPayment(ctx, payment)
}
