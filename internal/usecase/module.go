package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/zinsou/pharmapay/internal/adapter/gateway"
	"github.com/zinsou/pharmapay/internal/config"
	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/domain/repository"
	"github.com/zinsou/pharmapay/internal/pkg/webhook"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newReceiptUseCase,
	newPaymentUseCase,
)

type receiptParams struct {
	fx.In

	Receipts repository.ReceiptRepository
	Payments repository.PaymentRepository
	Orders   repository.OrderRepository
	Renderer Renderer
	Config   *config.Config
}

func newReceiptUseCase(p receiptParams) *ReceiptUseCase {
	return NewReceiptUseCase(p.Receipts, p.Payments, p.Orders, p.Renderer, ReceiptOptions{
		TaxRate:            p.Config.TaxRate,
		SettlementCurrency: p.Config.SettlementCurrency,
		ExchangeRates:      p.Config.ExchangeRates,
	})
}

type paymentParams struct {
	fx.In

	Orders   repository.OrderRepository
	Payments repository.PaymentRepository
	Audits   repository.AuditRepository
	Registry *gateway.Registry
	Verifier webhook.Verifier
	Receipts *ReceiptUseCase
	Config   *config.Config
	Logger   *slog.Logger
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Orders, p.Payments, p.Audits, p.Registry, p.Verifier, p.Receipts, PaymentOptions{
		GatewayTimeout: p.Config.GatewayTimeout,
		Pharmacy: model.PharmacyInfo{
			Name:    p.Config.PharmacyName,
			Address: p.Config.PharmacyAddress,
			Phone:   p.Config.PharmacyPhone,
			TaxID:   p.Config.PharmacyTaxID,
		},
	}, p.Logger)
}
