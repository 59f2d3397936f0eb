package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/domain/repository"
)

// Renderer produces the receipt document from immutable receipt details.
type Renderer interface {
	Render(details model.ReceiptDetails) ([]byte, error)
}

// ReceiptOptions configures tax and currency handling.
type ReceiptOptions struct {
	TaxRate            float64
	SettlementCurrency string
	ExchangeRates      map[string]float64
}

// ReceiptUseCase allocates receipt numbers, computes the tax breakdown and
// renders tax-compliant receipt documents for succeeded payments.
type ReceiptUseCase struct {
	receipts repository.ReceiptRepository
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	renderer Renderer
	opts     ReceiptOptions
	now      func() time.Time
}

// NewReceiptUseCase constructs ReceiptUseCase.
func NewReceiptUseCase(
	receipts repository.ReceiptRepository,
	payments repository.PaymentRepository,
	orders repository.OrderRepository,
	renderer Renderer,
	opts ReceiptOptions,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		receipts: receipts,
		payments: payments,
		orders:   orders,
		renderer: renderer,
		opts:     opts,
		now:      time.Now,
	}
}

// Generate creates the receipt for a succeeded payment. It is idempotent per
// payment: when a receipt already exists its stored document is served again
// and the number and tax figures never change.
func (u *ReceiptUseCase) Generate(ctx context.Context, payment *model.Payment, order *model.Order, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
	existing, err := u.receipts.GetByPaymentID(ctx, payment.ID)
	if err == nil {
		return reissue(existing), nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("look up receipt for payment %s: %w", payment.ID, err)
	}

	issueDate := u.now().UTC()
	seq, err := u.receipts.NextNumber(ctx, issueDate.Year())
	if err != nil {
		return nil, fmt.Errorf("allocate receipt number: %w", err)
	}
	number := model.FormatReceiptNumber(issueDate.Year(), seq)

	total, paidAmount, paidCurrency, rate, err := u.settle(payment.Amount, payment.Currency)
	if err != nil {
		return nil, err
	}
	subtotal, tax := splitTaxInclusive(total, u.opts.TaxRate)

	details := model.ReceiptDetails{
		Number:        number,
		IssueDate:     issueDate,
		PaymentID:     payment.ID,
		OrderID:       payment.OrderID,
		Gateway:       payment.Gateway,
		TransactionID: payment.TransactionID,
		TaxRate:       u.opts.TaxRate,
		Subtotal:      subtotal.InexactFloat64(),
		Tax:           tax.InexactFloat64(),
		Total:         total.InexactFloat64(),
		Currency:      u.opts.SettlementCurrency,
		PaidAmount:    paidAmount,
		PaidCurrency:  paidCurrency,
		ExchangeRate:  rate,
		Pharmacy:      pharmacy,
		Customer:      customer,
		Lines:         buildLines(order, subtotal),
	}

	document, err := u.renderer.Render(details)
	if err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", number, err)
	}

	// The rendered bytes persist with the receipt: later downloads and
	// regenerations serve this exact document.
	receipt := &model.Receipt{
		ID:        uuid.NewString(),
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Details:   details,
		Document:  document,
		CreatedAt: issueDate,
	}
	if err := u.receipts.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("persist receipt %s: %w", number, err)
	}
	if err := u.payments.AttachReceipt(ctx, payment.ID, receipt.ID, number); err != nil {
		return nil, fmt.Errorf("attach receipt to payment %s: %w", payment.ID, err)
	}

	return &model.GeneratedReceipt{ReceiptID: receipt.ID, ReceiptNumber: number, Document: document, Details: details}, nil
}

// GenerateForPayment looks up the payment and order and generates (or
// regenerates) its receipt.
func (u *ReceiptUseCase) GenerateForPayment(ctx context.Context, paymentID string, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
	payment, err := u.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusSucceeded {
		return nil, domainErrors.NewValidationError("payment has not succeeded")
	}
	order, err := u.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}
	return u.Generate(ctx, payment, order, pharmacy, customer)
}

// ByPayment returns the stored receipt for a payment.
func (u *ReceiptUseCase) ByPayment(ctx context.Context, paymentID string) (*model.Receipt, error) {
	return u.receipts.GetByPaymentID(ctx, paymentID)
}

// PDF returns the document rendered when the receipt was generated.
func (u *ReceiptUseCase) PDF(ctx context.Context, receiptID string) ([]byte, error) {
	receipt, err := u.receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return receipt.Document, nil
}

// reissue serves an existing receipt without touching the renderer.
func reissue(receipt *model.Receipt) *model.GeneratedReceipt {
	return &model.GeneratedReceipt{
		ReceiptID:     receipt.ID,
		ReceiptNumber: receipt.Details.Number,
		Document:      receipt.Document,
		Details:       receipt.Details,
	}
}

// settle converts the paid amount into the settlement currency using the
// configured fixed rate, rounding at the conversion point.
func (u *ReceiptUseCase) settle(amount float64, currency string) (total decimal.Decimal, paidAmount *float64, paidCurrency *string, rate *float64, err error) {
	total = decimal.NewFromFloat(amount).Round(2)
	if strings.EqualFold(currency, u.opts.SettlementCurrency) {
		return total, nil, nil, nil, nil
	}

	r, ok := u.opts.ExchangeRates[strings.ToUpper(currency)]
	if !ok {
		return decimal.Decimal{}, nil, nil, nil, fmt.Errorf("%w: %s", domainErrors.ErrMissingExchangeRate, currency)
	}

	converted := total.Mul(decimal.NewFromFloat(r)).Round(2)
	paid := amount
	cur := strings.ToUpper(currency)
	return converted, &paid, &cur, &r, nil
}

// splitTaxInclusive extracts the tax component from a tax-inclusive total:
// subtotal = total / (1 + rate), tax = total - subtotal, each rounded
// half-up to 2 decimal places at its own rounding point.
func splitTaxInclusive(total decimal.Decimal, taxRate float64) (subtotal, tax decimal.Decimal) {
	divisor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(taxRate))
	subtotal = total.DivRound(divisor, 2)
	tax = total.Sub(subtotal)
	return subtotal, tax
}

// buildLines derives line items from the order's medication detail. Without
// detail a single generic line covers the full subtotal. With several
// medications the subtotal is split into equal shares and the rounding
// remainder folds into the last line.
func buildLines(order *model.Order, subtotal decimal.Decimal) []model.ReceiptLine {
	if order == nil || len(order.Items) == 0 {
		return []model.ReceiptLine{{
			Description: "Prescription medication",
			Quantity:    1,
			UnitPrice:   subtotal.InexactFloat64(),
			LineTotal:   subtotal.InexactFloat64(),
		}}
	}

	count := int64(len(order.Items))
	share := subtotal.DivRound(decimal.NewFromInt(count), 2)
	lines := make([]model.ReceiptLine, 0, count)
	allocated := decimal.Zero
	for i, item := range order.Items {
		lineTotal := share
		if int64(i) == count-1 {
			lineTotal = subtotal.Sub(allocated)
		}
		allocated = allocated.Add(lineTotal)

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		unit := lineTotal.DivRound(decimal.NewFromInt(int64(quantity)), 2)
		lines = append(lines, model.ReceiptLine{
			Description: item.Medication,
			Quantity:    quantity,
			UnitPrice:   unit.InexactFloat64(),
			LineTotal:   lineTotal.InexactFloat64(),
		})
	}
	return lines
}
