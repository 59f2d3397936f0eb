package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zinsou/pharmapay/internal/adapter/gateway"
	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/domain/repository"
	"github.com/zinsou/pharmapay/internal/pkg/webhook"
)

// ReceiptGenerator is the slice of receipt functionality the payment path
// triggers after a successful charge.
type ReceiptGenerator interface {
	Generate(ctx context.Context, payment *model.Payment, order *model.Order, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error)
}

// PaymentOptions configures orchestration behaviour.
type PaymentOptions struct {
	GatewayTimeout time.Duration
	Pharmacy       model.PharmacyInfo
}

// PaymentUseCase orchestrates payment processing and webhook reconciliation.
// It is the only component allowed to mutate order and payment status.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	audits   repository.AuditRepository
	registry *gateway.Registry
	verifier webhook.Verifier
	receipts ReceiptGenerator
	opts     PaymentOptions
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	audits repository.AuditRepository,
	registry *gateway.Registry,
	verifier webhook.Verifier,
	receipts ReceiptGenerator,
	opts PaymentOptions,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:   orders,
		payments: payments,
		audits:   audits,
		registry: registry,
		verifier: verifier,
		receipts: receipts,
		opts:     opts,
		logger:   logger,
	}
}

// ProcessPayment validates the order and payment input, charges the selected
// gateway and, on success, persists the payment, advances the order and
// triggers receipt generation. Validation failures report every violation
// found. No payment record is persisted for a gateway-level decline.
func (u *PaymentUseCase) ProcessPayment(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
	violations := ValidatePaymentRequest(req)

	strategy, supported := u.registry.Lookup(req.Gateway)
	if !supported {
		violations = append(violations, fmt.Sprintf("unsupported payment gateway %q", req.Gateway))
	}

	var order *model.Order
	if req.OrderID != "" {
		var err error
		order, err = u.orders.GetByID(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				err = fmt.Errorf("order %s: %w", req.OrderID, domainErrors.ErrNotFound)
			}
			u.audit(ctx, &model.AuditEntry{
				OrderID:      req.OrderID,
				Action:       model.AuditActionPaymentFailed,
				ErrorDetails: err.Error(),
				UserID:       userID,
			})
			return nil, err
		}

		hasSucceeded, err := u.payments.HasSucceededForOrder(ctx, req.OrderID)
		if err != nil {
			err = fmt.Errorf("check prior payments for order %s: %w", req.OrderID, err)
			u.audit(ctx, &model.AuditEntry{
				OrderID:      req.OrderID,
				Action:       model.AuditActionPaymentFailed,
				ErrorDetails: err.Error(),
				UserID:       userID,
			})
			return nil, err
		}
		violations = append(violations, ValidateOrderEligibility(order, req.Amount, hasSucceeded)...)
	}

	if supported {
		violations = append(violations, strategy.Validate(req.Data)...)
	}

	if len(violations) > 0 {
		vErr := domainErrors.NewValidationError(violations...)
		u.audit(ctx, &model.AuditEntry{
			OrderID:      req.OrderID,
			Action:       model.AuditActionPaymentFailed,
			ErrorDetails: vErr.Error(),
			UserID:       userID,
		})
		return nil, vErr
	}

	// Claim the order before the gateway call so a concurrent attempt
	// against the same order fails here instead of double-charging.
	claimed, err := u.orders.ClaimForPayment(ctx, order.ID)
	if err != nil {
		err = fmt.Errorf("claim order %s: %w", order.ID, err)
		u.audit(ctx, &model.AuditEntry{
			OrderID:      order.ID,
			Action:       model.AuditActionPaymentFailed,
			ErrorDetails: err.Error(),
			UserID:       userID,
		})
		return nil, err
	}
	if !claimed {
		vErr := domainErrors.NewValidationError("order is not awaiting payment")
		u.audit(ctx, &model.AuditEntry{
			OrderID:      order.ID,
			Action:       model.AuditActionPaymentFailed,
			ErrorDetails: vErr.Error(),
			UserID:       userID,
		})
		return nil, vErr
	}

	paymentID := uuid.NewString()

	authCtx, cancel := context.WithTimeout(ctx, u.opts.GatewayTimeout)
	defer cancel()
	result, err := strategy.Authorize(authCtx, gateway.AuthorizeRequest{
		OrderID:  order.ID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Data:     req.Data,
	})
	if err != nil {
		u.releaseClaim(ctx, order.ID)
		if errors.Is(err, context.DeadlineExceeded) {
			err = &domainErrors.GatewayTimeoutError{Gateway: string(req.Gateway)}
		}
		u.audit(ctx, &model.AuditEntry{
			PaymentID:    paymentID,
			OrderID:      order.ID,
			Action:       model.AuditActionPaymentFailed,
			ErrorDetails: err.Error(),
			UserID:       userID,
		})
		return nil, err
	}

	now := time.Now().UTC()
	payment := &model.Payment{
		ID:            paymentID,
		OrderID:       order.ID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Gateway:       req.Gateway,
		TransactionID: result.TransactionID,
		Status:        model.PaymentStatusSucceeded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// The payment must be durable before the order status changes: a crash
	// in between leaves a succeeded-but-unapplied payment the reconciler
	// can recover, never a paid order without a payment of record.
	if err := u.payments.Create(ctx, payment); err != nil {
		u.releaseClaim(ctx, order.ID)
		u.audit(ctx, &model.AuditEntry{
			PaymentID:    paymentID,
			OrderID:      order.ID,
			Action:       model.AuditActionPaymentFailed,
			ErrorDetails: err.Error(),
			UserID:       userID,
		})
		return nil, fmt.Errorf("persist payment: %w", err)
	}

	if err := u.orders.MarkPaid(ctx, order.ID); err != nil {
		// Recoverable: the reconciler re-applies succeeded payments.
		u.logger.Error("mark order paid failed",
			slog.String("order_id", order.ID),
			slog.String("payment_id", paymentID),
			slog.String("error", err.Error()),
		)
	}

	if _, err := u.receipts.Generate(ctx, payment, order, u.opts.Pharmacy, nil); err != nil {
		// Payments are the source of truth; receipts are regenerable.
		u.logger.Error("receipt generation failed",
			slog.String("payment_id", paymentID),
			slog.String("error", err.Error()),
		)
	}

	u.audit(ctx, &model.AuditEntry{
		PaymentID:       paymentID,
		OrderID:         order.ID,
		Action:          model.AuditActionPaymentProcessed,
		GatewayResponse: result.Response,
		UserID:          userID,
	})

	return &model.ProcessPaymentResult{
		PaymentID:     paymentID,
		TransactionID: result.TransactionID,
		Status:        model.PaymentStatusSucceeded,
	}, nil
}

// ProcessWebhook reconciles an asynchronous gateway notification. The
// signature is verified before any state mutation. A payment that already
// succeeded is terminal: replays and late failure notifications only audit.
// Every verified webhook leaves an audit entry, rejected ones included.
func (u *PaymentUseCase) ProcessWebhook(ctx context.Context, gw model.Gateway, payload []byte, signature string) error {
	strategy, ok := u.registry.Lookup(gw)
	if !ok {
		return fmt.Errorf("%w: %s", domainErrors.ErrUnsupportedGateway, gw)
	}

	if err := u.verifier.Verify(payload, signature); err != nil {
		return err
	}

	event, err := strategy.ParseWebhook(payload)
	if err != nil {
		u.audit(ctx, &model.AuditEntry{
			Action:       model.AuditActionWebhookRejected,
			ErrorDetails: err.Error(),
		})
		return err
	}

	eventResponse := map[string]any{
		"transaction_id": event.TransactionID,
		"status":         event.RawStatus,
	}

	payment, err := u.payments.GetByTransaction(ctx, gw, event.TransactionID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			err = fmt.Errorf("payment for %s transaction %s: %w", gw, event.TransactionID, domainErrors.ErrNotFound)
		}
		u.audit(ctx, &model.AuditEntry{
			Action:          model.AuditActionWebhookRejected,
			GatewayResponse: eventResponse,
			ErrorDetails:    err.Error(),
		})
		return err
	}

	status := model.PaymentStatusFailed
	if event.Succeeded {
		status = model.PaymentStatusSucceeded
	}

	if payment.Status != model.PaymentStatusSucceeded {
		if err := u.payments.UpdateStatus(ctx, payment.ID, status); err != nil {
			err = fmt.Errorf("update payment %s: %w", payment.ID, err)
			u.audit(ctx, &model.AuditEntry{
				PaymentID:       payment.ID,
				OrderID:         payment.OrderID,
				Action:          model.AuditActionWebhookRejected,
				GatewayResponse: eventResponse,
				ErrorDetails:    err.Error(),
			})
			return err
		}
		if status == model.PaymentStatusSucceeded {
			if err := u.orders.MarkPaid(ctx, payment.OrderID); err != nil {
				err = fmt.Errorf("mark order %s paid: %w", payment.OrderID, err)
				u.audit(ctx, &model.AuditEntry{
					PaymentID:       payment.ID,
					OrderID:         payment.OrderID,
					Action:          model.AuditActionWebhookRejected,
					GatewayResponse: eventResponse,
					ErrorDetails:    err.Error(),
				})
				return err
			}
		}
	}

	u.audit(ctx, &model.AuditEntry{
		PaymentID:       payment.ID,
		OrderID:         payment.OrderID,
		Action:          model.WebhookAction(status),
		GatewayResponse: eventResponse,
	})
	return nil
}

// ApplyPayment re-applies a succeeded payment whose side effects were lost
// to a crash: order status and receipt. Exercised by the reconciler.
func (u *PaymentUseCase) ApplyPayment(ctx context.Context, payment model.Payment) error {
	order, err := u.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", payment.OrderID, err)
	}

	if order.Status == model.OrderStatusAwaitingPayment || order.Status == model.OrderStatusPaymentInFlight {
		if err := u.orders.MarkPaid(ctx, order.ID); err != nil {
			return fmt.Errorf("mark order %s paid: %w", order.ID, err)
		}
	}

	if payment.ReceiptID == nil {
		if _, err := u.receipts.Generate(ctx, &payment, order, u.opts.Pharmacy, nil); err != nil {
			return fmt.Errorf("generate receipt for payment %s: %w", payment.ID, err)
		}
	}

	u.audit(ctx, &model.AuditEntry{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Action:    model.AuditActionReconciled,
	})
	return nil
}

// PaymentsForReconciliation returns succeeded payments with unapplied side
// effects.
func (u *PaymentUseCase) PaymentsForReconciliation(ctx context.Context, limit int) ([]model.Payment, error) {
	return u.payments.SelectUnapplied(ctx, limit)
}

// Payment returns one payment by identifier.
func (u *PaymentUseCase) Payment(ctx context.Context, paymentID string) (*model.Payment, error) {
	return u.payments.GetByID(ctx, paymentID)
}

// PaymentsForOrder returns every payment attempt persisted for an order.
func (u *PaymentUseCase) PaymentsForOrder(ctx context.Context, orderID string) ([]model.Payment, error) {
	return u.payments.ListByOrder(ctx, orderID)
}

// AuditLogs returns the audit trail filtered by payment and/or order,
// newest first.
func (u *PaymentUseCase) AuditLogs(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error) {
	return u.audits.List(ctx, paymentID, orderID)
}

func (u *PaymentUseCase) releaseClaim(ctx context.Context, orderID string) {
	if err := u.orders.ReleaseClaim(ctx, orderID); err != nil {
		u.logger.Error("release order claim failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
}

// audit appends a trail entry. The trail is best-effort relative to the
// payment outcome, so append failures are logged, never propagated.
func (u *PaymentUseCase) audit(ctx context.Context, entry *model.AuditEntry) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	if err := u.audits.Append(ctx, entry); err != nil {
		u.logger.Error("audit append failed",
			slog.String("action", entry.Action),
			slog.String("order_id", entry.OrderID),
			slog.String("error", err.Error()),
		)
	}
}
