package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
)

// declineCardSuffix is the documented sentinel: any card number ending with
// it is declined deterministically. Kept reproducible for testing.
const declineCardSuffix = "0000"

// StripeStrategy simulates a card-based gateway.
type StripeStrategy struct {
	latency Options
}

// NewStripeStrategy constructs the card gateway strategy.
func NewStripeStrategy(opts Options) *StripeStrategy {
	return &StripeStrategy{latency: opts}
}

func (s *StripeStrategy) Name() model.Gateway {
	return model.GatewayStripe
}

// Validate requires the full card field set before any processing step.
func (s *StripeStrategy) Validate(data map[string]string) []string {
	var violations []string
	for _, field := range []string{"card_number", "expiry_date", "cvv", "cardholder_name"} {
		if strings.TrimSpace(data[field]) == "" {
			violations = append(violations, fmt.Sprintf("%s is required for card payments", field))
		}
	}
	return violations
}

// Authorize simulates a card charge with processing latency.
func (s *StripeStrategy) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	if err := wait(ctx, s.latency.Latency); err != nil {
		return nil, err
	}

	cardNumber := req.Data["card_number"]
	if strings.HasSuffix(cardNumber, declineCardSuffix) {
		return nil, &domainErrors.GatewayDeclineError{
			Gateway: string(model.GatewayStripe),
			Reason:  "Card declined by issuer",
		}
	}

	txnID := "ch_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	return &AuthorizeResult{
		TransactionID: txnID,
		Response: map[string]any{
			"id":       txnID,
			"status":   "succeeded",
			"amount":   req.Amount,
			"currency": req.Currency,
			"card":     maskCardNumber(cardNumber),
		},
	}, nil
}

// ParseWebhook normalizes a payment_intent event body.
func (s *StripeStrategy) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var body struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID string `json:"id"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("parse stripe webhook: %w", err)
	}
	if body.Data.Object.ID == "" {
		return nil, fmt.Errorf("stripe webhook has no transaction id")
	}

	return &WebhookEvent{
		TransactionID: body.Data.Object.ID,
		Succeeded:     body.Type == "payment_intent.succeeded",
		RawStatus:     body.Type,
	}, nil
}

func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}
