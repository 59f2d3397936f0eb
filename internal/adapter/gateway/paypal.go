package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// PayPalStrategy simulates a redirect-based gateway. It carries no card
// fields and has no deterministic decline path.
type PayPalStrategy struct {
	latency Options
}

// NewPayPalStrategy constructs the redirect gateway strategy.
func NewPayPalStrategy(opts Options) *PayPalStrategy {
	return &PayPalStrategy{latency: opts}
}

func (s *PayPalStrategy) Name() model.Gateway {
	return model.GatewayPayPal
}

// Validate has no gateway-specific required fields.
func (s *PayPalStrategy) Validate(map[string]string) []string {
	return nil
}

// Authorize simulates a capture after the redirect flow.
func (s *PayPalStrategy) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	if err := wait(ctx, s.latency.Latency); err != nil {
		return nil, err
	}

	alnum := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	txnID := "PP" + alnum[:15]
	return &AuthorizeResult{
		TransactionID: txnID,
		Response: map[string]any{
			"id":       txnID,
			"status":   "COMPLETED",
			"amount":   req.Amount,
			"currency": req.Currency,
		},
	}, nil
}

// ParseWebhook normalizes a capture event body.
func (s *PayPalStrategy) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var body struct {
		EventType string `json:"event_type"`
		Resource  struct {
			ID string `json:"id"`
		} `json:"resource"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("parse paypal webhook: %w", err)
	}
	if body.Resource.ID == "" {
		return nil, fmt.Errorf("paypal webhook has no transaction id")
	}

	return &WebhookEvent{
		TransactionID: body.Resource.ID,
		Succeeded:     body.EventType == "PAYMENT.CAPTURE.COMPLETED",
		RawStatus:     body.EventType,
	}, nil
}
