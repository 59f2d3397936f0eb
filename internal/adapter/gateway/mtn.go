package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
)

// declinePhoneMarker is the documented sentinel: any phone number containing
// it fails with an insufficient-balance decline.
const declinePhoneMarker = "0000"

// MTNStrategy simulates the MTN mobile-money gateway. Mobile money requests
// take noticeably longer than card or redirect flows.
type MTNStrategy struct {
	latency Options
}

// NewMTNStrategy constructs the mobile-money gateway strategy.
func NewMTNStrategy(opts Options) *MTNStrategy {
	return &MTNStrategy{latency: opts}
}

func (s *MTNStrategy) Name() model.Gateway {
	return model.GatewayMTN
}

// Validate requires the subscriber phone number.
func (s *MTNStrategy) Validate(data map[string]string) []string {
	if strings.TrimSpace(data["phone_number"]) == "" {
		return []string{"phone_number is required for mobile money payments"}
	}
	return nil
}

// Authorize simulates a mobile-money collection request.
func (s *MTNStrategy) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	if err := wait(ctx, s.latency.Latency); err != nil {
		return nil, err
	}

	phone := req.Data["phone_number"]
	if strings.Contains(phone, declinePhoneMarker) {
		return nil, &domainErrors.GatewayDeclineError{
			Gateway: string(model.GatewayMTN),
			Reason:  "insufficient balance",
		}
	}

	txnID := "MTN" + strconv.FormatInt(time.Now().UnixNano(), 10)
	return &AuthorizeResult{
		TransactionID: txnID,
		Response: map[string]any{
			"financialTransactionId": txnID,
			"status":                 "SUCCESSFUL",
			"amount":                 req.Amount,
			"currency":               req.Currency,
			"payer":                  phone,
		},
	}, nil
}

// ParseWebhook normalizes a collection status callback.
func (s *MTNStrategy) ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var body struct {
		FinancialTransactionID string `json:"financialTransactionId"`
		ReferenceID            string `json:"referenceId"`
		Status                 string `json:"status"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("parse mtn webhook: %w", err)
	}

	txnID := body.FinancialTransactionID
	if txnID == "" {
		txnID = body.ReferenceID
	}
	if txnID == "" {
		return nil, fmt.Errorf("mtn webhook has no transaction id")
	}

	return &WebhookEvent{
		TransactionID: txnID,
		Succeeded:     body.Status == "SUCCESSFUL",
		RawStatus:     body.Status,
	}, nil
}
