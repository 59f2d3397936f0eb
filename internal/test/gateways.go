package test

import (
	"context"
	"sync/atomic"

	"github.com/zinsou/pharmapay/internal/adapter/gateway"
	"github.com/zinsou/pharmapay/internal/domain/model"
)

// StrategyStub lets tests control gateway behaviour and count invocations.
type StrategyStub struct {
	GatewayName model.Gateway
	ValidateFn  func(map[string]string) []string
	AuthorizeFn func(context.Context, gateway.AuthorizeRequest) (*gateway.AuthorizeResult, error)
	ParseFn     func([]byte) (*gateway.WebhookEvent, error)

	AuthorizeCalls int32
}

// Name returns the configured gateway identifier.
func (s *StrategyStub) Name() model.Gateway {
	return s.GatewayName
}

// Validate delegates to override or accepts everything.
func (s *StrategyStub) Validate(data map[string]string) []string {
	if s.ValidateFn != nil {
		return s.ValidateFn(data)
	}
	return nil
}

// Authorize counts calls and delegates to override or returns a fixed result.
func (s *StrategyStub) Authorize(ctx context.Context, req gateway.AuthorizeRequest) (*gateway.AuthorizeResult, error) {
	atomic.AddInt32(&s.AuthorizeCalls, 1)
	if s.AuthorizeFn != nil {
		return s.AuthorizeFn(ctx, req)
	}
	return &gateway.AuthorizeResult{
		TransactionID: "txn-" + req.OrderID,
		Response:      map[string]any{"status": "ok"},
	}, nil
}

// ParseWebhook delegates to override or reports success for any payload.
func (s *StrategyStub) ParseWebhook(payload []byte) (*gateway.WebhookEvent, error) {
	if s.ParseFn != nil {
		return s.ParseFn(payload)
	}
	return &gateway.WebhookEvent{TransactionID: "txn", Succeeded: true, RawStatus: "ok"}, nil
}

// RendererStub renders a deterministic placeholder document.
type RendererStub struct {
	RenderFn func(model.ReceiptDetails) ([]byte, error)
	Calls    int32
}

// Render counts calls and delegates to override or derives bytes from the
// receipt number so identical details yield identical output.
func (s *RendererStub) Render(details model.ReceiptDetails) ([]byte, error) {
	atomic.AddInt32(&s.Calls, 1)
	if s.RenderFn != nil {
		return s.RenderFn(details)
	}
	return []byte("%PDF " + details.Number), nil
}
