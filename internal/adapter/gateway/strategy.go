package gateway

import (
	"context"
	"time"

	"github.com/zinsou/pharmapay/internal/domain/model"
)

// AuthorizeRequest carries the gateway-agnostic charge parameters plus the
// gateway-specific payment data fields.
type AuthorizeRequest struct {
	OrderID  string
	Amount   float64
	Currency string
	Data     map[string]string
}

// AuthorizeResult is a successful authorization outcome.
type AuthorizeResult struct {
	TransactionID string
	Response      map[string]any
}

// WebhookEvent is the normalized form of a gateway webhook payload.
type WebhookEvent struct {
	TransactionID string
	Succeeded     bool
	RawStatus     string
}

// Strategy abstracts one payment gateway behind a uniform contract. New
// gateways plug into the orchestrator through the Registry only.
type Strategy interface {
	Name() model.Gateway
	// Validate reports missing or malformed gateway-specific payment data.
	// Violations are collected, not short-circuited.
	Validate(data map[string]string) []string
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error)
	ParseWebhook(payload []byte) (*WebhookEvent, error)
}

// Options tunes simulated gateway behaviour.
type Options struct {
	Latency time.Duration
}

// Registry maps gateway identifiers to strategy implementations.
type Registry struct {
	strategies map[model.Gateway]Strategy
}

// NewRegistry builds registry from provided strategies.
func NewRegistry(strategies ...Strategy) *Registry {
	m := make(map[model.Gateway]Strategy, len(strategies))
	for _, s := range strategies {
		m[s.Name()] = s
	}
	return &Registry{strategies: m}
}

// Lookup resolves gateway strategy by its identifier.
func (r *Registry) Lookup(name model.Gateway) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// wait blocks for the simulated processing latency while honouring context
// cancellation and deadlines.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
