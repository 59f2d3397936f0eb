package gateway

import (
	"go.uber.org/fx"

	"github.com/zinsou/pharmapay/internal/config"
)

// Module exposes the gateway strategy registry to the fx graph.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Config *config.Config
}

func newRegistry(p registryParams) *Registry {
	base := p.Config.GatewayLatency
	return NewRegistry(
		NewStripeStrategy(Options{Latency: base}),
		NewPayPalStrategy(Options{Latency: base}),
		// Mobile money settles noticeably slower than card networks.
		NewMTNStrategy(Options{Latency: 3 * base}),
	)
}
