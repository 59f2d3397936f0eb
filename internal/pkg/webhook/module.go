package webhook

import (
	"go.uber.org/fx"

	"github.com/zinsou/pharmapay/internal/config"
)

// Module provides the webhook signature verifier via fx.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) Verifier {
	if p.Config.WebhookSecret != "" {
		return NewHMACVerifier(p.Config.WebhookSecret)
	}
	return NewPresenceVerifier()
}
