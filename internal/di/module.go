package di

import (
	"go.uber.org/fx"

	"github.com/zinsou/pharmapay/internal/adapter/gateway"
	"github.com/zinsou/pharmapay/internal/adapter/pdfrender"
	"github.com/zinsou/pharmapay/internal/app"
	"github.com/zinsou/pharmapay/internal/config"
	"github.com/zinsou/pharmapay/internal/logger"
	"github.com/zinsou/pharmapay/internal/pkg/webhook"
	"github.com/zinsou/pharmapay/internal/server/http/handlers"
	"github.com/zinsou/pharmapay/internal/server/http/router"
	"github.com/zinsou/pharmapay/internal/storage/postgres"
	"github.com/zinsou/pharmapay/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		gateway.Module,
		webhook.Module,
		pdfrender.Module,
		usecase.Module,
		fx.Provide(func(r *pdfrender.Renderer) usecase.Renderer { return r }),
		fx.Provide(func(f *app.PaymentFacade) handlers.PaymentFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
