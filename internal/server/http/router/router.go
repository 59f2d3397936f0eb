package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/zinsou/pharmapay/internal/config"
	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/server/http/handlers"
	"github.com/zinsou/pharmapay/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PaymentFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	pharmacy := model.PharmacyInfo{
		Name:    cfg.PharmacyName,
		Address: cfg.PharmacyAddress,
		Phone:   cfg.PharmacyPhone,
		TaxID:   cfg.PharmacyTaxID,
	}

	paymentHandler := handlers.NewPaymentHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	receiptHandler := handlers.NewReceiptHandler(facade, pharmacy)

	api := engine.Group("/api")
	api.POST("/payments", paymentHandler.Process)
	api.GET("/payments/:paymentID", paymentHandler.Get)
	api.POST("/payments/:paymentID/receipt", receiptHandler.Generate)
	api.GET("/payments/:paymentID/receipt", receiptHandler.ByPayment)
	api.GET("/receipts/:receiptID/pdf", receiptHandler.PDF)
	api.GET("/orders/:orderID/payments", paymentHandler.ListByOrder)
	api.GET("/audit-logs", paymentHandler.AuditLogs)
	api.POST("/webhooks/:gateway", webhookHandler.Receive)

	return engine
}
