package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/server/http/dto"
)

// signatureHeader carries the gateway's payload signature.
const signatureHeader = "X-Webhook-Signature"

// WebhookHandler receives asynchronous gateway notifications.
type WebhookHandler struct {
	facade PaymentProcessor
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade PaymentProcessor) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Receive handles POST /api/webhooks/:gateway.
func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unreadable payload"})
		return
	}

	gw := model.Gateway(c.Param("gateway"))
	signature := c.GetHeader(signatureHeader)
	if err := h.facade.ProcessWebhook(c.Request.Context(), gw, payload, signature); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
