package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/server/http/dto"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	facade PaymentProcessor
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentProcessor) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Process handles POST /api/payments.
func (h *PaymentHandler) Process(c *gin.Context) {
	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed payload"})
		return
	}

	result, err := h.facade.ProcessPayment(c.Request.Context(), model.ProcessPaymentRequest{
		OrderID:  req.OrderID,
		Gateway:  model.Gateway(req.Gateway),
		Amount:   req.Amount,
		Currency: req.Currency,
		Data:     req.PaymentData,
	}, CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ProcessPaymentResponse{
		PaymentID:     result.PaymentID,
		TransactionID: result.TransactionID,
		Status:        string(result.Status),
	})
}

// Get handles GET /api/payments/:paymentID.
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.facade.Payment(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// ListByOrder handles GET /api/orders/:orderID/payments.
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	payments, err := h.facade.PaymentsForOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(payments) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// AuditLogs handles GET /api/audit-logs.
func (h *PaymentHandler) AuditLogs(c *gin.Context) {
	paymentID := c.Query("payment_id")
	orderID := c.Query("order_id")
	if paymentID == "" && orderID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "payment_id or order_id filter is required"})
		return
	}

	entries, err := h.facade.AuditLogs(c.Request.Context(), paymentID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.AuditEntryResponse{
			ID:              entry.ID,
			PaymentID:       entry.PaymentID,
			OrderID:         entry.OrderID,
			Action:          entry.Action,
			GatewayResponse: entry.GatewayResponse,
			ErrorDetails:    entry.ErrorDetails,
			UserID:          entry.UserID,
			CreatedAt:       entry.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func toPaymentResponse(payment *model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Gateway:       string(payment.Gateway),
		TransactionID: payment.TransactionID,
		Status:        string(payment.Status),
		ReceiptID:     payment.ReceiptID,
		ReceiptNumber: payment.ReceiptNumber,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}
