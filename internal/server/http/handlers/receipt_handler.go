package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/server/http/dto"
)

// ReceiptHandler manages receipt endpoints.
type ReceiptHandler struct {
	facade   ReceiptProvider
	pharmacy model.PharmacyInfo
}

// NewReceiptHandler constructs ReceiptHandler.
func NewReceiptHandler(facade ReceiptProvider, pharmacy model.PharmacyInfo) *ReceiptHandler {
	return &ReceiptHandler{facade: facade, pharmacy: pharmacy}
}

// Generate handles POST /api/payments/:paymentID/receipt. The body is
// optional and may identify the customer printed on the receipt.
func (h *ReceiptHandler) Generate(c *gin.Context) {
	var req dto.GenerateReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed payload"})
			return
		}
	}

	var customer *model.CustomerInfo
	if req.Customer != nil {
		customer = &model.CustomerInfo{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
		}
	}

	generated, err := h.facade.GenerateReceipt(c.Request.Context(), c.Param("paymentID"), h.pharmacy, customer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.GenerateReceiptResponse{
		ReceiptID:     generated.ReceiptID,
		ReceiptNumber: generated.ReceiptNumber,
	})
}

// ByPayment handles GET /api/payments/:paymentID/receipt.
func (h *ReceiptHandler) ByPayment(c *gin.Context) {
	receipt, err := h.facade.ReceiptByPayment(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReceiptResponse{
		ID:        receipt.ID,
		PaymentID: receipt.PaymentID,
		OrderID:   receipt.OrderID,
		Details:   receipt.Details,
		CreatedAt: receipt.CreatedAt,
	})
}

// PDF handles GET /api/receipts/:receiptID/pdf.
func (h *ReceiptHandler) PDF(c *gin.Context) {
	document, err := h.facade.ReceiptPDF(c.Request.Context(), c.Param("receiptID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", document)
}
