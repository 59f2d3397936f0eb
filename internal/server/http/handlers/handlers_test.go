package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
	"github.com/zinsou/pharmapay/internal/server/http/dto"
	testhelpers "github.com/zinsou/pharmapay/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return body
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := CurrentUserID(c); got != "" {
		t.Fatalf("expected empty user id, got %q", got)
	}

	c.Request.Header.Set(userIDHeader, "staff-7")
	if got := CurrentUserID(c); got != "staff-7" {
		t.Fatalf("expected staff-7, got %q", got)
	}
}

func TestPaymentHandlerProcess(t *testing.T) {
	body, _ := json.Marshal(dto.ProcessPaymentRequest{
		OrderID:     "O1",
		Gateway:     "stripe",
		Amount:      45.50,
		Currency:    "USD",
		PaymentData: map[string]string{"card_number": "4242424242424242"},
	})

	var gotUserID string
	var gotReq model.ProcessPaymentRequest
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		ProcessPaymentFn: func(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
			gotReq = req
			gotUserID = userID
			return &model.ProcessPaymentResult{PaymentID: "pay-1", TransactionID: "ch_abc", Status: model.PaymentStatusSucceeded}, nil
		},
	})

	resp := performRequest(t, http.MethodPost, "/api/payments", "/api/payments", handler.Process, body, map[string]string{
		"Content-Type": "application/json",
		"X-User-ID":    "staff-7",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if gotUserID != "staff-7" {
		t.Fatalf("expected user id forwarded, got %q", gotUserID)
	}
	if gotReq.OrderID != "O1" || gotReq.Gateway != model.GatewayStripe || gotReq.Data["card_number"] == "" {
		t.Fatalf("unexpected request forwarded to facade: %+v", gotReq)
	}

	var out dto.ProcessPaymentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.PaymentID != "pay-1" || out.TransactionID != "ch_abc" || out.Status != "succeeded" {
		t.Fatalf("unexpected response body: %+v", out)
	}
}

func TestPaymentHandlerProcessMalformedBody(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/api/payments", "/api/payments", handler.Process, []byte("{not json"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestPaymentHandlerProcessValidation(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		ProcessPaymentFn: func(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
			return nil, domainErrors.NewValidationError("order id is required", "currency is required")
		},
	})
	body, _ := json.Marshal(dto.ProcessPaymentRequest{Gateway: "stripe", Amount: 10})
	resp := performRequest(t, http.MethodPost, "/api/payments", "/api/payments", handler.Process, body, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
	out := decodeError(t, resp)
	if len(out.Violations) != 2 || out.Violations[0] != "order id is required" {
		t.Fatalf("expected both violations listed, got %+v", out.Violations)
	}
}

func TestPaymentHandlerProcessDecline(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		ProcessPaymentFn: func(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
			return nil, &domainErrors.GatewayDeclineError{Gateway: "stripe", Reason: "Card declined by issuer"}
		},
	})
	body, _ := json.Marshal(dto.ProcessPaymentRequest{OrderID: "O1", Gateway: "stripe", Amount: 45.50, Currency: "USD"})
	resp := performRequest(t, http.MethodPost, "/api/payments", "/api/payments", handler.Process, body, nil)
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected status 402, got %d", resp.Code)
	}
	if out := decodeError(t, resp); out.Error != "Card declined by issuer" {
		t.Fatalf("expected decline reason surfaced, got %q", out.Error)
	}
}

func TestPaymentHandlerProcessTimeout(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		ProcessPaymentFn: func(ctx context.Context, req model.ProcessPaymentRequest, userID string) (*model.ProcessPaymentResult, error) {
			return nil, &domainErrors.GatewayTimeoutError{Gateway: "mtn"}
		},
	})
	body, _ := json.Marshal(dto.ProcessPaymentRequest{OrderID: "O1", Gateway: "mtn", Amount: 10, Currency: "XOF"})
	resp := performRequest(t, http.MethodPost, "/api/payments", "/api/payments", handler.Process, body, nil)
	if resp.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected status 504, got %d", resp.Code)
	}
}

func TestPaymentHandlerGet(t *testing.T) {
	created := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	receiptID := "rcpt-1"
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		PaymentFn: func(ctx context.Context, paymentID string) (*model.Payment, error) {
			return &model.Payment{
				ID:            paymentID,
				OrderID:       "O1",
				Amount:        45.50,
				Currency:      "USD",
				Gateway:       model.GatewayStripe,
				TransactionID: "ch_abc",
				Status:        model.PaymentStatusSucceeded,
				ReceiptID:     &receiptID,
				CreatedAt:     created,
				UpdatedAt:     created,
			}, nil
		},
	})
	resp := performRequest(t, http.MethodGet, "/api/payments/:paymentID", "/api/payments/pay-1", handler.Get, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out dto.PaymentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != "pay-1" || out.Gateway != "stripe" || out.ReceiptID == nil || *out.ReceiptID != "rcpt-1" {
		t.Fatalf("unexpected payment body: %+v", out)
	}
}

func TestPaymentHandlerGetNotFound(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		PaymentFn: func(ctx context.Context, paymentID string) (*model.Payment, error) {
			return nil, domainErrors.ErrNotFound
		},
	})
	resp := performRequest(t, http.MethodGet, "/api/payments/:paymentID", "/api/payments/missing", handler.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestPaymentHandlerListByOrder(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		PaymentsFn: func(ctx context.Context, orderID string) ([]model.Payment, error) {
			return []model.Payment{
				{ID: "pay-1", OrderID: orderID, Status: model.PaymentStatusFailed},
				{ID: "pay-2", OrderID: orderID, Status: model.PaymentStatusSucceeded},
			}, nil
		},
	})
	resp := performRequest(t, http.MethodGet, "/api/orders/:orderID/payments", "/api/orders/O1/payments", handler.ListByOrder, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out []dto.PaymentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 2 || out[1].Status != "succeeded" {
		t.Fatalf("unexpected list body: %+v", out)
	}
}

func TestPaymentHandlerListByOrderEmpty(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		PaymentsFn: func(ctx context.Context, orderID string) ([]model.Payment, error) {
			return nil, nil
		},
	})
	resp := performRequest(t, http.MethodGet, "/api/orders/:orderID/payments", "/api/orders/O1/payments", handler.ListByOrder, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestPaymentHandlerAuditLogs(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{
		AuditLogsFn: func(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error) {
			if orderID != "O1" {
				t.Fatalf("expected order filter forwarded, got %q", orderID)
			}
			return []model.AuditEntry{{ID: "a1", OrderID: orderID, Action: model.AuditActionPaymentProcessed}}, nil
		},
	})
	resp := performRequest(t, http.MethodGet, "/api/audit-logs", "/api/audit-logs?order_id=O1", handler.AuditLogs, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out []dto.AuditEntryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].Action != model.AuditActionPaymentProcessed {
		t.Fatalf("unexpected audit body: %+v", out)
	}
}

func TestPaymentHandlerAuditLogsRequiresFilter(t *testing.T) {
	handler := NewPaymentHandler(testhelpers.PaymentFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/api/audit-logs", "/api/audit-logs", handler.AuditLogs, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestWebhookHandlerReceive(t *testing.T) {
	payload := []byte(`{"transaction_id":"ch_abc","status":"success"}`)
	var gotGateway model.Gateway
	var gotSignature string
	handler := NewWebhookHandler(testhelpers.PaymentFacadeStub{
		ProcessWebhookFn: func(ctx context.Context, gw model.Gateway, body []byte, signature string) error {
			gotGateway = gw
			gotSignature = signature
			if !bytes.Equal(body, payload) {
				t.Fatalf("expected raw payload forwarded, got %q", body)
			}
			return nil
		},
	})
	resp := performRequest(t, http.MethodPost, "/api/webhooks/:gateway", "/api/webhooks/stripe", handler.Receive, payload, map[string]string{
		signatureHeader: "deadbeef",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotGateway != model.GatewayStripe || gotSignature != "deadbeef" {
		t.Fatalf("unexpected forwarding: gateway=%q signature=%q", gotGateway, gotSignature)
	}
}

func TestWebhookHandlerReceiveUnauthorized(t *testing.T) {
	for name, err := range map[string]error{
		"missing signature": domainErrors.ErrSignatureMissing,
		"invalid signature": domainErrors.ErrSignatureInvalid,
	} {
		t.Run(name, func(t *testing.T) {
			handler := NewWebhookHandler(testhelpers.PaymentFacadeStub{
				ProcessWebhookFn: func(ctx context.Context, gw model.Gateway, body []byte, signature string) error {
					return err
				},
			})
			resp := performRequest(t, http.MethodPost, "/api/webhooks/:gateway", "/api/webhooks/stripe", handler.Receive, []byte("{}"), nil)
			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", resp.Code)
			}
		})
	}
}

func TestWebhookHandlerReceiveUnsupportedGateway(t *testing.T) {
	handler := NewWebhookHandler(testhelpers.PaymentFacadeStub{
		ProcessWebhookFn: func(ctx context.Context, gw model.Gateway, body []byte, signature string) error {
			return domainErrors.ErrUnsupportedGateway
		},
	})
	resp := performRequest(t, http.MethodPost, "/api/webhooks/:gateway", "/api/webhooks/bitcoin", handler.Receive, []byte("{}"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestReceiptHandlerGenerate(t *testing.T) {
	pharmacy := model.PharmacyInfo{Name: "Pharmacie du Pont", TaxID: "TAX-123"}
	var gotCustomer *model.CustomerInfo
	handler := NewReceiptHandler(testhelpers.PaymentFacadeStub{
		GenerateReceiptFn: func(ctx context.Context, paymentID string, gotPharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
			if paymentID != "pay-1" {
				t.Fatalf("expected pay-1, got %q", paymentID)
			}
			if gotPharmacy != pharmacy {
				t.Fatalf("expected pharmacy info forwarded, got %+v", gotPharmacy)
			}
			gotCustomer = customer
			return &model.GeneratedReceipt{ReceiptID: "rcpt-1", ReceiptNumber: "BJ-2026-000001"}, nil
		},
	}, pharmacy)

	body, _ := json.Marshal(dto.GenerateReceiptRequest{Customer: &dto.CustomerInfo{Name: "A. Dossou", Phone: "+229 97 00 00 00"}})
	resp := performRequest(t, http.MethodPost, "/api/payments/:paymentID/receipt", "/api/payments/pay-1/receipt", handler.Generate, body, map[string]string{"Content-Type": "application/json"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if gotCustomer == nil || gotCustomer.Name != "A. Dossou" {
		t.Fatalf("expected customer forwarded, got %+v", gotCustomer)
	}
	var out dto.GenerateReceiptResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ReceiptNumber != "BJ-2026-000001" {
		t.Fatalf("unexpected receipt number %q", out.ReceiptNumber)
	}
}

func TestReceiptHandlerGenerateWithoutBody(t *testing.T) {
	handler := NewReceiptHandler(testhelpers.PaymentFacadeStub{
		GenerateReceiptFn: func(ctx context.Context, paymentID string, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
			if customer != nil {
				t.Fatalf("expected nil customer for empty body, got %+v", customer)
			}
			return &model.GeneratedReceipt{ReceiptID: "rcpt-1", ReceiptNumber: "BJ-2026-000002"}, nil
		},
	}, model.PharmacyInfo{})
	resp := performRequest(t, http.MethodPost, "/api/payments/:paymentID/receipt", "/api/payments/pay-1/receipt", handler.Generate, nil, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
}

func TestReceiptHandlerGenerateNotSucceeded(t *testing.T) {
	handler := NewReceiptHandler(testhelpers.PaymentFacadeStub{
		GenerateReceiptFn: func(ctx context.Context, paymentID string, pharmacy model.PharmacyInfo, customer *model.CustomerInfo) (*model.GeneratedReceipt, error) {
			return nil, domainErrors.NewValidationError("payment has not succeeded")
		},
	}, model.PharmacyInfo{})
	resp := performRequest(t, http.MethodPost, "/api/payments/:paymentID/receipt", "/api/payments/pay-1/receipt", handler.Generate, nil, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
}

func TestReceiptHandlerByPayment(t *testing.T) {
	created := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	handler := NewReceiptHandler(testhelpers.PaymentFacadeStub{
		ReceiptFn: func(ctx context.Context, paymentID string) (*model.Receipt, error) {
			return &model.Receipt{
				ID:        "rcpt-1",
				PaymentID: paymentID,
				OrderID:   "O1",
				Details:   model.ReceiptDetails{Number: "BJ-2026-000001", Total: 45.50},
				CreatedAt: created,
			}, nil
		},
	}, model.PharmacyInfo{})
	resp := performRequest(t, http.MethodGet, "/api/payments/:paymentID/receipt", "/api/payments/pay-1/receipt", handler.ByPayment, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out dto.ReceiptResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != "rcpt-1" || out.Details.Number != "BJ-2026-000001" {
		t.Fatalf("unexpected receipt body: %+v", out)
	}
}

func TestReceiptHandlerByPaymentNotFound(t *testing.T) {
	handler := NewReceiptHandler(testhelpers.PaymentFacadeStub{
		ReceiptFn: func(ctx context.Context, paymentID string) (*model.Receipt, error) {
			return nil, domainErrors.ErrNotFound
		},
	}, model.PharmacyInfo{})
	resp := performRequest(t, http.MethodGet, "/api/payments/:paymentID/receipt", "/api/payments/pay-1/receipt", handler.ByPayment, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestReceiptHandlerPDF(t *testing.T) {
	document := []byte("%PDF BJ-2026-000001")
	handler := NewReceiptHandler(testhelpers.PaymentFacadeStub{
		ReceiptPDFFn: func(ctx context.Context, receiptID string) ([]byte, error) {
			if receiptID != "rcpt-1" {
				t.Fatalf("expected rcpt-1, got %q", receiptID)
			}
			return document, nil
		},
	}, model.PharmacyInfo{})
	resp := performRequest(t, http.MethodGet, "/api/receipts/:receiptID/pdf", "/api/receipts/rcpt-1/pdf", handler.PDF, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if !bytes.Equal(resp.Body.Bytes(), document) {
		t.Fatalf("unexpected document bytes")
	}
}

func TestRespondErrorInternal(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("boom"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}
