package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/zinsou/pharmapay/internal/domain/errors"
	"github.com/zinsou/pharmapay/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory for tests.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order

	GetByIDFn func(context.Context, string) (*model.Order, error)
	ClaimFn   func(context.Context, string) (bool, error)
	MarkFn    func(context.Context, string) error

	Claims   []string
	Releases []string
	Paid     []string
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o
	}
	return s
}

// GetByID fetches order from the map or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[orderID]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ClaimForPayment performs the in-memory equivalent of the conditional claim.
func (s *OrderRepositoryStub) ClaimForPayment(ctx context.Context, orderID string) (bool, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Claims = append(s.Claims, orderID)
	order, ok := s.Orders[orderID]
	if !ok || order.Status != model.OrderStatusAwaitingPayment {
		return false, nil
	}
	order.Status = model.OrderStatusPaymentInFlight
	return true, nil
}

// ReleaseClaim reverts an in-flight order back to awaiting payment.
func (s *OrderRepositoryStub) ReleaseClaim(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Releases = append(s.Releases, orderID)
	if order, ok := s.Orders[orderID]; ok && order.Status == model.OrderStatusPaymentInFlight {
		order.Status = model.OrderStatusAwaitingPayment
	}
	return nil
}

// MarkPaid advances the order to paid.
func (s *OrderRepositoryStub) MarkPaid(ctx context.Context, orderID string) error {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Paid = append(s.Paid, orderID)
	if order, ok := s.Orders[orderID]; ok {
		order.Status = model.OrderStatusPaid
	}
	return nil
}

// PaymentRepositoryStub stores payments in-memory for tests.
type PaymentRepositoryStub struct {
	mu       sync.Mutex
	Payments map[string]*model.Payment

	CreateFn         func(context.Context, *model.Payment) error
	HasSucceededFn   func(context.Context, string) (bool, error)
	UpdateStatusFn   func(context.Context, string, model.PaymentStatus) error
	SelectUnappliedF func(context.Context, int) ([]model.Payment, error)

	Created []model.Payment
}

// NewPaymentRepositoryStub constructs stub repository with initialized map.
func NewPaymentRepositoryStub(payments ...*model.Payment) *PaymentRepositoryStub {
	s := &PaymentRepositoryStub{Payments: make(map[string]*model.Payment)}
	for _, p := range payments {
		s.Payments[p.ID] = p
	}
	return s
}

// Create persists payment into the map.
func (s *PaymentRepositoryStub) Create(ctx context.Context, payment *model.Payment) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payment)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *payment
	s.Payments[payment.ID] = &copied
	s.Created = append(s.Created, copied)
	return nil
}

// GetByID fetches payment or returns not found.
func (s *PaymentRepositoryStub) GetByID(ctx context.Context, paymentID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment, ok := s.Payments[paymentID]; ok {
		copied := *payment
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByTransaction looks up payment by its webhook reconciliation key.
func (s *PaymentRepositoryStub) GetByTransaction(ctx context.Context, gateway model.Gateway, transactionID string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range s.Payments {
		if payment.Gateway == gateway && payment.TransactionID == transactionID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByOrder returns payments for the order.
func (s *PaymentRepositoryStub) ListByOrder(ctx context.Context, orderID string) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Payment
	for _, payment := range s.Payments {
		if payment.OrderID == orderID {
			result = append(result, *payment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// HasSucceededForOrder reports whether the order already has a successful payment.
func (s *PaymentRepositoryStub) HasSucceededForOrder(ctx context.Context, orderID string) (bool, error) {
	if s.HasSucceededFn != nil {
		return s.HasSucceededFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, payment := range s.Payments {
		if payment.OrderID == orderID && payment.Status == model.PaymentStatusSucceeded {
			return true, nil
		}
	}
	return false, nil
}

// UpdateStatus mutates the stored payment status.
func (s *PaymentRepositoryStub) UpdateStatus(ctx context.Context, paymentID string, status model.PaymentStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, paymentID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.Payments[paymentID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	payment.Status = status
	return nil
}

// AttachReceipt links a generated receipt to the payment.
func (s *PaymentRepositoryStub) AttachReceipt(ctx context.Context, paymentID, receiptID, receiptNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.Payments[paymentID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	payment.ReceiptID = &receiptID
	payment.ReceiptNumber = &receiptNumber
	return nil
}

// SelectUnapplied returns the configured reconciliation batch.
func (s *PaymentRepositoryStub) SelectUnapplied(ctx context.Context, limit int) ([]model.Payment, error) {
	if s.SelectUnappliedF != nil {
		return s.SelectUnappliedF(ctx, limit)
	}
	return nil, nil
}

// ReceiptRepositoryStub stores receipts and the per-year counter in-memory.
type ReceiptRepositoryStub struct {
	mu        sync.Mutex
	Receipts  map[string]*model.Receipt
	byPayment map[string]string
	counters  map[int]int

	CreateFn     func(context.Context, *model.Receipt) error
	NextNumberFn func(context.Context, int) (int, error)
}

// NewReceiptRepositoryStub constructs stub repository with initialized maps.
func NewReceiptRepositoryStub() *ReceiptRepositoryStub {
	return &ReceiptRepositoryStub{
		Receipts:  make(map[string]*model.Receipt),
		byPayment: make(map[string]string),
		counters:  make(map[int]int),
	}
}

// Create stores receipt and its payment index.
func (s *ReceiptRepositoryStub) Create(ctx context.Context, receipt *model.Receipt) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, receipt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *receipt
	s.Receipts[receipt.ID] = &copied
	s.byPayment[receipt.PaymentID] = receipt.ID
	return nil
}

// GetByID fetches receipt or returns not found.
func (s *ReceiptRepositoryStub) GetByID(ctx context.Context, receiptID string) (*model.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if receipt, ok := s.Receipts[receiptID]; ok {
		copied := *receipt
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByPaymentID fetches the receipt generated for a payment.
func (s *ReceiptRepositoryStub) GetByPaymentID(ctx context.Context, paymentID string) (*model.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byPayment[paymentID]; ok {
		copied := *s.Receipts[id]
		return &copied, nil
	}
	return nil, domainErrors.ErrNotFound
}

// NextNumber increments the per-year counter atomically.
func (s *ReceiptRepositoryStub) NextNumber(ctx context.Context, year int) (int, error) {
	if s.NextNumberFn != nil {
		return s.NextNumberFn(ctx, year)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[year]++
	return s.counters[year], nil
}

// AuditRepositoryStub collects appended entries.
type AuditRepositoryStub struct {
	mu      sync.Mutex
	Entries []model.AuditEntry

	AppendFn func(context.Context, *model.AuditEntry) error
}

// Append stores the entry for later inspection.
func (s *AuditRepositoryStub) Append(ctx context.Context, entry *model.AuditEntry) error {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, *entry)
	return nil
}

// List filters stored entries by payment and/or order, newest first.
func (s *AuditRepositoryStub) List(ctx context.Context, paymentID, orderID string) ([]model.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.AuditEntry
	for _, entry := range s.Entries {
		if paymentID != "" && entry.PaymentID != paymentID {
			continue
		}
		if orderID != "" && entry.OrderID != orderID {
			continue
		}
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ByAction returns collected entries with the given action tag.
func (s *AuditRepositoryStub) ByAction(action string) []model.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.AuditEntry
	for _, entry := range s.Entries {
		if entry.Action == action {
			result = append(result, entry)
		}
	}
	return result
}
