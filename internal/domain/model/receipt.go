package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReceiptNumberPrefix is the country prefix of human-readable receipt numbers.
const ReceiptNumberPrefix = "BJ"

// PharmacyInfo identifies the issuing pharmacy on a receipt.
type PharmacyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	TaxID   string `json:"tax_id,omitempty"`
}

// CustomerInfo is the optional customer block on a receipt.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ReceiptLine is one billed line item.
type ReceiptLine struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// ReceiptDetails carries everything required to render the receipt document.
// Once persisted it is immutable: regeneration re-renders from these values
// and never recomputes them.
type ReceiptDetails struct {
	Number        string        `json:"number"`
	IssueDate     time.Time     `json:"issue_date"`
	PaymentID     string        `json:"payment_id"`
	OrderID       string        `json:"order_id"`
	Gateway       Gateway       `json:"gateway"`
	TransactionID string        `json:"transaction_id"`
	TaxRate       float64       `json:"tax_rate"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Currency      string        `json:"currency"`
	PaidAmount    *float64      `json:"paid_amount,omitempty"`
	PaidCurrency  *string       `json:"paid_currency,omitempty"`
	ExchangeRate  *float64      `json:"exchange_rate,omitempty"`
	Pharmacy      PharmacyInfo  `json:"pharmacy"`
	Customer      *CustomerInfo `json:"customer,omitempty"`
	Lines         []ReceiptLine `json:"lines"`
}

// Receipt is the immutable, tax-compliant record of a succeeded payment.
// Document holds the rendered PDF bytes captured at generation time;
// regeneration serves these bytes and never re-renders.
type Receipt struct {
	ID        string
	PaymentID string
	OrderID   string
	Details   ReceiptDetails
	Document  []byte
	CreatedAt time.Time
}

// GeneratedReceipt is the result of receipt generation or regeneration.
type GeneratedReceipt struct {
	ReceiptID     string
	ReceiptNumber string
	Document      []byte
	Details       ReceiptDetails
}

// FormatReceiptNumber renders sequence number into the BJ-YYYY-NNNNNN form.
func FormatReceiptNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%06d", ReceiptNumberPrefix, year, seq)
}

// ParseReceiptNumber extracts year and sequence from a receipt number.
func ParseReceiptNumber(number string) (year, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != ReceiptNumberPrefix {
		return 0, 0, fmt.Errorf("malformed receipt number %q", number)
	}
	if year, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("malformed receipt number %q", number)
	}
	if seq, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, fmt.Errorf("malformed receipt number %q", number)
	}
	return year, seq, nil
}
