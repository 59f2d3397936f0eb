package model

import "time"

// OrderStatus describes the prescription order lifecycle.
type OrderStatus string

const (
	OrderStatusPendingVerification OrderStatus = "pending_verification"
	OrderStatusAwaitingPayment     OrderStatus = "awaiting_payment"
	// OrderStatusPaymentInFlight marks an order claimed by an in-progress
	// payment attempt so a concurrent attempt cannot double-charge it.
	OrderStatusPaymentInFlight OrderStatus = "payment_in_flight"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusPreparing       OrderStatus = "preparing"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusRejected        OrderStatus = "rejected"
)

// OrderItem is one prescribed medication line on an order.
type OrderItem struct {
	Medication string `json:"medication"`
	Quantity   int    `json:"quantity"`
}

// Order describes a prescription fulfillment unit awaiting payment.
// Orders are created outside this core; the payment path only reads them
// and advances their status.
type Order struct {
	ID        string
	Status    OrderStatus
	Cost      float64
	Currency  string
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}
