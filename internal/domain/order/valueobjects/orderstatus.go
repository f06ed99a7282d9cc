package valueobjects

import "fmt"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

func NewOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid order status: %s", s)
	}
	return status, nil
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusOnHold, OrderStatusProcessing, OrderStatusCompleted, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// IsResolved reports whether a payment callback has already settled the
// order. Resolved orders ignore further callbacks.
func (s OrderStatus) IsResolved() bool {
	return s == OrderStatusProcessing || s == OrderStatusCompleted || s == OrderStatusOnHold
}

// IsPaid reports whether the order counts as paid.
func (s OrderStatus) IsPaid() bool {
	return s == OrderStatusProcessing || s == OrderStatusCompleted
}

// IsPayable reports whether a checkout may (re)start a charge.
func (s OrderStatus) IsPayable() bool {
	return s == OrderStatusPending || s == OrderStatusFailed
}

func (s OrderStatus) String() string {
	return string(s)
}
