package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

type OrderCreatedEvent struct {
	OrderID     string          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	UserID      string          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	ChangedAt   time.Time   `json:"changedAt"`
}

type OrderCancelledEvent struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	From        OrderStatus `json:"from"`
	CancelledAt time.Time   `json:"cancelledAt"`
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		ItemCount:   len(o.Items),
		CreatedAt:   o.OrderDate,
	}
}
