package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type OrderStatus int

const (
	StatusPending OrderStatus = iota
	StatusConfirmed
	StatusShipped
	StatusDelivered
	StatusCancelled
)

var statusNames = map[OrderStatus]string{
	StatusPending:   "Pending",
	StatusConfirmed: "Confirmed",
	StatusShipped:   "Shipped",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

func (s OrderStatus) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseOrderStatus accepts a status name in any letter case.
func ParseOrderStatus(name string) (OrderStatus, bool) {
	for s, n := range statusNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return 0, false
}

// MarshalJSON writes the status by name.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("order status must be a string: %w", err)
	}
	parsed, ok := ParseOrderStatus(name)
	if !ok {
		return fmt.Errorf("unknown order status %q", name)
	}
	*s = parsed
	return nil
}

// AllOrderStatuses lists every status in lifecycle order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}
}

type transition struct {
	from OrderStatus
	to   OrderStatus
}

var allowedTransitions = map[transition]struct{}{
	{StatusPending, StatusConfirmed}:   {},
	{StatusPending, StatusCancelled}:   {},
	{StatusConfirmed, StatusShipped}:   {},
	{StatusConfirmed, StatusCancelled}: {},
	{StatusShipped, StatusDelivered}:   {},
}

func CanTransition(from, to OrderStatus) bool {
	_, ok := allowedTransitions[transition{from, to}]
	return ok
}

// CanCancel reports whether an order in status s may be cancelled.
func CanCancel(s OrderStatus) bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

const (
	MaxStreetLen  = 200
	MaxCityLen    = 100
	MaxStateLen   = 100
	MaxZipCodeLen = 20
	MaxCountryLen = 100
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Validate reports the first missing or oversized field, in street, city,
// state, zipCode, country order.
func (a Address) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"street", a.Street, MaxStreetLen},
		{"city", a.City, MaxCityLen},
		{"state", a.State, MaxStateLen},
		{"zipCode", a.ZipCode, MaxZipCodeLen},
		{"country", a.Country, MaxCountryLen},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return NewMissingAddressField(f.name)
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return NewInvalidInput("Shipping address field '"+f.name+"' is too long",
				map[string]any{"field": f.name, "maxLength": f.max})
		}
	}
	return nil
}

type OrderItem struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i OrderItem) Validate() error {
	if i.ProductID <= 0 {
		return NewInvalidInput("ProductId must be greater than 0", map[string]any{"productId": i.ProductID})
	}
	if strings.TrimSpace(i.ProductName) == "" {
		return NewInvalidInput("ProductName is required", map[string]any{"productId": i.ProductID})
	}
	if utf8.RuneCountInString(i.ProductName) > MaxProductNameLen {
		return NewInvalidInput("ProductName cannot exceed 200 characters", map[string]any{"productId": i.ProductID})
	}
	if !i.Price.IsPositive() {
		return NewInvalidPrice(i.Price.String())
	}
	if i.Quantity < 1 || i.Quantity > MaxItemQuantity {
		return NewInvalidQuantity(i.Quantity)
	}
	return nil
}

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	OrderDate       time.Time       `json:"orderDate"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress Address         `json:"shippingAddress"`
}

// CalculateTotal sums price times quantity over items.
func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
