package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	BasketTTL         = 24 * time.Hour
	MaxItemQuantity   = 100
	MaxProductNameLen = 200
	MaxUserIDLen      = 50
	basketKeyPrefix   = "basket:"
)

type BasketItem struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (i BasketItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks the shape every stored line item must have.
func (i BasketItem) Validate() error {
	if i.ProductID <= 0 {
		return NewInvalidInput("ProductId must be greater than 0", map[string]any{"productId": i.ProductID})
	}
	name := strings.TrimSpace(i.ProductName)
	if name == "" {
		return NewInvalidInput("ProductName is required", map[string]any{"productId": i.ProductID})
	}
	if utf8.RuneCountInString(i.ProductName) > MaxProductNameLen {
		return NewInvalidInput(fmt.Sprintf("ProductName cannot exceed %d characters", MaxProductNameLen),
			map[string]any{"productId": i.ProductID})
	}
	if i.Price.IsNegative() {
		return NewInvalidPrice(i.Price.String())
	}
	if i.Quantity < 1 || i.Quantity > MaxItemQuantity {
		return NewInvalidQuantity(i.Quantity)
	}
	return nil
}

type Basket struct {
	UserID string       `json:"userId"`
	Items  []BasketItem `json:"items"`
}

func NewEmptyBasket(userID string) *Basket {
	return &Basket{UserID: userID, Items: []BasketItem{}}
}

// TotalPrice is recomputed from the current items on every call.
func (b *Basket) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (b *Basket) FindItem(productID int) (int, bool) {
	for i, it := range b.Items {
		if it.ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

// AddItem merges item into the basket: an existing line for the same product
// gets its quantity increased and its name and price replaced.
func (b *Basket) AddItem(item BasketItem) {
	if i, ok := b.FindItem(item.ProductID); ok {
		b.Items[i].Quantity += item.Quantity
		b.Items[i].Price = item.Price
		b.Items[i].ProductName = item.ProductName
		return
	}
	b.Items = append(b.Items, item)
}

func (b *Basket) RemoveAt(i int) {
	b.Items = append(b.Items[:i], b.Items[i+1:]...)
}

func BasketKey(userID string) string {
	return basketKeyPrefix + userID
}
