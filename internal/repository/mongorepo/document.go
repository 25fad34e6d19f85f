package mongorepo

import (
	"eshop/internal/domain"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	OrderNumber     string               `bson:"orderNumber"`
	UserID          string               `bson:"userId"`
	OrderDate       time.Time            `bson:"orderDate"`
	Status          string               `bson:"status"`
	TotalAmount     primitive.Decimal128 `bson:"totalAmount"`
	Items           []orderItemDocument  `bson:"items"`
	ShippingAddress addressDocument      `bson:"shippingAddress"`
}

type orderItemDocument struct {
	ProductID   int                  `bson:"productId"`
	ProductName string               `bson:"productName"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int                  `bson:"quantity"`
}

type addressDocument struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zipCode"`
	Country string `bson:"country"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func newOrderDocument(o *domain.Order) (*orderDocument, error) {
	total, err := toDecimal128(o.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}

	items := make([]orderItemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return nil, fmt.Errorf("item %d price: %w", it.ProductID, err)
		}
		items = append(items, orderItemDocument{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       price,
			Quantity:    it.Quantity,
		})
	}

	return &orderDocument{
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		Status:      o.Status.String(),
		TotalAmount: total,
		Items:       items,
		ShippingAddress: addressDocument{
			Street:  o.ShippingAddress.Street,
			City:    o.ShippingAddress.City,
			State:   o.ShippingAddress.State,
			ZipCode: o.ShippingAddress.ZipCode,
			Country: o.ShippingAddress.Country,
		},
	}, nil
}

func (d *orderDocument) toDomain() (*domain.Order, error) {
	status, ok := domain.ParseOrderStatus(d.Status)
	if !ok {
		return nil, fmt.Errorf("order %s: unknown status %q", d.ID.Hex(), d.Status)
	}
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("order %s: total amount: %w", d.ID.Hex(), err)
	}

	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return nil, fmt.Errorf("order %s: item %d price: %w", d.ID.Hex(), it.ProductID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       price,
			Quantity:    it.Quantity,
		})
	}

	return &domain.Order{
		ID:          d.ID.Hex(),
		OrderNumber: d.OrderNumber,
		UserID:      d.UserID,
		OrderDate:   d.OrderDate.UTC(),
		Status:      status,
		TotalAmount: total,
		Items:       items,
		ShippingAddress: domain.Address{
			Street:  d.ShippingAddress.Street,
			City:    d.ShippingAddress.City,
			State:   d.ShippingAddress.State,
			ZipCode: d.ShippingAddress.ZipCode,
			Country: d.ShippingAddress.Country,
		},
	}, nil
}
