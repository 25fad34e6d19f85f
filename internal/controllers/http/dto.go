package http

import (
	"eshop/internal/domain"
	"eshop/internal/services"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type BasketItemRequest struct {
	ProductID   int             `json:"productId" binding:"required,gt=0"`
	ProductName string          `json:"productName" binding:"required,max=200"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"required,min=1,max=100"`
}

type UpdateBasketRequest struct {
	Items []BasketItemRequest `json:"items" binding:"dive"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=100"`
}

type BasketItemResponse struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type BasketResponse struct {
	UserID     string               `json:"userId"`
	Items      []BasketItemResponse `json:"items"`
	TotalPrice decimal.Decimal      `json:"totalPrice"`
}

func (r BasketItemRequest) toDomain() domain.BasketItem {
	return domain.BasketItem{
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Price:       r.Price,
		Quantity:    r.Quantity,
	}
}

func newBasketResponse(b *domain.Basket) BasketResponse {
	items := make([]BasketItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, BasketItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal(),
		})
	}
	return BasketResponse{UserID: b.UserID, Items: items, TotalPrice: b.TotalPrice()}
}

// ProductRequest has no id field; updates always use the path id.
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
	CategoryID  uint            `json:"categoryId" binding:"required,gt=0"`
	CreatedBy   string          `json:"createdBy" binding:"max=100"`
}

type ProductResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryID   uint            `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		CreatedBy:   r.CreatedBy,
	}
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName(),
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func newProductResponses(ps []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(ps))
	for i := range ps {
		out = append(out, newProductResponse(&ps[i]))
	}
	return out
}

func (r CategoryRequest) toDomain() *domain.Category {
	return &domain.Category{Name: r.Name, Description: r.Description}
}

func newCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// Order requests are only shape-checked here; the order service reports
// empty orders, blank users and missing address fields with their own codes.
type AddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type OrderItemRequest struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID          string             `json:"userId"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress AddressDTO         `json:"shippingAddress"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemResponse struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	UserID          string              `json:"userId"`
	OrderDate       time.Time           `json:"orderDate"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress AddressDTO          `json:"shippingAddress"`
}

func (r CreateOrderRequest) toInput() services.CreateOrderInput {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}
	return services.CreateOrderInput{
		UserID:          r.UserID,
		Items:           items,
		ShippingAddress: domain.Address(r.ShippingAddress),
	}
}

func newOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal(),
		})
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		OrderDate:       o.OrderDate,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount,
		Items:           items,
		ShippingAddress: AddressDTO(o.ShippingAddress),
	}
}

func newOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderResponse(&orders[i]))
	}
	return out
}
