package services

import (
	"eshop/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

func CreateMockOrder(id string, status domain.OrderStatus) *domain.Order {
	items := []domain.OrderItem{
		{ProductID: TestProductID, ProductName: TestProductName, Price: decimal.RequireFromString(TestProductPrice), Quantity: 2},
	}
	return &domain.Order{
		ID:              id,
		OrderNumber:     "ORD-20240101120000-1234",
		UserID:          TestUserID,
		OrderDate:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Status:          status,
		TotalAmount:     domain.CalculateTotal(items),
		Items:           items,
		ShippingAddress: MockAddress(),
	}
}

func CreateMockProduct(id uint, name string, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:         id,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: TestCategoryID,
		Category:   &domain.Category{ID: TestCategoryID, Name: "Electronics"},
		CreatedBy:  domain.DefaultCreatedBy,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func CreateMockBasketItem(productID int, price string, qty int) domain.BasketItem {
	return domain.BasketItem{
		ProductID:   productID,
		ProductName: TestProductName,
		Price:       decimal.RequireFromString(price),
		Quantity:    qty,
	}
}

func MockAddress() domain.Address {
	return domain.Address{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US"}
}

const (
	TestUserID       = "user-1"
	TestOrderID      = "65a1f0c2e4b0a1b2c3d4e5f6"
	TestProductID    = 1
	TestCategoryID   = uint(1)
	TestProductName  = "Test Product"
	TestProductPrice = "10.00"
)
