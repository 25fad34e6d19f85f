package repository

import (
	"context"
	"eshop/internal/domain"
)

// OrderRepository returns (nil, nil) from FindByID when no order matches.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	// UpdateStatus reports false when the order does not exist.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error)
}
