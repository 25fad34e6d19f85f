package repository

import (
	"context"
	"eshop/internal/domain"
)

type BasketRepository interface {
	// GetBasket returns (nil, nil) when the user has no stored basket.
	GetBasket(ctx context.Context, userID string) (*domain.Basket, error)
	// UpdateBasket replaces the stored basket, resets its expiry and returns
	// what the store now holds.
	UpdateBasket(ctx context.Context, basket *domain.Basket) (*domain.Basket, error)
	DeleteBasket(ctx context.Context, userID string) (bool, error)
}
