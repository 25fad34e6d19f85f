package repository

import (
	"context"
	"eshop/internal/domain"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	FindByCategoryID(ctx context.Context, categoryID uint) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id uint) (*domain.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	HasProducts(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// ProductCache is a read-through cache in front of ProductRepository.
// Get returns (nil, nil) on a miss.
type ProductCache interface {
	Get(ctx context.Context, id uint) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
}
