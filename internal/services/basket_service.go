package services

import (
	"context"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

type BasketService struct {
	repo repository.BasketRepository
}

func NewBasketService(r repository.BasketRepository) *BasketService {
	return &BasketService{repo: r}
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewInvalidUserID(userID)
	}
	if utf8.RuneCountInString(userID) > domain.MaxUserIDLen {
		return domain.NewInvalidInput(fmt.Sprintf("User id cannot exceed %d characters.", domain.MaxUserIDLen),
			map[string]any{"userId": userID})
	}
	return nil
}

// GetBasket never reports not-found; a user without a stored basket gets an
// empty one.
func (s *BasketService) GetBasket(ctx context.Context, userID string) (*domain.Basket, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return domain.NewEmptyBasket(userID), nil
	}
	return b, nil
}

func (s *BasketService) UpdateBasket(ctx context.Context, userID string, items []domain.BasketItem) (*domain.Basket, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}

	basket := domain.NewEmptyBasket(userID)
	basket.Items = append(basket.Items, items...)

	log.Printf("Updating basket for user %s with %d items", userID, len(items))
	return s.repo.UpdateBasket(ctx, basket)
}

// AddItem merges into an existing line for the same product. The merged
// quantity is not capped.
func (s *BasketService) AddItem(ctx context.Context, userID string, item domain.BasketItem) (*domain.Basket, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	basket, err := s.GetBasket(ctx, userID)
	if err != nil {
		return nil, err
	}
	basket.AddItem(item)

	return s.repo.UpdateBasket(ctx, basket)
}

// UpdateItemQuantity sets the quantity exactly; zero or less removes the line.
func (s *BasketService) UpdateItemQuantity(ctx context.Context, userID string, productID, quantity int) (*domain.Basket, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if quantity > domain.MaxItemQuantity {
		return nil, domain.NewInvalidQuantity(quantity)
	}

	basket, idx, err := s.findItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		basket.RemoveAt(idx)
	} else {
		basket.Items[idx].Quantity = quantity
	}

	return s.repo.UpdateBasket(ctx, basket)
}

func (s *BasketService) RemoveItem(ctx context.Context, userID string, productID int) (*domain.Basket, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	basket, idx, err := s.findItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	basket.RemoveAt(idx)

	return s.repo.UpdateBasket(ctx, basket)
}

func (s *BasketService) DeleteBasket(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteBasket(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewBasketNotFound(userID)
	}
	log.Printf("Deleted basket for user %s", userID)
	return nil
}

func (s *BasketService) findItem(ctx context.Context, userID string, productID int) (*domain.Basket, int, error) {
	basket, err := s.repo.GetBasket(ctx, userID)
	if err != nil {
		return nil, -1, err
	}
	if basket == nil {
		return nil, -1, domain.NewBasketNotFound(userID)
	}

	idx, ok := basket.FindItem(productID)
	if !ok {
		return nil, -1, domain.NewBasketItemNotFound(userID, productID)
	}
	return basket, idx, nil
}
