package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type basketRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBasketRepository(client *redis.Client) repository.BasketRepository {
	return &basketRepo{client: client, ttl: domain.BasketTTL}
}

func (r *basketRepo) GetBasket(ctx context.Context, userID string) (*domain.Basket, error) {
	data, err := r.client.Get(ctx, domain.BasketKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		log.Printf("redis get basket %s: %v", userID, err)
		return nil, translateError("get basket", err)
	}

	var b domain.Basket
	if err := json.Unmarshal(data, &b); err != nil {
		log.Printf("redis decode basket %s: %v", userID, err)
		return nil, serializationError("deserialize basket", err)
	}
	if b.Items == nil {
		b.Items = []domain.BasketItem{}
	}
	return &b, nil
}

// UpdateBasket overwrites the whole value. Concurrent writers for the same
// user race and the last SET wins.
func (r *basketRepo) UpdateBasket(ctx context.Context, basket *domain.Basket) (*domain.Basket, error) {
	data, err := json.Marshal(basket)
	if err != nil {
		return nil, serializationError("serialize basket", err)
	}

	if err := r.client.Set(ctx, domain.BasketKey(basket.UserID), data, r.ttl).Err(); err != nil {
		log.Printf("redis set basket %s: %v", basket.UserID, err)
		return nil, translateError("update basket", err)
	}

	stored, err := r.GetBasket(ctx, basket.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.NewStoreError(domain.KindInternal, domain.CodeCacheError, "update basket",
			fmt.Errorf("basket %s missing after write", basket.UserID))
	}
	return stored, nil
}

func (r *basketRepo) DeleteBasket(ctx context.Context, userID string) (bool, error) {
	n, err := r.client.Del(ctx, domain.BasketKey(userID)).Result()
	if err != nil {
		log.Printf("redis delete basket %s: %v", userID, err)
		return false, translateError("delete basket", err)
	}
	return n > 0, nil
}
