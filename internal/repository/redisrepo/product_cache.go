package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"eshop/internal/domain"
	"eshop/internal/repository"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "product:"

type productCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) repository.ProductCache {
	return &productCache{client: client, ttl: ttl}
}

func productKey(id uint) string {
	return productKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

func (c *productCache) Get(ctx context.Context, id uint) (*domain.Product, error) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError("get product cache", err)
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, serializationError("deserialize product", err)
	}
	return &p, nil
}

func (c *productCache) Set(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return serializationError("serialize product", err)
	}
	return translateError("set product cache", c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err())
}

func (c *productCache) Delete(ctx context.Context, id uint) error {
	return translateError("delete product cache", c.client.Del(ctx, productKey(id)).Err())
}
