package redisrepo

import (
	"context"
	"eshop/internal/domain"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func testBasket(userID string) *domain.Basket {
	return &domain.Basket{
		UserID: userID,
		Items: []domain.BasketItem{
			{ProductID: 1, ProductName: "Laptop", Price: decimal.RequireFromString("999.99"), Quantity: 1},
			{ProductID: 2, ProductName: "T-Shirt", Price: decimal.RequireFromString("19.99"), Quantity: 3},
		},
	}
}

func TestBasketRepo_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	repo := NewBasketRepository(client)

	userID := "test-basket-roundtrip"
	client.Del(ctx, domain.BasketKey(userID))

	missing, err := repo.GetBasket(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	stored, err := repo.UpdateBasket(ctx, testBasket(userID))
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.True(t, decimal.RequireFromString("1059.96").Equal(stored.TotalPrice()))

	ttl, err := client.TTL(ctx, domain.BasketKey(userID)).Result()
	require.NoError(t, err)
	assert.InDelta(t, domain.BasketTTL.Seconds(), ttl.Seconds(), 5)

	deleted, err := repo.DeleteBasket(ctx, userID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteBasket(ctx, userID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestBasketRepo_LastWriterWins(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	repo := NewBasketRepository(client)

	userID := "test-basket-lww"
	defer client.Del(ctx, domain.BasketKey(userID))

	first := testBasket(userID)
	second := &domain.Basket{UserID: userID, Items: []domain.BasketItem{
		{ProductID: 3, ProductName: "Programming Book", Price: decimal.RequireFromString("39.99"), Quantity: 1},
	}}

	_, err := repo.UpdateBasket(ctx, first)
	require.NoError(t, err)
	_, err = repo.UpdateBasket(ctx, second)
	require.NoError(t, err)

	got, err := repo.GetBasket(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].ProductID)
}

func TestBasketRepo_CorruptValue(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	repo := NewBasketRepository(client)

	userID := "test-basket-corrupt"
	defer client.Del(ctx, domain.BasketKey(userID))
	require.NoError(t, client.Set(ctx, domain.BasketKey(userID), "{not json", time.Minute).Err())

	_, err := repo.GetBasket(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.ErrorIs(t, err, &domain.Error{Code: domain.CodeCacheError})
}

func TestProductCache_SetGetDelete(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()
	cache := NewProductCache(client, time.Minute)

	p := &domain.Product{
		ID:         4242,
		Name:       "Laptop",
		Price:      decimal.RequireFromString("999.99"),
		Stock:      10,
		CategoryID: 1,
		Category:   &domain.Category{ID: 1, Name: "Electronics"},
		CreatedAt:  time.Now().UTC(),
	}
	defer client.Del(ctx, productKey(p.ID))

	require.NoError(t, cache.Set(ctx, p))
	got, err := cache.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Electronics", got.CategoryName())
	assert.True(t, p.Price.Equal(got.Price))

	require.NoError(t, cache.Delete(ctx, p.ID))
	got, err = cache.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBasketRepo_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	_, err := NewBasketRepository(client).GetBasket(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
}
