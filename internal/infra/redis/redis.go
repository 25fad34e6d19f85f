package redis

import (
	"context"
	"eshop/internal/config"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// NewClient dials Redis and fails if the first PING does not succeed.
func NewClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Addr, err)
	}
	log.Printf("connected to redis at %s", cfg.Addr)
	return client, nil
}
