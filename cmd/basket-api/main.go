package main

import (
	"context"
	"eshop/internal/config"
	"eshop/internal/controllers/http"
	"eshop/internal/infra/redis"
	"eshop/internal/repository/redisrepo"
	"eshop/internal/server"
	"eshop/internal/services"
	"log"
	"os/signal"
	"syscall"
)

const serviceName = "basket-api"

func main() {
	cfg, err := config.Load("8081", "9081")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: connect: %v", err)
	}

	repo := redisrepo.NewBasketRepository(client)
	s := services.NewBasketService(repo)

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }

	r := http.NewEngine(cfg.GinMode)
	http.NewBasketHandler(s).RegisterRoutes(r)
	http.NewHealthHandler(serviceName, ping).RegisterRoutes(r)

	srv := server.New(server.Options{
		Name:            serviceName,
		HTTPAddr:        ":" + cfg.Port,
		GRPCAddr:        ":" + cfg.GRPCPort,
		Handler:         r,
		Probe:           ping,
		ShutdownTimeout: cfg.ShutdownTimeout,
		OnShutdown: func() {
			if err := client.Close(); err != nil {
				log.Printf("redis: close: %v", err)
			}
		},
	})
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
