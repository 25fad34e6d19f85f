package main

import (
	"context"
	"eshop/internal/config"
	"eshop/internal/controllers/http"
	"eshop/internal/infra/database"
	"eshop/internal/infra/redis"
	"eshop/internal/repository/redisrepo"
	"eshop/internal/repository/sqlrepo"
	"eshop/internal/server"
	"eshop/internal/services"
	"log"
	"os/signal"
	"syscall"
)

const serviceName = "catalog-api"

func main() {
	cfg, err := config.Load("8082", "9082")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	s := services.NewCatalogService(sqlrepo.NewProductRepository(db), sqlrepo.NewCategoryRepository(db))

	// The product cache is optional; the catalog works from the database alone.
	var closeCache func() error
	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Printf("redis: product cache disabled: %v", err)
		} else {
			s.SetProductCache(redisrepo.NewProductCache(client, cfg.ProductCacheTTL))
			closeCache = client.Close
			go func() {
				if err := s.WarmupProductCache(ctx, database.SeedProductIDs); err != nil {
					log.Printf("Failed to warm up cache: %v", err)
				} else {
					log.Println("Cache warmed up successfully")
				}
			}()
		}
	}

	ping := func(ctx context.Context) error { return sqlDB.PingContext(ctx) }

	r := http.NewEngine(cfg.GinMode)
	http.NewCatalogHandler(s).RegisterRoutes(r)
	http.NewHealthHandler(serviceName, ping).RegisterRoutes(r)

	srv := server.New(server.Options{
		Name:            serviceName,
		HTTPAddr:        ":" + cfg.Port,
		GRPCAddr:        ":" + cfg.GRPCPort,
		Handler:         r,
		Probe:           ping,
		ShutdownTimeout: cfg.ShutdownTimeout,
		OnShutdown: func() {
			if closeCache != nil {
				if err := closeCache(); err != nil {
					log.Printf("redis: close: %v", err)
				}
			}
			if err := sqlDB.Close(); err != nil {
				log.Printf("db: close: %v", err)
			}
		},
	})
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
