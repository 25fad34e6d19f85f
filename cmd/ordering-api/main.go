package main

import (
	"context"
	"eshop/internal/config"
	"eshop/internal/controllers/http"
	"eshop/internal/infra/mongo"
	"eshop/internal/infra/rabbitmq"
	"eshop/internal/repository/mongorepo"
	"eshop/internal/server"
	"eshop/internal/services"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const serviceName = "ordering-api"

func main() {
	cfg, err := config.Load("8083", "9083")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, coll, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.LogPublisher{}
	var amqpPublisher *rabbitmq.Publisher
	if cfg.RabbitMQ.URL != "" {
		amqpPublisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		publisher = amqpPublisher
	} else {
		log.Println("RABBITMQ_URL not set, order events are logged only")
	}

	s := services.NewOrderService(mongorepo.NewOrderRepository(coll), publisher)

	ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }

	r := http.NewEngine(cfg.GinMode)
	http.NewOrderHandler(s).RegisterRoutes(r)
	http.NewHealthHandler(serviceName, ping).RegisterRoutes(r)

	srv := server.New(server.Options{
		Name:            serviceName,
		HTTPAddr:        ":" + cfg.Port,
		GRPCAddr:        ":" + cfg.GRPCPort,
		Handler:         r,
		Probe:           ping,
		ShutdownTimeout: cfg.ShutdownTimeout,
		OnShutdown: func() {
			s.WaitForEvents()
			if amqpPublisher != nil {
				amqpPublisher.Close()
			}
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Printf("mongo: disconnect: %v", err)
			}
		},
	})
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
