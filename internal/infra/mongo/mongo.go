package mongo

import (
	"context"
	"eshop/internal/config"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client, verifies it with a primary ping and returns the
// orders collection with its indexes in place.
func Connect(ctx context.Context, cfg config.Mongo) (*mongo.Client, *mongo.Collection, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo: ping: %w", err)
	}
	log.Printf("connected to mongodb, database %s", cfg.Database)

	coll := client.Database(cfg.Database).Collection(cfg.OrdersCollection)
	if err := EnsureOrderIndexes(ctx, coll); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, coll, nil
}

func EnsureOrderIndexes(ctx context.Context, coll *mongo.Collection) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetName("idx_orders_order_number").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("idx_orders_user_id"),
		},
		{
			Keys:    bson.D{{Key: "orderDate", Value: -1}},
			Options: options.Index().SetName("idx_orders_order_date"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "orderDate", Value: -1}},
			Options: options.Index().SetName("idx_orders_user_id_order_date"),
		},
	}

	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("mongo: create order indexes: %w", err)
	}
	log.Printf("ensured order indexes: %v", names)
	return nil
}
