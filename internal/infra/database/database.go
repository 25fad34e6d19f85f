package database

import (
	"context"
	"eshop/internal/config"
	"eshop/internal/domain"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Open connects to MySQL or Postgres depending on cfg.Driver, migrates the
// catalog schema and seeds an empty store.
func Open(ctx context.Context, cfg config.Database) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	log.Printf("connected to %s at %s:%s/%s", cfg.Driver, cfg.Host, cfg.Port, cfg.Name)

	if err := db.WithContext(ctx).AutoMigrate(&domain.Category{}, &domain.Product{}); err != nil {
		return nil, fmt.Errorf("database: migrate: %w", err)
	}
	if err := Seed(ctx, db); err != nil {
		return nil, fmt.Errorf("database: seed: %w", err)
	}
	return db, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
}

// SeedProductIDs are the products Seed creates on an empty store, in order.
var SeedProductIDs = []uint{1, 2, 3}

// Seed inserts the starter categories and products when there are no
// categories yet.
func Seed(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Category{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := []domain.Category{
			{Name: "Electronics", Description: "Electronic devices and accessories"},
			{Name: "Clothing", Description: "Apparel and fashion items"},
			{Name: "Books", Description: "Books and educational materials"},
		}
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		products := []domain.Product{
			{Name: "Laptop", Description: "High-performance laptop", Price: mustPrice("999.99"), Stock: 10, CategoryID: categories[0].ID},
			{Name: "T-Shirt", Description: "Cotton t-shirt", Price: mustPrice("19.99"), Stock: 100, CategoryID: categories[1].ID},
			{Name: "Programming Book", Description: "Learn programming", Price: mustPrice("39.99"), Stock: 50, CategoryID: categories[2].ID},
		}
		for i := range products {
			products[i].CreatedBy = "System"
			products[i].CreatedAt = now
		}
		if err := tx.Omit("Category").Create(&products).Error; err != nil {
			return err
		}
		log.Printf("seeded %d categories and %d products", len(categories), len(products))
		return nil
	})
}

func mustPrice(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
