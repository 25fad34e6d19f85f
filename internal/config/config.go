package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	GRPCPort        string
	GinMode         string
	ShutdownTimeout time.Duration

	Redis    Redis
	Database Database
	Mongo    Mongo
	RabbitMQ RabbitMQ

	ProductCacheTTL time.Duration
}

type Redis struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Enabled is false when REDIS_ADDR was explicitly set to an empty value.
func (r Redis) Enabled() bool { return r.Addr != "" }

type Database struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Mongo struct {
	URI              string
	Database         string
	OrdersCollection string
}

type RabbitMQ struct {
	URL      string
	Exchange string
}

// Load reads configuration from the environment, after merging an optional
// .env file. defaultPort and defaultGRPCPort differ per binary.
func Load(defaultPort, defaultGRPCPort string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: could not load .env: %v", err)
	}

	cfg := &Config{
		Port:     getEnv("PORT", defaultPort),
		GRPCPort: getEnv("GRPC_PORT", defaultGRPCPort),
		GinMode:  getEnv("GIN_MODE", "release"),
		Redis: Redis{
			Addr:       lookupEnv("REDIS_ADDR", "localhost:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			MaxRetries: 3,
		},
		Database: Database{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "catalog"),
		},
		Mongo: Mongo{
			URI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:         getEnv("MONGO_DATABASE", "ordering"),
			OrdersCollection: getEnv("MONGO_ORDERS_COLLECTION", "orders"),
		},
		RabbitMQ: RabbitMQ{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "order.exchange"),
		},
	}

	switch cfg.Database.Driver {
	case "mysql":
		cfg.Database.Port = getEnv("DB_PORT", "3306")
	case "postgres":
		cfg.Database.Port = getEnv("DB_PORT", "5432")
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	var err error
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.DialTimeout, err = getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.Redis.ReadTimeout, err = getDuration("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.Redis.WriteTimeout, err = getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// lookupEnv distinguishes an unset variable from one set to "".
func lookupEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
