package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all environment variables for the service.
type Config struct {
	Env  string
	Port string

	MongoURL string
	MongoDB  string

	JWTSecret string

	StripeSecretKey  string
	StripeWebhookKey string

	ShippingFee float64
	TaxRate     float64

	RedisAddr     string
	RedisPassword string

	SNSTopicArn  string
	SQSQueueURL  string
	AWSNotifiers bool
}

// LoadConfig loads environment variables into Config and validates the
// required ones.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              os.Getenv("APP_ENV"),
		Port:             os.Getenv("PORT"),
		MongoURL:         os.Getenv("MONGO_URL"),
		MongoDB:          os.Getenv("MONGO_DB"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		SNSTopicArn:      os.Getenv("SNS_TOPIC_ARN"),
		SQSQueueURL:      os.Getenv("SQS_RECONCILE_QUEUE_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MongoURL == "" {
		cfg.MongoURL = "mongodb://localhost:27017"
	}
	if cfg.MongoDB == "" {
		cfg.MongoDB = "storefront"
	}

	cfg.ShippingFee = envFloat("SHIPPING_FLAT_FEE", 170)
	cfg.TaxRate = envFloat("TAX_RATE", 0.13)
	cfg.AWSNotifiers = cfg.SNSTopicArn != "" || cfg.SQSQueueURL != ""

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookKey == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
