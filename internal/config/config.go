package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	APIKey      string

	TiendanubeClientID     string
	TiendanubeClientSecret string
	TiendanubeRedirectURI  string
	ContactEmail           string

	GoogleMapsAPIKey string
	RateTiers        string
	EligibleZone     string

	SlackOrdersWebhookURL string
	SlackStoresWebhookURL string

	KafkaBrokers string
	KafkaTopic   string
	KafkaGroup   string

	WarmStoresCache bool
}

func Load() (Config, error) {
	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", "")
	if cfg.PostgresDSN == "" {
		return Config{}, errors.New("set POSTGRES_DSN")
	}
	cfg.APIKey = getEnv("API_KEY", "")

	cfg.TiendanubeClientID = getEnv("TIENDANUBE_CLIENT_ID", "")
	cfg.TiendanubeClientSecret = getEnv("TIENDANUBE_CLIENT_SECRET", "")
	cfg.TiendanubeRedirectURI = getEnv("TIENDANUBE_REDIRECT_URI", "")
	cfg.ContactEmail = getEnv("PICKNSHIP_EMAIL", "info@picknshipapp.com")

	cfg.GoogleMapsAPIKey = getEnv("GOOGLE_MAPS_API_KEY", "")
	cfg.RateTiers = getEnv("RATE_TIERS", "")
	cfg.EligibleZone = getEnv("ELIGIBLE_ZONE", "")

	cfg.SlackOrdersWebhookURL = getEnv("SLACK_ORDERS_WEBHOOK_URL", "")
	cfg.SlackStoresWebhookURL = getEnv("SLACK_STORES_WEBHOOK_URL", "")

	cfg.KafkaBrokers = getEnv("KAFKA_BROKERS", "")
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "orders")
	cfg.KafkaGroup = getEnv("KAFKA_GROUP", "picknship-orders")

	cfg.WarmStoresCache = getEnvBool("STORE_CACHE_WARM", true)

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
