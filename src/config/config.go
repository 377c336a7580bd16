package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	PlaidClientID   string
	PlaidSecret     string
	PlaidEnv        string
	PlaidWebhookURL string
	DemoMode        bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		PlaidClientID:   getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:     getEnv("PLAID_SECRET", ""),
		PlaidEnv:        getEnv("PLAID_ENV", "sandbox"),
		PlaidWebhookURL: getEnv("PLAID_WEBHOOK_URL", ""),
		DemoMode:        getEnv("DEMO_MODE", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.PlaidClientID == "" || cfg.PlaidSecret == "" {
		log.Println("WARN: Plaid credentials not set, bank sync endpoints will fail")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
