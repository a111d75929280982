package utils

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	APIKey       string
	BatchWorkers int

	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

// LoadConfig reads configuration from the environment, after loading a
// .env file if one is present next to the binary (same convention the
// scrapers use).
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	cfg := Config{
		Addr:         envOr("MANHWAHUB_ADDR", ":8080"),
		APIKey:       os.Getenv("MANHWAHUB_API_KEY"),
		BatchWorkers: envInt("MANHWAHUB_BATCH_WORKERS", 1),
		JWTSecret:    envOr("MANHWAHUB_JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:    envOr("MANHWAHUB_JWT_ISSUER", "manhwahub"),
		JWTDuration:  24 * time.Hour,
	}

	if h := envInt("MANHWAHUB_JWT_TTL_HOURS", 0); h > 0 {
		cfg.JWTDuration = time.Duration(h) * time.Hour
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
