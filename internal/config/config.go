package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Env             string
	Secret          string
	DatabaseDSN     string
	HTTPPort        string
	SessionTimeout  time.Duration
	SessionInterval time.Duration
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "file:guardianrx.db"
	}

	return Config{
		Env:             env,
		Secret:          secret,
		DatabaseDSN:     dsn,
		HTTPPort:        port,
		SessionTimeout:  durationEnv("SESSION_TIMEOUT", 30*time.Minute),
		SessionInterval: durationEnv("SESSION_CHECK_INTERVAL", time.Minute),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %s", key, raw, fallback)
		return fallback
	}
	return d
}
