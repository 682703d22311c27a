package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	Port        string
	Environment string

	// Market page scraping
	ScrapeURL string

	// Cron ingest protection
	CronSecret string

	// Alerting
	PplChangeThreshold float64
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPass           string
	AlertEmail         string

	// Manual refresh rate limiting
	RefreshInterval time.Duration
}

func Load() *Config {
	// Default MySQL connection string
	defaultDSN := "root:oil@tcp(127.0.0.1:3306)/oil_tracker?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		ScrapeURL: getEnv("SCRAPE_URL", "https://cheapestoil.co.uk/Heating-Oil-NI"),

		CronSecret: getEnv("CRON_SECRET", ""),

		PplChangeThreshold: getEnvFloat("PPL_CHANGE_THRESHOLD", 5),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPass:           getEnv("SMTP_PASS", ""),
		AlertEmail:         getEnv("ALERT_EMAIL", ""),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
