package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	BaseURL          string
	ListingPath      string
	PageTimeout      time.Duration
	VariationTimeout time.Duration
	PolitenessDelay  time.Duration
	UserAgent        string
}

type DatabaseConfig struct {
	// URL is a postgres connection string. Persistence is disabled when empty.
	URL string
}

type RedisConfig struct {
	// Addr enables the last-result cache when non-empty.
	Addr     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "5000"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			BaseURL:          getEnvOrDefault("SCRAPER_BASE_URL", "https://makingcosmetics.com"),
			ListingPath:      getEnvOrDefault("SCRAPER_LISTING_PATH", "/Ingredients-A-Z_ep_1.html?lang=default"),
			PageTimeout:      getDurationOrDefault("SCRAPER_PAGE_TIMEOUT", 15*time.Second),
			VariationTimeout: getDurationOrDefault("SCRAPER_VARIATION_TIMEOUT", 10*time.Second),
			PolitenessDelay:  getDurationOrDefault("SCRAPER_POLITENESS_DELAY", 1*time.Second),
			UserAgent:        getEnvOrDefault("SCRAPER_USER_AGENT", defaultUserAgent),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("SCRAPER_BASE_URL must not be empty")
	}

	if c.Scraper.PageTimeout <= 0 {
		return fmt.Errorf("SCRAPER_PAGE_TIMEOUT must be positive")
	}

	if c.Scraper.VariationTimeout <= 0 {
		return fmt.Errorf("SCRAPER_VARIATION_TIMEOUT must be positive")
	}

	if c.Scraper.PolitenessDelay < 0 {
		return fmt.Errorf("SCRAPER_POLITENESS_DELAY must not be negative")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
