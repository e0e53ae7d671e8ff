package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultBanFeedURL     = "https://www.cfa.vic.gov.au/cfa/rssfeed/tfbfdrforecast_rss.xml"
	defaultRatingsFeedURL = "https://www.bom.gov.au/fwo/IDV18555.xml"
	defaultUserAgent      = "life-dashboard/1.0 (+https://github.com/bobby-s-dev/life-dashboard)"
)

type Config struct {
	Server struct {
		Port             string
		ReadTimeout      time.Duration
		WriteTimeout     time.Duration
		LogLevel         string
		CORSAllowOrigins string
	}

	Fire struct {
		BanFeedURL     string
		RatingsFeedURL string
		UserAgent      string
		FetchTimeout   time.Duration
		WatchSchedule  string
	}

	WeatherAPI struct {
		OpenMeteoURL  string
		GeocodeURL    string
		Timeout       time.Duration
		RateLimit     float64
		RateBurst     int
		LocationsFile string
	}

	Cache struct {
		Duration time.Duration
		MaxSize  int
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("WRITE_TIMEOUT", "10s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.Server.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")

	cfg.Fire.BanFeedURL = getEnv("FIRE_BAN_FEED_URL", defaultBanFeedURL)
	cfg.Fire.RatingsFeedURL = getEnv("FIRE_RATINGS_FEED_URL", defaultRatingsFeedURL)
	cfg.Fire.UserAgent = getEnv("FIRE_FEED_USER_AGENT", defaultUserAgent)
	cfg.Fire.FetchTimeout = parseDuration(getEnv("FIRE_FETCH_TIMEOUT", "10s"))
	cfg.Fire.WatchSchedule = strings.TrimSpace(getEnv("FIRE_WATCH_SCHEDULE", ""))

	cfg.WeatherAPI.OpenMeteoURL = getEnv("OPENMETEO_URL", "https://api.open-meteo.com/v1")
	cfg.WeatherAPI.GeocodeURL = getEnv("OPENMETEO_GEOCODE_URL", "https://geocoding-api.open-meteo.com/v1")
	cfg.WeatherAPI.Timeout = parseDuration(getEnv("WEATHER_TIMEOUT", "10s"))
	cfg.WeatherAPI.RateLimit = parseFloat(getEnv("WEATHER_RATE_LIMIT", "5"))
	cfg.WeatherAPI.RateBurst = parseInt(getEnv("WEATHER_RATE_BURST", "5"))
	cfg.WeatherAPI.LocationsFile = getEnv("LOCATIONS_FILE", "config.yaml")

	cfg.Cache.Duration = parseDuration(getEnv("GEOCODE_CACHE_DURATION", "24h"))
	cfg.Cache.MaxSize = parseInt(getEnv("GEOCODE_CACHE_MAX_SIZE", "500"))

	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Fire.BanFeedURL == "" || c.Fire.RatingsFeedURL == "" {
		return errors.New("fire feed URLs must not be empty")
	}
	if c.Fire.FetchTimeout <= 0 {
		return errors.New("FIRE_FETCH_TIMEOUT must be positive")
	}
	if c.WeatherAPI.Timeout <= 0 {
		return errors.New("WEATHER_TIMEOUT must be positive")
	}
	if c.WeatherAPI.RateLimit <= 0 || c.WeatherAPI.RateBurst <= 0 {
		return errors.New("WEATHER_RATE_LIMIT and WEATHER_RATE_BURST must be positive")
	}
	if c.Cache.MaxSize <= 0 {
		return errors.New("GEOCODE_CACHE_MAX_SIZE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
