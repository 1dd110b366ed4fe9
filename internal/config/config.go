package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the resolution service.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The HTTP listener port.
// - MapboxToken: Access token for the primary (Mapbox) geocoder; may be empty.
// - GoogleAPIKey: API key for the secondary (Google) geocoder; may be empty.
// - ProviderRateLimit: Outbound requests per second against the primary geocoder.
// - CacheTTL: How long full resolutions stay cached.
// - DegradedCacheTTL: How long nationals-only resolutions stay cached.
// - RateLimit: Admissions per client per window.
// - RateWindow: Length of the admission window.
// - RedisAddr: Optional Redis address; empty selects the in-memory cache.
// - Database: PostgreSQL settings for the location directory.
type Config struct {
	Env               string
	Port              int
	MapboxToken       string
	GoogleAPIKey      string
	ProviderRateLimit int
	CacheTTL          time.Duration
	DegradedCacheTTL  time.Duration
	RateLimit         int
	RateWindow        time.Duration
	RedisAddr         string
	Database          PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and panics on
// malformed values. A .env file is honored when present.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("WAYPOINT_PORT", "8080"))
	if err != nil {
		panic("failed to parse port from configuration")
	}

	providerRateLimit, err := strconv.Atoi(setDefaultEnv("WAYPOINT_PROVIDER_RATE_LIMIT", "10"))
	if err != nil {
		panic("failed to parse provider rate limit from configuration")
	}

	cacheTTL, err := time.ParseDuration(setDefaultEnv("WAYPOINT_CACHE_TTL", "1h"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	degradedTTL, err := time.ParseDuration(setDefaultEnv("WAYPOINT_DEGRADED_CACHE_TTL", "5m"))
	if err != nil {
		panic("failed to parse degraded cache TTL from configuration")
	}

	rateLimit, err := strconv.Atoi(setDefaultEnv("WAYPOINT_RATE_LIMIT", "30"))
	if err != nil {
		panic("failed to parse rate limit from configuration")
	}

	rateWindow, err := time.ParseDuration(setDefaultEnv("WAYPOINT_RATE_WINDOW", "60s"))
	if err != nil {
		panic("failed to parse rate window from configuration")
	}

	return &Config{
		Env:               setDefaultEnv("WAYPOINT_ENV", "production"),
		Port:              port,
		MapboxToken:       os.Getenv("WAYPOINT_MAPBOX_TOKEN"),
		GoogleAPIKey:      os.Getenv("WAYPOINT_GOOGLE_API_KEY"),
		ProviderRateLimit: providerRateLimit,
		CacheTTL:          cacheTTL,
		DegradedCacheTTL:  degradedTTL,
		RateLimit:         rateLimit,
		RateWindow:        rateWindow,
		RedisAddr:         os.Getenv("WAYPOINT_REDIS_ADDR"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     setDefaultEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
