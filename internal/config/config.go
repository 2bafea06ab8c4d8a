// Package config read client and server settings from environments, .env file is loaded automatically.
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// ClientConfig configure the job portal client
type ClientConfig struct {
	BaseURL              string
	Timeout              time.Duration
	CacheTTL             time.Duration
	CacheCleanUpInterval time.Duration
	RetryMaxAttempts     int
	RetryBaseDelay       time.Duration
	StatePath            string
	Logging              bool
}

// ServerConfig configure the reference API server
type ServerConfig struct {
	Port               int
	SecretKey          string
	AllowOrigin        string
	RateLimitPerSecond uint
	DBDriver           string
	SQLitePath         string
	Postgres           PostgresConfig
	GCSBucket          string
	AdminEmail         string
	AdminPassword      string
	Seed               bool
	Logging            bool
	JobExpirySchedule  string
}

// PostgresConfig is used when DBDriver is postgres
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	// UseConnStr makes ConnStr win over the other fields
	UseConnStr bool
	ConnStr    string
}

var (
	clientOnce sync.Once
	clientCfg  ClientConfig
	serverOnce sync.Once
	serverCfg  ServerConfig
)

// LoadClientConfig read client config once and return the cached value afterward
func LoadClientConfig() ClientConfig {
	clientOnce.Do(func() {
		clientCfg = clientFromEnv()
	})
	return clientCfg
}

// LoadServerConfig read server config once and return the cached value afterward
func LoadServerConfig() ServerConfig {
	serverOnce.Do(func() {
		serverCfg = serverFromEnv()
	})
	return serverCfg
}

func clientFromEnv() ClientConfig {
	return ClientConfig{
		BaseURL:              getString("API_BASE_URL", "http://localhost:8080/api/v1"),
		Timeout:              getDuration("API_TIMEOUT", 10*time.Second),
		CacheTTL:             getDuration("CACHE_TTL", 5*time.Minute),
		CacheCleanUpInterval: getDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute),
		RetryMaxAttempts:     getInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelay:       getDuration("RETRY_BASE_DELAY", 500*time.Millisecond),
		StatePath:            getString("STATE_PATH", "jobportal.db"),
		Logging:              getBool("CLIENT_LOGGING", false),
	}
}

func serverFromEnv() ServerConfig {
	return ServerConfig{
		Port:               getInt("PORT", 8080),
		SecretKey:          os.Getenv("SECRET_KEY"),
		AllowOrigin:        getString("ALLOW_ORIGIN", "*"),
		RateLimitPerSecond: uint(getInt("RATE_LIMIT_REQUESTS_PER_SECOND", 5)),
		DBDriver:           getString("DB_DRIVER", "sqlite"),
		SQLitePath:         getString("SQLITE_PATH", "jobboard.db"),
		Postgres: PostgresConfig{
			Host:       os.Getenv("DB_HOST"),
			Port:       getString("DB_PORT", "5432"),
			User:       os.Getenv("DB_USERNAME"),
			Password:   os.Getenv("DB_PASSWORD"),
			DBName:     os.Getenv("DB_DATABASE"),
			UseConnStr: getBool("USE_CONNECTION_STR", false),
			ConnStr:    os.Getenv("DB_CONNECTION_STR"),
		},
		GCSBucket:         os.Getenv("GCS_BUCKET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		Seed:              getBool("SEED", false),
		Logging:           getBool("LOGGING", false),
		JobExpirySchedule: getString("JOB_EXPIRY_SCHEDULE", "@every 1h"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("%s environments variable is invalid (%q), using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("%s environments variable is invalid (%q), using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("%s environments variable is invalid (%q), using %s", key, v, fallback)
		return fallback
	}
	return d
}
