package config

import (
	"os"
	"strconv"
	"time"
)

// APIConfig holds settings for the upstream REST backend.
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RateLimit     float64
	ProbeInterval time.Duration
	ProbePath     string
	PollInterval  time.Duration
}

// CacheConfig holds query cache settings.
type CacheConfig struct {
	KeepUnusedFor time.Duration
}

// NotifyConfig holds settings for transient notifications.
type NotifyConfig struct {
	TTL time.Duration
}

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// PersistConfig selects where the persisted client state snapshot lives.
// Driver is "sqlite" (default, a local file) or "postgres".
type PersistConfig struct {
	Driver     string
	SQLitePath string
	Database   DatabaseConfig
}

// MinIOConfig holds object storage settings for MinIO.
// Storage is optional; an empty Endpoint disables it.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port     string
	API      APIConfig
	Cache    CacheConfig
	Notify   NotifyConfig
	Persist  PersistConfig
	MinIO    MinIOConfig
	LogLevel string
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		API: APIConfig{
			BaseURL:       getEnv("API_BASE_URL", "http://localhost:8000/"),
			Timeout:       getEnvDuration("API_TIMEOUT", 30*time.Second),
			RateLimit:     getEnvFloat("API_RATE_LIMIT", 0),
			ProbeInterval: getEnvDuration("API_PROBE_INTERVAL", 15*time.Second),
			ProbePath:     getEnv("API_PROBE_PATH", ""),
			PollInterval:  getEnvDuration("API_POLL_INTERVAL", 0),
		},
		Cache: CacheConfig{
			KeepUnusedFor: getEnvDuration("CACHE_KEEP_UNUSED", 60*time.Second),
		},
		Notify: NotifyConfig{
			TTL: getEnvDuration("NOTIFY_TTL", 4*time.Second),
		},
		Persist: PersistConfig{
			Driver:     getEnv("PERSIST_DRIVER", "sqlite"),
			SQLitePath: getEnv("PERSIST_SQLITE_PATH", "lawdesk.db"),
			Database: DatabaseConfig{
				Host:               getEnv("DB_HOST", ""),
				Port:               getEnv("DB_PORT", "5432"),
				User:               getEnv("DB_USER", ""),
				Password:           getEnv("DB_PASSWORD", ""),
				Name:               getEnv("DB_NAME", ""),
				SSLMode:            getEnv("DB_SSLMODE", "disable"),
				MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
				MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			},
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			URLExpiry: getEnvDuration("MINIO_URL_EXPIRY", 24*time.Hour),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("90s", "5m").
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
