package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the root configuration for the portal API.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	ListCache ListCacheConfig
	Exports   ExportsConfig
	Views     ViewsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig tunes the redis-backed request limiter. Reads and
// writes carry separate limits.
type RateLimitConfig struct {
	Enabled     bool
	ReadLimit   int
	WriteLimit  int
	Window      time.Duration
	KeyPrefix   string
	TrustHeader bool
}

// ListCacheConfig governs the cached public article listing.
type ListCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportsConfig controls statistics export storage and signed links.
type ExportsConfig struct {
	Enabled         bool
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// ViewsConfig tunes the asynchronous view-count worker.
type ViewsConfig struct {
	Workers    int
	BufferSize int
}

// Load reads configuration from the environment, with .env support for
// development setups.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "portal_berita")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ISSUER", "portal-berita-api")
	v.SetDefault("JWT_EXPIRATION", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRATION", "168h")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_READ", 100)
	v.SetDefault("RATE_LIMIT_WRITE", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("RATE_LIMIT_KEY_PREFIX", "ratelimit")
	v.SetDefault("RATE_LIMIT_TRUST_HEADER", false)

	v.SetDefault("LIST_CACHE_ENABLED", true)
	v.SetDefault("LIST_CACHE_TTL", "30s")

	v.SetDefault("EXPORTS_ENABLED", true)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")

	v.SetDefault("VIEWS_WORKERS", 2)
	v.SetDefault("VIEWS_BUFFER_SIZE", 256)

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			Issuer:            v.GetString("JWT_ISSUER"),
			Expiration:        v.GetDuration("JWT_EXPIRATION"),
			RefreshExpiration: v.GetDuration("JWT_REFRESH_EXPIRATION"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitNonEmpty(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RateLimit: RateLimitConfig{
			Enabled:     v.GetBool("RATE_LIMIT_ENABLED"),
			ReadLimit:   v.GetInt("RATE_LIMIT_READ"),
			WriteLimit:  v.GetInt("RATE_LIMIT_WRITE"),
			Window:      v.GetDuration("RATE_LIMIT_WINDOW"),
			KeyPrefix:   v.GetString("RATE_LIMIT_KEY_PREFIX"),
			TrustHeader: v.GetBool("RATE_LIMIT_TRUST_HEADER"),
		},
		ListCache: ListCacheConfig{
			Enabled: v.GetBool("LIST_CACHE_ENABLED"),
			TTL:     v.GetDuration("LIST_CACHE_TTL"),
		},
		Exports: ExportsConfig{
			Enabled:         v.GetBool("EXPORTS_ENABLED"),
			StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
			SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
			SignedURLTTL:    v.GetDuration("EXPORTS_SIGNED_URL_TTL"),
		},
		Views: ViewsConfig{
			Workers:    v.GetInt("VIEWS_WORKERS"),
			BufferSize: v.GetInt("VIEWS_BUFFER_SIZE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return errors.New("ENV must be development or production")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Exports.Enabled && c.Env == EnvProduction && c.Exports.SignedURLSecret == "" {
		return errors.New("EXPORTS_SIGNED_URL_SECRET is required in production")
	}
	return nil
}

func splitNonEmpty(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
