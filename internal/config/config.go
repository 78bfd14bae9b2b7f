package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ranktracker/internal/validation"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// Database
	DatabaseURL string

	// Redis backs the rate limiter when set; otherwise limits are per process.
	RedisURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json or console

	// Run dates are calendar dates in this zone.
	Timezone string

	// DataForSEO
	DataForSEOLogin     string
	DataForSEOPassword  string
	DataForSEOBaseURL   string
	DataForSEORateLimit float64 // requests per second, 0 disables pacing
	DataForSEOTimeout   time.Duration
	PingbackURL         string // env: PINGBACK_URL, default: BASE_URL + callback path
	SERPDepth           int

	// Workers
	SubmitConcurrency int
	SweepConcurrency  int

	// Background jobs
	ComparatorInterval    time.Duration
	EnableComparatorJob   bool
	SweepInterval         time.Duration
	EnableMissingTasksJob bool

	// OIDC bearer auth for management routes. Disabled when the issuer is empty.
	OIDCIssuer   string
	OIDCClientID string

	// Requests per minute per client on public routes.
	RateLimitMax int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	baseURL := getEnv("BASE_URL", "http://localhost:3000")

	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     baseURL,
		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/ranktracker?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Timezone:    getEnv("TIMEZONE", "America/Bogota"),

		DataForSEOLogin:     getEnv("DATAFORSEO_LOGIN", ""),
		DataForSEOPassword:  getEnv("DATAFORSEO_PASSWORD", ""),
		DataForSEOBaseURL:   getEnv("DATAFORSEO_BASE_URL", "https://api.dataforseo.com"),
		DataForSEORateLimit: getEnvFloat("DATAFORSEO_RATE_LIMIT", 20),
		DataForSEOTimeout:   getEnvDuration("DATAFORSEO_TIMEOUT", 30*time.Second),
		PingbackURL: getEnv("PINGBACK_URL",
			strings.TrimSuffix(baseURL, "/")+"/rank_tracker/obtener/?id=$id&tag=$tag"),
		SERPDepth: getEnvInt("SERP_DEPTH", 30),

		SubmitConcurrency: getEnvInt("SUBMIT_CONCURRENCY", 10),
		SweepConcurrency:  getEnvInt("SWEEP_CONCURRENCY", 5),

		ComparatorInterval:    getEnvDuration("COMPARATOR_INTERVAL", 24*time.Hour),
		EnableComparatorJob:   getEnvBool("ENABLE_COMPARATOR_JOB", false),
		SweepInterval:         getEnvDuration("SWEEP_INTERVAL", 6*time.Hour),
		EnableMissingTasksJob: getEnvBool("ENABLE_MISSING_TASKS_JOB", false),

		OIDCIssuer:   getEnv("OIDC_ISSUER", ""),
		OIDCClientID: getEnv("OIDC_CLIENT_ID", ""),

		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 600),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsAuthEnabled returns true if management routes require a bearer token.
func (c *Config) IsAuthEnabled() bool {
	return c.OIDCIssuer != ""
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, eris.Wrapf(err, "config: load timezone %q", c.Timezone)
	}
	return loc, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.DataForSEOLogin == "" || c.DataForSEOPassword == "" {
		return eris.New("config: DATAFORSEO_LOGIN and DATAFORSEO_PASSWORD are required")
	}
	if c.IsAuthEnabled() && c.OIDCClientID == "" {
		return eris.New("config: OIDC_CLIENT_ID is required when OIDC_ISSUER is set")
	}
	if ok, msg := validation.ValidateURL(c.PingbackURL); !ok {
		return eris.Errorf("config: PINGBACK_URL: %s", msg)
	}
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return eris.New("config: TLS_CERT_FILE and TLS_KEY_FILE are required when TLS_ENABLED is set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// InitLogger builds the global zap logger.
func InitLogger(level, format string) error {
	var zapCfg zap.Config
	if format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
