// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	customValidation "github.com/stockdesk/frontend/internal/validation"
)

// Backend wire modes.
const (
	// WireModeField encodes every request parameter as its own envelope.
	WireModeField = "field"
	// WireModeBlob encodes the whole parameter mapping as one envelope.
	WireModeBlob = "blob"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// EnvelopeKey is the base64 envelope key, or its KMS ciphertext when KMSKeyURI is set.
	EnvelopeKey string
	// KMSProvider names the KMS provider (e.g., "localsecrets", "gcpkms", "awskms").
	KMSProvider string
	// KMSKeyURI is the URI of the KMS key that wraps EnvelopeKey.
	KMSKeyURI string

	// BackendURL is the base URL of the trading backend.
	BackendURL string
	// BackendTimeout bounds every backend request.
	BackendTimeout time.Duration
	// BackendWireMode selects how parameters are encoded ("field" or "blob").
	BackendWireMode string
	// BackendRateLimitEnabled enables the outgoing request limiter.
	BackendRateLimitEnabled bool
	// BackendRateLimitRequestsPerSec is the sustained outgoing request rate.
	BackendRateLimitRequestsPerSec float64
	// BackendRateLimitBurst is the outgoing request burst size.
	BackendRateLimitBurst int

	// ServerHost is the host address the ops server binds to.
	ServerHost string
	// ServerPort is the port the ops server listens on.
	ServerPort int
	// ShutdownTimeout bounds the graceful shutdown of the ops server.
	ShutdownTimeout time.Duration

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Envelope key
		EnvelopeKey: env.GetString("ENVELOPE_KEY", ""),
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),

		// Backend
		BackendURL:                     env.GetString("BACKEND_URL", "http://127.0.0.1:5555"),
		BackendTimeout:                 env.GetDuration("BACKEND_TIMEOUT_SECONDS", 5, time.Second),
		BackendWireMode:                env.GetString("BACKEND_WIRE_MODE", WireModeField),
		BackendRateLimitEnabled:        env.GetBool("BACKEND_RATE_LIMIT_ENABLED", true),
		BackendRateLimitRequestsPerSec: env.GetFloat64("BACKEND_RATE_LIMIT_REQUESTS_PER_SEC", 20.0),
		BackendRateLimitBurst:          env.GetInt("BACKEND_RATE_LIMIT_BURST", 40),

		// Ops server
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8081),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "frontend"),
	}
}

// Validate checks the configuration shape. The envelope key is only checked
// for being base64 here; its size is checked when the key is loaded, because
// with KMS_KEY_URI set the value is a wrapped key of a different length.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, customValidation.OneOf("debug", "info", "warn", "error")),
		validation.Field(&c.EnvelopeKey, customValidation.Base64),
		validation.Field(&c.BackendURL, validation.Required, customValidation.HTTPURL),
		validation.Field(&c.BackendTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.BackendWireMode, validation.Required, customValidation.OneOf(WireModeField, WireModeBlob)),
		validation.Field(&c.BackendRateLimitRequestsPerSec,
			validation.When(c.BackendRateLimitEnabled, validation.Required, validation.Min(0.0).Exclusive())),
		validation.Field(&c.BackendRateLimitBurst,
			validation.When(c.BackendRateLimitEnabled, validation.Required, validation.Min(1))),
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ShutdownTimeout, validation.Required),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
	)
	return customValidation.WrapValidationError(err)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file from the current directory up to the
// root directory and loads the first one found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
