// Package config loads the HTTP server configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/mortgage-engine/amortization"
	"github.com/warp/mortgage-engine/factory"
)

type Config struct {
	// HTTP Server
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	// Engine defaults, overridable per request
	MaxYears       int
	PaymentDisplay string
	Waiver         string

	// Metrics
	MetricsNamespace string

	// Variables that were set but could not be parsed
	parseErrors []string
}

// LoadEnvFile loads .env files for local development. A missing file is
// not an error.
func LoadEnvFile(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Load reads the configuration from the environment. Unparsable values keep
// their default and are reported by Validate.
func Load() *Config {
	c := &Config{}

	c.Port = c.getEnvInt("PORT", 8080)
	c.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"})
	c.ShutdownTimeout = c.getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)

	c.MaxYears = c.getEnvInt("MAX_YEARS", amortization.DefaultMaxYears)
	c.PaymentDisplay = getEnv("PAYMENT_DISPLAY", string(amortization.DisplayAsWritten))
	c.Waiver = getEnv("WAIVER_POLICY", string(amortization.WaiveAfterInitialPeriod))

	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", "mortgage_engine")

	return c
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	if c.Port < 1 || c.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if c.MaxYears < 1 {
		errors = append(errors, fmt.Sprintf("invalid max years %d: must be at least 1", c.MaxYears))
	}
	if _, err := c.EngineOptions(); err != nil {
		errors = append(errors, err.Error())
	}
	if c.MetricsNamespace == "" {
		errors = append(errors, "metrics namespace cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// EngineOptions converts the engine defaults.
func (c *Config) EngineOptions() (amortization.Options, error) {
	return factory.NewTermsFactory().CreateOptions(factory.OptionsJSON{
		Display:  c.PaymentDisplay,
		Waiver:   c.Waiver,
		MaxYears: c.MaxYears,
	})
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s %q: not a whole number", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s %q: not a duration", key, value))
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
