package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultUserAgent is sent when neither the config file nor the environment provide one
const DefaultUserAgent = "vrcfetch/1.0.0 (https://github.com/onlivfe/vrcfetch)"

// Config holds application configuration
type Config struct {
	UserAgent         string
	RequestsPerMinute int
	Burst             int
	DefaultTimeout    int
	AuthFile          string

	// Logging configuration
	LogLevel    string
	EnableDebug bool
	QuietMode   bool
	LogFile     string
}

// fileConfig mirrors the TOML layout of the config file
type fileConfig struct {
	UserAgent         string `toml:"user_agent"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	Burst             int    `toml:"burst"`
	Timeout           int    `toml:"timeout"`
	AuthFile          string `toml:"auth_file"`
	Log               struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
		Debug bool   `toml:"debug"`
	} `toml:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UserAgent:         DefaultUserAgent,
		RequestsPerMinute: 12,
		Burst:             5,
		DefaultTimeout:    30,

		// Logging defaults
		LogLevel:    "info",
		EnableDebug: false,
		QuietMode:   false,
		LogFile:     "", // Empty means stderr
	}
}

// LoadFile merges a TOML config file into the configuration.
// A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return NewValidationErrorWithValue("config_file", "invalid TOML", path).
			WithContext("error", err.Error())
	}

	if ua := strings.TrimSpace(raw.UserAgent); ua != "" {
		c.UserAgent = ua
	}
	if raw.RequestsPerMinute != 0 {
		c.RequestsPerMinute = raw.RequestsPerMinute
	}
	if raw.Burst != 0 {
		c.Burst = raw.Burst
	}
	if raw.Timeout != 0 {
		c.DefaultTimeout = raw.Timeout
	}
	if raw.AuthFile != "" {
		c.AuthFile = raw.AuthFile
	}
	if raw.Log.Level != "" {
		c.LogLevel = raw.Log.Level
	}
	if raw.Log.File != "" {
		c.LogFile = raw.Log.File
	}
	if raw.Log.Debug {
		c.EnableDebug = true
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Values from a .env file in the working directory are loaded first without
// overriding variables that are already set.
func (c *Config) LoadFromEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		LogDebug("ignoring .env file: %v", err)
	}

	if ua := os.Getenv("VRCFETCH_USER_AGENT"); ua != "" {
		c.UserAgent = ua
	}

	if rpm := os.Getenv("VRCFETCH_REQUESTS_PER_MINUTE"); rpm != "" {
		if v, err := strconv.Atoi(rpm); err == nil && v >= 0 {
			c.RequestsPerMinute = v
		}
	}

	if burst := os.Getenv("VRCFETCH_BURST"); burst != "" {
		if v, err := strconv.Atoi(burst); err == nil && v > 0 {
			c.Burst = v
		}
	}

	if timeout := os.Getenv("VRCFETCH_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			c.DefaultTimeout = t
		}
	}

	if authFile := os.Getenv("VRCFETCH_AUTH_FILE"); authFile != "" {
		c.AuthFile = authFile
	}

	// Load logging configuration from environment
	if logLevel := os.Getenv("VRCFETCH_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}

	if debug := os.Getenv("VRCFETCH_DEBUG"); debug != "" {
		c.EnableDebug = debug == "true" || debug == "1"
	}

	if quiet := os.Getenv("VRCFETCH_QUIET"); quiet != "" {
		c.QuietMode = quiet == "true" || quiet == "1"
	}

	if logFile := os.Getenv("VRCFETCH_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
}

// GetEnvWithDefault returns environment variable value or default
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ValidateConfig validates the configuration values
func (c *Config) ValidateConfig() error {
	if strings.TrimSpace(c.UserAgent) == "" {
		return NewValidationError("user_agent", "user agent cannot be empty").
			WithSuggestion("VRChat requires an identifying User-Agent, e.g. myapp/1.0 (contact@example.com)")
	}

	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("invalid requests per minute: %d (must be >= 0)", c.RequestsPerMinute)
	}

	if c.Burst < 1 {
		return fmt.Errorf("invalid burst: %d (must be > 0)", c.Burst)
	}

	if c.DefaultTimeout < 1 {
		return fmt.Errorf("invalid default timeout: %d (must be > 0)", c.DefaultTimeout)
	}

	return nil
}
