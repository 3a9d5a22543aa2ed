package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr            = ":7860"
	defaultModel           = "llama3-8b-8192"
	defaultBaseURL         = "https://api.groq.com/openai/v1"
	defaultMaxIterations   = 15
	defaultSearchTimeout   = 15 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultLogLevel        = "info"
	defaultEnvFile         = ".env"
	defaultCredentialEnv   = "GROQ_API_KEY"
)

// Config controls the chat server, the model endpoint and the lookups.
type Config struct {
	Addr            string
	Model           string
	BaseURL         string
	MaxIterations   int
	SearchTimeout   time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	// EnvFile is watched for a rotated default credential.
	EnvFile string
	// CredentialEnv names the variable holding the default credential.
	CredentialEnv string
}

// Load reads runtime configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:            defaultAddr,
		Model:           defaultModel,
		BaseURL:         defaultBaseURL,
		MaxIterations:   defaultMaxIterations,
		SearchTimeout:   defaultSearchTimeout,
		ShutdownTimeout: defaultShutdownTimeout,
		LogLevel:        defaultLogLevel,
		EnvFile:         defaultEnvFile,
		CredentialEnv:   defaultCredentialEnv,
	}

	setString(&cfg.Addr, "SEARCHCHAT_ADDR")
	setString(&cfg.Model, "SEARCHCHAT_MODEL")
	setString(&cfg.BaseURL, "SEARCHCHAT_BASE_URL")
	setString(&cfg.LogLevel, "SEARCHCHAT_LOG_LEVEL")
	setString(&cfg.EnvFile, "SEARCHCHAT_ENV_FILE")
	setString(&cfg.CredentialEnv, "SEARCHCHAT_CREDENTIAL_ENV")

	if v := os.Getenv("SEARCHCHAT_MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse SEARCHCHAT_MAX_ITERATIONS: %w", err)
		}
		cfg.MaxIterations = n
	}
	var err error
	if cfg.SearchTimeout, err = duration("SEARCHCHAT_SEARCH_TIMEOUT", cfg.SearchTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration("SEARCHCHAT_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: empty listen address")
	}
	if c.Model == "" {
		return fmt.Errorf("config: empty model id")
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("config: max iterations must be > 0")
	}
	if c.CredentialEnv == "" {
		return fmt.Errorf("config: empty credential variable name")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("parse %s: value must be > 0", key)
	}
	return parsed, nil
}
