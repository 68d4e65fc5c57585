package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"healthybychoice/pkg/i18n"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port    string
	GinMode string

	PostgresURL   string
	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
	JWTSecret     string

	GenerationProvider string
	OpenAIAPIKey       string
	OpenAIModel        string
	GeminiAPIKey       string
	GeminiModel        string
	AITimeout          time.Duration

	SquareAccessToken string
	SquareLocationID  string
	SquareEnvironment string
	PaymentTimeout    time.Duration

	DefaultLocale  i18n.Locale
	RateLimitRPM   int
	AdvanceDelay   time.Duration
	TypingInterval time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var errs []error
	dur := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnvWithDefault(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}
	num := func(key, def string) int {
		n, err := strconv.Atoi(getEnvWithDefault(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}

	cfg := &Config{
		Port:    getEnvWithDefault("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		PostgresURL:   os.Getenv("POSTGRES_URL"),
		SessionStore:  strings.ToLower(getEnvWithDefault("SESSION_STORE", SessionStoreMemory)),
		RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       num("REDIS_DB", "0"),
		SessionTTL:    dur("SESSION_TTL", "72h"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		GenerationProvider: strings.ToLower(getEnvWithDefault("GENERATION_PROVIDER", "static")),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		AITimeout:          dur("AI_TIMEOUT", "8s"),

		SquareAccessToken: os.Getenv("SQUARE_ACCESS_TOKEN"),
		SquareLocationID:  os.Getenv("SQUARE_LOCATION_ID"),
		SquareEnvironment: strings.ToLower(getEnvWithDefault("SQUARE_ENVIRONMENT", "sandbox")),
		PaymentTimeout:    dur("PAYMENT_TIMEOUT", "15s"),

		DefaultLocale:  i18n.Locale(strings.ToLower(getEnvWithDefault("DEFAULT_LOCALE", string(i18n.DefaultLocale)))),
		RateLimitRPM:   num("RATE_LIMIT_RPM", "30"),
		AdvanceDelay:   dur("ADVANCE_DELAY", "2s"),
		TypingInterval: dur("TYPING_INTERVAL", "25ms"),

		LogLevel:  strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnvWithDefault("LOG_FORMAT", "json")),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	case SessionStorePostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required for the postgres session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}

	switch c.GenerationProvider {
	case "static":
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when using OpenAI provider"))
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when using Gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported GENERATION_PROVIDER %q", c.GenerationProvider))
	}

	if c.SquareEnvironment != "sandbox" && c.SquareEnvironment != "production" {
		errs = append(errs, fmt.Errorf("unknown SQUARE_ENVIRONMENT %q", c.SquareEnvironment))
	}
	if c.SquareEnvironment == "production" && (c.SquareAccessToken == "" || c.SquareLocationID == "") {
		errs = append(errs, errors.New("SQUARE_ACCESS_TOKEN and SQUARE_LOCATION_ID are required in production"))
	}
	if !c.DefaultLocale.Valid() {
		errs = append(errs, fmt.Errorf("unsupported DEFAULT_LOCALE %q", c.DefaultLocale))
	}
	if c.AITimeout <= 0 || c.PaymentTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.RateLimitRPM <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPM must be positive"))
	}
	if c.AdvanceDelay < 0 || c.TypingInterval < 0 {
		errs = append(errs, errors.New("flow timings must not be negative"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// UseSquare reports whether real charges go through Square.
func (c *Config) UseSquare() bool {
	return c.SquareAccessToken != "" && c.SquareLocationID != ""
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
