package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider kinds.
const (
	ProviderXAI    = "xai"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Store kinds.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// MaxModelRetries bounds MODEL_RETRIES.
const MaxModelRetries = 10

// Config holds all configuration for the jobtracker server and CLI.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type StoreConfig struct {
	Kind string
	File string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsDir   string
}

// RedisConfig is optional; an empty URL disables caching and rate limiting.
type RedisConfig struct {
	URL              string
	RateLimitPerMin  int
	AnalysisCacheTTL time.Duration
}

type AIConfig struct {
	Primary   string
	Secondary string

	XAI    ProviderConfig
	OpenAI ProviderConfig
	Gemini ProviderConfig

	DisableWindow    time.Duration
	Retries          int
	BackoffBase      time.Duration
	Temperature      float64
	MaxTokens        int
	MaxInputChars    int
	SummaryMaxChars  int
	BatchConcurrency int
}

// ProviderConfig is one remote provider's connection settings. An empty
// APIKey means the provider is not configured.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Provider returns the settings for a provider kind.
func (a AIConfig) Provider(kind string) (ProviderConfig, bool) {
	switch kind {
	case ProviderXAI:
		return a.XAI, true
	case ProviderOpenAI:
		return a.OpenAI, true
	case ProviderGemini:
		return a.Gemini, true
	}
	return ProviderConfig{}, false
}

var validProviders = map[string]bool{
	ProviderXAI:    true,
	ProviderOpenAI: true,
	ProviderGemini: true,
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any value is invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("JOBTRACKER_PORT", 8080),
			Env:  envString("JOBTRACKER_ENV", "development"),
		},
		Store: StoreConfig{
			Kind: strings.ToLower(envString("JOBS_STORE", StoreFile)),
			File: envString("JOBS_FILE", "data/jobs.json"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsDir:   envString("MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			URL:              os.Getenv("REDIS_URL"),
			RateLimitPerMin:  envInt("RATE_LIMIT_PER_MIN", 60),
			AnalysisCacheTTL: envDuration("ANALYSIS_CACHE_TTL", time.Hour),
		},
		AI: AIConfig{
			Primary:   strings.ToLower(envString("AI_PRIMARY_PROVIDER", ProviderXAI)),
			Secondary: strings.ToLower(envString("AI_SECONDARY_PROVIDER", ProviderOpenAI)),
			XAI: ProviderConfig{
				APIKey:  os.Getenv("XAI_API_KEY"),
				BaseURL: envString("XAI_BASE_URL", "https://api.x.ai/v1"),
				Model:   envString("XAI_MODEL", "grok-4"),
			},
			OpenAI: ProviderConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				BaseURL: envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
				Model:   envString("OPENAI_MODEL", "gpt-4o-mini"),
			},
			Gemini: ProviderConfig{
				APIKey:  os.Getenv("GEMINI_API_KEY"),
				BaseURL: os.Getenv("GEMINI_BASE_URL"),
				Model:   envString("GEMINI_MODEL", "gemini-2.0-flash"),
			},
			DisableWindow:    envMinutes("PROVIDER_DISABLE_MINUTES", envMinutes("XAI_DISABLE_MINUTES", 10*time.Minute)),
			Retries:          envInt("MODEL_RETRIES", 1),
			BackoffBase:      envMillis("BACKOFF_BASE_MS", 500*time.Millisecond),
			Temperature:      envFloat("AI_TEMPERATURE", 0.7),
			MaxTokens:        envInt("AI_MAX_TOKENS", 1200),
			MaxInputChars:    envInt("AI_MAX_INPUT_CHARS", 15000),
			SummaryMaxChars:  envInt("SUMMARY_MAX_CHARS", 220),
			BatchConcurrency: envInt("ANALYZE_BATCH_CONCURRENCY", 8),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("JOBTRACKER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Store.Kind {
	case StoreFile:
		if c.Store.File == "" {
			return fmt.Errorf("JOBS_FILE is required when JOBS_STORE is file")
		}
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when JOBS_STORE is postgres")
		}
	default:
		return fmt.Errorf("JOBS_STORE must be one of file, postgres; got %q", c.Store.Kind)
	}

	if c.Redis.URL != "" {
		if !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
			return fmt.Errorf("REDIS_URL must start with redis:// or rediss://, got %q", c.Redis.URL)
		}
		if c.Redis.RateLimitPerMin <= 0 {
			return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.Redis.RateLimitPerMin)
		}
		if c.Redis.AnalysisCacheTTL <= 0 {
			return fmt.Errorf("ANALYSIS_CACHE_TTL must be positive, got %s", c.Redis.AnalysisCacheTTL)
		}
	}

	if !validProviders[c.AI.Primary] {
		return fmt.Errorf("AI_PRIMARY_PROVIDER must be one of xai, openai, gemini; got %q", c.AI.Primary)
	}
	if c.AI.Secondary != ProviderNone && !validProviders[c.AI.Secondary] {
		return fmt.Errorf("AI_SECONDARY_PROVIDER must be one of xai, openai, gemini, none; got %q", c.AI.Secondary)
	}
	if c.AI.Secondary == c.AI.Primary {
		return fmt.Errorf("AI_SECONDARY_PROVIDER must differ from AI_PRIMARY_PROVIDER (%q)", c.AI.Primary)
	}

	if c.AI.DisableWindow <= 0 {
		return fmt.Errorf("PROVIDER_DISABLE_MINUTES must be positive, got %s", c.AI.DisableWindow)
	}
	if c.AI.Retries < 0 || c.AI.Retries > MaxModelRetries {
		return fmt.Errorf("MODEL_RETRIES must be between 0 and %d, got %d", MaxModelRetries, c.AI.Retries)
	}
	if c.AI.BackoffBase < 0 {
		return fmt.Errorf("BACKOFF_BASE_MS must not be negative, got %s", c.AI.BackoffBase)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI_TEMPERATURE must be between 0 and 2, got %g", c.AI.Temperature)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive, got %d", c.AI.MaxTokens)
	}
	if c.AI.MaxInputChars <= 0 {
		return fmt.Errorf("AI_MAX_INPUT_CHARS must be positive, got %d", c.AI.MaxInputChars)
	}
	if c.AI.SummaryMaxChars <= 0 {
		return fmt.Errorf("SUMMARY_MAX_CHARS must be positive, got %d", c.AI.SummaryMaxChars)
	}
	if c.AI.BatchConcurrency <= 0 {
		return fmt.Errorf("ANALYZE_BATCH_CONCURRENCY must be positive, got %d", c.AI.BatchConcurrency)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envMinutes(key string, defaultVal time.Duration) time.Duration {
	return envUnit(key, time.Minute, defaultVal)
}

func envMillis(key string, defaultVal time.Duration) time.Duration {
	return envUnit(key, time.Millisecond, defaultVal)
}

func envUnit(key string, unit, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return time.Duration(n * float64(unit))
}
