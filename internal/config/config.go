package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the ClauseCheck server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Analysis AnalysisConfig
}

type ServerConfig struct {
	Port            int
	Env             string
	MaxUploadBytes  int64
	RateLimitPerMin int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type AIConfig struct {
	Provider         string
	InferenceTimeout time.Duration
	Ollama           OllamaConfig
	VLLM             VLLMConfig
	OpenAI           OpenAIConfig
	Anthropic        AnthropicConfig
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type VLLMConfig struct {
	BaseURL string
	Model   string
}

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type AnthropicConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// AnalysisConfig tunes the clause pipeline.
type AnalysisConfig struct {
	Workers   int
	CacheTTL  time.Duration
	RulesPath string
}

// ProviderNone disables explanations and suggestions.
const ProviderNone = "none"

var validProviders = map[string]bool{
	ProviderNone: true,
	"ollama":     true,
	"vllm":       true,
	"openai":     true,
	"anthropic":  true,
}

// Load reads configuration from environment variables and returns a validated Config.
// A .env file in the working directory is applied first when present; variables
// already set in the environment take precedence over it.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            envInt("CLAUSECHECK_PORT", 8080),
			Env:             envString("CLAUSECHECK_ENV", "development"),
			MaxUploadBytes:  int64(envInt("MAX_UPLOAD_BYTES", 10<<20)),
			RateLimitPerMin: envInt("RATE_LIMIT_PER_MIN", 60),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		AI:       loadAI(),
		Analysis: loadAnalysis(),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadAI reads and validates only the AI provider settings. The CLI uses it
// so that local analysis does not require a database or Redis.
func LoadAI() (AIConfig, error) {
	_ = godotenv.Load()
	ai := loadAI()
	if err := ai.validate(); err != nil {
		return AIConfig{}, err
	}
	return ai, nil
}

// LoadAnalysis reads and validates only the pipeline settings.
func LoadAnalysis() (AnalysisConfig, error) {
	_ = godotenv.Load()
	a := loadAnalysis()
	if err := a.validate(); err != nil {
		return AnalysisConfig{}, err
	}
	return a, nil
}

func loadAI() AIConfig {
	return AIConfig{
		Provider:         strings.ToLower(envString("AI_PROVIDER", ProviderNone)),
		InferenceTimeout: envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", 60*time.Second),
		Ollama: OllamaConfig{
			BaseURL: envString("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   envString("OLLAMA_MODEL", "llama3"),
		},
		VLLM: VLLMConfig{
			BaseURL: envString("VLLM_BASE_URL", "http://localhost:8000"),
			Model:   envString("VLLM_MODEL", ""),
		},
		OpenAI: OpenAIConfig{
			BaseURL: envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   envString("OPENAI_MODEL", "gpt-4"),
		},
		Anthropic: AnthropicConfig{
			BaseURL: envString("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			Model:   envString("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		},
	}
}

func loadAnalysis() AnalysisConfig {
	return AnalysisConfig{
		Workers:   envInt("ANALYSIS_WORKERS", 4),
		CacheTTL:  envDuration("ANALYSIS_CACHE_TTL", 24*time.Hour),
		RulesPath: os.Getenv("RULES_PATH"),
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be positive, got %d", c.Server.RateLimitPerMin)
	}

	if err := c.AI.validate(); err != nil {
		return err
	}
	return c.Analysis.validate()
}

func (c AIConfig) validate() error {
	if !validProviders[c.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of none, ollama, vllm, openai, anthropic; got %q", c.Provider)
	}

	if c.Provider == "openai" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.Provider == "anthropic" && c.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
	}
	if c.Provider == "vllm" && c.VLLM.Model == "" {
		return fmt.Errorf("VLLM_MODEL is required when AI_PROVIDER is vllm")
	}
	if c.InferenceTimeout <= 0 {
		return fmt.Errorf("AI_INFERENCE_TIMEOUT_SECS must be positive")
	}

	return nil
}

func (c AnalysisConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("ANALYSIS_WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("ANALYSIS_CACHE_TTL must not be negative, got %s", c.CacheTTL)
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

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
