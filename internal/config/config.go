package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Email     EmailConfig     `mapstructure:"email"`
	AI        AIConfig        `mapstructure:"ai"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type AIConfig struct {
	Providers           []ProviderConfig `mapstructure:"providers"`
	DefaultProvider     string           `mapstructure:"default_provider"`
	FallbackOrder       []string         `mapstructure:"fallback_order"`
	GenerateTimeoutSecs int              `mapstructure:"generate_timeout_secs"`
	HealthTimeoutSecs   int              `mapstructure:"health_timeout_secs"`
	TypicalOutputTokens int              `mapstructure:"typical_output_tokens"`
}

// ProviderConfig describes a single AI backend. Descriptors are read-only
// after process start; a provider left out of the config is simply absent.
type ProviderConfig struct {
	Name        string  `mapstructure:"name" validate:"required"`
	Type        string  `mapstructure:"type" validate:"required"`
	DisplayName string  `mapstructure:"display_name"`
	Description string  `mapstructure:"description"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	CostPer1K   float64 `mapstructure:"cost_per_1k"`
	Speed       string  `mapstructure:"speed"`
	RequiresKey bool    `mapstructure:"requires_key"`
	Enabled     bool    `mapstructure:"enabled"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	// Default Values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.dsn", "file:interns.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_hours", 168) // 7 days
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.from", "noreply@intern-analytics.com")
	v.SetDefault("email.from_name", "Intern Analytics System")
	v.SetDefault("ai.default_provider", "ollama")
	v.SetDefault("ai.fallback_order", []string{"ollama", "gpt4", "claude"})
	v.SetDefault("ai.generate_timeout_secs", 300)
	v.SetDefault("ai.health_timeout_secs", 10)
	v.SetDefault("ai.typical_output_tokens", 500)

	// Environment Variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if len(cfg.AI.Providers) == 0 {
		cfg.AI.Providers = defaultProviders()
	}

	// Resolve API Keys
	for i, p := range cfg.AI.Providers {
		if strings.HasPrefix(p.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(p.APIKey, "ENV:")
			// Check process environment first (explicit override)
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			cfg.AI.Providers[i].APIKey = val
		}
	}

	return &cfg, nil
}

// defaultProviders mirrors the stock three-provider setup: the free local
// backend first, then the paid ones in fallback preference order.
func defaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{
			Name:        "ollama",
			Type:        "ollama",
			DisplayName: "OLLAMA (Local)",
			Description: "Free local AI processing - fast and private",
			BaseURL:     "http://localhost:11434",
			Model:       "gemma3:1b",
			MaxTokens:   2000,
			Temperature: 0.7,
			CostPer1K:   0.0,
			Speed:       "Fast",
			Enabled:     true,
		},
		{
			Name:        "gpt4",
			Type:        "openai",
			DisplayName: "GPT-4 (OpenAI)",
			Description: "Advanced AI analysis with superior reasoning",
			BaseURL:     "https://api.openai.com/v1",
			APIKey:      "ENV:OPENAI_API_KEY",
			Model:       "gpt-4",
			MaxTokens:   2500,
			Temperature: 0.7,
			CostPer1K:   0.03,
			Speed:       "Medium",
			RequiresKey: true,
			Enabled:     true,
		},
		{
			Name:        "claude",
			Type:        "anthropic",
			DisplayName: "Claude (Anthropic)",
			Description: "Detailed insights with professional formatting",
			BaseURL:     "https://api.anthropic.com/v1",
			APIKey:      "ENV:ANTHROPIC_API_KEY",
			Model:       "claude-3-sonnet-20240229",
			MaxTokens:   2500,
			Temperature: 0.7,
			CostPer1K:   0.008,
			Speed:       "Medium",
			RequiresKey: true,
			Enabled:     true,
		},
	}
}
