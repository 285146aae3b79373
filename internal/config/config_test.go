package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Env)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 300, cfg.AI.GenerateTimeoutSecs)
	assert.Equal(t, []string{"ollama", "gpt4", "claude"}, cfg.AI.FallbackOrder)
}

func TestLoadConfig_DefaultProviders(t *testing.T) {
	os.Clearenv()

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	// Free local provider first, then paid backends in preference order.
	assert.Len(t, cfg.AI.Providers, 3)
	assert.Equal(t, "ollama", cfg.AI.Providers[0].Name)
	assert.Equal(t, 0.0, cfg.AI.Providers[0].CostPer1K)
	assert.Equal(t, "gpt4", cfg.AI.Providers[1].Name)
	assert.Equal(t, "claude", cfg.AI.Providers[2].Name)
}

func TestLoadConfig_APIKeyResolution(t *testing.T) {
	os.Clearenv()
	t.Setenv("OPENAI_API_KEY", "sk-test-12345")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "sk-test-12345", cfg.AI.Providers[1].APIKey)
}
