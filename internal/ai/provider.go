package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
)

type ProviderType string

const (
	Ollama    ProviderType = "ollama"
	OpenAI    ProviderType = "openai"
	Anthropic ProviderType = "anthropic"
)

// Prompt is a rendered instruction pair. Backends without a native system
// role fold the two parts together.
type Prompt struct {
	System string
	User   string
}

// Completion is one raw reply from a backend. Token counts come from the
// provider's own usage report; HasUsage is false when the backend did not
// supply them and the caller must estimate.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	HasUsage     bool
}

// Provider is a single AI text-generation backend.
type Provider interface {
	Name() string
	Type() string
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)
	Models(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

type Factory func(cfg config.ProviderConfig) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register installs a factory for a provider type. Called from adapter
// package init functions.
func Register(providerType string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[providerType]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", providerType))
	}
	factories[providerType] = f
}

// Lookup returns the factory for a provider type.
func Lookup(providerType string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[providerType]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type: %s", providerType)
	}
	return f, nil
}
