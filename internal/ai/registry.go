package ai

import (
	"fmt"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/cli"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"go.uber.org/zap"
)

// Registry holds the configured providers in fixed priority order: the
// free/local backend first, then paid backends by configured preference.
// Descriptors are read-only after process start.
type Registry struct {
	order     []string
	providers map[string]Provider
	configs   map[string]config.ProviderConfig
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		configs:   make(map[string]config.ProviderConfig),
	}
}

// Add registers a provider under its configured name. Later calls for the
// same name replace the instance but keep its original priority slot.
func (r *Registry) Add(cfg config.ProviderConfig, p Provider) {
	if _, exists := r.providers[cfg.Name]; !exists {
		r.order = append(r.order, cfg.Name)
	}
	r.providers[cfg.Name] = p
	r.configs[cfg.Name] = cfg
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Config returns the descriptor for a registered provider.
func (r *Registry) Config(name string) (config.ProviderConfig, bool) {
	c, ok := r.configs[name]
	return c, ok
}

// Names returns registered provider names in priority order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// List returns descriptors in priority order.
func (r *Registry) List() []config.ProviderConfig {
	out := make([]config.ProviderConfig, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.configs[name])
	}
	return out
}

// Bootstrap initializes all enabled providers from configuration. A provider
// with a missing credential is still registered; it surfaces as unavailable
// through health checks rather than failing startup.
func Bootstrap(providers []config.ProviderConfig, log *zap.Logger) *Registry {
	registry := NewRegistry()

	for _, pCfg := range providers {
		if !pCfg.Enabled {
			continue
		}

		factoryFunc, err := Lookup(pCfg.Type)
		if err != nil {
			log.Error("Unknown provider type", zap.String("type", pCfg.Type))
			continue
		}

		providerInstance, err := factoryFunc(pCfg)
		if err != nil {
			log.Error(fmt.Sprintf("%s %s %s",
				cli.CrossMark(),
				cli.Stylize(pCfg.Name, cli.Black),
				cli.Stylize("Failed to initialize provider", cli.Red),
			), zap.Error(err))
			continue
		}

		registry.Add(pCfg, providerInstance)
		if pCfg.RequiresKey && pCfg.APIKey == "" {
			log.Warn(fmt.Sprintf("%s %s %s",
				cli.WarningSign(),
				cli.Stylize(pCfg.Name, cli.Black),
				cli.Stylize("Registered without an API key; will report unavailable", cli.Yellow),
			))
			continue
		}
		log.Info(fmt.Sprintf("%s %s %s",
			cli.CheckMark(),
			cli.Stylize(pCfg.Name, cli.Black),
			cli.Stylize(fmt.Sprintf("Registered provider (%s)", pCfg.Model), cli.Green),
		))
	}

	if len(registry.order) == 0 {
		log.Warn("No providers were registered. Report generation will not function.")
	}

	return registry
}
