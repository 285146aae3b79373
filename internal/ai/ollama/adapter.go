package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/httpclient"
)

func init() {
	ai.Register(string(ai.Ollama), NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client *http.Client
}

func NewAdapter(cfg config.ProviderConfig) (ai.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Adapter{
		config: cfg,
		client: &http.Client{},
	}, nil
}

func (a *Adapter) Name() string { return a.config.Name }
func (a *Adapter) Type() string { return string(ai.Ollama) }

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (a *Adapter) Complete(ctx context.Context, prompt ai.Prompt) (*ai.Completion, error) {
	body := generateRequest{
		Model:  a.config.Model,
		Prompt: prompt.User,
		System: prompt.System,
		Stream: false,
		Options: generateOptions{
			Temperature: a.config.Temperature,
			TopP:        0.9,
			NumPredict:  a.config.MaxTokens,
		},
	}

	url := fmt.Sprintf("%s/api/generate", a.config.BaseURL)

	var resp generateResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, nil, body, &resp); err != nil {
		return nil, err
	}

	return &ai.Completion{
		Text:         strings.TrimSpace(resp.Response),
		Model:        resp.Model,
		InputTokens:  resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
		HasUsage:     resp.PromptEvalCount > 0 || resp.EvalCount > 0,
	}, nil
}

func (a *Adapter) Models(ctx context.Context) ([]string, error) {
	var resp struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	url := fmt.Sprintf("%s/api/tags", a.config.BaseURL)
	if err := httpclient.SendRequest(ctx, a.client, "GET", url, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("ollama tags error: %w", err)
	}

	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// Health probes the local server's tag listing. A running server with no
// installed models counts as unavailable, matching what generation needs.
func (a *Adapter) Health(ctx context.Context) error {
	models, err := a.Models(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return fmt.Errorf("ollama is running but no models are installed")
	}
	return nil
}
