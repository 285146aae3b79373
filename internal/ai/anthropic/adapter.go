package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/config"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/httpclient"
)

const apiVersion = "2023-06-01"

func init() {
	ai.Register(string(ai.Anthropic), NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client *http.Client
}

func NewAdapter(cfg config.ProviderConfig) (ai.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Adapter{
		config: cfg,
		client: &http.Client{},
	}, nil
}

func (a *Adapter) Name() string { return a.config.Name }
func (a *Adapter) Type() string { return string(ai.Anthropic) }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": apiVersion,
	}
}

func (a *Adapter) Complete(ctx context.Context, prompt ai.Prompt) (*ai.Completion, error) {
	if a.config.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key not configured")
	}

	maxTokens := a.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2500
	}

	body := messagesRequest{
		Model:       a.config.Model,
		Messages:    []message{{Role: "user", Content: prompt.User}},
		System:      prompt.System,
		MaxTokens:   maxTokens,
		Temperature: a.config.Temperature,
	}

	url := fmt.Sprintf("%s/messages", a.config.BaseURL)

	var resp messagesResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, a.headers(), body, &resp); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}

	return &ai.Completion{
		Text:         strings.TrimSpace(text.String()),
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		HasUsage:     resp.Usage.InputTokens > 0 || resp.Usage.OutputTokens > 0,
	}, nil
}

func (a *Adapter) Models(ctx context.Context) ([]string, error) {
	return []string{
		"claude-3-opus-20240229",
		"claude-3-sonnet-20240229",
		"claude-3-haiku-20240307",
	}, nil
}

// Health uses the model-list endpoint: it requires auth and verifies
// connectivity without burning completion tokens.
func (a *Adapter) Health(ctx context.Context) error {
	if a.config.APIKey == "" {
		return fmt.Errorf("anthropic API key not configured")
	}

	url := fmt.Sprintf("%s/models?limit=1", a.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", a.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}
