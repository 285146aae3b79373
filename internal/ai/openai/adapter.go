package openai

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
	ai.Register(string(ai.OpenAI), NewAdapter)
}

type Adapter struct {
	config config.ProviderConfig
	client *http.Client
}

func NewAdapter(cfg config.ProviderConfig) (ai.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Adapter{
		config: cfg,
		client: &http.Client{},
	}, nil
}

func (a *Adapter) Name() string { return a.config.Name }
func (a *Adapter) Type() string { return string(ai.OpenAI) }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []message `json:"messages"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p,omitempty"`
	FrequencyPenalty float64   `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64   `json:"presence_penalty,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (a *Adapter) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}
}

func (a *Adapter) Complete(ctx context.Context, prompt ai.Prompt) (*ai.Completion, error) {
	if a.config.APIKey == "" {
		return nil, fmt.Errorf("openai API key not configured")
	}

	body := chatRequest{
		Model: a.config.Model,
		Messages: []message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		MaxTokens:        a.config.MaxTokens,
		Temperature:      a.config.Temperature,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
	}

	url := fmt.Sprintf("%s/chat/completions", a.config.BaseURL)

	var resp chatResponse
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, a.headers(), body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &ai.Completion{
		Text:         strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		HasUsage:     resp.Usage.TotalTokens > 0,
	}, nil
}

// Models reports the fixed variants the adapter supports; the upstream model
// listing includes hundreds of entries irrelevant to report generation.
func (a *Adapter) Models(ctx context.Context) ([]string, error) {
	return []string{"gpt-4", "gpt-4-turbo", "gpt-4-turbo-preview", "gpt-3.5-turbo"}, nil
}

// Health hits the model-list endpoint: cheap, and it verifies the credential.
func (a *Adapter) Health(ctx context.Context) error {
	if a.config.APIKey == "" {
		return fmt.Errorf("openai API key not configured")
	}

	url := fmt.Sprintf("%s/models", a.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

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
