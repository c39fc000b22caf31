package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/clausecheck/internal/ai/llmhttp"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// Provider implements models.ExplanationProvider using Ollama.
type Provider struct {
	cfg    config.OllamaConfig
	url    string
	client *llmhttp.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/api/generate",
		client: llmhttp.NewClient(nil),
	}
}

func (p *Provider) Name() string  { return "ollama" }
func (p *Provider) Model() string { return p.cfg.Model }

func (p *Provider) Explain(ctx context.Context, clause string) (string, error) {
	return p.complete(ctx, llmhttp.ExplainPrompt(clause))
}

func (p *Provider) Suggest(ctx context.Context, clause string) (string, error) {
	return p.complete(ctx, llmhttp.SuggestPrompt(clause))
}

func (p *Provider) Translate(ctx context.Context, text, sourceLanguage string) (string, error) {
	return p.complete(ctx, llmhttp.TranslatePrompt(text, sourceLanguage))
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *Provider) complete(ctx context.Context, prompt llmhttp.Prompt) (string, error) {
	req := generateRequest{
		Model:  p.cfg.Model,
		Prompt: prompt.Text,
		Options: generateOptions{
			Temperature: prompt.Temperature,
			NumPredict:  prompt.MaxTokens,
		},
	}

	var resp generateResponse
	if err := p.client.PostJSON(ctx, p.url, nil, req, &resp); err != nil {
		return "", fmt.Errorf("ollama %s: %w", prompt.Kind, err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama %s: %w: %s", prompt.Kind, llmhttp.ErrInvalidResponse, resp.Error)
	}
	text := strings.TrimSpace(resp.Response)
	if text == "" {
		return "", fmt.Errorf("ollama %s: %w: empty response", prompt.Kind, llmhttp.ErrInvalidResponse)
	}
	return text, nil
}

var _ models.ExplanationProvider = (*Provider)(nil)
