package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/clausecheck/internal/ai/llmhttp"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// apiVersion is the Messages API version this client speaks.
const apiVersion = "2023-06-01"

// Provider implements models.ExplanationProvider using Anthropic.
type Provider struct {
	cfg    config.AnthropicConfig
	url    string
	client *llmhttp.Client
}

func NewProvider(cfg config.AnthropicConfig) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.anthropic.com"
	}
	return &Provider{
		cfg:    cfg,
		url:    strings.TrimRight(base, "/") + "/v1/messages",
		client: llmhttp.NewClient(nil),
	}
}

func (p *Provider) Name() string  { return "anthropic" }
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

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *Provider) complete(ctx context.Context, prompt llmhttp.Prompt) (string, error) {
	req := messagesRequest{
		Model:       p.cfg.Model,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
		Messages:    []message{{Role: "user", Content: prompt.Text}},
	}

	header := http.Header{}
	header.Set("x-api-key", p.cfg.APIKey)
	header.Set("anthropic-version", apiVersion)

	var resp messagesResponse
	if err := p.client.PostJSON(ctx, p.url, header, req, &resp); err != nil {
		return "", fmt.Errorf("anthropic %s: %w", prompt.Kind, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("anthropic %s: %w: no text content", prompt.Kind, llmhttp.ErrInvalidResponse)
	}
	return text, nil
}

var _ models.ExplanationProvider = (*Provider)(nil)
