// Package openai implements models.ExplanationProvider over the OpenAI chat
// completions API. Any OpenAI-compatible server can be reached through Options.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/clausecheck/internal/ai/llmhttp"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// Options configures a chat completions client.
type Options struct {
	Name    string // reported by Name(); defaults to "openai"
	BaseURL string // e.g. https://api.openai.com/v1
	APIKey  string // sent as a Bearer token when set
	Model   string
	HTTP    *http.Client
}

// Provider implements models.ExplanationProvider using OpenAI.
type Provider struct {
	name   string
	url    string
	apiKey string
	model  string
	client *llmhttp.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return New(Options{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model})
}

// New builds a Provider from explicit options.
func New(opts Options) *Provider {
	if opts.Name == "" {
		opts.Name = "openai"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	return &Provider{
		name:   opts.Name,
		url:    strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		apiKey: opts.APIKey,
		model:  opts.Model,
		client: llmhttp.NewClient(opts.HTTP),
	}
}

func (p *Provider) Name() string  { return p.name }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Explain(ctx context.Context, clause string) (string, error) {
	return p.complete(ctx, llmhttp.ExplainPrompt(clause))
}

func (p *Provider) Suggest(ctx context.Context, clause string) (string, error) {
	return p.complete(ctx, llmhttp.SuggestPrompt(clause))
}

// Translate renders text in English. It lets the provider serve as the
// document translator for non-English uploads.
func (p *Provider) Translate(ctx context.Context, text, sourceLanguage string) (string, error) {
	return p.complete(ctx, llmhttp.TranslatePrompt(text, sourceLanguage))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *Provider) complete(ctx context.Context, prompt llmhttp.Prompt) (string, error) {
	req := chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt.Text}},
		Temperature: prompt.Temperature,
		MaxTokens:   prompt.MaxTokens,
	}

	header := http.Header{}
	if p.apiKey != "" {
		header.Set("Authorization", "Bearer "+p.apiKey)
	}

	var resp chatResponse
	if err := p.client.PostJSON(ctx, p.url, header, req, &resp); err != nil {
		return "", fmt.Errorf("%s %s: %w", p.name, prompt.Kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s %s: %w: no choices", p.name, prompt.Kind, llmhttp.ErrInvalidResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s %s: %w: empty content", p.name, prompt.Kind, llmhttp.ErrInvalidResponse)
	}
	return text, nil
}

var _ models.ExplanationProvider = (*Provider)(nil)
