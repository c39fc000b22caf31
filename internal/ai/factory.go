package ai

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/clausecheck/internal/ai/anthropic"
	"github.com/kiranshivaraju/clausecheck/internal/ai/ollama"
	"github.com/kiranshivaraju/clausecheck/internal/ai/openai"
	"github.com/kiranshivaraju/clausecheck/internal/ai/vllm"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// NewProvider constructs the appropriate explanation provider based on config.
// Called once at startup by the server and the CLI.
func NewProvider(cfg config.AIConfig) (models.ExplanationProvider, error) {
	switch cfg.Provider {
	case config.ProviderNone:
		return Unconfigured{}, nil
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "vllm":
		return vllm.NewProvider(cfg.VLLM), nil
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return Unconfigured{}, nil
		}
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return Unconfigured{}, nil
		}
		return anthropic.NewProvider(cfg.Anthropic), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of none, ollama, vllm, openai, anthropic", cfg.Provider)
	}
}

// Unconfigured is the provider used when no LLM is set up. Every call fails
// with ErrProviderNotConfigured so the pipeline degrades instead of erroring.
type Unconfigured struct{}

func (Unconfigured) Name() string  { return config.ProviderNone }
func (Unconfigured) Model() string { return "" }

func (Unconfigured) Explain(context.Context, string) (string, error) {
	return "", ErrProviderNotConfigured
}

func (Unconfigured) Suggest(context.Context, string) (string, error) {
	return "", ErrProviderNotConfigured
}

var _ models.ExplanationProvider = Unconfigured{}
