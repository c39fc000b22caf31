// Package vllm reaches a self-hosted vLLM server through its OpenAI-compatible API.
package vllm

import (
	"strings"

	"github.com/kiranshivaraju/clausecheck/internal/ai/openai"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// Provider implements models.ExplanationProvider using vLLM.
type Provider struct {
	*openai.Provider
}

func NewProvider(cfg config.VLLMConfig) *Provider {
	return &Provider{Provider: openai.New(openai.Options{
		Name:    "vllm",
		BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/v1",
		Model:   cfg.Model,
	})}
}

var _ models.ExplanationProvider = (*Provider)(nil)
