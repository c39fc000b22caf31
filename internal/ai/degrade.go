package ai

import (
	"errors"
	"fmt"

	"github.com/kiranshivaraju/clausecheck/internal/ai/llmhttp"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// Kind selects between an explanation and a suggestion.
type Kind = llmhttp.Kind

const (
	KindExplanation = llmhttp.KindExplanation
	KindSuggestion  = llmhttp.KindSuggestion
)

// Degrade turns a provider failure into the text shown in place of the
// explanation or suggestion, plus the enrichment status recorded beside it.
// A nil err returns an empty string and EnrichmentOK.
func Degrade(kind Kind, err error) (string, string) {
	if err == nil {
		return "", models.EnrichmentOK
	}

	switch {
	case errors.Is(err, ErrProviderNotConfigured):
		target := "AI explanations"
		if kind == KindSuggestion {
			target = "suggestions"
		}
		return fmt.Sprintf("⚠️ AI provider not configured. Set AI_PROVIDER and its API key to enable %s.", target),
			models.EnrichmentNotConfigured
	case errors.Is(err, ErrAuthFailed):
		return "⚠️ AI provider authentication failed. Check that the configured API key is valid.",
			models.EnrichmentAuthFailed
	case errors.Is(err, ErrRateLimited):
		return "⚠️ AI provider rate limit exceeded. Please try again later.",
			models.EnrichmentRateLimited
	}

	if kind == KindSuggestion {
		return "⚠️ Suggestions unavailable: " + errorCategory(err), models.EnrichmentFailed
	}
	return "⚠️ Unable to generate explanation: " + errorCategory(err), models.EnrichmentFailed
}

// errorCategory names err briefly for the degraded text.
func errorCategory(err error) string {
	switch {
	case errors.Is(err, ErrInferenceTimeout):
		return "timeout"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return err.Error()
	}
}
