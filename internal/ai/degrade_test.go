package ai_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kiranshivaraju/clausecheck/internal/ai"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDegrade(t *testing.T) {
	tests := []struct {
		name       string
		kind       ai.Kind
		err        error
		wantText   string
		wantStatus string
	}{
		{
			name:       "not configured explanation",
			kind:       ai.KindExplanation,
			err:        ai.ErrProviderNotConfigured,
			wantText:   "⚠️ AI provider not configured. Set AI_PROVIDER and its API key to enable AI explanations.",
			wantStatus: models.EnrichmentNotConfigured,
		},
		{
			name:       "not configured suggestion",
			kind:       ai.KindSuggestion,
			err:        ai.ErrProviderNotConfigured,
			wantText:   "⚠️ AI provider not configured. Set AI_PROVIDER and its API key to enable suggestions.",
			wantStatus: models.EnrichmentNotConfigured,
		},
		{
			name:       "wrapped auth failure",
			kind:       ai.KindExplanation,
			err:        fmt.Errorf("openai explanation: %w: status 401", ai.ErrAuthFailed),
			wantText:   "⚠️ AI provider authentication failed. Check that the configured API key is valid.",
			wantStatus: models.EnrichmentAuthFailed,
		},
		{
			name:       "rate limit",
			kind:       ai.KindSuggestion,
			err:        ai.ErrRateLimited,
			wantText:   "⚠️ AI provider rate limit exceeded. Please try again later.",
			wantStatus: models.EnrichmentRateLimited,
		},
		{
			name:       "timeout explanation",
			kind:       ai.KindExplanation,
			err:        ai.ErrInferenceTimeout,
			wantText:   "⚠️ Unable to generate explanation: timeout",
			wantStatus: models.EnrichmentFailed,
		},
		{
			name:       "unavailable suggestion",
			kind:       ai.KindSuggestion,
			err:        ai.ErrProviderUnavailable,
			wantText:   "⚠️ Suggestions unavailable: unavailable",
			wantStatus: models.EnrichmentFailed,
		},
		{
			name:       "invalid response",
			kind:       ai.KindExplanation,
			err:        ai.ErrInvalidResponse,
			wantText:   "⚠️ Unable to generate explanation: invalid_response",
			wantStatus: models.EnrichmentFailed,
		},
		{
			name:       "unknown error",
			kind:       ai.KindSuggestion,
			err:        errors.New("boom"),
			wantText:   "⚠️ Suggestions unavailable: boom",
			wantStatus: models.EnrichmentFailed,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			text, status := ai.Degrade(tc.kind, tc.err)
			assert.Equal(t, tc.wantText, text)
			assert.Equal(t, tc.wantStatus, status)
		})
	}
}

func TestDegrade_NilError(t *testing.T) {
	text, status := ai.Degrade(ai.KindExplanation, nil)
	assert.Empty(t, text)
	assert.Equal(t, models.EnrichmentOK, status)
}
