package ai

import (
	"context"
	"time"

	"github.com/kiranshivaraju/clausecheck/internal/normalize"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// Translator returns a document translator backed by p when p can translate.
// Each call is bounded by timeout; a non-positive timeout leaves it unbounded.
// The boolean is false for providers without translation support, such as
// Unconfigured.
func Translator(p models.ExplanationProvider, timeout time.Duration) (normalize.Translator, bool) {
	t, ok := p.(normalize.Translator)
	if !ok {
		return nil, false
	}
	if timeout <= 0 {
		return t, true
	}
	return normalize.TranslatorFunc(func(ctx context.Context, text, sourceLanguage string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return t.Translate(ctx, text, sourceLanguage)
	}), true
}
