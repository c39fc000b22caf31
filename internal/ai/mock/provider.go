package mock

import (
	"context"
	"sync/atomic"

	"github.com/kiranshivaraju/clausecheck/internal/ai"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// MockProvider satisfies models.ExplanationProvider for testing.
type MockProvider struct {
	Name_       string
	Model_      string
	ExplainFunc func(ctx context.Context, clause string) (string, error)
	SuggestFunc func(ctx context.Context, clause string) (string, error)

	// TranslateFunc backs Translate; when nil the text is returned unchanged.
	TranslateFunc func(ctx context.Context, text, sourceLanguage string) (string, error)

	calls atomic.Int64
}

func (m *MockProvider) Name() string  { return m.Name_ }
func (m *MockProvider) Model() string { return m.Model_ }

func (m *MockProvider) Explain(ctx context.Context, clause string) (string, error) {
	m.calls.Add(1)
	if m.ExplainFunc != nil {
		return m.ExplainFunc(ctx, clause)
	}
	return "", nil
}

func (m *MockProvider) Suggest(ctx context.Context, clause string) (string, error) {
	m.calls.Add(1)
	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, clause)
	}
	return "", nil
}

// Translate is not counted by Calls.
func (m *MockProvider) Translate(ctx context.Context, text, sourceLanguage string) (string, error) {
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, sourceLanguage)
	}
	return text, nil
}

// Calls reports how many Explain and Suggest calls were made in total.
func (m *MockProvider) Calls() int { return int(m.calls.Load()) }

// NewMockProvider returns a MockProvider with sensible default responses.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock",
		Model_: "mock-v1",
		ExplainFunc: func(_ context.Context, _ string) (string, error) {
			return "Mock explanation: this clause limits your rights.", nil
		},
		SuggestFunc: func(_ context.Context, _ string) (string, error) {
			return "Mock suggestion: make the obligation mutual.", nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_:  "mock-failing",
		Model_: "mock-v1",
		ExplainFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
		SuggestFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock-timeout",
		Model_: "mock-v1",
		ExplainFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
		SuggestFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ai.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockProvider implements ExplanationProvider.
var _ models.ExplanationProvider = (*MockProvider)(nil)
