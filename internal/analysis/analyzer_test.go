package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/clausecheck/internal/ai"
	"github.com/kiranshivaraju/clausecheck/internal/ai/mock"
	"github.com/kiranshivaraju/clausecheck/internal/cache"
	"github.com/kiranshivaraju/clausecheck/internal/cache/cachetest"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

const employmentContract = "EMPLOYMENT AGREEMENT\n" +
	"1. The Employer may terminate this agreement without cause at any time.\n" +
	"2. Confidentiality obligations of the Employee shall be indefinite in duration.\n" +
	"3. Payment is due monthly on the first business day of each calendar month.\n" +
	"4. Either party may renew this agreement by mutual agreement in writing."

func TestAnalyze_EmploymentContract(t *testing.T) {
	a := NewAnalyzer(nil)

	report, err := a.Analyze(context.Background(), employmentContract, Options{Filename: "employment.txt"})
	require.NoError(t, err)

	got := make([]models.RiskLevel, 0, len(report.Clauses))
	categories := make([]string, 0, len(report.Clauses))
	for _, c := range report.Clauses {
		got = append(got, c.RiskLevel)
		categories = append(categories, c.Category)
	}
	want := []models.RiskLevel{models.RiskHigh, models.RiskMedium, models.RiskLow, models.RiskLow}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("risk levels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Termination", "Confidentiality", "General", "General"}, categories)

	assert.Equal(t, models.OverallMedium, report.Overall)
	assert.Equal(t, models.RiskCounts{High: 1, Medium: 1, Low: 2}, report.Counts)
	assert.Equal(t, "employment.txt", report.Filename)
	assert.Equal(t, "English", report.Language)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Empty(t, report.Provider)

	for i, c := range report.Clauses {
		assert.Equal(t, i+1, c.Index)
		assert.Empty(t, c.Explanation)
		assert.Equal(t, models.EnrichmentSkipped, c.ExplanationStatus)
		assert.Equal(t, models.EnrichmentSkipped, c.SuggestionStatus)
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	report, err := NewAnalyzer(nil).Analyze(context.Background(), "  \n ", Options{Enrich: true})
	require.NoError(t, err)
	assert.Empty(t, report.Clauses)
	assert.Equal(t, models.OverallLow, report.Overall)
}

func TestAnalyze_Enrich(t *testing.T) {
	p := mock.NewMockProvider()
	a := NewAnalyzer(nil, WithProvider(p))

	report, err := a.Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)

	require.Len(t, report.Clauses, 4)
	assert.Equal(t, 8, p.Calls())
	assert.Equal(t, "mock", report.Provider)
	assert.Equal(t, "mock-v1", report.Model)
	for _, c := range report.Clauses {
		assert.Equal(t, "Mock explanation: this clause limits your rights.", c.Explanation)
		assert.Equal(t, "Mock suggestion: make the obligation mutual.", c.Suggestion)
		assert.Equal(t, models.EnrichmentOK, c.ExplanationStatus)
		assert.Equal(t, models.EnrichmentOK, c.SuggestionStatus)
	}
}

func TestAnalyze_EnrichEachClauseGetsItsOwnOutput(t *testing.T) {
	p := &mock.MockProvider{
		Name_: "echo",
		ExplainFunc: func(_ context.Context, clause string) (string, error) {
			return "explain: " + clause, nil
		},
		SuggestFunc: func(_ context.Context, clause string) (string, error) {
			return "suggest: " + clause, nil
		},
	}
	report, err := NewAnalyzer(nil, WithProvider(p), WithWorkers(3)).
		Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)

	for _, c := range report.Clauses {
		assert.Equal(t, "explain: "+c.Text, c.Explanation)
		assert.Equal(t, "suggest: "+c.Text, c.Suggestion)
	}
}

func TestAnalyze_Degraded(t *testing.T) {
	tests := []struct {
		name            string
		provider        models.ExplanationProvider
		wantExplanation string
		wantSuggestion  string
		wantStatus      string
	}{
		{
			name:            "not configured",
			provider:        ai.Unconfigured{},
			wantExplanation: "⚠️ AI provider not configured. Set AI_PROVIDER and its API key to enable AI explanations.",
			wantSuggestion:  "⚠️ AI provider not configured. Set AI_PROVIDER and its API key to enable suggestions.",
			wantStatus:      models.EnrichmentNotConfigured,
		},
		{
			name:            "auth failed",
			provider:        mock.NewFailingProvider(ai.ErrAuthFailed),
			wantExplanation: "⚠️ AI provider authentication failed. Check that the configured API key is valid.",
			wantSuggestion:  "⚠️ AI provider authentication failed. Check that the configured API key is valid.",
			wantStatus:      models.EnrichmentAuthFailed,
		},
		{
			name:            "unavailable",
			provider:        mock.NewFailingProvider(ai.ErrProviderUnavailable),
			wantExplanation: "⚠️ Unable to generate explanation: unavailable",
			wantSuggestion:  "⚠️ Suggestions unavailable: unavailable",
			wantStatus:      models.EnrichmentFailed,
		},
		{
			name:            "plain error",
			provider:        mock.NewFailingProvider(errors.New("boom")),
			wantExplanation: "⚠️ Unable to generate explanation: boom",
			wantSuggestion:  "⚠️ Suggestions unavailable: boom",
			wantStatus:      models.EnrichmentFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewAnalyzer(nil, WithProvider(tt.provider)).
				Analyze(context.Background(), employmentContract, Options{Enrich: true})
			require.NoError(t, err)
			require.Len(t, report.Clauses, 4)
			for _, c := range report.Clauses {
				assert.Equal(t, tt.wantExplanation, c.Explanation)
				assert.Equal(t, tt.wantSuggestion, c.Suggestion)
				assert.Equal(t, tt.wantStatus, c.ExplanationStatus)
				assert.Equal(t, tt.wantStatus, c.SuggestionStatus)
			}
			assert.Equal(t, models.OverallMedium, report.Overall)
		})
	}
}

func TestAnalyze_DefaultsToUnconfigured(t *testing.T) {
	report, err := NewAnalyzer(nil).Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.Equal(t, "none", report.Provider)
	assert.Equal(t, models.EnrichmentNotConfigured, report.Clauses[0].ExplanationStatus)
}

func TestAnalyze_InferenceTimeout(t *testing.T) {
	a := NewAnalyzer(nil, WithProvider(mock.NewTimeoutProvider()), WithInferenceTimeout(20*time.Millisecond))

	report, err := a.Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	for _, c := range report.Clauses {
		assert.Equal(t, "⚠️ Unable to generate explanation: timeout", c.Explanation)
		assert.Equal(t, "⚠️ Suggestions unavailable: timeout", c.Suggestion)
	}
}

func TestAnalyze_RawDeadlineIsReportedAsTimeout(t *testing.T) {
	p := &mock.MockProvider{
		Name_: "slow",
		ExplainFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
		SuggestFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	a := NewAnalyzer(nil, WithProvider(p), WithInferenceTimeout(10*time.Millisecond))

	report, err := a.Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.Equal(t, "⚠️ Unable to generate explanation: timeout", report.Clauses[0].Explanation)
}

func TestAnalyze_Cancelled(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := NewAnalyzer(nil).Analyze(ctx, employmentContract, Options{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, report)
	})

	t.Run("during enrichment", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		p := &mock.MockProvider{
			Name_: "cancelling",
			ExplainFunc: func(ctx context.Context, _ string) (string, error) {
				cancel()
				return "", ctx.Err()
			},
			SuggestFunc: func(ctx context.Context, _ string) (string, error) {
				cancel()
				return "", ctx.Err()
			},
		}

		report, err := NewAnalyzer(nil, WithProvider(p)).Analyze(ctx, employmentContract, Options{Enrich: true})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, report)
	})
}

func TestAnalyze_WorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	call := func(context.Context, string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return "ok", nil
	}
	p := &mock.MockProvider{Name_: "counting", ExplainFunc: call, SuggestFunc: call}

	_, err := NewAnalyzer(nil, WithProvider(p), WithWorkers(2)).
		Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 8, p.Calls())
}

func TestAnalyze_Cache(t *testing.T) {
	c := cachetest.New()
	p := mock.NewMockProvider()
	a := NewAnalyzer(nil, WithProvider(p), WithCache(c, time.Hour))

	_, err := a.Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.Equal(t, 8, p.Calls())
	assert.Equal(t, 8, c.Len())

	key := cache.ExplanationKey("mock", "mock-v1", "explanation",
		"The Employer may terminate this agreement without cause at any time.")
	assert.Equal(t, []byte("Mock explanation: this clause limits your rights."), c.Values[key])
	assert.Equal(t, time.Hour, c.TTLs[key])

	report, err := a.Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.Equal(t, 8, p.Calls(), "second run should be served from cache")
	assert.Equal(t, "Mock explanation: this clause limits your rights.", report.Clauses[0].Explanation)
}

func TestAnalyze_CacheSkipsFailures(t *testing.T) {
	c := cachetest.New()
	a := NewAnalyzer(nil, WithProvider(mock.NewFailingProvider(ai.ErrRateLimited)), WithCache(c, time.Hour))

	_, err := a.Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestAnalyze_CacheErrorsFailOpen(t *testing.T) {
	c := cachetest.New()
	c.Err = errors.New("redis down")
	p := mock.NewMockProvider()

	report, err := NewAnalyzer(nil, WithProvider(p), WithCache(c, time.Hour)).
		Analyze(context.Background(), employmentContract, Options{Enrich: true})
	require.NoError(t, err)
	assert.Equal(t, models.EnrichmentOK, report.Clauses[0].ExplanationStatus)
}

func TestAnalyze_CustomSegmenter(t *testing.T) {
	seg := segmenterFunc(func(string) []string {
		return []string{"Licensor grants a perpetual license to all derivative works."}
	})

	report, err := NewAnalyzer(nil, WithSegmenter(seg)).Analyze(context.Background(), "ignored", Options{})
	require.NoError(t, err)
	require.Len(t, report.Clauses, 1)
	assert.Equal(t, models.RiskHigh, report.Clauses[0].RiskLevel)
	assert.Equal(t, models.OverallHigh, report.Overall)
}

func TestClassify(t *testing.T) {
	clauses := NewAnalyzer(nil).Classify(employmentContract)
	require.Len(t, clauses, 4)
	assert.Equal(t, models.RiskHigh, clauses[0].RiskLevel)
	assert.Equal(t, models.EnrichmentSkipped, clauses[0].ExplanationStatus)
}
