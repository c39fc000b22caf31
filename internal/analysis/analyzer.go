// Package analysis runs the contract pipeline: segment the text into clauses,
// classify each clause, enrich it with provider explanations, and score the
// whole contract.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kiranshivaraju/clausecheck/internal/ai"
	"github.com/kiranshivaraju/clausecheck/internal/cache"
	"github.com/kiranshivaraju/clausecheck/internal/risk"
	"github.com/kiranshivaraju/clausecheck/internal/segment"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

const (
	DefaultWorkers          = 4
	DefaultInferenceTimeout = 60 * time.Second
	DefaultCacheTTL         = 24 * time.Hour
)

// Segmenter splits contract text into clauses.
type Segmenter interface {
	Segment(text string) []string
}

type segmenterFunc func(string) []string

func (f segmenterFunc) Segment(text string) []string { return f(text) }

// Options control a single Analyze call.
type Options struct {
	Enrich   bool
	Filename string
	Language string
}

// Analyzer is safe for concurrent use once built.
type Analyzer struct {
	classifier *risk.Classifier
	segmenter  Segmenter
	provider   models.ExplanationProvider
	cache      cache.Cache
	cacheTTL   time.Duration
	workers    int
	timeout    time.Duration
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

func WithProvider(p models.ExplanationProvider) AnalyzerOption {
	return func(a *Analyzer) {
		if p != nil {
			a.provider = p
		}
	}
}

// WithCache stores successful provider outputs in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// WithWorkers bounds the number of concurrent provider calls.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithInferenceTimeout bounds each provider call.
func WithInferenceTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithSegmenter(s Segmenter) AnalyzerOption {
	return func(a *Analyzer) {
		if s != nil {
			a.segmenter = s
		}
	}
}

// NewAnalyzer builds an Analyzer. A nil classifier uses the default rule set.
// Without WithProvider every enrichment degrades to the not-configured text.
func NewAnalyzer(classifier *risk.Classifier, opts ...AnalyzerOption) *Analyzer {
	if classifier == nil {
		classifier = risk.NewClassifier(nil)
	}
	a := &Analyzer{
		classifier: classifier,
		segmenter:  segmenterFunc(segment.Segment),
		provider:   ai.Unconfigured{},
		cacheTTL:   DefaultCacheTTL,
		workers:    DefaultWorkers,
		timeout:    DefaultInferenceTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider returns the configured explanation provider.
func (a *Analyzer) Provider() models.ExplanationProvider { return a.provider }

// Analyze produces a report for text. Provider failures never fail the
// analysis; they are degraded into the clause output. A cancelled ctx returns
// ctx.Err() and no report.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clauses := a.classify(a.segmenter.Segment(text))

	if opts.Enrich {
		a.enrich(ctx, clauses)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	report := &models.Report{
		ID:        uuid.New(),
		Filename:  opts.Filename,
		Language:  opts.Language,
		Clauses:   clauses,
		CreatedAt: time.Now().UTC(),
	}
	if report.Language == "" {
		report.Language = "English"
	}
	if opts.Enrich {
		report.Provider = a.provider.Name()
		report.Model = a.provider.Model()
	}
	levels := report.Levels()
	report.Overall = risk.Overall(levels)
	report.Counts = risk.Count(levels)
	return report, nil
}

// Classify segments and classifies text without calling the provider.
func (a *Analyzer) Classify(text string) []models.ClauseAnalysis {
	return a.classify(a.segmenter.Segment(text))
}

func (a *Analyzer) classify(texts []string) []models.ClauseAnalysis {
	clauses := make([]models.ClauseAnalysis, len(texts))
	for i, text := range texts {
		level, category := a.classifier.Classify(text)
		clauses[i] = models.ClauseAnalysis{
			Index:             i + 1,
			Text:              text,
			RiskLevel:         level,
			Category:          category,
			ExplanationStatus: models.EnrichmentSkipped,
			SuggestionStatus:  models.EnrichmentSkipped,
		}
	}
	return clauses
}

// enrich fills in explanations and suggestions. Each goroutine writes only
// its own clause field, so no locking is needed.
func (a *Analyzer) enrich(ctx context.Context, clauses []models.ClauseAnalysis) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range clauses {
		c := &clauses[i]
		g.Go(func() error {
			c.Explanation, c.ExplanationStatus = a.generate(gctx, ai.KindExplanation, c.Index, c.Text)
			return nil
		})
		g.Go(func() error {
			c.Suggestion, c.SuggestionStatus = a.generate(gctx, ai.KindSuggestion, c.Index, c.Text)
			return nil
		})
	}
	_ = g.Wait()
}

// generate returns the provider output for one clause, or its degraded text.
func (a *Analyzer) generate(ctx context.Context, kind ai.Kind, index int, clause string) (string, string) {
	key := cache.ExplanationKey(a.provider.Name(), a.provider.Model(), string(kind), clause)
	if a.cache != nil {
		if cached, ok, err := a.cache.Get(ctx, key); err == nil && ok {
			return string(cached), models.EnrichmentOK
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var (
		out string
		err error
	)
	if kind == ai.KindSuggestion {
		out, err = a.provider.Suggest(callCtx, clause)
	} else {
		out, err = a.provider.Explain(callCtx, clause)
	}
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ai.ErrInferenceTimeout) {
			err = fmt.Errorf("%w: %v", ai.ErrInferenceTimeout, err)
		}
		if !errors.Is(err, ai.ErrProviderNotConfigured) {
			slog.Warn("clause enrichment failed",
				"kind", string(kind),
				"clause_index", index,
				"provider", a.provider.Name(),
				"error", err,
			)
		}
		return ai.Degrade(kind, err)
	}

	if a.cache != nil {
		_ = a.cache.Set(ctx, key, []byte(out), a.cacheTTL)
	}
	return out, models.EnrichmentOK
}
