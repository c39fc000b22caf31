// Package main is the entrypoint for the ClauseCheck API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/clausecheck/internal/ai"
	"github.com/kiranshivaraju/clausecheck/internal/analysis"
	"github.com/kiranshivaraju/clausecheck/internal/api"
	"github.com/kiranshivaraju/clausecheck/internal/api/handler"
	mw "github.com/kiranshivaraju/clausecheck/internal/api/middleware"
	"github.com/kiranshivaraju/clausecheck/internal/cache"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/kiranshivaraju/clausecheck/internal/normalize"
	"github.com/kiranshivaraju/clausecheck/internal/risk"
	"github.com/kiranshivaraju/clausecheck/internal/rules"
	"github.com/kiranshivaraju/clausecheck/internal/segment"
	"github.com/kiranshivaraju/clausecheck/internal/store"
	"github.com/kiranshivaraju/clausecheck/internal/template"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run embedded migrations
	if err := store.RunMigrations(cfg.Database.URL, ""); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create AI provider
	aiProvider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", aiProvider.Name())

	// 6. Build handlers over the Postgres store
	pgStore := store.NewPostgresStore(pool)
	deps, err := newDependencies(cfg, pgStore, redisCache, aiProvider)
	if err != nil {
		return err
	}
	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newDependencies assembles the analysis pipeline and every route handler.
func newDependencies(cfg *config.Config, st store.Store, ca cache.Cache, provider models.ExplanationProvider) (api.Dependencies, error) {
	ruleSet, err := loadRules(cfg.Analysis.RulesPath)
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("load rules: %w", err)
	}

	seg, err := segment.New()
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("create segmenter: %w", err)
	}

	analyzer := analysis.NewAnalyzer(risk.NewClassifier(ruleSet),
		analysis.WithProvider(provider),
		analysis.WithCache(ca, cfg.Analysis.CacheTTL),
		analysis.WithWorkers(cfg.Analysis.Workers),
		analysis.WithInferenceTimeout(cfg.AI.InferenceTimeout),
		analysis.WithSegmenter(seg),
	)
	normOpts := []normalize.Option{normalize.WithMaxBytes(cfg.Server.MaxUploadBytes)}
	if tr, ok := ai.Translator(provider, cfg.AI.InferenceTimeout); ok {
		normOpts = append(normOpts, normalize.WithTranslator(tr))
		slog.Info("translation enabled", "provider", provider.Name())
	} else {
		slog.Warn("translation disabled; non-English contracts are analyzed untranslated", "provider", provider.Name())
	}
	normalizer := normalize.New(normOpts...)
	svc := analysis.NewService(analyzer, normalizer, st, ca)

	templates, err := template.New()
	if err != nil {
		return api.Dependencies{}, fmt.Errorf("load templates: %w", err)
	}

	maxUpload := cfg.Server.MaxUploadBytes
	return api.Dependencies{
		Auth:      mw.NewAuth(st),
		RateLimit: mw.NewRateLimit(ca, cfg.Server.RateLimitPerMin),

		HealthHandler:   handler.NewHealthHandler(st, ca),
		AnalyzeHandler:  handler.NewAnalyzeHandler(svc, maxUpload),
		PollJobHandler:  handler.NewPollJobHandler(svc),
		ClassifyHandler: handler.NewClassifyHandler(svc, maxUpload),
		GetReport:       handler.NewGetReportHandler(svc),

		ListTemplates:  handler.NewListTemplatesHandler(templates),
		RenderTemplate: handler.NewRenderTemplateHandler(templates),

		CreateKeyHandler: handler.NewCreateKeyHandler(st),
		ListKeysHandler:  handler.NewListKeysHandler(st),
		RevokeKeyHandler: handler.NewRevokeKeyHandler(st),
	}, nil
}

// loadRules returns the embedded rule set unless path names a YAML override.
func loadRules(path string) (*rules.RuleSet, error) {
	if path == "" {
		return rules.Default()
	}
	rs, err := rules.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("rule set loaded", "path", path)
	return rs, nil
}
