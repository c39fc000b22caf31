package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kiranshivaraju/clausecheck/internal/cache"
	"github.com/kiranshivaraju/clausecheck/internal/normalize"
	"github.com/kiranshivaraju/clausecheck/internal/store"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

const (
	jobStatusTTL = 30 * time.Minute
	reportTTL    = time.Hour
)

// Document is a contract submitted for analysis. Data holds an uploaded file;
// when it is nil, Text is analyzed as-is.
type Document struct {
	Filename string
	Language string
	Data     []byte
	Text     string
	Explain  bool
}

// Service runs analyses as tracked jobs and persists their reports.
type Service struct {
	analyzer   *Analyzer
	normalizer *normalize.Normalizer
	store      store.Store
	cache      cache.Cache
}

// NewService creates a new Service.
func NewService(analyzer *Analyzer, normalizer *normalize.Normalizer, st store.Store, ca cache.Cache) *Service {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &Service{
		analyzer:   analyzer,
		normalizer: normalizer,
		store:      st,
		cache:      ca,
	}
}

// Analyzer returns the pipeline the service runs.
func (s *Service) Analyzer() *Analyzer { return s.analyzer }

// Submit normalizes doc, creates a pending job, and runs the analysis in a
// background goroutine. Document errors are returned before any job exists.
func (s *Service) Submit(ctx context.Context, tenantID uuid.UUID, doc Document) (*models.Job, error) {
	text, err := s.prepare(ctx, doc)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Type:      models.JobTypeContractAnalysis,
		Status:    models.JobStatusPending,
		Filename:  doc.Filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	_ = s.cache.SetJobStatus(ctx, job.ID, models.JobStatusPending, jobStatusTTL)

	slog.Info("analysis job submitted", "job_id", job.ID, "filename", doc.Filename, "explain", doc.Explain)
	go s.runJob(job.ID, tenantID, doc, text)

	return job, nil
}

// runJob always leaves the job completed or failed, including after a panic.
func (s *Service) runJob(jobID, tenantID uuid.UUID, doc Document, text string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in analysis job", "error", r, "job_id", jobID)
			s.failJob(ctx, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	if err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusRunning); err != nil {
		slog.Error("marking job running", "job_id", jobID, "error", err)
		return
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusRunning, jobStatusTTL)

	start := time.Now()
	report, err := s.analyzer.Analyze(ctx, text, Options{
		Enrich:   doc.Explain,
		Filename: doc.Filename,
		Language: doc.Language,
	})
	if err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("analyzing contract: %v", err))
		return
	}

	report.TenantID = tenantID
	report.JobID = &jobID
	if err := s.saveReport(ctx, report); err != nil {
		s.failJob(ctx, jobID, fmt.Sprintf("storing report: %v", err))
		return
	}

	if err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusCompleted, store.WithReportID(report.ID)); err != nil {
		slog.Error("marking job completed", "job_id", jobID, "error", err)
		return
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusCompleted, jobStatusTTL)

	slog.Info("analysis job completed",
		"job_id", jobID,
		"report_id", report.ID,
		"clauses", len(report.Clauses),
		"overall_risk", string(report.Overall),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (s *Service) failJob(ctx context.Context, jobID uuid.UUID, msg string) {
	slog.Warn("analysis job failed", "job_id", jobID, "error", msg)
	if err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed, store.WithErrorMessage(msg)); err != nil {
		slog.Error("marking job failed", "job_id", jobID, "error", err)
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
}

// AnalyzeNow runs the pipeline synchronously and persists the report.
func (s *Service) AnalyzeNow(ctx context.Context, tenantID uuid.UUID, doc Document) (*models.Report, error) {
	text, err := s.prepare(ctx, doc)
	if err != nil {
		return nil, err
	}

	report, err := s.analyzer.Analyze(ctx, text, Options{
		Enrich:   doc.Explain,
		Filename: doc.Filename,
		Language: doc.Language,
	})
	if err != nil {
		return nil, err
	}

	report.TenantID = tenantID
	if err := s.saveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}
	return report, nil
}

// Job returns a job owned by tenantID.
func (s *Service) Job(ctx context.Context, tenantID, jobID uuid.UUID) (*models.Job, error) {
	return s.store.GetJob(ctx, jobID, tenantID)
}

// Report returns a stored report, served from the cache when present.
func (s *Service) Report(ctx context.Context, tenantID, reportID uuid.UUID) (*models.Report, error) {
	key := cache.ReportKey(tenantID, reportID)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var report models.Report
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
	}

	report, err := s.store.GetReport(ctx, reportID, tenantID)
	if err != nil {
		return nil, err
	}
	s.cacheReport(ctx, report)
	return report, nil
}

// ReportByJob returns the report produced by a completed job.
func (s *Service) ReportByJob(ctx context.Context, tenantID, jobID uuid.UUID) (*models.Report, error) {
	return s.store.GetReportByJobID(ctx, jobID, tenantID)
}

func (s *Service) prepare(ctx context.Context, doc Document) (string, error) {
	if doc.Data != nil {
		return s.normalizer.Normalize(ctx, doc.Filename, doc.Data, doc.Language)
	}
	return s.normalizer.NormalizeText(ctx, doc.Text, doc.Language)
}

func (s *Service) saveReport(ctx context.Context, report *models.Report) error {
	if err := s.store.CreateReport(ctx, report); err != nil {
		return err
	}
	s.cacheReport(ctx, report)
	return nil
}

func (s *Service) cacheReport(ctx context.Context, report *models.Report) {
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, cache.ReportKey(report.TenantID, report.ID), data, reportTTL)
}
