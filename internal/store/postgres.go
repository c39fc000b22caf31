package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) GetDefaultTenant(ctx context.Context) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM tenants WHERE name = 'default' LIMIT 1`,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default tenant: %w", err)
	}
	return &t, nil
}

// --- API Keys ---

const apiKeyColumns = `id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at`

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	return collectAPIKeys(rows)
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.TenantID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys
		 WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return collectAPIKeys(rows)
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectAPIKeys(rows pgx.Rows) ([]*models.APIKey, error) {
	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.APIKey, error) {
		var k models.APIKey
		err := row.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt)
		return &k, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan api key: %w", err)
	}
	return keys, nil
}

// --- Reports ---

// CreateReport stores a report and its clauses in one transaction.
func (s *PostgresStore) CreateReport(ctx context.Context, report *models.Report) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create report: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO reports (id, tenant_id, job_id, filename, language, overall,
		   high_count, medium_count, low_count, provider, model, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		report.ID, report.TenantID, report.JobID, report.Filename, report.Language, string(report.Overall),
		report.Counts.High, report.Counts.Medium, report.Counts.Low,
		report.Provider, report.Model, report.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create report: %w", err)
	}

	if len(report.Clauses) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"report_clauses"},
			[]string{"report_id", "clause_index", "text", "risk_level", "category",
				"explanation", "explanation_status", "suggestion", "suggestion_status"},
			pgx.CopyFromSlice(len(report.Clauses), func(i int) ([]any, error) {
				c := report.Clauses[i]
				return []any{report.ID, c.Index, c.Text, string(c.RiskLevel), c.Category,
					c.Explanation, c.ExplanationStatus, c.Suggestion, c.SuggestionStatus}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("create report clauses: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create report: %w", err)
	}
	return nil
}

const reportColumns = `id, tenant_id, job_id, filename, language, overall,
	high_count, medium_count, low_count, provider, model, created_at`

func (s *PostgresStore) GetReport(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Report, error) {
	return s.getReport(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1 AND tenant_id = $2`, id, tenantID)
}

func (s *PostgresStore) GetReportByJobID(ctx context.Context, jobID uuid.UUID, tenantID uuid.UUID) (*models.Report, error) {
	return s.getReport(ctx, `SELECT `+reportColumns+` FROM reports WHERE job_id = $1 AND tenant_id = $2`, jobID, tenantID)
}

func (s *PostgresStore) getReport(ctx context.Context, query string, args ...any) (*models.Report, error) {
	var r models.Report
	var overall string
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&r.ID, &r.TenantID, &r.JobID, &r.Filename, &r.Language, &overall,
		&r.Counts.High, &r.Counts.Medium, &r.Counts.Low, &r.Provider, &r.Model, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	r.Overall = models.OverallRisk(overall)

	rows, err := s.pool.Query(ctx,
		`SELECT clause_index, text, risk_level, category, explanation, explanation_status, suggestion, suggestion_status
		 FROM report_clauses WHERE report_id = $1 ORDER BY clause_index`, r.ID)
	if err != nil {
		return nil, fmt.Errorf("get report clauses: %w", err)
	}
	clauses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ClauseAnalysis, error) {
		var c models.ClauseAnalysis
		var level string
		err := row.Scan(&c.Index, &c.Text, &level, &c.Category,
			&c.Explanation, &c.ExplanationStatus, &c.Suggestion, &c.SuggestionStatus)
		c.RiskLevel = models.RiskLevel(level)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan report clause: %w", err)
	}
	r.Clauses = clauses
	return &r, nil
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, tenant_id, type, status, filename, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.TenantID, job.Type, job.Status, job.Filename, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, type, status, filename, report_id, error_message, started_at, completed_at, created_at, updated_at
		 FROM jobs WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&j.ID, &j.TenantID, &j.Type, &j.Status, &j.Filename, &j.ReportID, &j.ErrorMessage,
		&j.StartedAt, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string, opts ...JobUpdateOption) error {
	params := ApplyJobUpdateOptions(opts...)

	var currentStatus string
	err := s.pool.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&currentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}

	if !ValidTransition(currentStatus, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, currentStatus, status)
	}

	now := time.Now().UTC()
	query := `UPDATE jobs SET status = $2, updated_at = $3`
	args := []any{id, status, now}
	argIdx := 4

	if status == models.JobStatusRunning {
		query += fmt.Sprintf(", started_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if status == models.JobStatusCompleted || status == models.JobStatusFailed {
		query += fmt.Sprintf(", completed_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if params.ErrorMessage != nil {
		query += fmt.Sprintf(", error_message = $%d", argIdx)
		args = append(args, *params.ErrorMessage)
		argIdx++
	}
	if params.ReportID != nil {
		query += fmt.Sprintf(", report_id = $%d", argIdx)
		args = append(args, *params.ReportID)
	}

	// Only apply if no one else moved the job since the read above.
	query += fmt.Sprintf(" WHERE id = $1 AND status = $%d", len(args)+1)
	args = append(args, currentStatus)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, currentStatus)
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
