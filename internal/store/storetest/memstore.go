// Package storetest provides an in-memory store.Store for handler and service tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/clausecheck/internal/store"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// StatusUpdate records one UpdateJobStatus call.
type StatusUpdate struct {
	ID       uuid.UUID
	Status   string
	ErrMsg   string
	ReportID *uuid.UUID
}

// MemStore is a goroutine-safe in-memory Store. Set the *Err fields to make
// the matching method fail.
type MemStore struct {
	mu sync.Mutex

	Tenant  models.Tenant
	Keys    map[uuid.UUID]*models.APIKey
	Jobs    map[uuid.UUID]*models.Job
	Reports map[uuid.UUID]*models.Report
	Updates []StatusUpdate

	PingErr         error
	CreateJobErr    error
	CreateReportErr error
	UpdateStatusErr error
}

// New returns an empty MemStore with a default tenant.
func New() *MemStore {
	now := time.Now().UTC()
	return &MemStore{
		Tenant:  models.Tenant{ID: uuid.New(), Name: "default", CreatedAt: now, UpdatedAt: now},
		Keys:    make(map[uuid.UUID]*models.APIKey),
		Jobs:    make(map[uuid.UUID]*models.Job),
		Reports: make(map[uuid.UUID]*models.Report),
	}
}

func (s *MemStore) Ping(_ context.Context) error { return s.PingErr }

func (s *MemStore) GetDefaultTenant(_ context.Context) (*models.Tenant, error) {
	t := s.Tenant
	return &t, nil
}

func (s *MemStore) GetAPIKeyByPrefix(_ context.Context, prefix string) ([]*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.APIKey
	for _, k := range s.Keys {
		if k.KeyPrefix == prefix && k.DeletedAt == nil {
			c := *k
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *MemStore) UpdateAPIKeyLastUsed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.Keys[id]; ok {
		now := time.Now().UTC()
		k.LastUsedAt = &now
	}
	return nil
}

func (s *MemStore) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Keys[key.ID]; ok {
		return store.ErrDuplicateKey
	}
	for _, k := range s.Keys {
		if k.TenantID == key.TenantID && k.Name == key.Name && k.DeletedAt == nil {
			return store.ErrDuplicateKey
		}
	}
	c := *key
	s.Keys[key.ID] = &c
	return nil
}

func (s *MemStore) ListAPIKeys(_ context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.APIKey{}
	for _, k := range s.Keys {
		if k.TenantID == tenantID && k.DeletedAt == nil {
			c := *k
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemStore) RevokeAPIKey(_ context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.Keys[id]
	if !ok || k.TenantID != tenantID || k.DeletedAt != nil {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	k.DeletedAt = &now
	return nil
}

func (s *MemStore) CreateReport(_ context.Context, report *models.Report) error {
	if s.CreateReportErr != nil {
		return s.CreateReportErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Reports[report.ID]; ok {
		return store.ErrDuplicateKey
	}
	c := *report
	c.Clauses = append([]models.ClauseAnalysis(nil), report.Clauses...)
	s.Reports[report.ID] = &c
	return nil
}

func (s *MemStore) GetReport(_ context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Reports[id]
	if !ok || r.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	c := *r
	return &c, nil
}

func (s *MemStore) GetReportByJobID(_ context.Context, jobID uuid.UUID, tenantID uuid.UUID) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Reports {
		if r.JobID != nil && *r.JobID == jobID && r.TenantID == tenantID {
			c := *r
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *MemStore) CreateJob(_ context.Context, job *models.Job) error {
	if s.CreateJobErr != nil {
		return s.CreateJobErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *job
	s.Jobs[job.ID] = &c
	return nil
}

func (s *MemStore) GetJob(_ context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.Jobs[id]
	if !ok || j.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	c := *j
	return &c, nil
}

func (s *MemStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status string, opts ...store.JobUpdateOption) error {
	if s.UpdateStatusErr != nil {
		return s.UpdateStatusErr
	}
	params := store.ApplyJobUpdateOptions(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.Jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	if !store.ValidTransition(j.Status, status) {
		return fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, j.Status, status)
	}

	now := time.Now().UTC()
	j.Status = status
	j.UpdatedAt = now
	switch status {
	case models.JobStatusRunning:
		j.StartedAt = &now
	case models.JobStatusCompleted, models.JobStatusFailed:
		j.CompletedAt = &now
	}

	upd := StatusUpdate{ID: id, Status: status, ReportID: params.ReportID}
	if params.ErrorMessage != nil {
		j.ErrorMessage = params.ErrorMessage
		upd.ErrMsg = *params.ErrorMessage
	}
	if params.ReportID != nil {
		j.ReportID = params.ReportID
	}
	s.Updates = append(s.Updates, upd)
	return nil
}

// JobStatus returns the current status of a job, or "" if it does not exist.
func (s *MemStore) JobStatus(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.Jobs[id]; ok {
		return j.Status
	}
	return ""
}

// UpdateCount returns how many status updates have been recorded.
func (s *MemStore) UpdateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Updates)
}

// LastUpdate returns the most recent status update.
func (s *MemStore) LastUpdate() (StatusUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Updates) == 0 {
		return StatusUpdate{}, false
	}
	return s.Updates[len(s.Updates)-1], true
}

var _ store.Store = (*MemStore)(nil)
