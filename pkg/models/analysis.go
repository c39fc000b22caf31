package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the per-clause ordinal risk classification.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// OverallRisk is the aggregate verdict for a whole contract.
type OverallRisk string

const (
	OverallHigh   OverallRisk = "High Risk"
	OverallMedium OverallRisk = "Medium Risk"
	OverallLow    OverallRisk = "Low Risk"
)

// CategoryGeneral is assigned when no category keyword matches a clause.
const CategoryGeneral = "General"

// Enrichment statuses recorded next to each explanation and suggestion.
const (
	EnrichmentOK            = "ok"
	EnrichmentSkipped       = "skipped"
	EnrichmentNotConfigured = "not_configured"
	EnrichmentAuthFailed    = "auth_failed"
	EnrichmentRateLimited   = "rate_limited"
	EnrichmentFailed        = "failed"
)

// ClauseAnalysis is the result for one clause. Index is 1-based and follows document order.
type ClauseAnalysis struct {
	Index             int       `db:"clause_index"       json:"index"`
	Text              string    `db:"text"               json:"text"`
	RiskLevel         RiskLevel `db:"risk_level"         json:"risk_level"`
	Category          string    `db:"category"           json:"category"`
	Explanation       string    `db:"explanation"        json:"explanation"`
	ExplanationStatus string    `db:"explanation_status" json:"explanation_status"`
	Suggestion        string    `db:"suggestion"         json:"suggestion"`
	SuggestionStatus  string    `db:"suggestion_status"  json:"suggestion_status"`
}

// RiskCounts holds the number of clauses at each risk level.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Report is the full analysis of one contract.
type Report struct {
	ID        uuid.UUID        `db:"id"         json:"id"`
	TenantID  uuid.UUID        `db:"tenant_id"  json:"tenant_id"`
	JobID     *uuid.UUID       `db:"job_id"     json:"job_id,omitempty"`
	Filename  string           `db:"filename"   json:"filename"`
	Language  string           `db:"language"   json:"language"`
	Overall   OverallRisk      `db:"overall"    json:"overall_risk"`
	Counts    RiskCounts       `json:"counts"`
	Provider  string           `db:"provider"   json:"provider,omitempty"`
	Model     string           `db:"model"      json:"model,omitempty"`
	Clauses   []ClauseAnalysis `json:"clauses"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// Levels returns the risk level of every clause in document order.
func (r *Report) Levels() []RiskLevel {
	levels := make([]RiskLevel, len(r.Clauses))
	for i, c := range r.Clauses {
		levels[i] = c.RiskLevel
	}
	return levels
}
