// Package models contains shared data models used across the ClauseCheck codebase.
package models

import "context"

// ExplanationProvider is the interface every LLM integration must implement.
// Never call specific providers directly; inject this interface.
type ExplanationProvider interface {
	// Explain restates a contract clause in plain business English.
	Explain(ctx context.Context, clause string) (string, error)
	// Suggest proposes a more balanced alternative wording for a clause.
	Suggest(ctx context.Context, clause string) (string, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
	// Model returns the model the provider sends requests to.
	Model() string
}
