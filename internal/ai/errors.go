package ai

import "github.com/kiranshivaraju/clausecheck/internal/ai/llmhttp"

// Provider errors. Each provider wraps one of these so callers can match with errors.Is.
var (
	ErrProviderNotConfigured = llmhttp.ErrProviderNotConfigured
	ErrAuthFailed            = llmhttp.ErrAuthFailed
	ErrRateLimited           = llmhttp.ErrRateLimited
	ErrProviderUnavailable   = llmhttp.ErrProviderUnavailable
	ErrInferenceTimeout      = llmhttp.ErrInferenceTimeout
	ErrInvalidResponse       = llmhttp.ErrInvalidResponse
)
