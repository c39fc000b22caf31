package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranshivaraju/clausecheck/internal/ai/llmhttp"
	"github.com/kiranshivaraju/clausecheck/internal/ai/openai"
	"github.com/kiranshivaraju/clausecheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Explain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4", body["model"])
		assert.InDelta(t, 0.3, body["temperature"], 1e-9)
		assert.EqualValues(t, 150, body["max_tokens"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  It lets the employer fire you anytime.  "}}]}`))
	}))
	defer srv.Close()

	p := openai.NewProvider(config.OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4"})
	got, err := p.Explain(context.Background(), "terminate without cause")

	require.NoError(t, err)
	assert.Equal(t, "It lets the employer fire you anytime.", got)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4", p.Model())
}

func TestProvider_SuggestUsesLargerBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 200, body["max_tokens"])
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Either party may terminate with 30 days notice."}}]}`))
	}))
	defer srv.Close()

	p := openai.NewProvider(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4"})
	got, err := p.Suggest(context.Background(), "terminate without cause")

	require.NoError(t, err)
	assert.Contains(t, got, "30 days")
}

func TestProvider_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 1)
		assert.Contains(t, body.Messages[0].Content, "Translate the following Spanish contract text into English.")
		assert.Contains(t, body.Messages[0].Content, "El pago vence a los treinta días.")
		assert.Zero(t, body.Temperature)
		assert.Equal(t, llmhttp.TranslationMaxTokens, body.MaxTokens)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Payment is due within thirty days.\n"}}]}`))
	}))
	defer srv.Close()

	p := openai.NewProvider(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4"})
	got, err := p.Translate(context.Background(), "El pago vence a los treinta días.", "Spanish")

	require.NoError(t, err)
	assert.Equal(t, "Payment is due within thirty days.", got)
}

func TestProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, llmhttp.ErrAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{}`, llmhttp.ErrRateLimited},
		{"server error", http.StatusServiceUnavailable, `{}`, llmhttp.ErrProviderUnavailable},
		{"no choices", http.StatusOK, `{"choices":[]}`, llmhttp.ErrInvalidResponse},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, llmhttp.ErrInvalidResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := openai.NewProvider(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4"})
			_, err := p.Explain(context.Background(), "clause")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_NoKeyOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p := openai.New(openai.Options{Name: "local", BaseURL: srv.URL + "/", Model: "m"})
	got, err := p.Explain(context.Background(), "clause")

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "local", p.Name())
}
