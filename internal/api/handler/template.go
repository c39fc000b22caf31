package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiranshivaraju/clausecheck/internal/api/response"
	"github.com/kiranshivaraju/clausecheck/internal/template"
)

// TemplateRenderer lists and renders contract templates.
type TemplateRenderer interface {
	List() []template.Template
	Render(name string, params map[string]string) (*template.Document, error)
}

// NewListTemplatesHandler returns an http.HandlerFunc for GET /api/v1/templates.
func NewListTemplatesHandler(gen TemplateRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, gen.List())
	}
}

// NewRenderTemplateHandler returns an http.HandlerFunc for POST /api/v1/templates/{name}.
// The optional body is {"params": {...}}; ?format=text returns the contract as plain text.
func NewRenderTemplateHandler(gen TemplateRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Params map[string]string `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		doc, err := gen.Render(chi.URLParam(r, "name"), req.Params)
		if err != nil {
			if errors.Is(err, template.ErrUnknownTemplate) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Template not found", nil)
				return
			}
			writeServiceError(w, r, err)
			return
		}

		if r.URL.Query().Get("format") == "text" {
			response.Text(w, http.StatusOK, doc.Body)
			return
		}
		response.JSON(w, doc)
	}
}
