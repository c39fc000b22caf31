package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/clausecheck/internal/api/response"
	"github.com/kiranshivaraju/clausecheck/internal/normalize"
	"github.com/kiranshivaraju/clausecheck/internal/store"
)

// writeServiceError maps pipeline and store errors to API error responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, normalize.ErrTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			"Document exceeds the upload size limit", nil)
	case errors.Is(err, normalize.ErrUnsupportedFormat), errors.Is(err, normalize.ErrUnreadableDocument):
		response.Error(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT",
			"Document must be a readable PDF, DOCX, or TXT file", err.Error())
	case errors.Is(err, normalize.ErrEmptyDocument):
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			"Document contains no text", nil)
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, context.Canceled):
		slog.Info("request cancelled", "path", r.URL.Path)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
