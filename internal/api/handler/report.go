package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranshivaraju/clausecheck/internal/analysis"
	mw "github.com/kiranshivaraju/clausecheck/internal/api/middleware"
	"github.com/kiranshivaraju/clausecheck/internal/api/response"
)

// NewGetReportHandler returns an http.HandlerFunc for GET /api/v1/reports/{reportID}.
// ?format=csv downloads the clause table instead of JSON.
func NewGetReportHandler(svc ContractService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		reportID, err := uuid.Parse(chi.URLParam(r, "reportID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid report ID", nil)
			return
		}

		format := r.URL.Query().Get("format")
		if format != "" && format != "json" && format != "csv" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "format must be json or csv", nil)
			return
		}

		report, err := svc.Report(r.Context(), tenantID, reportID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		if format == "csv" {
			filename := fmt.Sprintf("contract-analysis-%s.csv", report.ID)
			response.Attachment(w, "text/csv; charset=utf-8", filename, func(out io.Writer) error {
				return analysis.WriteCSV(out, report)
			})
			return
		}
		response.JSON(w, report)
	}
}
