package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranshivaraju/clausecheck/internal/analysis"
	mw "github.com/kiranshivaraju/clausecheck/internal/api/middleware"
	"github.com/kiranshivaraju/clausecheck/internal/api/response"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

// multipartOverhead covers form boundaries and fields around the uploaded file.
const multipartOverhead = 1 << 20

// ContractService defines the analysis operations the handlers depend on.
type ContractService interface {
	Submit(ctx context.Context, tenantID uuid.UUID, doc analysis.Document) (*models.Job, error)
	AnalyzeNow(ctx context.Context, tenantID uuid.UUID, doc analysis.Document) (*models.Report, error)
	Job(ctx context.Context, tenantID, jobID uuid.UUID) (*models.Job, error)
	Report(ctx context.Context, tenantID, reportID uuid.UUID) (*models.Report, error)
	ReportByJob(ctx context.Context, tenantID, jobID uuid.UUID) (*models.Report, error)
}

// requestError is a client error found while reading a request.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) write(w http.ResponseWriter) {
	response.Error(w, e.status, e.code, e.message, nil)
}

func badRequest(msg string) *requestError {
	return &requestError{status: http.StatusBadRequest, code: "INVALID_REQUEST", message: msg}
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
// It accepts a multipart upload (file, language, explain) or a JSON body
// (text, language, explain, filename) and responds 202 with the queued job.
func NewAnalyzeHandler(svc ContractService, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		doc, rerr := readDocument(w, r, maxUploadBytes)
		if rerr != nil {
			rerr.write(w)
			return
		}

		job, err := svc.Submit(r.Context(), tenantID, doc)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.Accepted(w, job)
	}
}

// NewClassifyHandler returns an http.HandlerFunc for POST /api/v1/classify.
// It analyzes synchronously without calling the explanation provider.
func NewClassifyHandler(svc ContractService, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		doc, rerr := readDocument(w, r, maxUploadBytes)
		if rerr != nil {
			rerr.write(w)
			return
		}
		doc.Explain = false

		report, err := svc.AnalyzeNow(r.Context(), tenantID, doc)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.JSON(w, report)
	}
}

type jobResponse struct {
	Job    *models.Job    `json:"job"`
	Report *models.Report `json:"report,omitempty"`
}

// NewPollJobHandler returns an http.HandlerFunc for GET /api/v1/analyze/{jobID}.
// A completed job includes its report.
func NewPollJobHandler(svc ContractService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job ID", nil)
			return
		}

		job, err := svc.Job(r.Context(), tenantID, jobID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		resp := jobResponse{Job: job}
		if job.Status == models.JobStatusCompleted {
			report, err := svc.ReportByJob(r.Context(), tenantID, jobID)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			resp.Report = report
		}
		response.JSON(w, resp)
	}
}

type analyzeRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Language string `json:"language"`
	Explain  bool   `json:"explain"`
}

// readDocument decodes either a multipart upload or a JSON text body.
func readDocument(w http.ResponseWriter, r *http.Request, maxBytes int64) (analysis.Document, *requestError) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readUpload(w, r, maxBytes)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if isTooLarge(err) {
			return analysis.Document{}, tooLarge(maxBytes)
		}
		return analysis.Document{}, badRequest("Invalid JSON body")
	}
	if req.Text == "" {
		return analysis.Document{}, badRequest("text is required")
	}
	return analysis.Document{
		Filename: req.Filename,
		Language: req.Language,
		Text:     req.Text,
		Explain:  req.Explain,
	}, nil
}

func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (analysis.Document, *requestError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if isTooLarge(err) {
			return analysis.Document{}, tooLarge(maxBytes)
		}
		return analysis.Document{}, badRequest("Invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return analysis.Document{}, badRequest("file is required")
	}
	defer file.Close()

	if header.Size > maxBytes {
		return analysis.Document{}, tooLarge(maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return analysis.Document{}, badRequest("Could not read uploaded file")
	}
	if int64(len(data)) > maxBytes {
		return analysis.Document{}, tooLarge(maxBytes)
	}

	explain := false
	if v := r.FormValue("explain"); v != "" {
		if explain, err = strconv.ParseBool(v); err != nil {
			return analysis.Document{}, badRequest("explain must be a boolean")
		}
	}

	return analysis.Document{
		Filename: header.Filename,
		Language: r.FormValue("language"),
		Data:     data,
		Explain:  explain,
	}, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func tooLarge(maxBytes int64) *requestError {
	return &requestError{
		status:  http.StatusRequestEntityTooLarge,
		code:    "PAYLOAD_TOO_LARGE",
		message: fmt.Sprintf("Document exceeds the %d byte upload limit", maxBytes),
	}
}
