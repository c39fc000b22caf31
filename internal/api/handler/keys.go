package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	mw "github.com/kiranshivaraju/clausecheck/internal/api/middleware"
	"github.com/kiranshivaraju/clausecheck/internal/api/response"
	"github.com/kiranshivaraju/clausecheck/internal/store"
	"github.com/kiranshivaraju/clausecheck/pkg/models"
)

const (
	// KeyPrefix marks ClauseCheck API keys.
	KeyPrefix = "cc_"

	keyRandomBytes   = 24
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var validScopes = []string{"read", "write", mw.ScopeAdmin}

// KeyManager defines the store operations the admin key handlers depend on.
type KeyManager interface {
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}

type createKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

// createKeyResponse is the only place the raw key is ever returned.
type createKeyResponse struct {
	*models.APIKey
	Key string `json:"key"`
}

// NewCreateKeyHandler returns an http.HandlerFunc for POST /api/v1/admin/keys.
func NewCreateKeyHandler(keys KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req createKeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if len(req.Scopes) == 0 {
			req.Scopes = []string{"read"}
		}
		for _, s := range req.Scopes {
			if !slices.Contains(validScopes, s) {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"Unknown scope", map[string]any{"scope": s, "allowed": validScopes})
				return
			}
		}

		raw, err := GenerateKey()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		now := time.Now().UTC()
		key := &models.APIKey{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      req.Name,
			KeyHash:   string(hash),
			KeyPrefix: raw[:mw.KeyPrefixLen],
			Scopes:    req.Scopes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := keys.CreateAPIKey(r.Context(), key); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "DUPLICATE_KEY",
					"An API key with this name already exists", nil)
				return
			}
			writeServiceError(w, r, err)
			return
		}

		response.Created(w, createKeyResponse{APIKey: key, Key: raw})
	}
}

// NewListKeysHandler returns an http.HandlerFunc for GET /api/v1/admin/keys.
func NewListKeysHandler(keys KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		page, limit, ok := pagination(r)
		if !ok {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid page or limit", nil)
			return
		}

		all, err := keys.ListAPIKeys(r.Context(), tenantID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		start := min((page-1)*limit, len(all))
		end := min(start+limit, len(all))
		response.Collection(w, all[start:end], response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   len(all),
			HasNext: end < len(all),
		})
	}
}

// NewRevokeKeyHandler returns an http.HandlerFunc for DELETE /api/v1/admin/keys/{keyID}.
func NewRevokeKeyHandler(keys KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid key ID", nil)
			return
		}

		if err := keys.RevokeAPIKey(r.Context(), keyID, tenantID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.NoContent(w)
	}
}

// GenerateKey returns a new raw API key.
func GenerateKey() (string, error) {
	b := make([]byte, keyRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return KeyPrefix + hex.EncodeToString(b), nil
}

func pagination(r *http.Request) (page, limit int, ok bool) {
	page, limit = 1, defaultPageLimit
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = min(n, maxPageLimit)
	}
	return page, limit, true
}
