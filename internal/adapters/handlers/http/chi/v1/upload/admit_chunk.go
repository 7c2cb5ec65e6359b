package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"chunkvault/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type V1AdmitChunkResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Index     int       `json:"index"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	StoredAt  time.Time `json:"stored_at"`
}

func (h *HandlerV1) AdmitChunkV1(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid chunk index", http.StatusBadRequest)
		return
	}

	if !h.requireGrant(w, r, domain.GrantScopeWriteChunk, sessionID, &index) {
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("error reading chunk payload", "error", err)
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}

	checksum := r.Header.Get("X-Chunk-Checksum")

	record, err := h.chunkService.AdmitChunk(r.Context(), sessionID, index, payload, checksum)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrSessionTerminal), errors.Is(err, domain.ErrSessionNotWritable):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrInvalidIndex), errors.Is(err, domain.ErrChecksumMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error admitting chunk", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1AdmitChunkResponse{
		SessionID: record.SessionID,
		Index:     record.Index,
		Size:      record.Size,
		Checksum:  record.Checksum,
		StoredAt:  record.StoredAt,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// sessionIDParam parses the sessionID url param, writing the error response itself
func (h *HandlerV1) sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "sessionID")
	if raw == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return sessionID, true
}

// requireGrant verifies the request token, writing the error response itself
func (h *HandlerV1) requireGrant(w http.ResponseWriter, r *http.Request, scope domain.GrantScope, sessionID uuid.UUID, chunkIndex *int) bool {
	token := r.Header.Get(tokenHeader)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "upload token is required", http.StatusUnauthorized)
		return false
	}

	err := h.accessService.VerifyGrant(r.Context(), token, scope, sessionID, chunkIndex)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return false
	case errors.Is(err, domain.ErrInvalidSignature):
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return false
	case errors.Is(err, domain.ErrGrantExpired), errors.Is(err, domain.ErrGrantRevoked),
		errors.Is(err, domain.ErrScopeMismatch), errors.Is(err, domain.ErrSessionMismatch),
		errors.Is(err, domain.ErrChunkMismatch):
		http.Error(w, err.Error(), http.StatusForbidden)
		return false
	case err != nil:
		h.logger.Error("error verifying grant", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return false
	}
	return true
}
