package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chunkvault/internal/core/domain"

	"github.com/google/uuid"
)

type V1InitiateRequest struct {
	TargetKey  string `json:"target_key"`
	TotalSize  int64  `json:"total_size"`
	ChunkSize  int64  `json:"chunk_size"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

type V1InitiateResponse struct {
	SessionID      uuid.UUID `json:"session_id"`
	ExpectedChunks int       `json:"expected_chunks"`
	ChunkSize      int64     `json:"chunk_size"`
	ExpiresAt      time.Time `json:"expires_at"`
	UploadToken    string    `json:"upload_token"`
	FinalizeToken  string    `json:"finalize_token"`
}

func (h *HandlerV1) InitiateV1(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-Owner-ID")
	if ownerID == "" {
		http.Error(w, "Owner ID is required", http.StatusBadRequest)
		return
	}

	var req V1InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding initiate request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TargetKey == "" {
		http.Error(w, "Target key is required", http.StatusBadRequest)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	session, err := h.uploadService.Initiate(r.Context(), ownerID, req.TargetKey, req.TotalSize, req.ChunkSize, ttl)
	switch {
	case errors.Is(err, domain.ErrInvalidSize):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("error initiating upload session", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	grantTTL := time.Until(session.ExpiresAt)
	uploadGrant, err := h.accessService.IssueGrant(r.Context(), session.ID, domain.GrantScopeWriteChunk, nil, grantTTL)
	if err != nil {
		h.logger.Error("error issuing write grant", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	finalizeGrant, err := h.accessService.IssueGrant(r.Context(), session.ID, domain.GrantScopeFinalize, nil, grantTTL)
	if err != nil {
		h.logger.Error("error issuing finalize grant", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1InitiateResponse{
		SessionID:      session.ID,
		ExpectedChunks: session.ExpectedChunkCount,
		ChunkSize:      session.ChunkSize,
		ExpiresAt:      session.ExpiresAt,
		UploadToken:    uploadGrant.Token,
		FinalizeToken:  finalizeGrant.Token,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
