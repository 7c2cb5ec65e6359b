package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chunkvault/internal/core/domain"

	"github.com/google/uuid"
)

type V1FinalizeResponse struct {
	SessionID   uuid.UUID  `json:"session_id"`
	TargetKey   string     `json:"target_key"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (h *HandlerV1) FinalizeV1(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	if !h.requireGrant(w, r, domain.GrantScopeFinalize, sessionID, nil) {
		return
	}

	session, err := h.uploadService.Finalize(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrSessionBusy):
		http.Error(w, "finalize already in progress", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrSessionTerminal):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrIncompleteUpload):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, domain.ErrAssemblyFailed):
		h.logger.Error("assembly failed", "session_id", sessionID, "error", err)
		http.Error(w, "assembly failed, retry finalize", http.StatusBadGateway)
		return
	case err != nil:
		h.logger.Error("error finalizing session", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1FinalizeResponse{
		SessionID:   session.ID,
		TargetKey:   session.TargetKey,
		Status:      string(session.Status),
		CompletedAt: session.CompletedAt,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
