package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chunkvault/internal/core/domain"
)

type V1DownloadResponse struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *HandlerV1) DownloadV1(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	token := r.Header.Get(tokenHeader)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "download token is required", http.StatusUnauthorized)
		return
	}

	url, expiresAt, err := h.accessService.SignedDownloadURL(r.Context(), token, sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidSignature):
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	case errors.Is(err, domain.ErrGrantExpired), errors.Is(err, domain.ErrGrantRevoked),
		errors.Is(err, domain.ErrScopeMismatch), errors.Is(err, domain.ErrSessionMismatch):
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	case errors.Is(err, domain.ErrObjectNotReady):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("error generating download URL", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1DownloadResponse{URL: url, ExpiresAt: expiresAt}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
