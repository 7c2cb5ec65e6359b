package upload

import (
	"errors"
	"net/http"

	"chunkvault/internal/core/domain"
)

func (h *HandlerV1) AbortV1(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	err := h.uploadService.Abort(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrSessionBusy):
		http.Error(w, "session busy, retry", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrSessionTerminal):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("error aborting session", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
