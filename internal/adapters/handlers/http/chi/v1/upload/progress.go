package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chunkvault/internal/core/domain"

	"github.com/google/uuid"
)

type V1ProgressResponse struct {
	SessionID      uuid.UUID `json:"session_id"`
	UploadedChunks int       `json:"uploaded_chunks"`
	ExpectedChunks int       `json:"expected_chunks"`
	Percent        float64   `json:"percent"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expires_at"`
}

func (h *HandlerV1) ProgressV1(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	progress, err := h.chunkService.Progress(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error fetching progress", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1ProgressResponse{
		SessionID:      progress.SessionID,
		UploadedChunks: progress.UploadedChunks,
		ExpectedChunks: progress.ExpectedChunks,
		Percent:        progress.Percent,
		Status:         string(progress.Status),
		ExpiresAt:      progress.ExpiresAt,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

type V1ChunkResponse struct {
	Index    int       `json:"index"`
	Size     int64     `json:"size"`
	Checksum string    `json:"checksum"`
	StoredAt time.Time `json:"stored_at"`
}

func (h *HandlerV1) ListChunksV1(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDParam(w, r)
	if !ok {
		return
	}

	records, err := h.chunkService.ListChunks(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error listing chunks", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := make([]V1ChunkResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, V1ChunkResponse{
			Index:    record.Index,
			Size:     record.Size,
			Checksum: record.Checksum,
			StoredAt: record.StoredAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
