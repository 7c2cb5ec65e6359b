package upload

import (
	"log/slog"

	"chunkvault/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// tokenHeader carries the grant issued at initiation
const tokenHeader = "X-Upload-Token"

// HandlerV1 is the handler for v1 upload routes
type HandlerV1 struct {
	uploadService port.UploadService
	chunkService  port.ChunkService
	accessService port.AccessService
	logger        *slog.Logger
}

// NewUploadHandlerV1 creates HandlerV1
func NewUploadHandlerV1(uploadService port.UploadService, chunkService port.ChunkService, accessService port.AccessService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService: uploadService,
		chunkService:  chunkService,
		accessService: accessService,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", h.InitiateV1)
	router.Put("/{sessionID}/chunks/{index}", h.AdmitChunkV1)
	router.Get("/{sessionID}/chunks", h.ListChunksV1)
	router.Get("/{sessionID}/progress", h.ProgressV1)
	router.Post("/{sessionID}/finalize", h.FinalizeV1)
	router.Delete("/{sessionID}", h.AbortV1)
	router.Get("/{sessionID}/download", h.DownloadV1)

	return router
}
