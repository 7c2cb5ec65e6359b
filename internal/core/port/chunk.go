package port

import (
	"chunkvault/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// ChunkRepository is an interface to interact with chunk record repositories
type ChunkRepository interface {
	// Upsert stores the record, overwriting any previous record with the
	// same (session_id, index).
	Upsert(ctx context.Context, record domain.ChunkRecord) error
	FindByIndex(ctx context.Context, sessionID uuid.UUID, index int) (*domain.ChunkRecord, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkRecord, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}

// ChunkService is an interface to define chunk admission and completeness checks
type ChunkService interface {
	AdmitChunk(ctx context.Context, sessionID uuid.UUID, index int, payload []byte, checksum string) (*domain.ChunkRecord, error)
	IsComplete(ctx context.Context, sessionID uuid.UUID) (bool, error)
	ListChunks(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkRecord, error)
	Progress(ctx context.Context, sessionID uuid.UUID) (*domain.UploadProgress, error)
}
