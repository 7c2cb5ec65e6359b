package port

import (
	"chunkvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadService is an interface to define the upload session state machine
type UploadService interface {
	Initiate(ctx context.Context, ownerID, targetKey string, totalSize, chunkSize int64, ttl time.Duration) (*domain.UploadSession, error)
	Finalize(ctx context.Context, sessionID uuid.UUID) (*domain.UploadSession, error)
	Abort(ctx context.Context, sessionID uuid.UUID) error
}
