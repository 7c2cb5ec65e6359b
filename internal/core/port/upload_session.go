package port

import (
	"chunkvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session repositories
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error)
	// UpdateStatus performs a conditional status transition and returns
	// domain.ErrSessionNotFound when no row is in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.SessionStatus) error
	// Complete transitions finalizing -> completed and stamps completed_at.
	Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error
}
