package port

import (
	"chunkvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// AccessService is an interface to define grant issuing and verification
type AccessService interface {
	IssueGrant(ctx context.Context, sessionID uuid.UUID, scope domain.GrantScope, chunkIndex *int, ttl time.Duration) (*domain.AccessGrant, error)
	VerifyGrant(ctx context.Context, token string, requiredScope domain.GrantScope, sessionID uuid.UUID, chunkIndex *int) error
	// SignedDownloadURL verifies a read_object grant and returns a
	// presigned download URL for the finished object.
	SignedDownloadURL(ctx context.Context, token string, sessionID uuid.UUID) (string, *time.Time, error)
}
