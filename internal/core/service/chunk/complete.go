package chunk

import (
	"chunkvault/internal/core/domain"
	"context"
	"math"

	"github.com/google/uuid"
)

// IsComplete reports whether a record exists for every expected index.
// It recomputes from the repository on every call and mutates nothing.
func (s *chunkService) IsComplete(ctx context.Context, sessionID uuid.UUID) (bool, error) {

	session, err := s.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return false, err
	}

	records, err := s.uow.ChunkRepo().ListBySession(ctx, sessionID)
	if err != nil {
		return false, err
	}

	return len(MissingIndices(records, session.ExpectedChunkCount)) == 0, nil
}

// ListChunks returns the session's chunk records ordered by index
func (s *chunkService) ListChunks(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkRecord, error) {

	if _, err := s.uow.SessionRepo().FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.uow.ChunkRepo().ListBySession(ctx, sessionID)
}

// Progress returns uploaded/expected counts for a session
func (s *chunkService) Progress(ctx context.Context, sessionID uuid.UUID) (*domain.UploadProgress, error) {

	session, err := s.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	records, err := s.uow.ChunkRepo().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if session.ExpectedChunkCount > 0 {
		percent = float64(len(records)) / float64(session.ExpectedChunkCount) * 100
		percent = math.Round(percent*100) / 100
	}

	return &domain.UploadProgress{
		SessionID:      session.ID,
		UploadedChunks: len(records),
		ExpectedChunks: session.ExpectedChunkCount,
		Percent:        percent,
		Status:         session.Status,
		ExpiresAt:      session.ExpiresAt,
	}, nil
}

// MissingIndices returns the expected indices with no record, in order
func MissingIndices(records []domain.ChunkRecord, expected int) []int {
	present := make(map[int]bool, len(records))
	for _, r := range records {
		present[r.Index] = true
	}

	var missing []int
	for i := 0; i < expected; i++ {
		if !present[i] {
			missing = append(missing, i)
		}
	}
	return missing
}
