package chunk

import (
	"chunkvault/internal/core/domain"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AdmitChunk validates one chunk, stages its bytes in the object store and
// records it. Re-uploading an index overwrites the previous record, so
// re-delivery of the same chunk is safe.
func (s *chunkService) AdmitChunk(ctx context.Context, sessionID uuid.UUID, index int, payload []byte, checksum string) (*domain.ChunkRecord, error) {

	session, err := s.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrSessionTerminal, sessionID, session.Status)
	}
	if !session.Status.IsWritable() {
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrSessionNotWritable, sessionID, session.Status)
	}

	if index < 0 || index >= session.ExpectedChunkCount {
		return nil, fmt.Errorf("%w: index %d, expected [0, %d)", domain.ErrInvalidIndex, index, session.ExpectedChunkCount)
	}

	digest := sha256.Sum256(payload)
	computed := hex.EncodeToString(digest[:])
	if checksum != "" && checksum != computed {
		return nil, fmt.Errorf("%w: got %s, computed %s", domain.ErrChecksumMismatch, checksum, computed)
	}

	if err := s.storage.PutChunk(ctx, domain.StagingKey(sessionID, index), payload); err != nil {
		return nil, fmt.Errorf("failed to stage chunk %d: %w", index, err)
	}

	record := domain.ChunkRecord{
		SessionID: sessionID,
		Index:     index,
		Size:      int64(len(payload)),
		Checksum:  computed,
		StoredAt:  time.Now(),
	}
	if err := s.uow.ChunkRepo().Upsert(ctx, record); err != nil {
		return nil, err
	}

	// First chunk moves the session to uploading. The conditional update
	// loses the race harmlessly when another chunk got there first.
	// The conditional update reports not-found when no row is still in
	// initiated, which after a successful FindByID means the transition
	// already happened.
	err = s.uow.SessionRepo().UpdateStatus(ctx, sessionID, domain.SessionStatusInitiated, domain.SessionStatusUploading)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	return &record, nil
}
