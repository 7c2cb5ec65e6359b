package upload

import (
	"chunkvault/internal/core/domain"
	servicechunk "chunkvault/internal/core/service/chunk"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Finalize assembles the staged chunks, in index order, into the target
// object and completes the session. Concurrent calls serialize on the
// per-session lock; calling it again on a completed session returns the same
// result without re-assembling.
func (u *uploadService) Finalize(ctx context.Context, sessionID uuid.UUID) (*domain.UploadSession, error) {

	release, err := u.locker.Acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := u.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case domain.SessionStatusCompleted:
		return session, nil
	case domain.SessionStatusAborted, domain.SessionStatusExpired:
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrSessionTerminal, sessionID, session.Status)
	}

	// Completeness is computed under the lock: a chunk arriving mid-check
	// cannot be missed by a plan computed before it landed.
	records, err := u.uow.ChunkRepo().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if missing := servicechunk.MissingIndices(records, session.ExpectedChunkCount); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing indices %v", domain.ErrIncompleteUpload, missing)
	}

	if err := u.uow.SessionRepo().UpdateStatus(ctx, sessionID, session.Status, domain.SessionStatusFinalizing); err != nil {
		return nil, err
	}

	sourceKeys := make([]string, 0, len(records))
	for _, record := range records {
		sourceKeys = append(sourceKeys, domain.StagingKey(sessionID, record.Index))
	}

	if composeErr := u.storage.ComposeObject(ctx, session.TargetKey, sourceKeys); composeErr != nil {
		// Retryable: hand the session back to uploading.
		if revertErr := u.uow.SessionRepo().UpdateStatus(ctx, sessionID, domain.SessionStatusFinalizing, domain.SessionStatusUploading); revertErr != nil {
			u.logger.Error("failed to revert session to uploading", "session_id", sessionID, "error", revertErr)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAssemblyFailed, composeErr)
	}

	completedAt := time.Now()
	if err := u.uow.SessionRepo().Complete(ctx, sessionID, completedAt); err != nil {
		return nil, err
	}

	u.releaseStagedChunks(ctx, records)

	session.Status = domain.SessionStatusCompleted
	session.CompletedAt = &completedAt

	u.publish(ctx, domain.EventTypeSessionCompleted, session)

	return session, nil
}
