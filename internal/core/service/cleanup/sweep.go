package cleanup

import (
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"context"
	"time"
)

// Sweep expires every non-terminal session past its expiry and releases its
// staged storage. A failure on one session never aborts the sweep of the
// others, and re-running the sweep reclaims nothing twice.
func (c *cleanupService) Sweep(ctx context.Context, now time.Time) (int, error) {

	sessions, err := c.uow.SessionRepo().FindAllExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, session := range sessions {
		expired, err := c.expire(ctx, session, now)
		if err != nil {
			c.logger.Error("failed to expire session", "session_id", session.ID, "error", err)
			continue
		}
		if expired {
			reclaimed++
		}
	}

	if reclaimed > 0 {
		c.logger.Info("sweep completed", "reclaimed", reclaimed)
	}
	return reclaimed, nil
}

func (c *cleanupService) expire(ctx context.Context, session domain.UploadSession, now time.Time) (bool, error) {

	release, err := c.locker.Acquire(ctx, session.ID)
	if err != nil {
		return false, err
	}
	defer release()

	// Re-read under the lock: a finalize or abort may have won the race.
	current, err := c.uow.SessionRepo().FindByID(ctx, session.ID)
	if err != nil {
		return false, err
	}
	if current.Status.IsTerminal() || current.ExpiresAt.After(now) {
		return false, nil
	}

	records, err := c.uow.ChunkRepo().ListBySession(ctx, session.ID)
	if err != nil {
		return false, err
	}

	txErr := c.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.SessionRepo().UpdateStatus(ctx, session.ID, current.Status, domain.SessionStatusExpired); err != nil {
			return err
		}
		return uow.ChunkRepo().DeleteBySession(ctx, session.ID)
	})
	if txErr != nil {
		return false, txErr
	}

	for _, record := range records {
		key := domain.StagingKey(record.SessionID, record.Index)
		if err := c.storage.DeleteObject(ctx, key); err != nil {
			c.logger.Error("failed to delete staged chunk", "key", key, "error", err)
		}
	}

	if c.publisher != nil {
		event := domain.SessionEvent{
			Type:       domain.EventTypeSessionExpired,
			SessionID:  session.ID,
			OwnerID:    session.OwnerID,
			TargetKey:  session.TargetKey,
			OccurredAt: now,
		}
		if err := c.publisher.Publish(ctx, event); err != nil {
			c.logger.Error("failed to publish session event", "session_id", session.ID, "error", err)
		}
	}

	return true, nil
}
