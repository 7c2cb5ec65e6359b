package upload

import (
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Abort terminates a session and cascades its chunk records and staged
// bytes. Aborting an already aborted or expired session is a no-op success.
func (u *uploadService) Abort(ctx context.Context, sessionID uuid.UUID) error {

	release, err := u.locker.Acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()

	session, err := u.uow.SessionRepo().FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	switch session.Status {
	case domain.SessionStatusAborted, domain.SessionStatusExpired:
		return nil
	case domain.SessionStatusCompleted:
		return fmt.Errorf("%w: session %s is completed", domain.ErrSessionTerminal, sessionID)
	}

	records, err := u.uow.ChunkRepo().ListBySession(ctx, sessionID)
	if err != nil {
		return err
	}

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.SessionRepo().UpdateStatus(ctx, sessionID, session.Status, domain.SessionStatusAborted); err != nil {
			return err
		}
		return uow.ChunkRepo().DeleteBySession(ctx, sessionID)
	})
	if txErr != nil {
		return fmt.Errorf("could not abort session: %w", txErr)
	}

	u.releaseStagedChunks(ctx, records)

	session.Status = domain.SessionStatusAborted
	u.publish(ctx, domain.EventTypeSessionAborted, session)

	return nil
}
