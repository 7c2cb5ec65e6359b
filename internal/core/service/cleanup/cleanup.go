package cleanup

import (
	"log/slog"

	"chunkvault/internal/core/port"
	"chunkvault/internal/core/sessionlock"
)

type cleanupService struct {
	uow       port.UnitOfWork
	storage   port.ObjectStorage
	locker    *sessionlock.Locker
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewCleanupService creates a new cleanup service. The locker must be the
// same instance the upload service uses, so the sweep never races a
// finalize or abort in flight.
func NewCleanupService(uow port.UnitOfWork, storage port.ObjectStorage, locker *sessionlock.Locker, publisher port.EventPublisher, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:       uow,
		storage:   storage,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
	}
}
