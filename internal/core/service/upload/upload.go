package upload

import (
	"context"
	"log/slog"

	"chunkvault/internal/config"
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"chunkvault/internal/core/sessionlock"
	"time"
)

type uploadService struct {
	uow       port.UnitOfWork
	storage   port.ObjectStorage
	locker    *sessionlock.Locker
	publisher port.EventPublisher
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewUploadService creates a new upload orchestration service
func NewUploadService(
	uow port.UnitOfWork,
	storage port.ObjectStorage,
	locker *sessionlock.Locker,
	publisher port.EventPublisher,
	cfg config.UploadConfig,
	logger *slog.Logger,
) port.UploadService {
	return &uploadService{
		uow:       uow,
		storage:   storage,
		locker:    locker,
		publisher: publisher,
		uploadCfg: cfg,
		logger:    logger,
	}
}

func (u *uploadService) publish(ctx context.Context, eventType domain.EventType, session *domain.UploadSession) {
	if u.publisher == nil {
		return
	}

	event := domain.SessionEvent{
		Type:       eventType,
		SessionID:  session.ID,
		OwnerID:    session.OwnerID,
		TargetKey:  session.TargetKey,
		OccurredAt: time.Now(),
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.Error("failed to publish session event", "type", eventType, "session_id", session.ID, "error", err)
	}
}

// releaseStagedChunks deletes staged bytes for the given records, best effort
func (u *uploadService) releaseStagedChunks(ctx context.Context, records []domain.ChunkRecord) {
	for _, record := range records {
		key := domain.StagingKey(record.SessionID, record.Index)
		if err := u.storage.DeleteObject(ctx, key); err != nil {
			u.logger.Error("failed to delete staged chunk", "key", key, "error", err)
		}
	}
}
