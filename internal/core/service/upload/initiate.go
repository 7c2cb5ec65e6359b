package upload

import (
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Initiate creates a new upload session in the initiated status
func (u *uploadService) Initiate(ctx context.Context, ownerID, targetKey string, totalSize, chunkSize int64, ttl time.Duration) (*domain.UploadSession, error) {

	if totalSize <= 0 || chunkSize <= 0 {
		return nil, fmt.Errorf("%w: totalSize=%d chunkSize=%d", domain.ErrInvalidSize, totalSize, chunkSize)
	}
	if totalSize > u.uploadCfg.MaxTotalSize {
		return nil, fmt.Errorf("%w: totalSize %d exceeds limit %d", domain.ErrInvalidSize, totalSize, u.uploadCfg.MaxTotalSize)
	}
	if chunkSize > u.uploadCfg.MaxChunkSize {
		return nil, fmt.Errorf("%w: chunkSize %d exceeds limit %d", domain.ErrInvalidSize, chunkSize, u.uploadCfg.MaxChunkSize)
	}

	if ttl <= 0 {
		ttl = u.uploadCfg.SessionTTL
	}

	now := time.Now()
	session := domain.UploadSession{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		TargetKey:          targetKey,
		TotalSize:          totalSize,
		ChunkSize:          chunkSize,
		ExpectedChunkCount: int((totalSize + chunkSize - 1) / chunkSize),
		Status:             domain.SessionStatusInitiated,
		CreatedAt:          now,
		ExpiresAt:          now.Add(ttl),
	}

	txErr := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		return uow.SessionRepo().Create(ctx, session)
	})
	if txErr != nil {
		return nil, fmt.Errorf("could not initiate upload session: %w", txErr)
	}

	return &session, nil
}
