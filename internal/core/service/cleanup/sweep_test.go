package cleanup_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"chunkvault/internal/adapters/eventbroker"
	"chunkvault/internal/adapters/repository"
	"chunkvault/internal/adapters/storage"
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"chunkvault/internal/core/service/cleanup"
	"chunkvault/internal/core/sessionlock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService(uow *repository.MockUnitOfWork, st *storage.MockStorage, pub *eventbroker.MockPublisher) port.CleanupService {
	return cleanup.NewCleanupService(uow, st, sessionlock.New(time.Second), pub, discardLogger)
}

func expiredSession(id uuid.UUID, now time.Time) domain.UploadSession {
	return domain.UploadSession{
		ID:        id,
		OwnerID:   "owner-1",
		TargetKey: "objects/stale.bin",
		Status:    domain.SessionStatusUploading,
		ExpiresAt: now.Add(-time.Minute),
	}
}

func TestCleanupService_Sweep(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockPublisher := eventbroker.NewMockPublisher()
	service := newService(mockUow, mockStorage, mockPublisher)

	now := time.Now()
	first := expiredSession(uuid.New(), now)
	second := expiredSession(uuid.New(), now)

	mockUow.GetSessionRepoMock().On("FindAllExpired", ctx, now).
		Return([]domain.UploadSession{first, second}, nil)

	for _, session := range []domain.UploadSession{first, second} {
		current := session
		mockUow.GetSessionRepoMock().On("FindByID", ctx, session.ID).Return(&current, nil)
		mockUow.GetChunkRepoMock().On("ListBySession", ctx, session.ID).
			Return([]domain.ChunkRecord{{SessionID: session.ID, Index: 0, Size: 10}}, nil)
		mockUow.GetSessionRepoMock().On("UpdateStatus", ctx, session.ID, domain.SessionStatusUploading, domain.SessionStatusExpired).Return(nil)
		mockUow.GetChunkRepoMock().On("DeleteBySession", ctx, session.ID).Return(nil)
		mockStorage.On("DeleteObject", ctx, domain.StagingKey(session.ID, 0)).Return(nil)
		mockPublisher.On("Publish", ctx, mock.MatchedBy(func(e domain.SessionEvent) bool {
			return e.Type == domain.EventTypeSessionExpired && e.SessionID == current.ID
		})).Return(nil)
	}
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)

	// Act
	reclaimed, err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, reclaimed)
	mockUow.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestCleanupService_Sweep_NothingExpired(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	service := newService(mockUow, storage.NewMockStorage(), eventbroker.NewMockPublisher())

	now := time.Now()
	mockUow.GetSessionRepoMock().On("FindAllExpired", ctx, now).
		Return([]domain.UploadSession(nil), nil)

	// Act
	reclaimed, err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)
}

func TestCleanupService_Sweep_SkipsSessionTerminatedMeanwhile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockPublisher := eventbroker.NewMockPublisher()
	service := newService(mockUow, mockStorage, mockPublisher)

	now := time.Now()
	session := expiredSession(uuid.New(), now)
	mockUow.GetSessionRepoMock().On("FindAllExpired", ctx, now).
		Return([]domain.UploadSession{session}, nil)

	// An abort won the race between the listing and the lock.
	aborted := session
	aborted.Status = domain.SessionStatusAborted
	mockUow.GetSessionRepoMock().On("FindByID", ctx, session.ID).Return(&aborted, nil)

	// Act
	reclaimed, err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	mockStorage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}

func TestCleanupService_Sweep_SkipsSessionExtendedMeanwhile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	service := newService(mockUow, storage.NewMockStorage(), eventbroker.NewMockPublisher())

	now := time.Now()
	session := expiredSession(uuid.New(), now)
	mockUow.GetSessionRepoMock().On("FindAllExpired", ctx, now).
		Return([]domain.UploadSession{session}, nil)

	fresh := session
	fresh.ExpiresAt = now.Add(time.Hour)
	mockUow.GetSessionRepoMock().On("FindByID", ctx, session.ID).Return(&fresh, nil)

	// Act
	reclaimed, err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, reclaimed)
}

func TestCleanupService_Sweep_FailureOnOneSessionContinues(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockPublisher := eventbroker.NewMockPublisher()
	service := newService(mockUow, mockStorage, mockPublisher)

	now := time.Now()
	broken := expiredSession(uuid.New(), now)
	healthy := expiredSession(uuid.New(), now)

	mockUow.GetSessionRepoMock().On("FindAllExpired", ctx, now).
		Return([]domain.UploadSession{broken, healthy}, nil)

	mockUow.GetSessionRepoMock().On("FindByID", ctx, broken.ID).
		Return((*domain.UploadSession)(nil), domain.ErrSessionNotFound)

	current := healthy
	mockUow.GetSessionRepoMock().On("FindByID", ctx, healthy.ID).Return(&current, nil)
	mockUow.GetChunkRepoMock().On("ListBySession", ctx, healthy.ID).
		Return([]domain.ChunkRecord(nil), nil)
	mockUow.On("Execute", ctx, mock.Anything).Return(nil)
	mockUow.GetSessionRepoMock().On("UpdateStatus", ctx, healthy.ID, domain.SessionStatusUploading, domain.SessionStatusExpired).Return(nil)
	mockUow.GetChunkRepoMock().On("DeleteBySession", ctx, healthy.ID).Return(nil)
	mockPublisher.On("Publish", ctx, mock.Anything).Return(nil)

	// Act
	reclaimed, err := service.Sweep(ctx, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)
}
