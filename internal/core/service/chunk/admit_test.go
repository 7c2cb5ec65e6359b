package chunk_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"chunkvault/internal/adapters/repository"
	"chunkvault/internal/adapters/storage"
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/service/chunk"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checksumOf(payload []byte) string {
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}

func TestChunkService_AdmitChunk_FirstChunk(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	payload := []byte("chunk-zero-bytes")
	session := &domain.UploadSession{
		ID:                 sessionID,
		Status:             domain.SessionStatusInitiated,
		ExpectedChunkCount: 3,
		ExpiresAt:          time.Now().Add(time.Hour),
	}

	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).Return(session, nil)
	mockStorage.On("PutChunk", ctx, domain.StagingKey(sessionID, 0), payload).Return(nil)
	mockUow.GetChunkRepoMock().On("Upsert", ctx, mock.MatchedBy(func(r domain.ChunkRecord) bool {
		return r.SessionID == sessionID && r.Index == 0 && r.Size == int64(len(payload))
	})).Return(nil)
	mockUow.GetSessionRepoMock().On("UpdateStatus", ctx, sessionID, domain.SessionStatusInitiated, domain.SessionStatusUploading).Return(nil)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 0, payload, checksumOf(payload))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, record.Index)
	assert.Equal(t, int64(len(payload)), record.Size)
	assert.Equal(t, checksumOf(payload), record.Checksum)
	mockUow.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestChunkService_AdmitChunk_ReuploadOverwrites(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	payload := []byte("replacement bytes for index 1")
	session := &domain.UploadSession{
		ID:                 sessionID,
		Status:             domain.SessionStatusUploading,
		ExpectedChunkCount: 3,
	}

	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).Return(session, nil)
	mockStorage.On("PutChunk", ctx, domain.StagingKey(sessionID, 1), payload).Return(nil)
	mockUow.GetChunkRepoMock().On("Upsert", ctx, mock.Anything).Return(nil)
	// The session already left initiated, so the conditional transition
	// finds no row to update.
	mockUow.GetSessionRepoMock().On("UpdateStatus", ctx, sessionID, domain.SessionStatusInitiated, domain.SessionStatusUploading).
		Return(domain.ErrSessionNotFound)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 1, payload, checksumOf(payload))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, checksumOf(payload), record.Checksum)
}

func TestChunkService_AdmitChunk_ComputesChecksumWhenOmitted(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	payload := []byte("no checksum supplied")
	session := &domain.UploadSession{
		ID:                 sessionID,
		Status:             domain.SessionStatusUploading,
		ExpectedChunkCount: 2,
	}

	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).Return(session, nil)
	mockStorage.On("PutChunk", ctx, mock.Anything, payload).Return(nil)
	mockUow.GetChunkRepoMock().On("Upsert", ctx, mock.Anything).Return(nil)
	mockUow.GetSessionRepoMock().On("UpdateStatus", ctx, sessionID, domain.SessionStatusInitiated, domain.SessionStatusUploading).
		Return(domain.ErrSessionNotFound)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 0, payload, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, checksumOf(payload), record.Checksum)
}

func TestChunkService_AdmitChunk_SessionNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).
		Return((*domain.UploadSession)(nil), domain.ErrSessionNotFound)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 0, []byte("x"), "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.Nil(t, record)
}

func TestChunkService_AdmitChunk_TerminalSession(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).
		Return(&domain.UploadSession{ID: sessionID, Status: domain.SessionStatusAborted, ExpectedChunkCount: 3}, nil)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 0, []byte("x"), "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionTerminal)
	require.Nil(t, record)
}

func TestChunkService_AdmitChunk_NotWritableWhileFinalizing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).
		Return(&domain.UploadSession{ID: sessionID, Status: domain.SessionStatusFinalizing, ExpectedChunkCount: 3}, nil)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 0, []byte("x"), "")

	// Assert
	assert.ErrorIs(t, err, domain.ErrSessionNotWritable)
	require.Nil(t, record)
}

func TestChunkService_AdmitChunk_InvalidIndex(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	session := &domain.UploadSession{
		ID:                 sessionID,
		Status:             domain.SessionStatusUploading,
		ExpectedChunkCount: 3,
	}
	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).Return(session, nil)

	for _, index := range []int{-1, 3, 100} {
		// Act
		record, err := service.AdmitChunk(ctx, sessionID, index, []byte("x"), "")

		// Assert
		assert.ErrorIs(t, err, domain.ErrInvalidIndex)
		require.Nil(t, record)
	}
}

func TestChunkService_AdmitChunk_ChecksumMismatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	service := chunk.NewChunkService(mockUow, mockStorage)

	sessionID := uuid.New()
	session := &domain.UploadSession{
		ID:                 sessionID,
		Status:             domain.SessionStatusUploading,
		ExpectedChunkCount: 3,
	}
	mockUow.GetSessionRepoMock().On("FindByID", ctx, sessionID).Return(session, nil)

	// Act
	record, err := service.AdmitChunk(ctx, sessionID, 0, []byte("actual payload"), "deadbeef")

	// Assert
	assert.ErrorIs(t, err, domain.ErrChecksumMismatch)
	require.Nil(t, record)
	mockStorage.AssertNotCalled(t, "PutChunk", mock.Anything, mock.Anything, mock.Anything)
}
