package chunk

import (
	"chunkvault/internal/core/domain"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockChunkService is a mock implementation of ChunkService
type MockChunkService struct {
	mock.Mock
}

// NewMockChunkService creates a new MockChunkService
func NewMockChunkService() *MockChunkService {
	return &MockChunkService{}
}

func (m *MockChunkService) AdmitChunk(ctx context.Context, sessionID uuid.UUID, index int, payload []byte, checksum string) (*domain.ChunkRecord, error) {
	args := m.Called(ctx, sessionID, index, payload, checksum)
	return args.Get(0).(*domain.ChunkRecord), args.Error(1)
}

func (m *MockChunkService) IsComplete(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChunkService) ListChunks(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkRecord, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.ChunkRecord), args.Error(1)
}

func (m *MockChunkService) Progress(ctx context.Context, sessionID uuid.UUID) (*domain.UploadProgress, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.UploadProgress), args.Error(1)
}
