package upload

import (
	"chunkvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Initiate(ctx context.Context, ownerID, targetKey string, totalSize, chunkSize int64, ttl time.Duration) (*domain.UploadSession, error) {
	args := m.Called(ctx, ownerID, targetKey, totalSize, chunkSize, ttl)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Finalize(ctx context.Context, sessionID uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadService) Abort(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
