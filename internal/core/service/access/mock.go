package access

import (
	"chunkvault/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccessService is a mock implementation of AccessService
type MockAccessService struct {
	mock.Mock
}

// NewMockAccessService creates a new MockAccessService
func NewMockAccessService() *MockAccessService {
	return &MockAccessService{}
}

func (m *MockAccessService) IssueGrant(ctx context.Context, sessionID uuid.UUID, scope domain.GrantScope, chunkIndex *int, ttl time.Duration) (*domain.AccessGrant, error) {
	args := m.Called(ctx, sessionID, scope, chunkIndex, ttl)
	return args.Get(0).(*domain.AccessGrant), args.Error(1)
}

func (m *MockAccessService) VerifyGrant(ctx context.Context, token string, requiredScope domain.GrantScope, sessionID uuid.UUID, chunkIndex *int) error {
	args := m.Called(ctx, token, requiredScope, sessionID, chunkIndex)
	return args.Error(0)
}

func (m *MockAccessService) SignedDownloadURL(ctx context.Context, token string, sessionID uuid.UUID) (string, *time.Time, error) {
	args := m.Called(ctx, token, sessionID)
	return args.String(0), args.Get(1).(*time.Time), args.Error(2)
}
