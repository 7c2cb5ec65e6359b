package repository

import (
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUploadSessionRepository struct {
	mock.Mock
}

func NewMockUploadSessionRepository() *MockUploadSessionRepository {
	return &MockUploadSessionRepository{}
}

func (m *MockUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.UploadSession), args.Error(1)
}

func (m *MockUploadSessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.SessionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockUploadSessionRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

type MockChunkRepository struct {
	mock.Mock
}

func NewMockChunkRepository() *MockChunkRepository {
	return &MockChunkRepository{}
}

func (m *MockChunkRepository) Upsert(ctx context.Context, record domain.ChunkRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockChunkRepository) FindByIndex(ctx context.Context, sessionID uuid.UUID, index int) (*domain.ChunkRecord, error) {
	args := m.Called(ctx, sessionID, index)
	return args.Get(0).(*domain.ChunkRecord), args.Error(1)
}

func (m *MockChunkRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkRecord, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.ChunkRecord), args.Error(1)
}

func (m *MockChunkRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	sessionRepo *MockUploadSessionRepository
	chunkRepo   *MockChunkRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		sessionRepo: &MockUploadSessionRepository{},
		chunkRepo:   &MockChunkRepository{},
	}
}

func (m *MockUnitOfWork) SessionRepo() port.UploadSessionRepository {
	return m.sessionRepo
}

func (m *MockUnitOfWork) ChunkRepo() port.ChunkRepository {
	return m.chunkRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetSessionRepoMock() *MockUploadSessionRepository {
	return m.sessionRepo
}

func (m *MockUnitOfWork) GetChunkRepoMock() *MockChunkRepository {
	return m.chunkRepo
}

// AssertExpectations asserts the unit of work and all repos it holds
func (m *MockUnitOfWork) AssertExpectations(t mock.TestingT) bool {
	ok := m.Mock.AssertExpectations(t)
	ok = m.sessionRepo.AssertExpectations(t) && ok
	return m.chunkRepo.AssertExpectations(t) && ok
}
