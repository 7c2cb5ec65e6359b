package chunk

import (
	"chunkvault/internal/core/port"
)

type chunkService struct {
	uow     port.UnitOfWork
	storage port.ObjectStorage
}

// NewChunkService creates a new chunk service
func NewChunkService(uow port.UnitOfWork, storage port.ObjectStorage) port.ChunkService {
	return &chunkService{uow: uow, storage: storage}
}
