package port

import (
	"context"
	"time"
)

// ObjectStorage is an interface to define object store interactions
type ObjectStorage interface {
	PutChunk(ctx context.Context, key string, payload []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
	// ComposeObject concatenates the source objects, in the given order,
	// into the target key.
	ComposeObject(ctx context.Context, targetKey string, sourceKeys []string) error
	GeneratePresignedURLForDownload(ctx context.Context, key string) (string, *time.Time, error)
}
