package port

import (
	"context"
	"time"
)

// CleanupService is service that expires stale sessions and releases their resources
type CleanupService interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}
