package postgres

import (
	"context"
	"testing"
	"time"

	"chunkvault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLChunkRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db, cleanup, truncate := NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sessionRepo := NewSQLUploadSessionRepository(db)
	repo := NewSQLChunkRepository(db)

	seedSession := func(t *testing.T) uuid.UUID {
		t.Helper()
		session := newSession(domain.SessionStatusUploading, time.Hour)
		require.NoError(t, sessionRepo.Create(ctx, session))
		return session.ID
	}

	record := func(sessionID uuid.UUID, index int, checksum string) domain.ChunkRecord {
		return domain.ChunkRecord{
			SessionID: sessionID,
			Index:     index,
			Size:      100,
			Checksum:  checksum,
			StoredAt:  time.Now(),
		}
	}

	t.Run("upsert and find by index", func(t *testing.T) {
		truncate()
		sessionID := seedSession(t)

		require.NoError(t, repo.Upsert(ctx, record(sessionID, 0, "aaa")))

		found, err := repo.FindByIndex(ctx, sessionID, 0)
		require.NoError(t, err)
		assert.Equal(t, sessionID, found.SessionID)
		assert.Equal(t, 0, found.Index)
		assert.Equal(t, "aaa", found.Checksum)
	})

	t.Run("upsert overwrites the existing index", func(t *testing.T) {
		truncate()
		sessionID := seedSession(t)

		require.NoError(t, repo.Upsert(ctx, record(sessionID, 1, "before")))
		require.NoError(t, repo.Upsert(ctx, record(sessionID, 1, "after")))

		found, err := repo.FindByIndex(ctx, sessionID, 1)
		require.NoError(t, err)
		assert.Equal(t, "after", found.Checksum)

		records, err := repo.ListBySession(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("find by index returns not found", func(t *testing.T) {
		truncate()
		sessionID := seedSession(t)

		_, err := repo.FindByIndex(ctx, sessionID, 5)
		assert.ErrorIs(t, err, domain.ErrChunkNotFound)
	})

	t.Run("list by session is ordered by index", func(t *testing.T) {
		truncate()
		sessionID := seedSession(t)
		otherSessionID := seedSession(t)

		require.NoError(t, repo.Upsert(ctx, record(sessionID, 2, "c")))
		require.NoError(t, repo.Upsert(ctx, record(sessionID, 0, "a")))
		require.NoError(t, repo.Upsert(ctx, record(sessionID, 1, "b")))
		require.NoError(t, repo.Upsert(ctx, record(otherSessionID, 0, "x")))

		records, err := repo.ListBySession(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, records, 3)
		for i, r := range records {
			assert.Equal(t, i, r.Index)
		}
	})

	t.Run("delete by session removes all records", func(t *testing.T) {
		truncate()
		sessionID := seedSession(t)

		require.NoError(t, repo.Upsert(ctx, record(sessionID, 0, "a")))
		require.NoError(t, repo.Upsert(ctx, record(sessionID, 1, "b")))

		require.NoError(t, repo.DeleteBySession(ctx, sessionID))

		records, err := repo.ListBySession(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
