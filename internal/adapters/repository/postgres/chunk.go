package postgres

import (
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type sqlChunkRepository struct {
	db SQLQuerier
}

// NewSQLChunkRepository creates a new sqlChunkRepository
func NewSQLChunkRepository(db SQLQuerier) port.ChunkRepository {
	return &sqlChunkRepository{db: db}
}

// Upsert stores the record, overwriting any previous record at the same index
func (s *sqlChunkRepository) Upsert(ctx context.Context, record domain.ChunkRecord) error {
	query := `
		INSERT INTO upload_chunk (session_id, chunk_index, size_bytes, checksum, stored_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, chunk_index)
		DO UPDATE SET size_bytes = EXCLUDED.size_bytes, checksum = EXCLUDED.checksum, stored_at = EXCLUDED.stored_at`

	_, err := s.db.ExecContext(
		ctx,
		query,
		record.SessionID,
		record.Index,
		record.Size,
		record.Checksum,
		record.StoredAt,
	)
	if err != nil {
		return err
	}
	return nil
}

func (s *sqlChunkRepository) FindByIndex(ctx context.Context, sessionID uuid.UUID, index int) (*domain.ChunkRecord, error) {
	query := `
		SELECT session_id, chunk_index, size_bytes, checksum, stored_at
		FROM upload_chunk
		WHERE session_id = $1 AND chunk_index = $2`

	var row dbChunkRecord
	err := s.db.QueryRowContext(ctx, query, sessionID, index).Scan(
		&row.SessionID,
		&row.Index,
		&row.Size,
		&row.Checksum,
		&row.StoredAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChunkNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

func (s *sqlChunkRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ChunkRecord, error) {
	query := `
		SELECT session_id, chunk_index, size_bytes, checksum, stored_at
		FROM upload_chunk
		WHERE session_id = $1
		ORDER BY chunk_index ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ChunkRecord
	for rows.Next() {
		var row dbChunkRecord
		if err := rows.Scan(
			&row.SessionID,
			&row.Index,
			&row.Size,
			&row.Checksum,
			&row.StoredAt,
		); err != nil {
			return nil, err
		}
		records = append(records, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *sqlChunkRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM upload_chunk WHERE session_id = $1`

	_, err := s.db.ExecContext(ctx, query, sessionID)
	return err
}

type dbChunkRecord struct {
	SessionID uuid.UUID `db:"session_id"`
	Index     int       `db:"chunk_index"`
	Size      int64     `db:"size_bytes"`
	Checksum  string    `db:"checksum"`
	StoredAt  time.Time `db:"stored_at"`
}

// ToDomain converts db obj to domain
func (c *dbChunkRecord) ToDomain() *domain.ChunkRecord {
	return &domain.ChunkRecord{
		SessionID: c.SessionID,
		Index:     c.Index,
		Size:      c.Size,
		Checksum:  c.Checksum,
		StoredAt:  c.StoredAt,
	}
}
