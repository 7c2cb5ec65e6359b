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

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

// Create creates an upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (
			id, owner_id, target_key, total_size, chunk_size, expected_chunk_count, status, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.OwnerID,
		session.TargetKey,
		session.TotalSize,
		session.ChunkSize,
		session.ExpectedChunkCount,
		session.Status,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return err
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `
		SELECT id, owner_id, target_key, total_size, chunk_size, expected_chunk_count, status, created_at, expires_at, completed_at, updated_at
		FROM upload_session
		WHERE id = $1`

	var row dbUploadSession
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID,
		&row.OwnerID,
		&row.TargetKey,
		&row.TotalSize,
		&row.ChunkSize,
		&row.ExpectedChunkCount,
		&row.Status,
		&row.CreatedAt,
		&row.ExpiresAt,
		&row.CompletedAt,
		&row.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return row.ToDomain(), nil
}

func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	query := `
		SELECT id, owner_id, target_key, total_size, chunk_size, expected_chunk_count, status, created_at, expires_at, completed_at, updated_at
		FROM upload_session
		WHERE status IN ('initiated', 'uploading', 'finalizing') AND expires_at <= $1`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		var row dbUploadSession
		if err := rows.Scan(
			&row.ID,
			&row.OwnerID,
			&row.TargetKey,
			&row.TotalSize,
			&row.ChunkSize,
			&row.ExpectedChunkCount,
			&row.Status,
			&row.CreatedAt,
			&row.ExpiresAt,
			&row.CompletedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, *row.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// UpdateStatus performs a compare-and-swap status transition
func (s *sqlUploadSessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.SessionStatus) error {
	query := `UPDATE upload_session SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`

	result, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// Complete transitions finalizing -> completed and stamps completed_at
func (s *sqlUploadSessionRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	query := `UPDATE upload_session SET status = 'completed', completed_at = $1, updated_at = now() WHERE id = $2 AND status = 'finalizing'`

	result, err := s.db.ExecContext(ctx, query, completedAt, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

type dbUploadSession struct {
	ID                 uuid.UUID    `db:"id"`
	OwnerID            string       `db:"owner_id"`
	TargetKey          string       `db:"target_key"`
	TotalSize          int64        `db:"total_size"`
	ChunkSize          int64        `db:"chunk_size"`
	ExpectedChunkCount int          `db:"expected_chunk_count"`
	Status             string       `db:"status"`
	CreatedAt          time.Time    `db:"created_at"`
	ExpiresAt          time.Time    `db:"expires_at"`
	CompletedAt        sql.NullTime `db:"completed_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	session := &domain.UploadSession{
		ID:                 s.ID,
		OwnerID:            s.OwnerID,
		TargetKey:          s.TargetKey,
		TotalSize:          s.TotalSize,
		ChunkSize:          s.ChunkSize,
		ExpectedChunkCount: s.ExpectedChunkCount,
		Status:             domain.SessionStatus(s.Status),
		CreatedAt:          s.CreatedAt,
		ExpiresAt:          s.ExpiresAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.CompletedAt.Valid {
		completedAt := s.CompletedAt.Time
		session.CompletedAt = &completedAt
	}
	return session
}
