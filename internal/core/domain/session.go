package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the status of an upload session
type SessionStatus string

const (
	SessionStatusInitiated  SessionStatus = "initiated"
	SessionStatusUploading  SessionStatus = "uploading"
	SessionStatusFinalizing SessionStatus = "finalizing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusAborted    SessionStatus = "aborted"
	SessionStatusExpired    SessionStatus = "expired"
)

// IsTerminal reports whether no further transition is allowed from the status
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusAborted, SessionStatusExpired:
		return true
	}
	return false
}

// IsWritable reports whether chunk admission is allowed in the status
func (s SessionStatus) IsWritable() bool {
	return s == SessionStatusInitiated || s == SessionStatusUploading
}

// UploadSession represents one chunked upload bounded by an expiry
type UploadSession struct {
	ID                 uuid.UUID
	OwnerID            string
	TargetKey          string
	TotalSize          int64
	ChunkSize          int64
	ExpectedChunkCount int
	Status             SessionStatus
	CreatedAt          time.Time
	ExpiresAt          time.Time
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

// UploadProgress represents how far a session has come
type UploadProgress struct {
	SessionID      uuid.UUID
	UploadedChunks int
	ExpectedChunks int
	Percent        float64
	Status         SessionStatus
	ExpiresAt      time.Time
}

// ChunkRecord represents one stored chunk of a session
type ChunkRecord struct {
	SessionID uuid.UUID
	Index     int
	Size      int64
	Checksum  string
	StoredAt  time.Time
}

// StagingKey returns the object-store key a chunk is staged under
func StagingKey(sessionID uuid.UUID, index int) string {
	return fmt.Sprintf("staging/%s/%d", sessionID, index)
}
