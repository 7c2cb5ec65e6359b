package domain

import (
	"time"

	"github.com/google/uuid"
)

// GrantScope represents the single action a grant authorizes
type GrantScope string

const (
	GrantScopeWriteChunk GrantScope = "write_chunk"
	GrantScopeFinalize   GrantScope = "finalize"
	GrantScopeReadObject GrantScope = "read_object"
)

// AccessGrant represents a signed, scope-bound, time-limited credential
// authorizing one action against one session
type AccessGrant struct {
	Token      string
	SessionID  uuid.UUID
	Scope      GrantScope
	ChunkIndex *int
	IssuedAt   time.Time
	ExpiresAt  time.Time
}
