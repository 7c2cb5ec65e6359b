package access

import (
	"chunkvault/internal/config"
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/port"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type accessService struct {
	sessions  port.UploadSessionRepository
	storage   port.ObjectStorage
	secret    []byte
	accessCfg config.AccessConfig
}

// NewAccessService creates a new access control service
func NewAccessService(sessions port.UploadSessionRepository, storage port.ObjectStorage, cfg config.AccessConfig) port.AccessService {
	return &accessService{
		sessions:  sessions,
		storage:   storage,
		secret:    []byte(cfg.TokenSecret),
		accessCfg: cfg,
	}
}

// IssueGrant mints a signed token binding session, scope, optional chunk
// index and expiry. Verification needs no lookup to detect forgery, only
// the session-status check for revocation.
func (a *accessService) IssueGrant(ctx context.Context, sessionID uuid.UUID, scope domain.GrantScope, chunkIndex *int, ttl time.Duration) (*domain.AccessGrant, error) {

	session, err := a.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionStatusAborted || session.Status == domain.SessionStatusExpired {
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrSessionTerminal, sessionID, session.Status)
	}

	if ttl < 0 {
		ttl = a.accessCfg.GrantTTL
	}

	issuedAt := time.Now().Truncate(time.Second)
	grant := domain.AccessGrant{
		SessionID:  sessionID,
		Scope:      scope,
		ChunkIndex: chunkIndex,
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(ttl),
	}
	grant.Token = a.sign(grant)

	return &grant, nil
}

// VerifyGrant checks a token against the required scope and request context
func (a *accessService) VerifyGrant(ctx context.Context, token string, requiredScope domain.GrantScope, sessionID uuid.UUID, chunkIndex *int) error {

	grant, err := a.parse(token)
	if err != nil {
		return err
	}

	if !time.Now().Before(grant.ExpiresAt) {
		return fmt.Errorf("%w: at %s", domain.ErrGrantExpired, grant.ExpiresAt.Format(time.RFC3339))
	}

	if grant.Scope != requiredScope {
		return fmt.Errorf("%w: token grants %s, %s required", domain.ErrScopeMismatch, grant.Scope, requiredScope)
	}

	if grant.SessionID != sessionID {
		return domain.ErrSessionMismatch
	}

	if grant.ChunkIndex != nil {
		if chunkIndex == nil || *grant.ChunkIndex != *chunkIndex {
			return domain.ErrChunkMismatch
		}
	}

	// Revocation: aborting or expiring a session invalidates its grants
	// even before their own expiry.
	session, err := a.sessions.FindByID(ctx, grant.SessionID)
	if err != nil {
		return err
	}
	if session.Status == domain.SessionStatusAborted || session.Status == domain.SessionStatusExpired {
		return fmt.Errorf("%w: session is %s", domain.ErrGrantRevoked, session.Status)
	}

	return nil
}

// SignedDownloadURL exchanges a read_object grant for a presigned download
// URL of the finished object
func (a *accessService) SignedDownloadURL(ctx context.Context, token string, sessionID uuid.UUID) (string, *time.Time, error) {

	if err := a.VerifyGrant(ctx, token, domain.GrantScopeReadObject, sessionID, nil); err != nil {
		return "", nil, err
	}

	session, err := a.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}
	if session.Status != domain.SessionStatusCompleted {
		return "", nil, fmt.Errorf("%w: session is %s", domain.ErrObjectNotReady, session.Status)
	}

	return a.storage.GeneratePresignedURLForDownload(ctx, session.TargetKey)
}

// sign serializes the claims and appends an HMAC-SHA256 signature
func (a *accessService) sign(grant domain.AccessGrant) string {
	claims := encodeClaims(grant)

	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(claims))

	return base64.RawURLEncoding.EncodeToString([]byte(claims)) +
		"." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (a *accessService) parse(token string) (*domain.AccessGrant, error) {
	claimsPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return nil, fmt.Errorf("%w: malformed token", domain.ErrInvalidSignature)
	}

	claims, err := base64.RawURLEncoding.DecodeString(claimsPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}

	mac := hmac.New(sha256.New, a.secret)
	mac.Write(claims)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, domain.ErrInvalidSignature
	}

	grant, err := decodeClaims(string(claims))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSignature, err)
	}
	grant.Token = token

	return grant, nil
}

func encodeClaims(grant domain.AccessGrant) string {
	chunkIndex := -1
	if grant.ChunkIndex != nil {
		chunkIndex = *grant.ChunkIndex
	}
	return fmt.Sprintf("%s|%s|%d|%d|%d",
		grant.SessionID,
		grant.Scope,
		chunkIndex,
		grant.IssuedAt.Unix(),
		grant.ExpiresAt.Unix(),
	)
}

func decodeClaims(claims string) (*domain.AccessGrant, error) {
	fields := strings.Split(claims, "|")
	if len(fields) != 5 {
		return nil, fmt.Errorf("expected 5 claim fields, got %d", len(fields))
	}

	sessionID, err := uuid.Parse(fields[0])
	if err != nil {
		return nil, err
	}

	chunkIndex, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, err
	}

	issuedAt, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, err
	}
	expiresAt, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, err
	}

	grant := &domain.AccessGrant{
		SessionID: sessionID,
		Scope:     domain.GrantScope(fields[1]),
		IssuedAt:  time.Unix(issuedAt, 0),
		ExpiresAt: time.Unix(expiresAt, 0),
	}
	if chunkIndex >= 0 {
		grant.ChunkIndex = &chunkIndex
	}

	return grant, nil
}
