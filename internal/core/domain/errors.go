package domain

import "errors"

// ErrSessionNotFound is an error thrown when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionNotWritable is an error thrown when a session no longer accepts chunks
var ErrSessionNotWritable = errors.New("session not writable")

// ErrSessionTerminal is an error thrown when acting on a completed, aborted or expired session
var ErrSessionTerminal = errors.New("session is terminal")

// ErrSessionBusy is an error thrown when the per-session lock cannot be acquired in time
var ErrSessionBusy = errors.New("session busy")

// ErrInvalidSize is an error thrown when declared sizes are not positive
var ErrInvalidSize = errors.New("invalid size")

// ErrInvalidIndex is an error thrown when a chunk index is out of range
var ErrInvalidIndex = errors.New("invalid chunk index")

// ErrChecksumMismatch is an error thrown when the supplied checksum does not match the payload
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ErrIncompleteUpload is an error thrown when finalize finds missing chunks
var ErrIncompleteUpload = errors.New("incomplete upload")

// ErrAssemblyFailed is an error thrown when the object store fails to assemble the chunks
var ErrAssemblyFailed = errors.New("assembly failed")

// ErrChunkNotFound is an error thrown when a chunk record is not found
var ErrChunkNotFound = errors.New("chunk not found")

// ErrInvalidSignature is an error thrown when a grant token is tampered or malformed
var ErrInvalidSignature = errors.New("invalid token signature")

// ErrGrantExpired is an error thrown when a grant is past its expiry
var ErrGrantExpired = errors.New("grant expired")

// ErrGrantRevoked is an error thrown when the session behind a grant is terminal
var ErrGrantRevoked = errors.New("grant revoked")

// ErrScopeMismatch is an error thrown when a grant is used outside its scope
var ErrScopeMismatch = errors.New("grant scope mismatch")

// ErrSessionMismatch is an error thrown when a grant is bound to another session
var ErrSessionMismatch = errors.New("grant session mismatch")

// ErrChunkMismatch is an error thrown when a grant is bound to another chunk index
var ErrChunkMismatch = errors.New("grant chunk mismatch")

// ErrObjectNotReady is an error thrown when the target object is requested before completion
var ErrObjectNotReady = errors.New("object not ready")
