package upload_test

import (
	"encoding/json"
	"io"
	"log/slog"
	http2 "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chunkvault/internal/adapters/handlers/http/chi"
	upload2 "chunkvault/internal/adapters/handlers/http/chi/v1/upload"
	"chunkvault/internal/core/domain"
	"chunkvault/internal/core/service/access"
	"chunkvault/internal/core/service/chunk"
	"chunkvault/internal/core/service/upload"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDownloadV1(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newHarness := func() (*access.MockAccessService, http2.Handler) {
		mockAccess := access.NewMockAccessService()
		handler := upload2.NewUploadHandlerV1(upload.NewMockUploadService(), chunk.NewMockChunkService(), mockAccess, discardLogger)
		return mockAccess, chi.NewRouter(discardLogger, handler, "")
	}

	t.Run("success - signed url returned", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		expiresAt := time.Now().Add(time.Hour)

		mockAccess, h := newHarness()
		mockAccess.On("SignedDownloadURL", mock.Anything, "read-token", sessionID).
			Return("https://minio.local/objects/final.bin?signed", &expiresAt, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/download", nil)
		req.Header.Set("X-Upload-Token", "read-token")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)

		var response upload2.V1DownloadResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "https://minio.local/objects/final.bin?signed", response.URL)
		require.NotNil(t, response.ExpiresAt)
		assert.WithinDuration(t, expiresAt, *response.ExpiresAt, time.Second)

		mockAccess.AssertExpectations(t)
	})

	t.Run("error - missing token", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		_, h := newHarness()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/download", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusUnauthorized, w.Code)
	})

	t.Run("error - object not ready", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		mockAccess, h := newHarness()
		mockAccess.On("SignedDownloadURL", mock.Anything, mock.Anything, sessionID).
			Return("", (*time.Time)(nil), domain.ErrObjectNotReady)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/download", nil)
		req.Header.Set("X-Upload-Token", "read-token")

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusConflict, w.Code)
	})

	t.Run("error - revoked grant", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		mockAccess, h := newHarness()
		mockAccess.On("SignedDownloadURL", mock.Anything, mock.Anything, sessionID).
			Return("", (*time.Time)(nil), domain.ErrGrantRevoked)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/download?token=read-token", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusForbidden, w.Code)
	})
}

func TestProgressV1(t *testing.T) {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newHarness := func() (*chunk.MockChunkService, http2.Handler) {
		mockChunk := chunk.NewMockChunkService()
		handler := upload2.NewUploadHandlerV1(upload.NewMockUploadService(), mockChunk, access.NewMockAccessService(), discardLogger)
		return mockChunk, chi.NewRouter(discardLogger, handler, "")
	}

	t.Run("success - progress returned", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		expiresAt := time.Now().Add(time.Hour)

		mockChunk, h := newHarness()
		mockChunk.On("Progress", mock.Anything, sessionID).
			Return(&domain.UploadProgress{
				SessionID:      sessionID,
				UploadedChunks: 2,
				ExpectedChunks: 3,
				Percent:        66.67,
				Status:         domain.SessionStatusUploading,
				ExpiresAt:      expiresAt,
			}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/progress", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)

		var response upload2.V1ProgressResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, 2, response.UploadedChunks)
		assert.Equal(t, 3, response.ExpectedChunks)
		assert.InDelta(t, 66.67, response.Percent, 0.001)
		assert.Equal(t, "uploading", response.Status)

		mockChunk.AssertExpectations(t)
	})

	t.Run("error - session not found", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		mockChunk, h := newHarness()
		mockChunk.On("Progress", mock.Anything, sessionID).
			Return((*domain.UploadProgress)(nil), domain.ErrSessionNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/progress", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})

	t.Run("success - chunks listed", func(t *testing.T) {
		// Arrange
		sessionID := uuid.New()
		mockChunk, h := newHarness()
		mockChunk.On("ListChunks", mock.Anything, sessionID).
			Return([]domain.ChunkRecord{
				{SessionID: sessionID, Index: 0, Size: 100, Checksum: "a", StoredAt: time.Now()},
				{SessionID: sessionID, Index: 1, Size: 50, Checksum: "b", StoredAt: time.Now()},
			}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http2.MethodGet, "/api/v1/uploads/"+sessionID.String()+"/chunks", nil)

		// Act
		h.ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)

		var response []upload2.V1ChunkResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		require.Len(t, response, 2)
		assert.Equal(t, 0, response[0].Index)
		assert.Equal(t, 1, response[1].Index)
	})
}
