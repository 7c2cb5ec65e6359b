package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"chunkvault/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// PutChunk writes staged chunk bytes under the given key
func (a *Adapter) PutChunk(ctx context.Context, key string, payload []byte) error {
	_, err := a.client.PutObject(
		ctx,
		a.config.BucketName,
		key,
		bytes.NewReader(payload),
		int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// GetObject reads a whole object
func (a *Adapter) GetObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// DeleteObject removes an object
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// ComposeObject concatenates the sources, in the given order, into targetKey
func (a *Adapter) ComposeObject(ctx context.Context, targetKey string, sourceKeys []string) error {
	sources := make([]minio.CopySrcOptions, 0, len(sourceKeys))
	for _, key := range sourceKeys {
		sources = append(sources, minio.CopySrcOptions{
			Bucket: a.config.BucketName,
			Object: key,
		})
	}

	dst := minio.CopyDestOptions{
		Bucket: a.config.BucketName,
		Object: targetKey,
	}

	if _, err := a.client.ComposeObject(ctx, dst, sources...); err != nil {
		return fmt.Errorf("failed to compose object %s from %d parts: %w", targetKey, len(sourceKeys), err)
	}
	return nil
}

// GeneratePresignedURLForDownload generates a signed download url
func (a *Adapter) GeneratePresignedURLForDownload(ctx context.Context, key string) (string, *time.Time, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, a.config.DownloadSignedURLDuration, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	expiresAt := time.Now().Add(a.config.DownloadSignedURLDuration)
	return presignedURL.String(), &expiresAt, nil
}
