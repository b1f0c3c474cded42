// internal/common/storage/minio.go
package storage

import (
	"bytes"
	"context"
	"fmt"

	"kalastra-backend/internal/common/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient wraps the MinIO object storage client.
type MinIOClient struct {
	Client *minio.Client
}

// NewMinIO creates a new MinIO client.
func NewMinIO(cfg config.MinIOConfig) (*MinIOClient, error) {
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOClient{Client: c}, nil
}

// EnsureBucket creates the bucket if it does not already exist.
func (c *MinIOClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check failed: %w", err)
	}
	if exists {
		return nil
	}
	if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio bucket create failed: %w", err)
	}
	return nil
}

// Put stores an object and returns its key.
func (c *MinIOClient) Put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	_, err := c.Client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s/%s failed: %w", bucket, key, err)
	}
	return nil
}

// Ping verifies connectivity and credentials.
func (c *MinIOClient) Ping(ctx context.Context) error {
	if _, err := c.Client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("minio health check failed: %w", err)
	}
	return nil
}
