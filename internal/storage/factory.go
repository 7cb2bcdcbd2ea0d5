package storage

import (
	"context"
	"fmt"

	"qrdrop/config"
)

// NewBackend creates the storage backend named by config. Local disk is the
// default; s3 also covers MinIO via a custom endpoint.
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.StorageBackend {
	case "local", "":
		return NewLocalBackend(cfg.UploadDir)
	case "s3":
		return NewS3Backend(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
