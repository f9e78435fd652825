// Package storage delivers finished posters to an object sink and hands back
// the URL a caller can fetch them from. The core treats the sink as opaque:
// which backend runs, and whether the URL is public or time-limited, is pure
// deployment configuration.
package storage

import (
	"context"
	"fmt"

	"mapposter/internal/infra"
)

// Store persists an object and returns its access URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
}

// FromConfig constructs the configured storage backend. The inline backend
// has no store at all: the handler streams bytes back instead of uploading,
// so (nil, nil) is a valid result.
func FromConfig(ctx context.Context, cfg *infra.Config) (Store, error) {
	switch cfg.StorageBackend {
	case infra.StorageInline:
		return nil, nil
	case infra.StorageFilesystem:
		return NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
	case infra.StorageS3:
		mode := URLModePublic
		if cfg.SignURLs {
			mode = URLModePresigned
		}
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.OutputBucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			URLMode:         mode,
			PresignedTTL:    cfg.SignedURLTTL,
		})
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.StorageBackend)
	}
}
