// Package storage provides the two artifact store backends: local disk and
// S3 with presigned download URLs. The backend is chosen once at startup by
// configuration, never by code paths.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gsme/workorder-system/internal/core/ports"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Options carries everything needed to construct either backend.
type Options struct {
	Backend   string
	LocalPath string
	S3        S3Config
	URLTTL    time.Duration
	Cache     URLCache
	Logger    zerolog.Logger
}

// New selects and constructs the configured backend.
func New(ctx context.Context, opts Options) (ports.ArtifactStore, error) {
	switch opts.Backend {
	case BackendLocal, "":
		return NewLocalStore(opts.LocalPath)
	case BackendS3:
		return NewS3Store(ctx, opts.S3, opts.URLTTL, opts.Cache, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
