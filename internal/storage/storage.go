package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"craftkart/internal/config"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store persists uploaded files and returns where they can be fetched.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicURL)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
