package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore writes files below a directory on the host filesystem.
type LocalStore struct {
	fs        afero.Fs
	publicURL string
}

// NewLocalStore roots the store at dir, creating it when missing.
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return NewLocalStoreWithFs(afero.NewBasePathFs(osFs, dir), publicURL), nil
}

// NewLocalStoreWithFs uses an existing filesystem, e.g. afero.NewMemMapFs in tests.
func NewLocalStoreWithFs(fs afero.Fs, publicURL string) *LocalStore {
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &LocalStore{fs: fs, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := path.Clean("/" + key)
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("failed to create document dir: %w", err)
	}

	if err := afero.WriteReader(s.fs, name, io.LimitReader(r, size)); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}

	return s.publicURL + name, nil
}

// Handler serves stored files; mount it under the public URL prefix.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(s.publicURL, http.FileServer(afero.NewHttpFs(s.fs).Dir("/")))
}
