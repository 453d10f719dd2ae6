package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure PreviewStore implements the interface.
var _ driven.PreviewStore = (*PreviewStore)(nil)

// PreviewStore materialises preview content as files in a directory.
// A handle's path is the file itself, so external viewers can open it.
type PreviewStore struct {
	dir string
}

// NewPreviewStore creates the directory if needed.
func NewPreviewStore(dir string) (*PreviewStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create preview directory: %w", err)
	}
	return &PreviewStore{dir: dir}, nil
}

// Create writes data to a new file named after a fresh handle ID.
func (s *PreviewStore) Create(ctx context.Context, name string, format domain.AssetFormat, data []byte) (domain.PreviewHandle, error) {
	if err := ctx.Err(); err != nil {
		return domain.PreviewHandle{}, err
	}
	if !format.IsValid() {
		return domain.PreviewHandle{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	id := uuid.New().String()
	path := filepath.Join(s.dir, id+"."+format.String())
	if err := os.WriteFile(path, data, 0600); err != nil {
		return domain.PreviewHandle{}, fmt.Errorf("write preview: %w", err)
	}

	return domain.PreviewHandle{ID: id, Name: name, Format: format, Path: path}, nil
}

// Open opens the file behind handle.
func (s *PreviewStore) Open(handle domain.PreviewHandle) (io.ReadCloser, error) {
	f, err := os.Open(handle.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("preview %s: %w", handle.ID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open preview: %w", err)
	}
	return f, nil
}

// Release deletes the file. A missing file is not an error.
func (s *PreviewStore) Release(handle domain.PreviewHandle) error {
	if handle.Path == "" {
		return nil
	}
	err := os.Remove(handle.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("release preview: %w", err)
	}
	return nil
}

// Dir returns the directory previews are written to.
func (s *PreviewStore) Dir() string {
	return s.dir
}
