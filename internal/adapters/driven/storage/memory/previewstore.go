package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
)

// Ensure PreviewStore implements the interface.
var _ driven.PreviewStore = (*PreviewStore)(nil)

// PreviewStore keeps preview content in memory and counts releases.
type PreviewStore struct {
	mu       sync.Mutex
	content  map[string][]byte
	releases map[string]int
}

// NewPreviewStore creates a new in-memory preview store.
func NewPreviewStore() *PreviewStore {
	return &PreviewStore{
		content:  make(map[string][]byte),
		releases: make(map[string]int),
	}
}

// Create stores a copy of data under a new handle.
func (s *PreviewStore) Create(_ context.Context, name string, format domain.AssetFormat, data []byte) (domain.PreviewHandle, error) {
	if !format.IsValid() {
		return domain.PreviewHandle{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New().String()
	s.content[id] = bytes.Clone(data)
	return domain.PreviewHandle{ID: id, Name: name, Format: format, Path: "memory://" + id}, nil
}

// Open returns the stored content.
func (s *PreviewStore) Open(handle domain.PreviewHandle) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.content[handle.ID]
	if !ok {
		return nil, fmt.Errorf("preview %s: %w", handle.ID, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Release drops the content. Every call is counted, even repeated ones.
func (s *PreviewStore) Release(handle domain.PreviewHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, handle.ID)
	s.releases[handle.ID]++
	return nil
}

// Releases returns how many times handle was released.
func (s *PreviewStore) Releases(handle domain.PreviewHandle) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases[handle.ID]
}

// Live returns the number of handles not yet released.
func (s *PreviewStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.content)
}
