package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on converted items.
type ResultActionService struct {
	queue      driving.ConversionQueue
	previews   driven.PreviewStore
	scratchDir string
	open       func(path string) error
}

// NewResultActionService creates a new result action service. Files opened
// with Open are exported below scratchDir.
func NewResultActionService(
	queue driving.ConversionQueue,
	previews driven.PreviewStore,
	scratchDir string,
) *ResultActionService {
	return &ResultActionService{
		queue:      queue,
		previews:   previews,
		scratchDir: scratchDir,
		open:       openPath,
	}
}

// Export writes the converted file of a done item into dir.
func (s *ResultActionService) Export(ctx context.Context, itemID, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	item, err := s.queue.Get(itemID)
	if err != nil {
		return "", err
	}
	if item.Status != domain.StatusDone || item.ResultPreview == nil {
		return "", fmt.Errorf("%w: item %s is %s, not done", domain.ErrInvalidInput, itemID, item.Status)
	}

	rc, err := s.previews.Open(*item.ResultPreview)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	// Write to a temp file in the same directory so a failed copy never
	// leaves a truncated .fbx behind.
	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}

	path := filepath.Join(dir, item.ResultName())
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// Open exports the item below the scratch directory and opens it.
func (s *ResultActionService) Open(ctx context.Context, itemID string) (string, error) {
	path, err := s.Export(ctx, itemID, filepath.Join(s.scratchDir, itemID))
	if err != nil {
		return "", err
	}
	if err := s.open(path); err != nil {
		return path, fmt.Errorf("open %s: %w", path, err)
	}
	return path, nil
}

// openPath opens a file using the system default handler.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", path)
	case osLinux:
		cmd = exec.Command("xdg-open", path)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
