package driving

import "context"

// ResultActionService provides actions on converted items for external actors.
// This is used by TUI, CLI, and MCP adapters.
type ResultActionService interface {
	// Export writes the converted file of a done item into dir and returns
	// the written path. The file is named after the source with .fbx.
	Export(ctx context.Context, itemID, dir string) (string, error)

	// Open exports the converted file to a scratch directory and opens it
	// in the system's default application.
	Open(ctx context.Context, itemID string) (string, error)
}
