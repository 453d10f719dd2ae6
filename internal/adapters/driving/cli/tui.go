package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

var tuiExportDir string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for pipe3d.

The TUI shows the conversion queue and the backend connection state.

Controls:
  ↑/k, ↓/j - Select item
  p        - Convert pending items
  c        - Check connection
  e        - Export selected result
  d        - Remove selected item
  x        - Clear finished items
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiExportDir, "export-dir", ".", "directory converted files are exported to")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Queue:        queueService,
		Settings:     settingsService,
		Connectivity: connectivityService,
		ResultAction: resultActionService,
	}

	app, err := tui.NewApp(ports, tuiExportDir)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	unsubscribe := queueService.Subscribe(func(item domain.ConversionItem) {
		p.Send(messages.ItemUpdated{Item: item})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
