package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoActions = errors.New("result actions not configured")

var exportCmd = &cobra.Command{
	Use:   "export [item-id] [dir]",
	Short: "Save a converted .fbx file",
	Long:  `Write the converted file of a finished item into dir (default: current directory).`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExport,
}

var openCmd = &cobra.Command{
	Use:   "open [item-id]",
	Short: "Open a converted file in the default application",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(openCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if resultActionService == nil {
		return errNoActions
	}

	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}

	path, err := resultActionService.Export(cmd.Context(), args[0], dir)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	cmd.Printf("Saved %s\n", path)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	if resultActionService == nil {
		return errNoActions
	}

	path, err := resultActionService.Open(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to open: %w", err)
	}
	cmd.Printf("Opened %s\n", path)
	return nil
}
