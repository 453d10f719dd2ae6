package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

var (
	addRun       bool
	listOutput   string
	errNoQueue   = errors.New("conversion queue not configured")
	outputFormat = []string{"table", "json", "yaml"}
)

var addCmd = &cobra.Command{
	Use:   "add [file.glb...]",
	Short: "Queue .glb files for conversion",
	Long: `Queue one or more .glb files. Files with any other extension are
skipped and reported. Use --run to convert the queue straight away.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert every pending item",
	Long: `Convert pending items one at a time using the current backend settings.
A failed item is marked as error and the remaining items still run.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued items",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var removeCmd = &cobra.Command{
	Use:   "remove [item-id]",
	Short: "Remove an item from the queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove finished and failed items",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	addCmd.Flags().BoolVar(&addRun, "run", false, "convert the queue after adding")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if queueService == nil {
		return errNoQueue
	}

	files := make([]domain.SourceFile, 0, len(args))
	for _, path := range args {
		if !domain.IsGLB(path) {
			files = append(files, domain.SourceFile{Name: filepath.Base(path)})
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, domain.SourceFile{Name: filepath.Base(path), Data: data})
	}

	items, skipped, err := queueService.EnqueueAll(cmd.Context(), files)
	for i := range items {
		cmd.Printf("Queued %s (%s)\n", items[i].Source.Name, items[i].ID)
	}
	for _, name := range skipped {
		cmd.Printf("Skipped %s: only .glb files can be converted\n", name)
	}
	if err != nil {
		return fmt.Errorf("failed to queue files: %w", err)
	}

	if addRun {
		return runRun(cmd, nil)
	}
	return nil
}

func runRun(cmd *cobra.Command, _ []string) error {
	if queueService == nil {
		return errNoQueue
	}

	before := make(map[string]bool)
	for _, item := range queueService.Items() {
		if item.Status == domain.StatusPending {
			before[item.ID] = true
		}
	}
	if len(before) == 0 {
		cmd.Println("Nothing to convert.")
		return nil
	}

	if err := queueService.ProcessAll(cmd.Context()); err != nil {
		if errors.Is(err, domain.ErrQueueBusy) {
			return errors.New("a conversion is already running")
		}
		return fmt.Errorf("conversion stopped: %w", err)
	}

	var done, failed int
	for _, item := range queueService.Items() {
		if !before[item.ID] {
			continue
		}
		switch item.Status {
		case domain.StatusDone:
			done++
			cmd.Printf("  ✓ %s → %s\n", item.Source.Name, item.ResultName())
		case domain.StatusError:
			failed++
			cmd.Printf("  ✗ %s: %s\n", item.Source.Name, item.Error)
		}
	}
	cmd.Printf("\nConverted %d, failed %d.\n", done, failed)
	return nil
}

// itemRecord is the list output shape for json and yaml.
type itemRecord struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
}

func toRecords(items []domain.ConversionItem) []itemRecord {
	records := make([]itemRecord, len(items))
	for i := range items {
		records[i] = itemRecord{
			ID:     items[i].ID,
			Name:   items[i].Source.Name,
			Status: items[i].Status.String(),
			Error:  items[i].Error,
		}
		if items[i].ResultPreview != nil {
			records[i].Result = items[i].ResultName()
		}
	}
	return records
}

func runList(cmd *cobra.Command, _ []string) error {
	if queueService == nil {
		return errNoQueue
	}

	items := queueService.Items()
	switch listOutput {
	case "json":
		data, err := json.MarshalIndent(toRecords(items), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		cmd.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(toRecords(items))
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		cmd.Print(string(data))
	case "table":
		outputItemTable(cmd, items)
	default:
		return fmt.Errorf("unknown output format %q (expected one of %v)", listOutput, outputFormat)
	}
	return nil
}

func outputItemTable(cmd *cobra.Command, items []domain.ConversionItem) {
	if len(items) == 0 {
		cmd.Println("Queue is empty.")
		return
	}

	cmd.Printf("%-36s  %-10s  %s\n", "ID", "STATUS", "FILE")
	for i := range items {
		line := items[i].Source.Name
		switch items[i].Status {
		case domain.StatusDone:
			line += " → " + items[i].ResultName()
		case domain.StatusError:
			line += " (" + items[i].Error + ")"
		}
		cmd.Printf("%-36s  %-10s  %s\n", items[i].ID, items[i].Status, line)
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	if queueService == nil {
		return errNoQueue
	}

	if err := queueService.Remove(cmd.Context(), args[0]); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("item %s not found", args[0])
		case errors.Is(err, domain.ErrItemBusy):
			return fmt.Errorf("item %s is converting and cannot be removed", args[0])
		}
		return fmt.Errorf("failed to remove item: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if queueService == nil {
		return errNoQueue
	}

	n, err := queueService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}
	cmd.Printf("Removed %d finished item(s)\n", n)
	return nil
}
