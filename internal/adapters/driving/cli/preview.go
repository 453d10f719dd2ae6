package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
)

var (
	previewResult  bool
	previewRemap   bool
	previewNoRemap bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [item-id]",
	Short: "Inspect the normalised scene of an item",
	Long: `Decode an item's source .glb, or its converted .fbx with --result, fit it
to the preview size and print what the viewer would show.

FBX results get their legacy materials remapped by default. Use
--material-remap or --no-material-remap to override.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewResult, "result", false, "preview the converted file instead of the source")
	previewCmd.Flags().BoolVar(&previewRemap, "material-remap", false, "always remap legacy materials")
	previewCmd.Flags().BoolVar(&previewNoRemap, "no-material-remap", false, "never remap legacy materials")
	previewCmd.MarkFlagsMutuallyExclusive("material-remap", "no-material-remap")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if queueService == nil {
		return errNoQueue
	}
	if previewService == nil {
		return errors.New("preview service not configured")
	}

	item, err := queueService.Get(args[0])
	if err != nil {
		return fmt.Errorf("item %s: %w", args[0], err)
	}

	handle := item.SourcePreview
	if previewResult {
		if item.ResultPreview == nil {
			return fmt.Errorf("item %s has no converted result (status %s)", item.ID, item.Status)
		}
		handle = *item.ResultPreview
	}

	var opts driving.PreviewOptions
	switch {
	case previewRemap:
		remap := true
		opts.RemapMaterials = &remap
	case previewNoRemap:
		remap := false
		opts.RemapMaterials = &remap
	}

	viewer, err := previewService.Load(cmd.Context(), handle, opts)
	if err != nil {
		return fmt.Errorf("failed to load preview: %w", err)
	}
	defer viewer.Close()

	printSummary(cmd, viewer.Summary())
	return nil
}

func printSummary(cmd *cobra.Command, s driving.SceneSummary) {
	cmd.Printf("Scene: %s (%s)\n", s.Name, s.Format)
	cmd.Printf("  Meshes:    %d\n", s.Meshes)
	cmd.Printf("  Vertices:  %d\n", s.Vertices)
	cmd.Printf("  Materials: %d\n", s.Materials)
	cmd.Printf("  Size:      %.3f × %.3f × %.3f\n", s.Size[0], s.Size[1], s.Size[2])
	cmd.Printf("  Center:    (%.3f, %.3f, %.3f)\n", s.Center[0], s.Center[1], s.Center[2])
	cmd.Printf("  Scale:     %.4f\n", s.Scale)
	if s.Format == domain.FormatFBX {
		cmd.Printf("  Materials remapped: %t\n", s.Remapped)
	}
}
