// Package cli provides the cobra command tree for pipe3d.
package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pipe3d/internal/core/ports/driving"
	"github.com/custodia-labs/pipe3d/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services injected by the composition root.
var (
	queueService        driving.ConversionQueue
	settingsService     driving.BackendSettingsService
	connectivityService driving.ConnectivityService
	previewService      driving.PreviewService
	resultActionService driving.ResultActionService
	metricsHandler      http.Handler
)

// Services holds the driving ports used by the commands.
type Services struct {
	Queue        driving.ConversionQueue
	Settings     driving.BackendSettingsService
	Connectivity driving.ConnectivityService
	Preview      driving.PreviewService
	ResultAction driving.ResultActionService

	// Metrics serves the Prometheus exposition for watch mode. Optional.
	Metrics http.Handler
}

// SetServices injects the services the commands run against.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	queueService = s.Queue
	settingsService = s.Settings
	connectivityService = s.Connectivity
	previewService = s.Preview
	resultActionService = s.ResultAction
	metricsHandler = s.Metrics
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "pipe3d",
	Short: "Convert GLB assets to FBX",
	Long: `pipe3d queues .glb assets and converts them to .fbx through a
remote conversion backend, one file at a time.

Two backends are supported:
  local  - POST the raw file to a conversion API
  runpod - submit a base64 job to a RunPod runsync endpoint

Run without arguments to open the terminal UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the root command so callers can execute it with a context.
func Root() *cobra.Command {
	return rootCmd
}
