package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

// stdin is the reader used for interactive prompts.
var stdin io.Reader = os.Stdin

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage backend settings",
	Long: `View and configure the conversion backend.

Every change is saved immediately.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode [local|runpod]",
	Short: "Select the conversion backend",
	Long: `Select which backend conversions are sent to.

Available modes:
  local  - Remote Convert API, the raw file is posted as multipart form data
  runpod - RunPod runsync API, the file is sent as a base64 JSON job

Without an argument the mode is chosen interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsMode,
}

var settingsDirectURLCmd = &cobra.Command{
	Use:   "direct-url [url]",
	Short: "Set the Remote Convert API URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if settingsService == nil {
			return errNoSettings
		}
		return settingsService.SetDirectEndpoint(args[0])
	},
}

var settingsJobURLCmd = &cobra.Command{
	Use:   "job-url [url]",
	Short: "Set the RunPod runsync URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if settingsService == nil {
			return errNoSettings
		}
		return settingsService.SetJobAPIEndpoint(args[0])
	},
}

var settingsJobKeyCmd = &cobra.Command{
	Use:   "job-key",
	Short: "Set the RunPod API key",
	Long: `Set the RunPod API key. The key is read from the terminal without echo,
or from standard input when it is not a terminal. An empty key clears it.`,
	Args: cobra.NoArgs,
	RunE: runSettingsJobKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsDirectURLCmd)
	settingsCmd.AddCommand(settingsJobURLCmd)
	settingsCmd.AddCommand(settingsJobKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	cfg := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  Mode: %s (%s)\n", cfg.Mode.Description(), cfg.Mode.WireValue())
	cmd.Printf("  Active endpoint: %s\n", valueOrUnset(cfg.ActiveEndpoint()))
	cmd.Println()

	cmd.Println("[Remote Convert API]")
	cmd.Printf("  URL: %s\n", valueOrUnset(cfg.DirectEndpoint))
	cmd.Println()

	cmd.Println("[RunPod]")
	cmd.Printf("  URL: %s\n", valueOrUnset(cfg.JobAPIEndpoint))
	if cfg.JobAPIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.JobAPIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}

	return nil
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	var mode domain.BackendMode
	if len(args) == 1 {
		m, ok := domain.ParseBackendMode(args[0])
		if !ok {
			return fmt.Errorf("unknown mode %q (expected local or runpod)", args[0])
		}
		mode = m
	} else {
		modes := []domain.BackendMode{domain.BackendDirect, domain.BackendJobAPI}
		current := 1
		cmd.Println("Select Backend")
		for i, m := range modes {
			if m == settingsService.Get().Mode {
				current = i + 1
			}
			cmd.Printf("  %d. %s\n", i+1, m.Description())
		}
		cmd.Printf("\nEnter choice [%d]: ", current)
		choice := parseChoice(readLine(bufio.NewReader(stdin)), len(modes), current)
		mode = modes[choice-1]
	}

	if err := settingsService.SetMode(mode); err != nil {
		return fmt.Errorf("failed to set mode: %w", err)
	}
	cmd.Printf("Backend set to %s\n", mode.Description())
	return nil
}

func runSettingsJobKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	cmd.Print("RunPod API key: ")
	key := readPassword()
	cmd.Println()

	if err := settingsService.SetJobAPIKey(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	if key == "" {
		cmd.Println("API key cleared")
	} else {
		cmd.Printf("API key set to %s\n", maskAPIKey(key))
	}
	return nil
}

func valueOrUnset(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(not set)"
	}
	return v
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n') //nolint:errcheck // EOF yields the partial line
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword() string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(bufio.NewReader(stdin))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
