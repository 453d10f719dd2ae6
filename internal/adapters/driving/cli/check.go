package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

var checkCmd = &cobra.Command{
	Use:   "check [endpoint]",
	Short: "Check that the conversion endpoint is reachable",
	Long: `Probe the active endpoint, or the given one, with a short request.

A reachable endpoint only proves the network path is open. It does not
prove the endpoint will accept a conversion.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if connectivityService == nil {
		return errors.New("connectivity service not configured")
	}

	var state domain.ConnectivityState
	if len(args) == 1 {
		cmd.Printf("Checking %s\n", args[0])
		state = connectivityService.Check(cmd.Context(), args[0])
	} else {
		if settingsService != nil {
			cmd.Printf("Checking %s\n", valueOrUnset(settingsService.ActiveEndpoint()))
		}
		state = connectivityService.CheckActive(cmd.Context())
	}

	cmd.Printf("%s: %s\n", state.Status, state.Message)
	if state.Status != domain.ConnectionConnected {
		return errors.New("endpoint is not reachable")
	}
	return nil
}
