package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pipe3d/internal/adapters/driving/watch"
	"github.com/custodia-labs/pipe3d/internal/core/domain"
)

var (
	watchMetricsAddr string
	watchExisting    bool
	watchSettle      time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Convert .glb files as they appear in a directory",
	Long: `Watch a directory and queue every .glb file written to it, converting the
queue after each arrival. Runs until interrupted.

Use --metrics-addr to expose Prometheus metrics, e.g. --metrics-addr :9090.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve /metrics on this address")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also queue .glb files already in the directory")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "wait for files to stop changing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if queueService == nil {
		return errNoQueue
	}
	if watchMetricsAddr != "" && metricsHandler == nil {
		return errors.New("metrics not configured")
	}

	unsubscribe := queueService.Subscribe(func(item domain.ConversionItem) {
		switch item.Status {
		case domain.StatusDone:
			cmd.Printf("✓ %s → %s\n", item.Source.Name, item.ResultName())
		case domain.StatusError:
			cmd.Printf("✗ %s: %s\n", item.Source.Name, item.Error)
		}
	})
	defer unsubscribe()

	w := watch.New(args[0], queueService,
		watch.WithSettle(watchSettle),
		watch.WithExisting(watchExisting),
		watch.WithOnQueued(func(item domain.ConversionItem) {
			cmd.Printf("Queued %s\n", item.Source.Name)
		}),
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return w.Run(ctx) })

	if watchMetricsAddr != "" {
		g.Go(func() error { return serveMetrics(ctx, watchMetricsAddr) })
		cmd.Printf("Metrics on http://%s/metrics\n", watchMetricsAddr)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return g.Wait()
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background()) //nolint:errcheck
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
