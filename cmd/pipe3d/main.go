// Command pipe3d converts GLB assets to FBX through a remote backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/custodia-labs/pipe3d/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pipe3d/internal/adapters/driven/probe"
	"github.com/custodia-labs/pipe3d/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pipe3d/internal/adapters/driven/transport"
	"github.com/custodia-labs/pipe3d/internal/adapters/driven/transport/direct"
	"github.com/custodia-labs/pipe3d/internal/adapters/driven/transport/jobapi"
	"github.com/custodia-labs/pipe3d/internal/adapters/driving/cli"
	"github.com/custodia-labs/pipe3d/internal/core/domain"
	"github.com/custodia-labs/pipe3d/internal/core/ports/driven"
	"github.com/custodia-labs/pipe3d/internal/core/services"
	"github.com/custodia-labs/pipe3d/internal/decoders"
	"github.com/custodia-labs/pipe3d/internal/logger"
	"github.com/custodia-labs/pipe3d/internal/metrics"
	"github.com/custodia-labs/pipe3d/internal/normalisers"
)

// version is set at build time via -ldflags.
var version = "dev"

// envHome overrides the ~/.pipe3d data directory.
const envHome = "PIPE3D_HOME"

// Config keys read from config.toml.
const (
	keyRateLimit  = "transport.rate_per_second"
	keyTargetSize = "preview.target_size"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup, err := wire(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli.SetVersion(version)
	err = cli.Root().ExecuteContext(ctx)
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func wire(ctx context.Context) (func(), error) {
	home := os.Getenv(envHome)
	if home == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		home = dir
	}

	config, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("using config %s", config.Path())

	settings, err := services.NewBackendSettingsService(
		file.NewSettingsStore(config, domain.DefaultBackendConfig(os.Getenv)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening item store: %w", err)
	}

	previews, err := file.NewPreviewStore(filepath.Join(home, "previews"))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening preview store: %w", err)
	}

	rate := transport.DefaultRate
	if f, ok := config.GetFloat(keyRateLimit); ok && f > 0 {
		rate = f
	}
	limiter := transport.NewLimiter(rate)
	transports := transport.NewFactory(
		direct.New(direct.Config{Limiter: limiter}),
		jobapi.New(jobapi.Config{Limiter: limiter}),
	)

	collector := metrics.NewCollector("pipe3d")

	queue, err := services.NewConversionQueue(ctx,
		services.NewConversionClient(transports), settings, previews, store.ItemStore(),
		services.WithMetrics(collector),
	)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("restoring queue: %w", err)
	}

	preview, err := buildPreviewService(config, previews)
	if err != nil {
		store.Close()
		return nil, err
	}

	cli.SetServices(&cli.Services{
		Queue:        queue,
		Settings:     settings,
		Connectivity: services.NewConnectivityService(probe.NewHTTPProber(nil), settings),
		Preview:      preview,
		ResultAction: services.NewResultActionService(queue, previews, filepath.Join(home, "open")),
		Metrics:      collector.Handler(),
	})

	return func() {
		if err := store.Close(); err != nil {
			logger.L().Warn("closing item store", zap.Error(err))
		}
	}, nil
}

func buildPreviewService(config driven.ConfigStore, previews *file.PreviewStore) (*services.PreviewService, error) {
	registry := normalisers.NewRegistry()
	normalisers.RegisterDefaults(registry)

	geometryCfg := map[string]any{}
	if size, ok := config.GetFloat(keyTargetSize); ok {
		geometryCfg["target_size"] = size
	}
	geometry, err := registry.Build(normalisers.Geometry, geometryCfg)
	if err != nil {
		return nil, fmt.Errorf("building geometry normaliser: %w", err)
	}
	material, err := registry.Build(normalisers.Material, nil)
	if err != nil {
		return nil, fmt.Errorf("building material normaliser: %w", err)
	}

	return services.NewPreviewService(previews, decoders.NewDefaultRegistry(), geometry, material), nil
}
