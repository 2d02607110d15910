package app

import (
	"context"
	"fmt"
	"time"

	"github.com/cuems/aedkeeper/internal/config"
	"github.com/cuems/aedkeeper/internal/datalayer"
	"github.com/cuems/aedkeeper/internal/localstore"
	"github.com/cuems/aedkeeper/internal/logging"
	"github.com/cuems/aedkeeper/internal/netstate"
	"github.com/cuems/aedkeeper/internal/pending"
	"github.com/cuems/aedkeeper/internal/prefs"
	"github.com/cuems/aedkeeper/internal/remote"
	"github.com/cuems/aedkeeper/internal/seed"
	"github.com/cuems/aedkeeper/internal/state"
	"github.com/cuems/aedkeeper/internal/ui"
)

// Options configure the aedkeeper application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/aedkeeper/prefs.toml
	PollEvery    int    // seconds; zero uses the configured sync interval
	StartOffline bool
	ExportPath   string // write the local store archive and exit
	ImportPath   string // restore the local store archive and exit
}

// Run boots the aedkeeper TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("using default preferences")
	}

	backend, err := localstore.NewFileBackend(cfg.StoreDir())
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	local := localstore.New(backend, logger)

	switch {
	case opts.ExportPath != "":
		return exportArchive(local, opts.ExportPath, time.Now())
	case opts.ImportPath != "":
		return importArchive(local, opts.ImportPath)
	}

	seedData, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	repo := remote.NewMemoryRepository(time.Now)
	if err := repo.Open(seedData); err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer repo.Close()

	client, err := remote.NewClient(repo, remote.Options{
		Latency: remote.DefaultLatency().Scaled(cfg.LatencyScale),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("init remote client: %w", err)
	}

	network := netstate.NewSwitch(!(cfg.StartOffline || opts.StartOffline))
	svc, err := datalayer.New(datalayer.Options{
		Remote:  client,
		Store:   local,
		Queue:   pending.NewQueue(local, logger, time.Now),
		Network: network,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("init data layer: %w", err)
	}

	boot := svc.InitializeOfflineData(ctx)
	logger.Info().Bool("success", boot.Success).Bool("online", network.Online()).Msg(boot.Message)

	store := &state.Store{}

	interval := cfg.SyncInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Populate the store before the UI draws its first frame.
	_ = refresh(ctx, store, svc, logger)
	StartPoller(ctx, store, svc, interval, logger)

	uiOpts := ui.Options{
		Context: ctx,
		Backend: svc,
		Network: network,
		Store:   store,
		Refresh: func(ctx context.Context) error {
			return refresh(ctx, store, svc, logger)
		},
		PollTick:  ui.DefaultUIInterval,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
		Status:    boot.Message,
		Logger:    logging.WithComponent(logger, "ui"),
	}
	return ui.Run(uiOpts)
}
