package main

import (
	"context"
	"flag"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/adapters"
	"github.com/brettbedarf/codecollab/config"
	"github.com/brettbedarf/codecollab/filetree"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/brettbedarf/codecollab/mount"
	"github.com/brettbedarf/codecollab/requests"
	"github.com/brettbedarf/codecollab/server"
	"github.com/brettbedarf/codecollab/share"
	"github.com/brettbedarf/codecollab/workspace"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		verbose    int
		nodesDef   string
		projectID  string
		mnt        string
		umount     bool
		watch      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (.yaml, .yml or .json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&nodesDef, "nodes", "", "Path to a forest definition file to import into --project")
	flag.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flag.StringVar(&projectID, "project", "default", "Project id used by --nodes and --mount")
	flag.StringVar(&projectID, "p", "default", "--project (shorthand)")
	flag.StringVar(&mnt, "mount", "", "Mount --project read-only at this directory")
	flag.StringVar(&mnt, "m", "", "--mount (shorthand)")
	flag.BoolVar(&umount, "umount", false,
		"Unmount the mount dir first if needed before mounting again. Useful for debuggers that don't exit properly.")
	flag.BoolVar(&umount, "u", false, "--umount (shorthand)")
	flag.BoolVar(&watch, "watch", false, "Re-import --nodes into --project whenever the file changes")
	flag.BoolVar(&watch, "w", false, "--watch (shorthand)")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.Parse()

	cfg := config.NewDefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(configPath); err != nil {
			util.InitializeLogger(util.InfoLevel, util.ConsoleFormat)
			logger := util.GetLogger("main")
			logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
	}
	// An explicit flag beats the config file
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "verbose" || f.Name == "v" {
			cfg.Merge(&config.ConfigOverride{LogLvl: &verbose})
		}
	})

	util.InitializeLogger(cfg.LogLvl, cfg.LogFormat)
	logger := util.GetLogger("main")
	logger.Info().
		Str("addr", cfg.Addr()).
		Str("store", cfg.StoreType).
		Str("nodes", nodesDef).
		Str("mnt", mnt).
		Msg("CodeCollab server initializing")

	registry := adapters.NewRegistry()
	adapters.RegisterBuiltins(registry)
	kv, err := registry.Open(cfg.StoreType, codecollab.StoreOptions{Path: cfg.StorePath})
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.StoreType).Msg("Failed to open content store")
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close content store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ws := workspace.New(kv,
		workspace.WithStarter(cfg.SeedStarter),
		workspace.WithObservers(workspace.LogObserver{}),
	)

	if nodesDef != "" {
		forest, err := requests.LoadForestFile(nodesDef)
		if err != nil {
			logger.Fatal().Err(err).Str("nodes", nodesDef).Msg("Failed to read nodes file")
		}
		p, err := ws.Import(ctx, projectID, forest)
		if err != nil {
			logger.Fatal().Err(err).Str("project", projectID).Msg("Failed to import nodes")
		}
		logger.Info().Str("project", p.ID()).Int("roots", len(forest)).Msg("Imported nodes into project")
	}

	if mnt != "" {
		if umount {
			// we ignore error here if not already mounted
			exec.Command("fusermount", "-u", mnt).Run() // nolint:errcheck
		}
		p, err := ws.Open(ctx, projectID)
		if err != nil {
			logger.Fatal().Err(err).Str("project", projectID).Msg("Failed to open project for mount")
		}
		h, err := mount.Mount(mnt, p.Snapshot(), cfg.MountOptions)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to mount project")
		}
		defer func() {
			if err := h.Unmount(); err != nil {
				logger.Error().Err(err).Msg("Failed to unmount project")
			} else {
				logger.Info().Msg("Project unmounted successfully")
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	srv := server.New(cfg, ws, share.NewService(kv))
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	if watch && nodesDef == "" {
		logger.Warn().Msg("--watch has no effect without --nodes")
	}
	if watch && nodesDef != "" {
		g.Go(func() error {
			return requests.WatchForestFile(gctx, nodesDef, requests.DefaultWatchDebounce, func(forest []filetree.NodeView) {
				if _, err := ws.Import(gctx, projectID, forest); err != nil {
					logger.Error().Err(err).Str("project", projectID).Msg("Failed to re-import nodes")
					return
				}
				logger.Info().Str("project", projectID).Int("roots", len(forest)).Msg("Re-imported nodes into project")
			})
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("Stopped with error")
		return 1
	}
	logger.Info().Msg("Shut down cleanly")
	return 0
}
