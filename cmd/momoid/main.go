// Command momoid is the wallpaper daemon: it owns the compositor
// connection, the reconciler tick loop, and the control socket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chikof/momoi/internal/config"
	"github.com/chikof/momoi/internal/gpu"
	"github.com/chikof/momoi/internal/logging"
	"github.com/chikof/momoi/internal/playlist"
	"github.com/chikof/momoi/internal/reconciler"
	"github.com/chikof/momoi/internal/resource"
	"github.com/chikof/momoi/internal/scheduler"
	"github.com/chikof/momoi/internal/state"
	"github.com/spf13/cobra"

	_ "github.com/chikof/momoi/hal/vulkan" // registers the Vulkan backend gpu.Acquire dials
)

// version is stamped by the release build; left as a placeholder for
// development builds.
var version = "dev"

func main() {
	var configPath string
	var foreground bool

	root := &cobra.Command{
		Use:   "momoid",
		Short: "momoi wallpaper daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, foreground)
		},
	}
	root.Flags().StringVar(&configPath, "config", "", "path to config.toml (defaults to $XDG_CONFIG_HOME/momoi/config.toml)")
	root.Flags().BoolVar(&foreground, "foreground", true, "log to stderr instead of daemonizing")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, foreground bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("momoid: %w", err)
	}

	logging.Configure(cfg.General.LogLevel, foreground)
	logger := logging.For("main")
	logger.Info().Str("version", version).Msg("starting momoid")

	shared := state.New(version)

	mon, err := resource.New(resourceConfigFrom(cfg))
	if err != nil {
		return fmt.Errorf("momoid: resource monitor: %w", err)
	}

	var pl *playlist.State
	if cfg.Playlist != nil && cfg.Playlist.Enabled {
		pl, err = playlist.New(cfg.Playlist.Sources, extensionsOrDefault(cfg.Playlist.Extensions), cfg.Playlist.Interval, cfg.Playlist.Shuffle, "")
		if err != nil {
			logger.Warn().Err(err).Msg("playlist disabled: no usable wallpapers found")
			pl = nil
		}
	}

	var sched *scheduler.State
	if len(cfg.Schedule) > 0 {
		entries := make([]scheduler.Entry, 0, len(cfg.Schedule))
		for _, e := range cfg.Schedule {
			entries = append(entries, scheduler.Entry{
				Name: e.Name, StartTime: e.StartTime, EndTime: e.EndTime,
				Wallpaper: e.Wallpaper, Transition: e.Transition, DurationMS: e.Duration,
			})
		}
		sched, err = scheduler.New(entries)
		if err != nil {
			return fmt.Errorf("momoid: schedule: %w", err)
		}
	}

	var pipelines *gpu.Pipelines
	gpuCtx, gpuErr := gpu.Acquire()
	if gpuErr != nil {
		logger.Warn().Err(gpuErr).Msg("gpu device unavailable, proceeding CPU-only")
	} else {
		defer gpuCtx.Close()
		pipelines, err = gpu.NewPipelines(gpuCtx)
		if err != nil {
			logger.Warn().Err(err).Msg("gpu pipelines unavailable, proceeding CPU-only")
			pipelines = nil
		} else {
			defer pipelines.Release()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info().Msg("signal received, shutting down")
		shared.RequestExit()
		cancel()
	}()

	comp, err := Dial(ctx)
	if err != nil {
		return fmt.Errorf("momoid: compositor connection: %w", err)
	}

	rec := reconciler.New(comp, Dial, shared, pl, sched, mon, cfg)
	rec.SetGPU(pipelines)

	srv, err := newIPCServer(shared, rec, mon, cfg, pl)
	if err != nil {
		return fmt.Errorf("momoid: ipc server: %w", err)
	}
	go srv.Serve()
	defer srv.RequestExit()

	if err := rec.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("reconciler exited with error")
		return err
	}
	logger.Info().Msg("momoid exited cleanly")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resourceConfigFrom(cfg *config.Config) resource.Config {
	return resource.Config{
		AutoBatteryMode:     cfg.Advanced.AutoBatteryMode,
		EnforceMemoryLimits: cfg.Advanced.EnforceMemoryLimits,
		MaxMemoryMB:         int(cfg.Advanced.MaxMemoryMB),
		CPUThreshold:        cfg.Advanced.CPUThreshold,
	}
}

func extensionsOrDefault(exts []string) []string {
	if len(exts) > 0 {
		return exts
	}
	return []string{"jpg", "jpeg", "png", "webp", "gif", "mp4", "webm", "mkv"}
}
