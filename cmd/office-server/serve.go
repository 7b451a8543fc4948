package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MRamiBalles/PocketOffice/server/internal/api"
	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/infra/storage"
	"github.com/MRamiBalles/PocketOffice/server/internal/network"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/metrics"
)

const shutdownTimeout = 5 * time.Second

var (
	servePort     int
	serveResume   bool
	serveAutosave time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation with its HTTP and WebSocket surfaces",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveResume, "resume", true, "Load the last saved game on start")
	serveCmd.Flags().DurationVar(&serveAutosave, "autosave", time.Minute, "Autosave interval, 0 disables")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	appLogger := logger.New(os.Stdout, cfg.Log.Level)
	collector := metrics.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("opening storage", "driver", cfg.DB.Driver)
	store, err := storage.Open(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	eng := engine.New(cfg.Simulation.Engine(), newRand(cfg.Simulation.Seed), appLogger)
	if serveResume {
		resume(ctx, eng, store, collector, appLogger)
	}

	hub := network.NewHub(appLogger, collector, eng)
	hub.SetMaxClients(cfg.Server.MaxObservers)
	publishers := []engine.Publisher{hub}

	var archiver *storage.Archiver
	if cfg.Server.ArchiveNotifications {
		archiver = storage.NewArchiver(store, appLogger)
		publishers = append(publishers, archiver)
	}
	ticker := engine.NewTicker(eng, appLogger, collector, publishers...)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.New(eng, store, hub, collector, appLogger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error { return hub.Run(gCtx) })
	g.Go(func() error { return ticker.Start(gCtx) })
	if archiver != nil {
		g.Go(func() error { return archiver.Run(gCtx) })
	}
	if serveAutosave > 0 {
		g.Go(func() error {
			autosave(gCtx, eng, store, collector, appLogger, serveAutosave)
			return nil
		})
	}
	g.Go(func() error {
		appLogger.Info("HTTP API & WS server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	appLogger.Info("shutting down, saving game")
	if saveErr := save(context.Background(), eng, store, collector); saveErr != nil {
		appLogger.Error("final save failed", "error", saveErr)
	}
	return err
}

func resume(ctx context.Context, eng *engine.Engine, store storage.Store, collector *metrics.Collector, log *logger.Logger) {
	start := time.Now()
	snap, err := store.Load(ctx)
	collector.RecordSnapshot(false, time.Since(start), err)
	switch {
	case err != nil:
		log.Warn("saved game unreadable, starting fresh", "error", err)
	case snap == nil:
		log.Info("no saved game, starting fresh")
	default:
		if err := eng.Restore(snap); err != nil {
			log.Warn("saved game rejected, starting fresh", "error", err)
		}
	}
}

// autosave mirrors the engine into storage on a fixed interval.
func autosave(ctx context.Context, eng *engine.Engine, store storage.Store, collector *metrics.Collector, log *logger.Logger, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := save(ctx, eng, store, collector); err != nil {
				log.Error("autosave failed", "error", err)
			}
		}
	}
}

func save(ctx context.Context, eng *engine.Engine, store storage.Store, collector *metrics.Collector) error {
	start := time.Now()
	err := store.Save(ctx, eng.Snapshot())
	collector.RecordSnapshot(true, time.Since(start), err)
	return err
}
