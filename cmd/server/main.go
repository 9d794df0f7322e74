package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/misfitz/partygames/internal/config"
	"github.com/misfitz/partygames/internal/database"
	"github.com/misfitz/partygames/internal/room"
	"github.com/misfitz/partygames/internal/server"
	"github.com/misfitz/partygames/internal/words"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Redis ---
	rdb, err := database.Open(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()
	logger.Info("connected to redis")

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Config: cfg,
		RDB:    rdb,
		Words:  words.NewProvider(),
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if cfg.CleanupInterval > 0 {
		sched, err := newCleanupScheduler(cfg, logger, room.NewRepository(rdb, room.NewDirectory(rdb)))
		if err != nil {
			return fmt.Errorf("starting cleanup scheduler: %w", err)
		}
		sched.Start()
		logger.Info("retention sweep enabled",
			"interval", cfg.CleanupInterval,
			"maxAgeHours", cfg.CleanupMaxAgeHours,
			"batch", cfg.CleanupBatch,
		)

		g.Go(func() error {
			<-gctx.Done()
			return sched.Shutdown()
		})
	}

	return g.Wait()
}

func newCleanupScheduler(cfg *config.Config, logger *slog.Logger, repo *room.Repository) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(cfg.CleanupInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			cutoff := time.Now().Add(-time.Duration(cfg.CleanupMaxAgeHours) * time.Hour)
			deleted, err := repo.DeleteRoomsOlderThan(ctx, cutoff, cfg.CleanupBatch)
			if err != nil {
				logger.Error("retention sweep failed", "error", err, "deleted", deleted)
				return
			}
			if deleted > 0 {
				logger.Info("retention sweep", "deleted", deleted, "cutoffUtc", cutoff.UTC())
			}
		}),
	)
	if err != nil {
		sched.Shutdown()
		return nil, err
	}

	return sched, nil
}
