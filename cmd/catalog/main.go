package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-catalog/cmd/catalog/cli"
	"github.com/odyssey-erp/odyssey-catalog/internal/app"
	cataloghttp "github.com/odyssey-erp/odyssey-catalog/internal/catalog/http"
	"github.com/odyssey-erp/odyssey-catalog/internal/observability"
	"github.com/odyssey-erp/odyssey-catalog/jobs"
)

const usage = `usage: catalog [command]

commands:
  serve                 run the HTTP API (default)
  migrate               apply the PostgreSQL schema
  jobs trigger <name>   enqueue catalog:cache_warmup or catalog:low_stock_scan
  jobs stats            print default queue statistics
`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	args := flag.Args()
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "serve":
		err = serve(ctx, cfg, logger)
	case "migrate":
		err = migrate(ctx, cfg, logger)
	case "jobs":
		err = runJobs(ctx, cfg, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()
	deps, err := app.BuildDeps(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := deps.Cache.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	var jobHandler *jobs.Handler
	if deps.Redis != nil {
		inspector := asynq.NewInspector(cfg.AsynqRedis())
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	} else {
		jobHandler = jobs.NewHandler(nil, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CatalogHandler: cataloghttp.NewHandler(logger, deps.Service),
		JobHandler:     jobHandler,
		Metrics:        metrics,
		HealthChecks:   deps.HealthChecks,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	return nil
}

func migrate(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	deps, err := app.BuildDeps(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer deps.Close()
	if deps.Postgres == nil {
		return cli.Migrate(ctx, nil)
	}
	if err := cli.Migrate(ctx, deps.Postgres); err != nil {
		return err
	}
	logger.Info("catalog schema applied")
	return nil
}

func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("jobs: subcommand required")
	}
	jobsCLI := cli.NewJobsCLI(cfg.AsynqRedis())
	defer func() { _ = jobsCLI.Close() }()

	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			return errors.New("jobs trigger: job name required")
		}
		info, err := jobsCLI.Trigger(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
		scheduled, err := jobsCLI.ListScheduled(ctx, 10)
		if err != nil {
			return err
		}
		for _, info := range scheduled {
			fmt.Printf("scheduled %s id=%s next=%s\n", info.Type, info.ID, info.NextProcessAt.Format(time.RFC3339))
		}
	default:
		return fmt.Errorf("jobs: unknown subcommand %s", args[0])
	}
	return nil
}
