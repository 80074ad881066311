package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfb_analytics/cfbsync/internal/cache"
	"cfb_analytics/cfbsync/internal/client"
	"cfb_analytics/cfbsync/internal/config"
	"cfb_analytics/cfbsync/internal/metrics"
	"cfb_analytics/cfbsync/internal/orchestrator"
	"cfb_analytics/cfbsync/internal/repository"
	"cfb_analytics/cfbsync/internal/scheduler"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: cfbsync [--full | --incremental | --games-only | --schedule]

  --full         load games, drives, plays, recruiting and transfers over START_YEAR..END_YEAR (default)
  --incremental  load games, drives and plays for the current year
  --games-only   load games over START_YEAR..END_YEAR
  --schedule     run --incremental on SYNC_CRON until interrupted
`

// command is a parsed command line
type command struct {
	mode     orchestrator.Mode
	schedule bool
}

// parseArgs accepts at most one mode flag; no flag means a full run
func parseArgs(args []string) (command, error) {
	switch len(args) {
	case 0:
		return command{mode: orchestrator.Full}, nil
	case 1:
	default:
		return command{}, fmt.Errorf("expected at most one flag, got %d", len(args))
	}

	if args[0] == "--schedule" {
		return command{mode: orchestrator.Incremental, schedule: true}, nil
	}
	mode, err := orchestrator.ParseMode(args[0])
	if err != nil {
		return command{}, err
	}
	return command{mode: mode}, nil
}

func main() {
	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "cfbsync: %v\n\n%s", err, usage)
		os.Exit(1)
	}

	// Load configuration
	cfg := config.MustLoad()

	// Setup logger
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.AppEnv).
		Str("team", cfg.TargetTeam).
		Int("start_year", cfg.StartYear).
		Int("end_year", cfg.EndYear).
		Str("destination", cfg.DestinationDriver).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	if err := run(ctx, cfg, cmd, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "cfbsync: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// setupLogger configures the zerolog logger from the loaded configuration,
// so APP_ENV and LOG_LEVEL may come from .env
func setupLogger(cfg *config.Config) {
	// Pretty console logging in development
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Debug().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// run wires the destination, API client and optional cache, then performs
// one sync or serves the schedule until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, cmd command, out io.Writer) error {
	if cfg.CFBDAPIKey == "" {
		return missingKeyError(client.ErrMissingAPIKey)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cfbd := client.NewClient(cfg.CFBDBaseURL, cfg.CFBDAPIKey, cfg.CFBDTimeout)
	sink := repository.NewSink(store, cfg.PipelineName)
	orch := orchestrator.New(cfbd, sink, orchestrator.Settings{
		Team:      cfg.TargetTeam,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
	})

	statusCache := openStatusCache(ctx, cfg)
	if statusCache != nil {
		defer statusCache.Close()
	}

	if cmd.schedule {
		return serveSchedule(ctx, cfg, store, statusCache, func(ctx context.Context) error {
			_, err := syncOnce(ctx, orch, statusCache, cmd.mode, out)
			return err
		})
	}

	_, err = syncOnce(ctx, orch, statusCache, cmd.mode, out)

	if cfg.MetricsPushgatewayURL != "" {
		if pushErr := metrics.Push(cfg.MetricsPushgatewayURL, cfg.PipelineName); pushErr != nil {
			log.Warn().Err(pushErr).Msg("Failed to push metrics")
		}
	}

	return err
}

// syncOnce runs one mode, prints its LoadInfo and stores it in the cache
func syncOnce(ctx context.Context, orch *orchestrator.Orchestrator, statusCache *cache.RunStatusCache, mode orchestrator.Mode, out io.Writer) (*repository.LoadInfo, error) {
	info, err := orch.Run(ctx, mode)
	if info != nil {
		fmt.Fprint(out, info.String())

		if statusCache != nil {
			if cacheErr := statusCache.SaveLastLoad(context.WithoutCancel(ctx), string(mode), info); cacheErr != nil {
				log.Warn().Err(cacheErr).Msg("Failed to save run status")
			}
		}
	}
	if client.IsConfigurationError(err) {
		return info, missingKeyError(err)
	}
	return info, err
}

// missingKeyError adds a hint naming the unset setting
func missingKeyError(err error) error {
	var cfgErr *client.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return err
	}
	return fmt.Errorf("%w (set %s in the environment or .env)", err, cfgErr.Setting)
}

// openStore opens the configured destination
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DestinationDriver {
	case config.DriverPostgres:
		return repository.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DatasetName)
	default:
		return repository.NewSQLiteStore(ctx, cfg.DestinationPath, cfg.DatasetName)
	}
}

// openStatusCache connects to Redis when configured. An unreachable Redis
// is logged and the run continues without it.
func openStatusCache(ctx context.Context, cfg *config.Config) *cache.RunStatusCache {
	if !cfg.RedisEnabled() {
		return nil
	}

	statusCache, err := cache.NewRunStatusCache(ctx, cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without run status cache")
		return nil
	}

	log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis run status cache connected")
	return statusCache
}

// serveSchedule runs job on SYNC_CRON and serves metrics until ctx is cancelled
func serveSchedule(ctx context.Context, cfg *config.Config, store repository.Store, statusCache *cache.RunStatusCache, job scheduler.Job) error {
	var cacheHealth healthChecker
	if statusCache != nil {
		cacheHealth = cacheHealthFunc(statusCache.HealthCheck)
	}

	srv := newMetricsServer(cfg.MetricsPort, store, cacheHealth)
	go func() {
		log.Info().Int("port", cfg.MetricsPort).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	sched := scheduler.NewScheduler(cfg.SyncCron, job)
	if err := sched.Start(ctx); err != nil {
		shutdown(srv)
		return err
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	sched.Stop()
	shutdown(srv)
	log.Info().Msg("Scheduler shutdown complete")
	return nil
}
