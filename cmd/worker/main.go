// Package main is the entry point for the placement portal background worker.
//
// The worker owns the scheduled jobs:
//   - Closing postings whose application deadline has passed
//   - Refreshing placement statistics so the dashboard cache stays warm
//   - Pruning old activity feed entries
//
// It runs alongside the API server (cmd/server) against the same database
// and Redis, so a sweep triggered here is indistinguishable from an admin
// closing a posting by hand.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/placement-hub/campus-placement-portal/config"
	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/application/eventhandler"
	"github.com/placement-hub/campus-placement-portal/internal/application/query"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/messaging"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/persistence/postgres"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/persistence/redis"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/scheduler"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/scheduler/jobs"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.Scheduler.Enabled {
		return errors.New("scheduler is disabled (SCHEDULER_ENABLED=false), nothing to do")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting placement portal worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	// The worker shares the schema with the API server; migrations are
	// idempotent, so running them here too keeps either binary bootable first.
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS
	// The stats refresh job writes into the dashboard cache, so the worker
	// needs Redis just like the API server does.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")
	cache, err := redis.NewCache(redisConfig(cfg.Redis))
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer cache.Close()
	log.Info("Redis connection established")

	statsCache := redis.NewStatsCache(cache)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	studentRepo := postgres.NewStudentRepository(dbConn)
	jobRepo := postgres.NewJobRepository(dbConn)
	applicationRepo := postgres.NewApplicationRepository(dbConn)
	grievanceRepo := postgres.NewGrievanceRepository(dbConn)
	activityRepo := postgres.NewActivityRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS + EVENT HANDLERS
	// Deadline closes publish the same events as manual closes, so the
	// activity feed and cache invalidation must be wired here as well.
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	feedHandler := eventhandler.NewActivityFeedHandler(activityRepo, log)
	invalidationHandler := eventhandler.NewCacheInvalidationHandler(statsCache, log)
	if err := eventhandler.RegisterAll(eventBus, feedHandler, invalidationHandler); err != nil {
		return fmt.Errorf("failed to register event handlers: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HANDLERS USED BY THE JOBS
	// ─────────────────────────────────────────────────────────────────────────
	closeJobCmd := command.NewCloseJobHandler(jobRepo, eventBus)
	placementStatsQuery := query.NewGetPlacementStatsHandler(applicationRepo, studentRepo, jobRepo, grievanceRepo, statsCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	schedConfig := scheduler.DefaultSchedulerConfig()
	schedConfig.Logger = log
	schedConfig.Timezone = cfg.App.Location

	sched := scheduler.NewScheduler(schedConfig)

	cleanupSchedule, err := scheduler.ParseCronExpression(cfg.Scheduler.ActivityCleanupCron)
	if err != nil {
		return fmt.Errorf("invalid SCHEDULER_ACTIVITY_CLEANUP_CRON: %w", err)
	}

	registrations := []struct {
		job      scheduler.Job
		schedule scheduler.Schedule
	}{
		{
			job:      jobs.NewCloseExpiredJobsJob(jobRepo, closeJobCmd, log),
			schedule: scheduler.NewIntervalSchedule(cfg.Scheduler.CloseExpiredJobsInterval),
		},
		{
			job:      jobs.NewRefreshPlacementStatsJob(placementStatsQuery, log),
			schedule: scheduler.NewIntervalSchedule(cfg.Scheduler.StatsRefreshInterval),
		},
		{
			job:      jobs.NewPruneActivityFeedJob(activityRepo, cfg.Scheduler.ActivityRetention, log),
			schedule: cleanupSchedule,
		},
	}

	for _, r := range registrations {
		if err := sched.Register(r.job, r.schedule); err != nil {
			return fmt.Errorf("failed to register job %q: %w", r.job.Name(), err)
		}
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("placement portal worker is running",
		"close_expired_interval", cfg.Scheduler.CloseExpiredJobsInterval.String(),
		"stats_refresh_interval", cfg.Scheduler.StatsRefreshInterval.String(),
		"activity_cleanup_cron", cfg.Scheduler.ActivityCleanupCron,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	// Stop waits for in-flight jobs, so a sweep in progress finishes cleanly.
	if err := sched.Stop(); err != nil && !errors.Is(err, scheduler.ErrSchedulerNotRunning) {
		log.Error("failed to stop scheduler gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging from the observability config.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redisConfig maps the application Redis settings onto the client config.
// REDIS_URL wins over the individual host/port settings when both are set.
func redisConfig(cfg config.RedisConfig) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Host
	rc.Port = cfg.Port
	rc.Password = cfg.Password
	rc.DB = cfg.DB
	rc.PoolSize = cfg.PoolSize
	rc.MinIdleConns = cfg.MinIdleConns
	rc.DialTimeout = cfg.DialTimeout
	rc.ReadTimeout = cfg.ReadTimeout
	rc.WriteTimeout = cfg.WriteTimeout

	if cfg.URL != "" {
		if u, err := url.Parse(cfg.URL); err == nil && u.Host != "" {
			rc.Host = u.Hostname()
			if p, err := strconv.Atoi(u.Port()); err == nil {
				rc.Port = p
			}
			if pass, ok := u.User.Password(); ok {
				rc.Password = pass
			}
		}
	}

	return rc
}
