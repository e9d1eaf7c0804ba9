// Package main is the entry point for the campus placement portal API server.
//
// The server wires the full stack together:
//   - Domain: eligibility rules, the application pipeline, grievances
//   - Application: command and query handlers (CQRS)
//   - Infrastructure: PostgreSQL repositories, Redis sessions and caches,
//     Supabase resume storage, the in-memory event bus
//   - Interface: the REST API
//
// Background jobs (deadline sweeps, cache warming, feed pruning) run in
// the separate worker binary, see cmd/worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	nurl "net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/placement-hub/campus-placement-portal/config"
	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/application/eventhandler"
	"github.com/placement-hub/campus-placement-portal/internal/application/query"
	app "github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/messaging"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/persistence/postgres"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/persistence/redis"
	"github.com/placement-hub/campus-placement-portal/internal/infrastructure/storage/supabase"
	httpserver "github.com/placement-hub/campus-placement-portal/internal/interface/http"
	"github.com/placement-hub/campus-placement-portal/internal/interface/http/handlers"
	"github.com/placement-hub/campus-placement-portal/pkg/logger"
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

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting placement portal API server",
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

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", "error", err)
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed", "applied", appliedCount, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS
	// Sessions live in Redis, so the API server cannot run without it.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis...")
	cache, err := redis.NewCache(redisConfig(cfg.Redis))
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer cache.Close()
	log.Info("Redis connection established")

	sessionStore := redis.NewSessionStore(cache)
	statsCache := redis.NewStatsCache(cache)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. RESUME STORAGE (Supabase)
	// ─────────────────────────────────────────────────────────────────────────
	storageCfg := supabase.DefaultResumeStoreConfig(cfg.Storage.ProjectURL, cfg.Storage.ServiceKey)
	storageCfg.Bucket = cfg.Storage.Bucket
	storageCfg.Timeout = cfg.Storage.RequestTimeout
	storageCfg.Logger = log
	resumeStore := supabase.NewResumeStore(storageCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	studentRepo := postgres.NewStudentRepository(dbConn)
	jobRepo := postgres.NewJobRepository(dbConn)
	applicationRepo := postgres.NewApplicationRepository(dbConn)
	grievanceRepo := postgres.NewGrievanceRepository(dbConn)
	activityRepo := postgres.NewActivityRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. EVENT BUS + EVENT HANDLERS
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
	// 9. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────

	// The pipeline policy is chosen once at startup. Strict mode rejects
	// backwards stage moves; permissive mode lets admins correct mistakes.
	transitionPolicy := app.Permissive()
	if cfg.Features.StrictTransitionsEnabled() {
		transitionPolicy = app.Strict()
	}

	registerCmd := command.NewRegisterStudentHandler(userRepo, studentRepo, eventBus)
	loginCmd := command.NewLoginHandler(userRepo, sessionStore, cfg.Session.TTL)
	logoutCmd := command.NewLogoutHandler(sessionStore)
	logoutAllCmd := command.NewLogoutEverywhereHandler(sessionStore)
	updateProfileCmd := command.NewUpdateProfileHandler(studentRepo, eventBus)
	uploadResumeCmd := command.NewUploadResumeHandler(studentRepo, resumeStore, eventBus)
	submitApplicationCmd := command.NewSubmitApplicationHandler(applicationRepo, jobRepo, studentRepo, eventBus)
	checkEligibilityCmd := command.NewCheckEligibilityHandler(jobRepo, studentRepo)
	transitionCmd := command.NewTransitionApplicationHandler(applicationRepo, transitionPolicy, eventBus)
	postJobCmd := command.NewPostJobHandler(jobRepo, eventBus)
	updateJobCmd := command.NewUpdateJobHandler(jobRepo, eventBus)
	closeJobCmd := command.NewCloseJobHandler(jobRepo, eventBus)
	submitGrievanceCmd := command.NewSubmitGrievanceHandler(grievanceRepo, eventBus)
	respondGrievanceCmd := command.NewRespondGrievanceHandler(grievanceRepo, eventBus)

	listJobsQuery := query.NewListJobsHandler(jobRepo, studentRepo, statsCache)
	getJobQuery := query.NewGetJobHandler(jobRepo, studentRepo)
	getProfileQuery := query.NewGetProfileHandler(studentRepo)
	listStudentsQuery := query.NewListStudentsHandler(studentRepo)
	listStudentApplicationsQuery := query.NewListStudentApplicationsHandler(applicationRepo, jobRepo)
	listJobApplicationsQuery := query.NewListJobApplicationsHandler(applicationRepo, studentRepo)
	getApplicationQuery := query.NewGetApplicationHandler(applicationRepo, jobRepo)
	exportApplicationsQuery := query.NewExportApplicationsHandler(applicationRepo, studentRepo, jobRepo)
	placementStatsQuery := query.NewGetPlacementStatsHandler(applicationRepo, studentRepo, jobRepo, grievanceRepo, statsCache)
	listGrievancesQuery := query.NewListGrievancesHandler(grievanceRepo)
	listStudentGrievancesQuery := query.NewListStudentGrievancesHandler(grievanceRepo)
	adminActivitiesQuery := query.NewGetAdminActivitiesHandler(activityRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	healthChecker.AddCheck("cache", handlers.NewCacheCheck(cache))
	if cfg.Storage.ProjectURL != "" {
		healthChecker.AddCheck("storage", handlers.NewStorageCheck(resumeStore))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.MaxHeaderBytes = cfg.HTTP.MaxHeaderBytes
	httpConfig.MaxUploadBytes = cfg.HTTP.MaxUploadBytes
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.SessionCookieName = cfg.Session.CookieName
	httpConfig.SecureCookies = cfg.Session.SecureCookies

	httpDeps := httpserver.Dependencies{
		RegisterStudent:       registerCmd,
		Login:                 loginCmd,
		Logout:                logoutCmd,
		LogoutEverywhere:      logoutAllCmd,
		UpdateProfile:         updateProfileCmd,
		UploadResume:          uploadResumeCmd,
		SubmitApplication:     submitApplicationCmd,
		CheckEligibility:      checkEligibilityCmd,
		TransitionApplication: transitionCmd,
		PostJob:               postJobCmd,
		UpdateJob:             updateJobCmd,
		CloseJob:              closeJobCmd,
		SubmitGrievance:       submitGrievanceCmd,
		RespondGrievance:      respondGrievanceCmd,

		ListJobs:                listJobsQuery,
		GetJob:                  getJobQuery,
		GetProfile:              getProfileQuery,
		ListStudents:            listStudentsQuery,
		ListStudentApplications: listStudentApplicationsQuery,
		ListJobApplications:     listJobApplicationsQuery,
		GetApplication:          getApplicationQuery,
		ExportApplications:      exportApplicationsQuery,
		GetPlacementStats:       placementStatsQuery,
		ListGrievances:          listGrievancesQuery,
		ListStudentGrievances:   listStudentGrievancesQuery,
		GetAdminActivities:      adminActivitiesQuery,

		Sessions:      sessionStore,
		Logger:        logger.Default(),
		HealthChecker: healthChecker,
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 12. START + GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", server.Address())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("placement portal is running",
		"http_address", server.Address(),
		"strict_transitions", cfg.Features.StrictTransitionsEnabled(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
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
		if u, err := nurl.Parse(cfg.URL); err == nil && u.Host != "" {
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
