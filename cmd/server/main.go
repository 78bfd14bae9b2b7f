package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ranktracker/internal/config"
	"ranktracker/internal/dataforseo"
	"ranktracker/internal/db"
	"ranktracker/internal/handlers/api"
	"ranktracker/internal/jobs"
	"ranktracker/internal/metrics"
	"ranktracker/internal/middleware"
	"ranktracker/internal/server"
	"ranktracker/internal/tracker"
	"ranktracker/internal/validation"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := config.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		zap.L().Fatal("invalid configuration", zap.Error(err))
	}
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		zap.L().Fatal("failed to run migrations", zap.Error(err))
	}
	zap.L().Info("migrations completed successfully")

	seedProjects(ctx, database)

	serp := dataforseo.NewClient(cfg.DataForSEOLogin, cfg.DataForSEOPassword,
		dataforseo.WithBaseURL(cfg.DataForSEOBaseURL),
		dataforseo.WithTimeout(cfg.DataForSEOTimeout),
		dataforseo.WithRateLimit(cfg.DataForSEORateLimit),
		dataforseo.WithPingbackURL(cfg.PingbackURL),
	)

	processor := tracker.NewProcessor(database, serp, database, loc)
	submitter := tracker.NewSubmitter(database, database, serp, loc, cfg.SubmitConcurrency, cfg.SERPDepth)
	sweeper := tracker.NewSweeper(database, processor, cfg.SweepConcurrency)
	comparator := tracker.NewComparator(database, database, loc)

	metrics.Init(database)

	background := jobs.NewBackground(ctx)

	if cfg.EnableComparatorJob {
		go jobs.NewWeeklyComparator(comparator, cfg.ComparatorInterval, loc).Start(ctx)
	}
	if cfg.EnableMissingTasksJob {
		go jobs.NewMissingTaskSweeper(sweeper, cfg.SweepInterval, loc).Start(ctx)
	}

	var verifier middleware.TokenVerifier
	if cfg.IsAuthEnabled() {
		v, err := middleware.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			zap.L().Fatal("failed to initialize OIDC verifier", zap.Error(err))
		}
		verifier = v
	}

	var defaults config.DefaultsConfig
	if yamlCfg, err := config.LoadYAMLConfig(); err == nil && yamlCfg != nil {
		defaults = yamlCfg.Defaults
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Handlers{
		Probe:       api.NewProbeHandler(database),
		Callback:    api.NewCallbackHandler(processor),
		Projects:    api.NewProjectHandler(database, submitter, background, defaults),
		Tasks:       api.NewTaskHandler(sweeper, background),
		Comparisons: api.NewComparisonHandler(comparator, database),
	}, verifier)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			zap.L().Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	zap.L().Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}

	waitDone := make(chan struct{})
	go func() {
		background.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(30 * time.Second):
		zap.L().Warn("background work did not finish before shutdown")
	}
	zap.L().Info("server exited")
}

// seedProjects upserts the projects declared in the YAML config file.
func seedProjects(ctx context.Context, database *db.DB) {
	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		zap.L().Warn("failed to load YAML config", zap.Error(err))
		return
	}
	for _, p := range yamlCfg.SeedProjects() {
		p.MainDomain = validation.NormalizeDomain(p.MainDomain)
		for i, c := range p.Competitors {
			p.Competitors[i] = validation.NormalizeDomain(c)
		}
		if ok, msg := validation.ValidateDomain(p.MainDomain); !ok || !validation.ValidateProjectID(p.ID) {
			zap.L().Warn("skipping invalid seed project", zap.String("project_id", p.ID), zap.String("reason", msg))
			continue
		}
		if err := database.UpsertProject(ctx, &p); err != nil {
			zap.L().Error("failed to seed project", zap.String("project_id", p.ID), zap.Error(err))
			continue
		}
		zap.L().Info("seeded project", zap.String("project_id", p.ID), zap.Int("keywords", len(p.Keywords)))
	}
}
