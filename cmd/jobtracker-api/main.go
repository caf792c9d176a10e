package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/config"
	"github.com/ahmethakanbesel/jobtracker-api/internal/dashboard"
	"github.com/ahmethakanbesel/jobtracker-api/internal/platform/logging"
	"github.com/ahmethakanbesel/jobtracker-api/internal/platform/sqlite"
	apprepo "github.com/ahmethakanbesel/jobtracker-api/internal/repository/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/repository/supabase"
	userrepo "github.com/ahmethakanbesel/jobtracker-api/internal/repository/user"
	"github.com/ahmethakanbesel/jobtracker-api/internal/server"
	"github.com/ahmethakanbesel/jobtracker-api/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	// Root context: cancelled on SIGINT/SIGTERM so in-flight sweeps stop
	// promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Profiles always live in SQLite; applications follow STORE_BACKEND.
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	clock := clockwork.NewRealClock()

	var appRepo application.Repository
	switch cfg.Backend {
	case config.BackendSupabase:
		repo, err := supabase.NewRepository(cfg.SupabaseURL, cfg.SupabaseKey, clock)
		if err != nil {
			slog.Error("failed to create supabase client", "error", err)
			os.Exit(1)
		}
		appRepo = repo
	default:
		appRepo = apprepo.NewRepository(db.DB)
	}
	slog.Info("application store ready", "backend", cfg.Backend)

	// Services
	policy := application.NewStalenessPolicy(clock, application.WithStaleAfterDays(cfg.StaleAfterDays))
	appSvc := application.NewService(appRepo, policy)
	userSvc := user.NewService(userrepo.NewRepository(db.DB), user.WithAdminEmails(cfg.AdminEmails...))
	loader := dashboard.NewLoader(appSvc, userSvc)

	// Background sweeper: catches owners who never open their dashboard.
	sweepDone := make(chan struct{})
	if cfg.SweepInterval > 0 {
		sched := application.NewSweepScheduler(appSvc, clock, cfg.SweepInterval)
		go func() {
			sched.Run(rootCtx)
			close(sweepDone)
		}()
	} else {
		close(sweepDone)
	}

	// HTTP server. rootCtx is used as BaseContext so every request context
	// inherits from it and is cancelled on shutdown.
	srv := server.New(rootCtx, cfg.Port, appSvc, userSvc, loader)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	<-done

	rootCancel()

	// Wait for the sweeper to stop before shutting down HTTP.
	<-sweepDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
