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

	"github.com/google/uuid"

	web "sportsched/internal/adapters/http"
	"sportsched/internal/adapters/storage"
	sessionStore "sportsched/internal/adapters/storage/playsession"
	sportStore "sportsched/internal/adapters/storage/sport"
	userStore "sportsched/internal/adapters/storage/user"
	"sportsched/internal/application/orchestrators"
	"sportsched/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.InitDB(ctx, db); err != nil {
		return err
	}
	logger.Info("database_ready", "path", cfg.DBPath)

	timedDB := storage.NewTimedDB(db, cfg.SlowQuery(), logger)
	users := userStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		UserStore:    users,
		SportStore:   sportStore.NewSQLiteStore(timedDB),
		SessionStore: sessionStore.NewSQLiteStore(timedDB),
	}

	// Seed the configured admin account (idempotent)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
			Name:     cfg.AdminName,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		}, orchestrators.SignUpDeps{
			UserStore:  users,
			Now:        time.Now,
			GenerateID: func() string { return uuid.New().String() },
		})
		if err != nil {
			return err
		}
	}

	csrfKey, err := cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}
	if cfg.CSRFKey == "" {
		logger.Warn("csrf_key_generated", "detail", "set SPORTSCHED_CSRF_KEY to keep forms valid across restarts")
	}

	handler, err := web.NewMux(stores, web.Options{
		CSRFKey:     csrfKey,
		Secure:      cfg.IsProduction(),
		SessionTTL:  cfg.SessionTTL,
		SlowRequest: cfg.SlowRequest(),
		Location:    time.Local,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newLogger installs a text handler in development and JSON in production.
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
