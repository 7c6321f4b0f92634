package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/takudzwan/purchase-ledger-backend/internal/api"
	"github.com/takudzwan/purchase-ledger-backend/internal/config"
	"github.com/takudzwan/purchase-ledger-backend/internal/email"
	"github.com/takudzwan/purchase-ledger-backend/internal/report"
	"github.com/takudzwan/purchase-ledger-backend/internal/scheduler"
	"github.com/takudzwan/purchase-ledger-backend/internal/seed"
	"github.com/takudzwan/purchase-ledger-backend/internal/store"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Root context cancelled by OS signal. Scheduler and HTTP server both
	// respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded",
		"env", cfg.Env,
		"port", cfg.Port,
		"email_provider", cfg.EmailProvider,
		"report_hour", cfg.ReportHour,
		"report_timezone", cfg.ReportTimezone,
	)

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	st := store.New(pool)

	// ── Email ─────────────────────────────────────────────────────────────────
	var transport email.Transport
	switch cfg.EmailProvider {
	case "resend":
		transport = email.NewResendTransport(cfg.ResendAPIKey)
	default:
		transport, err = email.NewSESTransport(ctx, cfg.AWSRegion, cfg.AWSAccessKey, cfg.AWSSecretKey)
		if err != nil {
			return fmt.Errorf("email: %w", err)
		}
	}
	mailer := email.NewMailer(cfg.EmailFrom, cfg.EmailTo, transport, logger)

	// ── Report pipeline + scheduler ───────────────────────────────────────────
	reports := report.NewService(st, mailer, st, cfg.Location(), logger)
	sched := scheduler.New(reports, scheduler.Config{
		Hour:       cfg.ReportHour,
		Location:   cfg.Location(),
		RunTimeout: cfg.ReportRunTimeout,
	}, logger)

	// ── Development seed data ─────────────────────────────────────────────────
	if cfg.SeedData {
		if err := seed.Run(ctx, st, logger); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(st, reports, api.Config{Env: cfg.Env}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // the report endpoint blocks on delivery
		IdleTimeout:  120 * time.Second,
	}

	// Start the scheduler in a background goroutine. It blocks until ctx is
	// done.
	go sched.Start(ctx)

	// Start the HTTP server in a background goroutine.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// The scheduler goroutine exits when ctx is cancelled (already done).
	logger.Info("shutdown complete")
	return nil
}

// openDB opens the connection pool, tunes it, and verifies the database is
// reachable before the server accepts traffic.
func openDB(dsn string) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
