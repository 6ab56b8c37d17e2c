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

	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/handler"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/scheduler"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	if err := config.LoadEnvFile(); err != nil {
		logger.Fatalf("Failed to read .env: %v", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := repository.Open(ctx, cfg.DSN())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := repository.RunMigrations(cfg.DSN()); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	if err := svc.Seed(ctx); err != nil {
		logger.Fatalf("Failed to seed reference data: %v", err)
	}
	h := handler.NewHandler(svc, logger)
	h.SetHealthCheck(repo.Ping)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.ReportSchedule != "" {
		sched := scheduler.New(svc, email.NewSender(cfg, logger), logger)
		if err := sched.Schedule(gctx, cfg.ReportSchedule); err != nil {
			logger.Fatalf("Failed to schedule reports: %v", err)
		}
		g.Go(func() error {
			return sched.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
	logger.Info("Server stopped")
}
