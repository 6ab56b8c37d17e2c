package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Dan9191/finance-service/internal/cli"
	"github.com/Dan9191/finance-service/internal/config"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/service"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	if err := config.LoadEnvFile(); err != nil {
		logger.Fatalf("Failed to read .env: %v", err)
	}
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, cfg.DSN())
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := repository.RunMigrations(cfg.DSN()); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	svc := service.NewService(repository.NewRepository(db), logger, cfg)
	if err := svc.Seed(ctx); err != nil {
		logger.Fatalf("Failed to seed reference data: %v", err)
	}

	session := cli.NewSession(svc, os.Stdin, os.Stdout, cli.TerminalPassword(int(os.Stdin.Fd())), logger)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Errorf("Session ended: %v", err)
		os.Exit(1)
	}
}
