package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internmatch/config"
	"internmatch/handlers"
	"internmatch/server"
	"internmatch/store"
	"internmatch/utils"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("starting", "environment", cfg.AppEnv, "version", version)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	dbPool, err := utils.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	logger.Info("postgres connected")

	if err := utils.MigrateSchema(ctx, dbPool); err != nil {
		return err
	}

	redisPool, err := utils.OpenRedisPool(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisPool.Close()
	logger.Info("redis connected")

	var mailer handlers.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		logger.Info("SENDGRID_API_KEY not set, welcome emails disabled")
	}

	h := handlers.New(
		store.NewUserRepository(dbPool),
		store.NewOpportunityRepository(dbPool),
		mailer,
		logger,
	)

	app, err := server.NewApp(server.Options{
		Handlers:      h,
		Sessions:      utils.NewSessionStore(redisPool, cfg.SessionTTL, logger),
		Secret:        []byte(cfg.SecretKey),
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.Production(),
		Logger:        logger,
		Version:       version,
	})
	if err != nil {
		return err
	}

	srv := server.New(cfg.HTTPAddr, app.Routes(), logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
