package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	config "github.com/vaultscribe/backend/config/api"
	"github.com/vaultscribe/backend/gateways/api"
	"github.com/vaultscribe/backend/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:      slog.LevelDebug,
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: cfg.LogJSON,
	})
	log.Info("initializing api gateway")
	log.Info("configuration loaded",
		slog.Int("port", cfg.Port),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.Bool("assemblyai_key_set", cfg.Transcription.APIKey != ""),
		slog.Bool("summary_key_set", cfg.Summary.APIKey != ""),
		slog.Bool("webhook_secret_set", cfg.WebhookSecret != ""))

	ctx := logger.WithContext(context.Background(), log)
	rootCtx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("failed to run()", slog.String("error", err.Error()))
		return
	}
	log.Info("application terminated successfully")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	srv, err := api.New(ctx, cfg, log)
	if err != nil {
		log.Error("server initialization failed", slog.String("error", err.Error()))
		return err
	}

	return srv.Start(ctx)
}
