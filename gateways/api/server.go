package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	config "github.com/vaultscribe/backend/config/api"
	"github.com/vaultscribe/backend/gateways/api/clients/assemblyai"
	"github.com/vaultscribe/backend/gateways/api/clients/llm"
	"github.com/vaultscribe/backend/gateways/api/clients/uploads"
	"github.com/vaultscribe/backend/gateways/api/handler"
	calendarusecase "github.com/vaultscribe/backend/services/calendar/usecase"
	"github.com/vaultscribe/backend/services/recording/storage"
	"github.com/vaultscribe/backend/services/recording/usecase"
)

type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	handler *handler.Handler
}

// New builds every collaborator up front. A bad credential or storage config
// fails here, at startup, not on the first request.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Server, error) {
	log.Info("creating api server")

	transcriber, err := assemblyai.New(cfg.Transcription.APIKey, log,
		assemblyai.WithPolling(
			time.Duration(cfg.Transcription.PollInterval)*time.Second,
			time.Duration(cfg.Transcription.PollTimeout)*time.Second,
		))
	if err != nil {
		return nil, fmt.Errorf("create transcription client: %w", err)
	}
	log.Info("transcription client created",
		slog.Int("poll_interval_seconds", cfg.Transcription.PollInterval),
		slog.Int("poll_timeout_seconds", cfg.Transcription.PollTimeout))

	summarizer, err := llm.New(cfg.Summary.Provider, cfg.Summary.Model, cfg.Summary.APIKey, log)
	if err != nil {
		return nil, fmt.Errorf("create summarization client: %w", err)
	}
	log.Info("summarization client created",
		slog.String("provider", cfg.Summary.Provider),
		slog.String("model", cfg.Summary.Model))

	uploadProvider, err := uploads.New(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create upload provider: %w", err)
	}

	recording := usecase.New(
		storage.NewSessionStore(),
		storage.NewTranscriptStore(),
		transcriber,
		summarizer,
		log,
	)
	calendar := calendarusecase.New(recording, log)

	h := handler.New(recording, calendar, uploadProvider, cfg.WebhookSecret, log)

	log.Info("api server instance created")
	return &Server{cfg: cfg, log: log, handler: h}, nil
}

func (s *Server) Start(ctx context.Context) error {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.URLFormat)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", handler.SignatureHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("api gateway started", slog.String("address", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		s.log.Info("start shutdown", slog.String("signal", sig.String()))
		return s.stop(srv)
	case <-ctx.Done():
		s.log.Info("closing server due to context cancellation")
		return s.stop(srv)
	}
}

func (s *Server) stop(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.log.Error("graceful shutdown failed", slog.String("error", err.Error()))
		srv.Close()
		return fmt.Errorf("failed to gracefully shutdown server: %w", err)
	}

	s.log.Info("server stopped cleanly")
	return nil
}
