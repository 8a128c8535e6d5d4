package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/emotion-detector/backend/internal/config"
	"github.com/zhouzirui/emotion-detector/backend/internal/handler"
	"github.com/zhouzirui/emotion-detector/backend/internal/logging"
	emotionservice "github.com/zhouzirui/emotion-detector/backend/internal/service/emotion"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := logging.Init(cfg.Log)
	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only",
			slog.String("error", envErr.Error()))
	}

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize emotion provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	scorer, err := emotionservice.NewService(provider, emotionservice.Config{
		Timeout: cfg.Emotion.Timeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialize emotion service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("emotion service initialized",
		slog.String("provider", provider.Name()),
		slog.Duration("timeout", cfg.Emotion.Timeout))

	router := handler.NewRouter(scorer, logger)

	if err := startServer(ctx, cfg.Server, router, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (emotionservice.Provider, error) {
	switch cfg.Emotion.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		provider, err := emotionservice.NewLLMProvider(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return emotionservice.NewWatsonProvider(emotionservice.WatsonConfig{
			URL:     cfg.Emotion.WatsonURL,
			ModelID: cfg.Emotion.ModelID,
			Logger:  logger,
		}), nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Emotion detector listening", slog.String("addr", serverCfg.Addr))
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
