package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/reply-studio/backend/internal/config"
	"github.com/zhouzirui/reply-studio/backend/internal/handler"
	"github.com/zhouzirui/reply-studio/backend/internal/logging"
	"github.com/zhouzirui/reply-studio/backend/internal/service/reply"
	"github.com/zhouzirui/reply-studio/backend/internal/service/session"
	"github.com/zhouzirui/reply-studio/backend/internal/service/studio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	completer, err := reply.NewCompleter(ctx, cfg.AI)
	if err != nil {
		logger.Fatal("text-generation service is not usable", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	}

	generator := reply.NewGenerator(completer, reply.Config{
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
	}, logger)
	studioSvc := studio.NewService(session.NewService(), generator, cfg.AI.Timeout)

	logger.Info("reply generator ready",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model),
		zap.Float32("temperature", cfg.AI.Temperature),
		zap.Duration("timeout", cfg.AI.Timeout),
	)

	router, err := handler.NewRouter(studioSvc, logger)
	if err != nil {
		logger.Fatal("failed to build router", zap.Error(err))
	}

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Reply Studio backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
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
