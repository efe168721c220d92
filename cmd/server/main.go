package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/contentflow/config"
	"github.com/d60-Lab/contentflow/internal/api"
	"github.com/d60-Lab/contentflow/internal/api/handler"
	"github.com/d60-Lab/contentflow/internal/repository"
	"github.com/d60-Lab/contentflow/internal/service"
	"github.com/d60-Lab/contentflow/pkg/database"
	"github.com/d60-Lab/contentflow/pkg/logger"
	"github.com/d60-Lab/contentflow/pkg/telemetry"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title ContentFlow API
// @version 1.0
// @description Content operations service: generation, approval workflow, scheduling and analytics.
func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing := must(telemetry.Init(ctx, cfg))
	defer func() { _ = shutdownTracing(ctx) }()

	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)

	userSvc := service.NewUserService(userRepo, cfg.Auth)
	contentSvc := service.NewContentService(contentRepo, userRepo)
	workflowSvc := service.NewWorkflowService(workflowRepo, contentRepo, userRepo)
	genSvc := service.NewGenerationService(contentRepo, userRepo)

	var stopWorker func(context.Context) error
	if cfg.Publisher.Enabled {
		worker := service.NewPublishWorker(contentRepo, cfg.Publisher.PollInterval, cfg.Publisher.BatchSize)
		stopWorker = worker.Start()
	}

	h := handler.New(userSvc, contentSvc, workflowSvc, genSvc)
	router := api.NewRouter(cfg, h)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if stopWorker != nil {
		_ = stopWorker(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
