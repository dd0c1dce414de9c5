package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/ticket-report-engine/internal/handler"
	"github.com/noah-isme/ticket-report-engine/internal/repository"
	"github.com/noah-isme/ticket-report-engine/internal/service"
	"github.com/noah-isme/ticket-report-engine/pkg/config"
	"github.com/noah-isme/ticket-report-engine/pkg/database"
	"github.com/noah-isme/ticket-report-engine/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Ticket Report Engine API
// @version 0.1.0
// @description Custom report generation over support tickets, SLA, agents and knowledge base analytics
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	reports := service.NewReportService(
		repository.NewTicketRepository(db),
		repository.NewKBAnalyticsRepository(db),
		repository.NewDirectoryRepository(db),
		metrics,
		logr,
		cfg.Reports,
	)

	router := newRouter(cfg, logr, routerDeps{
		reports: handler.NewReportHandler(reports, cfg.Reports.QueryTimeout),
		metrics: handler.NewMetricsHandler(metrics, db),
		svc:     metrics,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
