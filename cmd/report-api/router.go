package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ticket-report-engine/api/swagger"
	"github.com/noah-isme/ticket-report-engine/internal/handler"
	"github.com/noah-isme/ticket-report-engine/internal/middleware"
	"github.com/noah-isme/ticket-report-engine/internal/service"
	"github.com/noah-isme/ticket-report-engine/pkg/config"
	"github.com/noah-isme/ticket-report-engine/pkg/logger"
	corsmiddleware "github.com/noah-isme/ticket-report-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ticket-report-engine/pkg/middleware/requestid"
)

type routerDeps struct {
	reports *handler.ReportHandler
	metrics *handler.MetricsHandler
	svc     *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.svc, "/health", "/ready", "/metrics"))

	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", deps.metrics.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	reports := api.Group("/reports")
	reports.GET("/options", deps.reports.Options)
	reports.GET("/generate", deps.reports.Generate)
	reports.POST("/generate", deps.reports.Generate)
	reports.GET("/export", deps.reports.Export)
	reports.POST("/export", deps.reports.Export)

	return r
}
