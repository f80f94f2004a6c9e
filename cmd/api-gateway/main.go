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
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/keikchoco/alternative-learning-system/api/swagger"
	"github.com/keikchoco/alternative-learning-system/internal/handler"
	"github.com/keikchoco/alternative-learning-system/internal/middleware"
	"github.com/keikchoco/alternative-learning-system/internal/models"
	"github.com/keikchoco/alternative-learning-system/internal/repository"
	"github.com/keikchoco/alternative-learning-system/internal/service"
	"github.com/keikchoco/alternative-learning-system/pkg/cache"
	"github.com/keikchoco/alternative-learning-system/pkg/config"
	"github.com/keikchoco/alternative-learning-system/pkg/jobs"
	"github.com/keikchoco/alternative-learning-system/pkg/logger"
	corsmiddleware "github.com/keikchoco/alternative-learning-system/pkg/middleware/cors"
	reqidmiddleware "github.com/keikchoco/alternative-learning-system/pkg/middleware/requestid"
	"github.com/keikchoco/alternative-learning-system/pkg/storage"
)

// @title ALS Student Tracker API
// @version 1.0.0
// @description Roster, module progress and event tracking for Alternative Learning System community programs
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sources, err := buildSources(cfg, logr)
	if err != nil {
		logr.Fatal("failed to initialise data source", zap.Error(err))
	}
	defer sources.close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := buildCache(cfg, metricsSvc, logr)
	validate := validator.New()

	studentSvc := service.NewStudentService(sources.students, validate, logr)
	barangaySvc := service.NewBarangayService(sources.barangays, cacheSvc, cfg.Barangays.CacheTTL, logr)
	moduleSvc := service.NewModuleService(sources.modules, logr)
	progressSvc := service.NewProgressService(sources.progress, sources.students, validate, logr)
	eventSvc := service.NewEventService(sources.events, validate, logr)
	authSvc := service.NewAuthService(sources.users, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "source": cfg.DataSource})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(authSvc)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.Use(middleware.JWT(authSvc))
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.POST("/change-password", authHandler.ChangePassword)

	anyAdmin := middleware.RequireRoles(models.RoleAdmin, models.RoleMasterAdmin)
	masterOnly := middleware.RequireRoles(models.RoleMasterAdmin)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	studentHandler := handler.NewStudentHandler(studentSvc)
	students := protected.Group("/students", anyAdmin)
	students.GET("", studentHandler.List)
	students.POST("", studentHandler.Create)
	students.GET("/:id", studentHandler.Get)
	students.PATCH("/:id", studentHandler.Update)
	students.DELETE("/:id", studentHandler.Delete)

	referenceHandler := handler.NewReferenceHandler(barangaySvc, moduleSvc)
	protected.GET("/barangays", anyAdmin, referenceHandler.ListBarangays)
	protected.GET("/modules", anyAdmin, referenceHandler.ListModules)

	progressHandler := handler.NewProgressHandler(progressSvc)
	progress := protected.Group("/progress", anyAdmin)
	progress.GET("", progressHandler.List)
	progress.POST("", progressHandler.Create)
	progress.POST("/:studentId/:moduleId/activities", progressHandler.AddActivity)
	progress.PATCH("/:studentId/:moduleId/activities/:index", progressHandler.UpdateActivity)
	progress.DELETE("/:studentId/:moduleId/activities/:index", progressHandler.DeleteActivity)
	progress.DELETE("/:studentId/:moduleId", progressHandler.Delete)

	eventHandler := handler.NewEventHandler(eventSvc)
	events := protected.Group("/events")
	events.GET("", anyAdmin, eventHandler.List)
	events.GET("/:id", anyAdmin, eventHandler.Get)
	events.POST("", masterOnly, eventHandler.Create)
	events.PATCH("/:id", masterOnly, eventHandler.Update)
	events.DELETE("/:id", masterOnly, eventHandler.Delete)

	if cfg.Dashboard.Enabled {
		dashboardSvc := service.NewDashboardService(
			sources.students, sources.barangays, sources.modules,
			sources.progress, sources.events,
			cacheSvc, cfg.Dashboard.CacheTTL, logr,
		)
		studentSvc.SetCacheInvalidator(dashboardSvc)
		progressSvc.SetCacheInvalidator(dashboardSvc)
		eventSvc.SetCacheInvalidator(dashboardSvc)
		dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
		dashboard := protected.Group("/dashboard", anyAdmin)
		dashboard.GET("/statistics", dashboardHandler.Statistics)
		dashboard.GET("/calendar", dashboardHandler.Calendar)
	}

	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		reportQueue, err = wireReports(ctx, cfg, sources, metricsSvc, validate, logr, api, protected, anyAdmin)
		if err != nil {
			logr.Fatal("failed to initialise reports", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("source", cfg.DataSource))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown failed", zap.Error(err))
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
}

func buildCache(cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.CacheService {
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		return service.NewCacheService(nil, metrics, 0, logr, false)
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metrics, cfg.Barangays.CacheTTL, logr, true)
}

func wireReports(
	ctx context.Context,
	cfg *config.Config,
	sources *dataSources,
	metrics *service.MetricsService,
	validate *validator.Validate,
	logr *zap.Logger,
	api *gin.RouterGroup,
	protected *gin.RouterGroup,
	anyAdmin gin.HandlerFunc,
) (*jobs.Queue, error) {
	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, err
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(
		sources.students, sources.barangays, sources.modules, sources.progress,
		store, signer,
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Reports.SignedURLTTL},
		logr,
	)
	worker := service.NewReportWorker(sources.reports, exportSvc, metrics, cfg.Reports.WorkerRetries, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	queue.Start(ctx)

	reportSvc := service.NewReportService(sources.reports, sources.students, queue, exportSvc, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	reportHandler := handler.NewReportHandler(reportSvc)
	reports := protected.Group("/reports", anyAdmin)
	reports.POST("", reportHandler.Create)
	reports.GET("/:id", reportHandler.Status)

	// Downloads authenticate via the signed token itself.
	api.GET("/reports/download/:token", reportHandler.Download)

	return queue, nil
}
