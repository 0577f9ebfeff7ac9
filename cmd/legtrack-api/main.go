package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/legiscal/legtrack-api/api/swagger"
	"github.com/legiscal/legtrack-api/internal/calendar"
	"github.com/legiscal/legtrack-api/internal/handler"
	"github.com/legiscal/legtrack-api/internal/middleware"
	"github.com/legiscal/legtrack-api/internal/models"
	"github.com/legiscal/legtrack-api/internal/refdata"
	"github.com/legiscal/legtrack-api/internal/repository"
	"github.com/legiscal/legtrack-api/internal/service"
	"github.com/legiscal/legtrack-api/internal/topics"
	"github.com/legiscal/legtrack-api/pkg/cache"
	"github.com/legiscal/legtrack-api/pkg/config"
	"github.com/legiscal/legtrack-api/pkg/database"
	"github.com/legiscal/legtrack-api/pkg/jobs"
	"github.com/legiscal/legtrack-api/pkg/logger"
	corsmiddleware "github.com/legiscal/legtrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/legiscal/legtrack-api/pkg/middleware/requestid"
	"github.com/legiscal/legtrack-api/pkg/storage"
)

// @title LegTrack API
// @version 1.0.0
// @description Legislative tracking backend: bills, hearing calendar, bookmarks, annotations and exports
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.Database.MigrationsUp {
		if err := database.Migrate(db); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, calendar caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	billRepo := repository.NewBillRepository(db)
	eventRepo := repository.NewBillEventRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	annotationRepo := repository.NewAnnotationRepository(db)
	exportRepo := repository.NewExportRepository(db)

	// Reference data.
	deadlineStore, err := refdata.NewDeadlineStore(cfg.Calendar.DeadlinesPath, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to load legislative deadlines", "error", err, "path", cfg.Calendar.DeadlinesPath)
	}
	tagger, err := topics.NewTagger(cfg.Topics.DictionaryPath, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to load topic dictionary", "error", err, "path", cfg.Topics.DictionaryPath)
	}

	// Services.
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Calendar.CacheTTL, logr, true)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "legtrack-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	billSvc := service.NewBillService(billRepo, tagger, logr)
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, billRepo, userRepo, logr)
	annotationSvc := service.NewAnnotationService(annotationRepo, billRepo, logr)

	engine := calendar.NewEngine(nil, nil)
	calendarSvc := service.NewCalendarService(eventRepo, bookmarkRepo, deadlineStore, engine, cacheSvc, logr)

	// Export pipeline.
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err, "dir", cfg.Exports.StorageDir)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(calendarSvc, billRepo, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr)

	exportWorker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	exportQueue := jobs.NewQueue("exports", exportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportRepo, exportQueue, exportSvc, logr, service.ExportJobConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	syncSvc := service.NewSyncService(billRepo, eventRepo, multiReloader{deadlines: deadlineStore, topics: tagger}, calendarSvc, logr, service.SyncServiceConfig{
		FeedURL:       cfg.Sync.FeedURL,
		Timeout:       cfg.Sync.FeedTimeout,
		RetentionDays: cfg.Sync.RetentionDays,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Exports.Enabled {
		exportQueue.Start(ctx)
		defer exportQueue.Stop()
		exportJobSvc.RecoverPendingJobs(ctx)
	}

	scheduler := startScheduler(ctx, cfg, syncSvc, exportJobSvc, logr)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	billHandler := handler.NewBillHandler(billSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc, exportSvc)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkSvc)
	annotationHandler := handler.NewAnnotationHandler(annotationSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc, cfg.Exports.Enabled)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	users := api.Group("/users", middleware.JWT(authSvc), middleware.RBAC(string(models.RoleAdmin)))
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", middleware.Audit(userRepo, "create", "users"), userHandler.Create)
		users.PUT("/:id", middleware.Audit(userRepo, "update", "users"), userHandler.Update)
		users.DELETE("/:id", middleware.Audit(userRepo, "delete", "users"), userHandler.Delete)
	}

	bills := api.Group("/bills")
	{
		bills.GET("", billHandler.List)
		bills.GET("/number/:number", billHandler.GetByNumber)
		bills.GET("/:id", billHandler.Get)
		bills.GET("/:id/annotations", middleware.JWT(authSvc), annotationHandler.ListForBill)
	}

	cal := api.Group("/calendar", middleware.WithResponseMeta())
	{
		cal.GET("/events", calendarHandler.Events)
		cal.GET("/resources", calendarHandler.Resources)
		cal.GET("/export.ics", calendarHandler.ExportICS)
		cal.GET("/my-events", middleware.JWT(authSvc), calendarHandler.MyEvents)
	}

	bookmarks := api.Group("/bookmarks", middleware.JWT(authSvc))
	{
		bookmarks.GET("", bookmarkHandler.List)
		bookmarks.POST("", bookmarkHandler.Create)
		bookmarks.DELETE("/:billId", bookmarkHandler.Delete)
	}

	annotations := api.Group("/annotations", middleware.JWT(authSvc))
	{
		annotations.POST("", annotationHandler.Create)
		annotations.PUT("/:id", annotationHandler.Update)
		annotations.DELETE("/:id", annotationHandler.Delete)
	}

	exports := api.Group("/exports")
	{
		exports.POST("", middleware.JWT(authSvc), exportHandler.Create)
		exports.GET("/:id/status", middleware.JWT(authSvc), exportHandler.Status)
		// Downloads authenticate via the signed token in the path.
		exports.GET("/download/:token", exportHandler.Download)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// startScheduler registers the periodic maintenance jobs. Returns nil when
// nothing is scheduled.
func startScheduler(ctx context.Context, cfg *config.Config, syncSvc *service.SyncService, exportJobSvc *service.ExportJobService, logr *zap.Logger) *cron.Cron {
	scheduler := cron.New()
	scheduled := false

	if cfg.Sync.Enabled && cfg.Sync.FeedURL != "" {
		if _, err := scheduler.AddFunc(cfg.Sync.FeedSpec, func() {
			if err := syncSvc.SyncFeed(ctx); err != nil {
				logr.Sugar().Errorw("feed sync failed", "error", err)
			}
		}); err != nil {
			logr.Sugar().Fatalw("invalid sync feed spec", "error", err, "spec", cfg.Sync.FeedSpec)
		}
		scheduled = true
	}

	if cfg.Sync.Enabled {
		if _, err := scheduler.AddFunc(cfg.Sync.CleanupSpec, func() {
			syncSvc.CleanupStale(ctx)
		}); err != nil {
			logr.Sugar().Fatalw("invalid cleanup spec", "error", err, "spec", cfg.Sync.CleanupSpec)
		}
		if _, err := scheduler.AddFunc(cfg.Sync.RefdataSpec, func() {
			syncSvc.ReloadRefdata(ctx)
		}); err != nil {
			logr.Sugar().Fatalw("invalid refdata spec", "error", err, "spec", cfg.Sync.RefdataSpec)
		}
		scheduled = true
	}

	if cfg.Exports.Enabled {
		spec := fmt.Sprintf("@every %s", cfg.Exports.CleanupInterval)
		if _, err := scheduler.AddFunc(spec, func() {
			exportJobSvc.CleanupExpired(ctx)
		}); err != nil {
			logr.Sugar().Fatalw("invalid export cleanup interval", "error", err, "spec", spec)
		}
		scheduled = true
	}

	if !scheduled {
		return nil
	}
	scheduler.Start()
	return scheduler
}

// multiReloader fans Reload out to every reference dataset.
type multiReloader struct {
	deadlines *refdata.DeadlineStore
	topics    *topics.Tagger
}

func (m multiReloader) Reload() error {
	if err := m.deadlines.Reload(); err != nil {
		return err
	}
	return m.topics.Reload()
}
