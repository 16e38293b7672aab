package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/portal-berita-api/api/swagger"
	"github.com/noah-isme/portal-berita-api/internal/handler"
	appmiddleware "github.com/noah-isme/portal-berita-api/internal/middleware"
	"github.com/noah-isme/portal-berita-api/internal/repository"
	"github.com/noah-isme/portal-berita-api/internal/service"
	"github.com/noah-isme/portal-berita-api/pkg/cache"
	"github.com/noah-isme/portal-berita-api/pkg/config"
	"github.com/noah-isme/portal-berita-api/pkg/database"
	"github.com/noah-isme/portal-berita-api/pkg/export"
	"github.com/noah-isme/portal-berita-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/portal-berita-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/portal-berita-api/pkg/middleware/requestid"
	"github.com/noah-isme/portal-berita-api/pkg/storage"
)

// @title Portal Berita API
// @version 1.0.0
// @description News portal REST API with a role-based publication workflow
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The limiter and list cache disable themselves without redis, so a
	// missing instance degrades the API instead of taking it down.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, rate limiting and list caching disabled", "error", err)
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	viewCounter := service.NewViewCounter(articleRepo, metrics, cfg.Views, logr)
	viewCounter.Start(ctx)
	defer viewCounter.Stop()

	auditTrail := service.NewAuditTrail(userRepo, 1, logr)
	auditTrail.Start(ctx)
	defer auditTrail.Stop()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	articleService := service.NewArticleService(articleRepo, categoryRepo, channelRepo, viewCounter, validate, logr, metrics)
	categoryService := service.NewCategoryService(categoryRepo, articleRepo, validate, logr)
	channelService := service.NewChannelService(channelRepo, articleRepo, validate, logr)
	commentService := service.NewCommentService(commentRepo, articleRepo, validate, logr)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, articleRepo, validate, logr)
	userService := service.NewUserService(userRepo, validate, logr)

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(articleRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
		}, logr, export.NewPDFExporter())
		go runExportCleanup(ctx, exportService, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(appmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.RouterDeps{
		Config:     cfg,
		Logger:     logr,
		Redis:      redisClient,
		Auth:       authService,
		Articles:   articleService,
		Exports:    exportService,
		Categories: categoryService,
		Channels:   channelService,
		Comments:   commentService,
		Bookmarks:  bookmarkService,
		Users:      userService,
		Metrics:    metrics,
		Audit:      auditTrail,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// runExportCleanup removes expired export files once an hour.
func runExportCleanup(ctx context.Context, exports *service.ExportService, logr *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := exports.Cleanup(0)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("removed expired export files", zap.Int("count", len(removed)))
			}
		}
	}
}
