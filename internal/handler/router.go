package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/middleware"
	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/service"
	"github.com/noah-isme/portal-berita-api/pkg/config"
)

// RouterDeps bundles the services and infrastructure the route table
// needs.
type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Redis      *redis.Client
	Auth       *service.AuthService
	Articles   *service.ArticleService
	Exports    *service.ExportService
	Categories *service.CategoryService
	Channels   *service.ChannelService
	Comments   *service.CommentService
	Bookmarks  *service.BookmarkService
	Users      *service.UserService
	Metrics    *service.MetricsService
	Audit      *service.AuditTrail
}

// RegisterRoutes wires every endpoint group onto the engine.
func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.Auth)
	articleHandler := NewArticleHandler(deps.Articles, deps.Exports)
	categoryHandler := NewCategoryHandler(deps.Categories)
	channelHandler := NewChannelHandler(deps.Channels)
	commentHandler := NewCommentHandler(deps.Comments)
	bookmarkHandler := NewBookmarkHandler(deps.Bookmarks)
	userHandler := NewUserHandler(deps.Users)
	metricsHandler := NewMetricsHandler(deps.Metrics)

	limiter := middleware.NewRateLimiter(deps.Redis, deps.Config.RateLimit, deps.Metrics, deps.Logger)
	listCache := middleware.ListCache(deps.Redis, deps.Config.ListCache, deps.Metrics, deps.Logger)

	jwt := middleware.JWT(deps.Auth)
	optionalJWT := middleware.OptionalJWT(deps.Auth)
	editorial := middleware.RequireRoles(models.RoleAdmin, models.RoleJurnalis)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	prefix := deps.Config.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}
	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", limiter.Write(), authHandler.Register)
		auth.POST("/login", limiter.Write(), authHandler.Login)
		auth.POST("/refresh", limiter.Write(), authHandler.Refresh)
		auth.POST("/logout", jwt, authHandler.Logout)
		auth.GET("/me", jwt, authHandler.Profile)
		auth.PUT("/me", jwt, authHandler.UpdateProfile)
	}

	berita := api.Group("/berita")
	{
		berita.GET("", optionalJWT, limiter.Read(), listCache, articleHandler.List)
		berita.GET("/my", jwt, articleHandler.ListOwn)
		berita.GET("/stats", jwt, editorial, articleHandler.Stats)
		berita.POST("/stats/export", jwt, editorial, articleHandler.ExportStats)
		berita.GET("/stats/export/:token", articleHandler.DownloadStats)
		berita.GET("/slug/:slug", optionalJWT, limiter.Read(), articleHandler.GetBySlug)
		berita.GET("/:id", optionalJWT, limiter.Read(), articleHandler.Get)
		berita.POST("", jwt, limiter.Write(), middleware.Audit(deps.Audit, "create", "berita"), articleHandler.Create)
		berita.PUT("/:id", jwt, limiter.Write(), middleware.Audit(deps.Audit, "update", "berita"), articleHandler.Update)
		berita.PATCH("/:id/status", jwt, editorial, middleware.Audit(deps.Audit, "update_status", "berita"), articleHandler.UpdateStatus)
		berita.DELETE("/:id", jwt, middleware.Audit(deps.Audit, "delete", "berita"), articleHandler.Delete)

		berita.GET("/:id/komentar", optionalJWT, limiter.Read(), commentHandler.ListByArticle)
		berita.POST("/:id/komentar", jwt, limiter.Write(), commentHandler.Create)
	}

	kategori := api.Group("/kategori")
	{
		kategori.GET("", limiter.Read(), categoryHandler.List)
		kategori.GET("/slug/:slug", limiter.Read(), categoryHandler.GetBySlug)
		kategori.GET("/:id", limiter.Read(), categoryHandler.Get)
		kategori.POST("", jwt, adminOnly, middleware.Audit(deps.Audit, "create", "kategori"), categoryHandler.Create)
		kategori.PUT("/:id", jwt, adminOnly, middleware.Audit(deps.Audit, "update", "kategori"), categoryHandler.Update)
		kategori.DELETE("/:id", jwt, adminOnly, middleware.Audit(deps.Audit, "delete", "kategori"), categoryHandler.Delete)
	}

	kanal := api.Group("/kanal-instansi")
	{
		kanal.GET("", limiter.Read(), channelHandler.List)
		kanal.GET("/slug/:slug", limiter.Read(), channelHandler.GetBySlug)
		kanal.GET("/:id", limiter.Read(), channelHandler.Get)
		kanal.POST("", jwt, middleware.RequireRoles(models.RoleAdmin, models.RoleInstansi), middleware.Audit(deps.Audit, "create", "kanal_instansi"), channelHandler.Create)
		kanal.PUT("/:id", jwt, middleware.Audit(deps.Audit, "update", "kanal_instansi"), channelHandler.Update)
		kanal.DELETE("/:id", jwt, middleware.Audit(deps.Audit, "delete", "kanal_instansi"), channelHandler.Delete)
	}

	komentar := api.Group("/komentar", jwt)
	{
		komentar.PUT("/:id", limiter.Write(), commentHandler.Update)
		komentar.POST("/:id/report", limiter.Write(), commentHandler.Report)
		komentar.DELETE("/:id", commentHandler.Delete)
	}

	bookmarks := api.Group("/bookmarks", jwt)
	{
		bookmarks.GET("", bookmarkHandler.List)
		bookmarks.POST("", limiter.Write(), bookmarkHandler.Create)
		bookmarks.DELETE("/:id", bookmarkHandler.Delete)
		bookmarks.GET("/berita/:beritaId", bookmarkHandler.Exists)
		bookmarks.DELETE("/berita/:beritaId", bookmarkHandler.DeleteByArticle)
	}

	users := api.Group("/users", jwt, adminOnly)
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PATCH("/:id/role", middleware.Audit(deps.Audit, "update_role", "users"), userHandler.UpdateRole)
		users.DELETE("/:id", middleware.Audit(deps.Audit, "delete", "users"), userHandler.Delete)
	}
}
