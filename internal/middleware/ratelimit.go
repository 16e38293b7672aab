package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/service"
	"github.com/noah-isme/portal-berita-api/pkg/config"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
	"github.com/noah-isme/portal-berita-api/pkg/response"
)

// RateLimiter applies a fixed-window counter per client in Redis.
type RateLimiter struct {
	client  *redis.Client
	cfg     config.RateLimitConfig
	metrics *service.MetricsService
	logger  *zap.Logger
}

// NewRateLimiter constructs the limiter. A nil client disables it.
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, metrics *service.MetricsService, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{client: client, cfg: cfg, metrics: metrics, logger: logger}
}

// Read limits idempotent requests at the read tier.
func (r *RateLimiter) Read() gin.HandlerFunc {
	return r.limit("read", r.cfg.ReadLimit)
}

// Write limits mutating requests at the tighter write tier.
func (r *RateLimiter) Write() gin.HandlerFunc {
	return r.limit("write", r.cfg.WriteLimit)
}

func (r *RateLimiter) limit(tier string, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil || r.client == nil || !r.cfg.Enabled || max <= 0 {
			c.Next()
			return
		}

		window := r.cfg.Window
		if window <= 0 {
			window = time.Minute
		}
		key := fmt.Sprintf("%s:%s:%s:%d", r.cfg.KeyPrefix, tier, r.clientKey(c), time.Now().Unix()/int64(window.Seconds()))

		pipe := r.client.TxPipeline()
		count := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// Redis being down must not take the API with it.
			r.logger.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count.Val() > int64(max) {
			r.metrics.ObserveRateLimited()
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.Error(c, appErrors.Clone(appErrors.ErrTooManyRequests, "rate limit exceeded, slow down"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// clientKey prefers the authenticated user, falling back to client IP.
func (r *RateLimiter) clientKey(c *gin.Context) string {
	if claims, ok := c.Get(ContextUserKey); ok {
		if user, ok := claims.(*models.JWTClaims); ok {
			return fmt.Sprintf("user:%d", user.UserID)
		}
	}
	if r.cfg.TrustHeader {
		if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
			return "ip:" + forwarded
		}
	}
	return "ip:" + c.ClientIP()
}
