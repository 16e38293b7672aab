package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/service"
	"github.com/noah-isme/portal-berita-api/pkg/config"
)

type cachedWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cachedWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// ListCache serves anonymous list responses from Redis. Authenticated
// requests bypass the cache because their visibility differs per actor.
func ListCache(client *redis.Client, cfg config.ListCacheConfig, metrics *service.MetricsService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if client == nil || !cfg.Enabled || c.Request.Method != http.MethodGet || c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		key := "portal:listcache:" + c.Request.URL.RequestURI()
		cached, err := client.Get(c.Request.Context(), key).Bytes()
		if err == nil {
			metrics.RecordCacheOperation(true)
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}
		if err != redis.Nil {
			logger.Warn("list cache unavailable", zap.Error(err))
			c.Next()
			return
		}
		metrics.RecordCacheOperation(false)

		writer := &cachedWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			if err := client.Set(c.Request.Context(), key, writer.body.Bytes(), cfg.TTL).Err(); err != nil {
				logger.Warn("failed to store list cache entry", zap.Error(err))
			}
		}
	}
}
