package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portal-berita-api/internal/middleware"
	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorFromContext returns nil for anonymous requests.
func actorFromContext(c *gin.Context) *policy.Actor {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return &policy.Actor{ID: claims.UserID, Role: claims.Role}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
