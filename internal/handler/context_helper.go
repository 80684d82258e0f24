package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/institute-hq/institute-api/internal/middleware"
	"github.com/institute-hq/institute-api/internal/models"
)

// timeNow is stubbed in tests that pin the report clock.
var timeNow = time.Now

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

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}
