package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary Liveness and dependency health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
	healthy := true

	sqlDB, err := c.DB.DB()
	if err != nil || sqlDB.PingContext(checkCtx) != nil {
		status["database"] = "down"
		healthy = false
	} else {
		status["database"] = "up"
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		} else {
			status["redis"] = "up"
		}
	}

	if !healthy {
		status["status"] = "degraded"
		ctx.JSON(http.StatusServiceUnavailable, status)
		return
	}
	ctx.JSON(http.StatusOK, status)
}
