package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/config"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/util"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches claims when a valid token is present but never
// rejects the request.
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
			}
		}
		c.Next()
	}
}

// RoleMiddleware guards a route group by role. Admins pass every guard.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			if user.Role == model.Admin || user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

type UserActivityRepo interface {
	UpdateLastSeen(userID uint) error
}

// activityInterval debounces last-seen writes: at most one per user within
// the window, not one per request.
const activityInterval = time.Minute

func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	var lastUpdate sync.Map

	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			now := time.Now()
			prev, seen := lastUpdate.Load(claims.UserID)
			if !seen || now.Sub(prev.(time.Time)) >= activityInterval {
				lastUpdate.Store(claims.UserID, now)
				// async, never blocks the request
				go func(userID uint) {
					if err := repo.UpdateLastSeen(userID); err != nil {
						logger.Log.Warn("failed to update last seen",
							zap.Uint("userID", userID), zap.Error(err))
					}
				}(claims.UserID)
			}
		}
		c.Next()
	}
}
